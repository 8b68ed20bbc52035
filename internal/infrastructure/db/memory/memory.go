// Package memory provides in-process repositories with the same uniqueness
// and atomic-update guarantees as the MongoDB adapters. They back the
// end-to-end tests and local runs without a database.
package memory

import (
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

// newID mints an id in the same format the Mongo adapters expose.
func newID() string {
	return primitive.NewObjectID().Hex()
}

// checkID rejects ids that the Mongo adapters could not parse either.
func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return domain.ErrInvalidID
	}
	return nil
}

func checkIDs(ids []string) error {
	for _, id := range ids {
		if err := checkID(id); err != nil {
			return err
		}
	}
	return nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// newestFirst sorts by creation time descending, breaking ties by insertion
// sequence so results stay deterministic.
func newestFirst[T any](items []T, created func(T) int64, seq func(T) uint64) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := created(items[i]), created(items[j])
		if ci != cj {
			return ci > cj
		}
		return seq(items[i]) > seq(items[j])
	})
}
