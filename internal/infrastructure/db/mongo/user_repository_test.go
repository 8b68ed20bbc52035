package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

func TestUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		u, _ := domain.NewUser("ann@example.com", "hash", "Ann", domain.RoleJobseeker, time.Now().UTC())
		created, err := repo.Create(context.Background(), u)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(created.ID); err != nil {
			t.Fatalf("expected object id, got %q", created.ID)
		}
	})

	mt.Run("create duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: jobboard.users index: email_1",
		}))

		u, _ := domain.NewUser("ann@example.com", "hash", "Ann", domain.RoleJobseeker, time.Now().UTC())
		if _, err := repo.Create(context.Background(), u); !errors.Is(err, domain.ErrEmailTaken) {
			t.Fatalf("expected ErrEmailTaken, got %v", err)
		}
	})

	mt.Run("find by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "jobboard.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ann@example.com"},
			{Key: "password", Value: "hash"},
			{Key: "name", Value: "Ann"},
			{Key: "role", Value: "jobseeker"},
		}))

		u, err := repo.FindByEmail(context.Background(), "ANN@example.com")
		if err != nil {
			t.Fatalf("FindByEmail: %v", err)
		}
		if u.ID != id.Hex() || u.PasswordHash != "hash" {
			t.Fatalf("unexpected user: %+v", u)
		}
	})

	mt.Run("find by email missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "jobboard.users", mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "x@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("update name missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		if err := repo.UpdateName(context.Background(), primitive.NewObjectID().Hex(), "X"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("delete missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		if err := repo.Delete(context.Background(), primitive.NewObjectID().Hex()); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		if err := EnsureIndexes(context.Background(), repo); err != nil {
			t.Fatalf("EnsureIndexes: %v", err)
		}
	})
}

func TestProfileSet(t *testing.T) {
	set := profileSet(domain.ProfileUpdate{Headline: "Gopher", Skills: []string{"go"}})
	if len(set) != 2 || set["headline"] != "Gopher" {
		t.Fatalf("only non-empty fields should be set: %v", set)
	}
	if _, ok := set["name"]; ok {
		t.Fatalf("empty name must not be set")
	}
}
