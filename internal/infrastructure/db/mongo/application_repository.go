package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hireboard/jobboard-api/internal/core/domain"
)

const collectionApplications = "applications"

type ApplicationRepository struct {
	col *mongo.Collection
}

func NewApplicationRepository(db *mongo.Database) *ApplicationRepository {
	return &ApplicationRepository{col: db.Collection(collectionApplications)}
}

type applicationDoc struct {
	ID          primitive.ObjectID `bson:"_id"`
	Job         primitive.ObjectID `bson:"job"`
	Applicant   primitive.ObjectID `bson:"applicant"`
	Employer    primitive.ObjectID `bson:"employer"`
	CoverLetter string             `bson:"coverLetter,omitempty"`
	Status      string             `bson:"status"`
	Notes       string             `bson:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d *applicationDoc) toDomain() *domain.Application {
	return &domain.Application{
		ID:          d.ID.Hex(),
		JobID:       hexOrEmpty(d.Job),
		ApplicantID: hexOrEmpty(d.Applicant),
		EmployerID:  hexOrEmpty(d.Employer),
		CoverLetter: d.CoverLetter,
		Status:      domain.ApplicationStatus(d.Status),
		Notes:       d.Notes,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Create inserts the application. The (job, applicant) unique index turns a
// second submission, concurrent or not, into domain.ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	ids, err := objectIDs([]string{app.JobID, app.ApplicantID, app.EmployerID})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := applicationDoc{
		ID:          primitive.NewObjectID(),
		Job:         ids[0],
		Applicant:   ids[1],
		Employer:    ids[2],
		CoverLetter: app.CoverLetter,
		Status:      string(app.Status),
		Notes:       app.Notes,
		CreatedAt:   app.CreatedAt,
		UpdatedAt:   app.UpdatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyApplied
		}
		return nil, fmt.Errorf("insert application: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc applicationDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID string) ([]*domain.Application, error) {
	job, err := objectID(jobID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"job": job}, 0)
}

func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID string, jobIDs []string) ([]*domain.Application, error) {
	applicant, err := objectID(applicantID)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"applicant": applicant}
	if jobIDs != nil {
		jobs, err := objectIDs(jobIDs)
		if err != nil {
			return nil, err
		}
		filter["job"] = bson.M{"$in": jobs}
	}
	return r.find(ctx, filter, 0)
}

func (r *ApplicationRepository) ListRecentByEmployer(ctx context.Context, employerID string, limit int) ([]*domain.Application, error) {
	employer, err := objectID(employerID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"employer": employer}, int64(limit))
}

func (r *ApplicationRepository) find(ctx context.Context, filter bson.M, limit int64) ([]*domain.Application, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find applications: %w", err)
	}
	defer cur.Close(ctx)

	var docs []applicationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode applications: %w", err)
	}

	apps := make([]*domain.Application, len(docs))
	for i := range docs {
		apps[i] = docs[i].toDomain()
	}
	return apps, nil
}

func (r *ApplicationRepository) CountByJob(ctx context.Context, jobID string) (int64, error) {
	job, err := objectID(jobID)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"job": job})
	if err != nil {
		return 0, fmt.Errorf("count applications: %w", err)
	}
	return n, nil
}

// CountByStatus groups the applications of a job by status server-side.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, jobID string) (map[domain.ApplicationStatus]int64, error) {
	job, err := objectID(jobID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"job": job}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate applications: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Status string `bson:"_id"`
		Count  int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode application counts: %w", err)
	}

	counts := make(map[domain.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[domain.ApplicationStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// Review updates status and notes when the application belongs to employerID.
func (r *ApplicationRepository) Review(ctx context.Context, id, employerID string, rv domain.ApplicationReview) (*domain.Application, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	employer, err := objectID(employerID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if rv.Status != nil {
		set["status"] = string(*rv.Status)
	}
	if rv.Notes != nil {
		set["notes"] = *rv.Notes
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc applicationDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "employer": employer},
		bson.M{"$set": set},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("review application: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job", Value: 1}, {Key: "applicant", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "employer", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "applicant", Value: 1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("applications indexes: %w", err)
	}
	return nil
}
