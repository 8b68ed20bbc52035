package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hireboard/jobboard-api/internal/core/domain"
	"github.com/hireboard/jobboard-api/internal/core/ports"
)

const collectionJobs = "jobs"

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

type viewDoc struct {
	UserID   primitive.ObjectID `bson:"userId"`
	ViewedAt time.Time          `bson:"viewedAt"`
}

type jobDoc struct {
	ID            primitive.ObjectID   `bson:"_id"`
	Title         string               `bson:"title"`
	Company       string               `bson:"company"`
	Location      string               `bson:"location"`
	Type          string               `bson:"type"`
	Description   string               `bson:"description"`
	Requirements  string               `bson:"requirements"`
	Salary        string               `bson:"salary"`
	Experience    string               `bson:"experience"`
	Skills        string               `bson:"skills"`
	Employer      primitive.ObjectID   `bson:"employer"`
	Status        string               `bson:"status"`
	Views         int64                `bson:"views"`
	UniqueViews   int64                `bson:"uniqueViews"`
	ViewHistory   []viewDoc            `bson:"viewHistory"`
	AnalyticsData domain.AnalyticsData `bson:"analyticsData"`
	CreatedAt     time.Time            `bson:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt"`
}

func (d *jobDoc) toDomain() *domain.Job {
	j := &domain.Job{
		ID:            d.ID.Hex(),
		Title:         d.Title,
		Company:       d.Company,
		Location:      d.Location,
		Type:          domain.JobType(d.Type),
		Description:   d.Description,
		Requirements:  d.Requirements,
		Salary:        d.Salary,
		Experience:    domain.ExperienceLevel(d.Experience),
		Skills:        d.Skills,
		EmployerID:    hexOrEmpty(d.Employer),
		Status:        domain.JobStatus(d.Status),
		Views:         d.Views,
		UniqueViews:   d.UniqueViews,
		AnalyticsData: d.AnalyticsData,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
	if d.ViewHistory != nil {
		j.ViewHistory = make([]domain.ViewRecord, len(d.ViewHistory))
		for i, v := range d.ViewHistory {
			j.ViewHistory[i] = domain.ViewRecord{UserID: hexOrEmpty(v.UserID), ViewedAt: v.ViewedAt.UTC()}
		}
	}
	return j
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	employer, err := objectID(job.EmployerID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := jobDoc{
		ID:            primitive.NewObjectID(),
		Title:         job.Title,
		Company:       job.Company,
		Location:      job.Location,
		Type:          string(job.Type),
		Description:   job.Description,
		Requirements:  job.Requirements,
		Salary:        job.Salary,
		Experience:    string(job.Experience),
		Skills:        job.Skills,
		Employer:      employer,
		Status:        string(job.Status),
		ViewHistory:   []viewDoc{},
		AnalyticsData: job.AnalyticsData,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc jobDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *JobRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Job, error) {
	oids, err := objectIDs(ids)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// List returns matching jobs newest first. The view history is projected
// out; only the detail endpoint needs it.
func (r *JobRepository) List(ctx context.Context, f ports.JobFilter) ([]*domain.Job, error) {
	filter, err := jobFilter(f)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, filter)
}

func (r *JobRepository) find(ctx context.Context, filter bson.M) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"viewHistory": 0})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}

	jobs := make([]*domain.Job, len(docs))
	for i := range docs {
		jobs[i] = docs[i].toDomain()
	}
	return jobs, nil
}

func jobFilter(f ports.JobFilter) (bson.M, error) {
	filter := bson.M{}
	if f.EmployerID != "" {
		employer, err := objectID(f.EmployerID)
		if err != nil {
			return nil, err
		}
		filter["employer"] = employer
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Type != "" {
		filter["type"] = string(f.Type)
	}
	if f.Experience != "" {
		filter["experience"] = string(f.Experience)
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"title": pattern},
			bson.M{"company": pattern},
			bson.M{"location": pattern},
		}
	}
	return filter, nil
}

// Update applies u to the job when it belongs to employerID.
func (r *JobRepository) Update(ctx context.Context, id, employerID string, u domain.JobUpdate) (*domain.Job, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	employer, err := objectID(employerID)
	if err != nil {
		return nil, err
	}

	set := jobSet(u)
	set["updatedAt"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc jobDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "employer": employer},
		bson.M{"$set": set},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return doc.toDomain(), nil
}

func jobSet(u domain.JobUpdate) bson.M {
	set := bson.M{}
	for field, v := range map[string]*string{
		"title":        u.Title,
		"company":      u.Company,
		"location":     u.Location,
		"description":  u.Description,
		"requirements": u.Requirements,
		"salary":       u.Salary,
		"skills":       u.Skills,
	} {
		if v != nil {
			set[field] = *v
		}
	}
	if u.Type != nil {
		set["type"] = string(*u.Type)
	}
	if u.Experience != nil {
		set["experience"] = string(*u.Experience)
	}
	if u.Status != nil {
		set["status"] = string(*u.Status)
	}
	return set
}

func (r *JobRepository) Delete(ctx context.Context, id, employerID string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	employer, err := objectID(employerID)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "employer": employer})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// RecordView counts a view in one conditional findAndModify: the first view
// of a viewer also bumps uniqueViews and appends to viewHistory. When the
// viewer is already in the history the fallback only increments views, so
// concurrent views from one viewer can never double count uniqueViews.
func (r *JobRepository) RecordView(ctx context.Context, id, viewerID string, at time.Time) (*domain.Job, bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, false, err
	}
	viewer, err := objectID(viewerID)
	if err != nil {
		return nil, false, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc jobDoc
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "viewHistory.userId": bson.M{"$ne": viewer}},
		bson.M{
			"$inc":  bson.M{"views": 1, "uniqueViews": 1},
			"$push": bson.M{"viewHistory": viewDoc{UserID: viewer, ViewedAt: at.UTC()}},
		},
		opts,
	).Decode(&doc)
	if err == nil {
		return doc.toDomain(), true, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, fmt.Errorf("record view: %w", err)
	}

	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$inc": bson.M{"views": 1}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, domain.ErrJobNotFound
		}
		return nil, false, fmt.Errorf("record view: %w", err)
	}
	return doc.toDomain(), false, nil
}

func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "employer", Value: 1}, {Key: "createdAt", Value: -1}}},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("jobs indexes: %w", err)
	}
	return nil
}
