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

const collectionProfiles = "profiles"

type ProfileRepository struct {
	col *mongo.Collection
}

func NewProfileRepository(db *mongo.Database) *ProfileRepository {
	return &ProfileRepository{col: db.Collection(collectionProfiles)}
}

type profileDoc struct {
	ID           primitive.ObjectID  `bson:"_id"`
	User         primitive.ObjectID  `bson:"user"`
	Email        string              `bson:"email"`
	Name         string              `bson:"name"`
	Role         string              `bson:"role"`
	AvatarURL    string              `bson:"avatar_url,omitempty"`
	Headline     string              `bson:"headline,omitempty"`
	Summary      string              `bson:"summary,omitempty"`
	Skills       []string            `bson:"skills"`
	Experience   []domain.Experience `bson:"experience"`
	Education    []domain.Education  `bson:"education"`
	ResumeURL    string              `bson:"resume_url,omitempty"`
	LinkedInURL  string              `bson:"linkedin_url,omitempty"`
	GitHubURL    string              `bson:"github_url,omitempty"`
	PortfolioURL string              `bson:"portfolio_url,omitempty"`
	Phone        string              `bson:"phone,omitempty"`
	Location     string              `bson:"location,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt"`
}

func (d *profileDoc) toDomain() *domain.Profile {
	p := &domain.Profile{
		ID:           d.ID.Hex(),
		UserID:       hexOrEmpty(d.User),
		Email:        d.Email,
		Name:         d.Name,
		Role:         d.Role,
		AvatarURL:    d.AvatarURL,
		Headline:     d.Headline,
		Summary:      d.Summary,
		Skills:       d.Skills,
		Experience:   d.Experience,
		Education:    d.Education,
		ResumeURL:    d.ResumeURL,
		LinkedInURL:  d.LinkedInURL,
		GitHubURL:    d.GitHubURL,
		PortfolioURL: d.PortfolioURL,
		Phone:        d.Phone,
		Location:     d.Location,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []domain.Experience{}
	}
	if p.Education == nil {
		p.Education = []domain.Education{}
	}
	return p
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	user, err := objectID(profile.UserID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := profileDoc{
		ID:           primitive.NewObjectID(),
		User:         user,
		Email:        profile.Email,
		Name:         profile.Name,
		Role:         profile.Role,
		AvatarURL:    profile.AvatarURL,
		Headline:     profile.Headline,
		Summary:      profile.Summary,
		Skills:       profile.Skills,
		Experience:   profile.Experience,
		Education:    profile.Education,
		ResumeURL:    profile.ResumeURL,
		LinkedInURL:  profile.LinkedInURL,
		GitHubURL:    profile.GitHubURL,
		PortfolioURL: profile.PortfolioURL,
		Phone:        profile.Phone,
		Location:     profile.Location,
		CreatedAt:    profile.CreatedAt,
		UpdatedAt:    profile.UpdatedAt,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrProfileExists
		}
		return nil, fmt.Errorf("insert profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc profileDoc
	if err := r.col.FindOne(ctx, bson.M{"user": user}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ProfileRepository) FindByUserIDs(ctx context.Context, userIDs []string) ([]*domain.Profile, error) {
	users, err := objectIDs(userIDs)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"user": bson.M{"$in": users}})
	if err != nil {
		return nil, fmt.Errorf("find profiles: %w", err)
	}
	defer cur.Close(ctx)

	var docs []profileDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles: %w", err)
	}

	profiles := make([]*domain.Profile, len(docs))
	for i := range docs {
		profiles[i] = docs[i].toDomain()
	}
	return profiles, nil
}

// Update sets the non-empty fields of u in one findAndModify.
func (r *ProfileRepository) Update(ctx context.Context, userID string, u domain.ProfileUpdate) (*domain.Profile, error) {
	user, err := objectID(userID)
	if err != nil {
		return nil, err
	}

	set := profileSet(u)
	set["updatedAt"] = time.Now().UTC()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc profileDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"user": user}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return doc.toDomain(), nil
}

func profileSet(u domain.ProfileUpdate) bson.M {
	set := bson.M{}
	for field, v := range map[string]string{
		"name":          u.Name,
		"avatar_url":    u.AvatarURL,
		"headline":      u.Headline,
		"summary":       u.Summary,
		"resume_url":    u.ResumeURL,
		"linkedin_url":  u.LinkedInURL,
		"github_url":    u.GitHubURL,
		"portfolio_url": u.PortfolioURL,
		"phone":         u.Phone,
		"location":      u.Location,
	} {
		if v != "" {
			set[field] = v
		}
	}
	if len(u.Skills) > 0 {
		set["skills"] = u.Skills
	}
	if len(u.Experience) > 0 {
		set["experience"] = u.Experience
	}
	if len(u.Education) > 0 {
		set["education"] = u.Education
	}
	return set
}

func (r *ProfileRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("profiles indexes: %w", err)
	}
	return nil
}
