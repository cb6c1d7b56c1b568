package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/app/repositories"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CounselorStore persists counselors in the counselors collection
type CounselorStore struct {
	c *mongo.Collection
}

// NewCounselorStore creates a CounselorStore
func NewCounselorStore(db *mongo.Database) *CounselorStore {
	return &CounselorStore{c: db.Collection(CounselorsCollection)}
}

// ListByRole returns counselors with role oldest first, ties by id
func (s *CounselorStore) ListByRole(ctx context.Context, role models.RoleType) ([]*models.Counselor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"role": role}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing counselors: %w", err)
	}

	var counselors []*models.Counselor
	if err := cur.All(ctx, &counselors); err != nil {
		return nil, fmt.Errorf("error decoding counselors: %w", err)
	}
	for _, c := range counselors {
		if c.MenteeIDs == nil {
			c.MenteeIDs = []string{}
		}
	}
	return counselors, nil
}

// FindByID loads a counselor by id
func (s *CounselorStore) FindByID(ctx context.Context, id string) (*models.Counselor, error) {
	var c models.Counselor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrCounselorNotFound
		}
		return nil, fmt.Errorf("error retrieving counselor: %w", err)
	}
	if c.MenteeIDs == nil {
		c.MenteeIDs = []string{}
	}
	return &c, nil
}

// AddMentee pushes studentID if the stored version equals expectedVersion
func (s *CounselorStore) AddMentee(ctx context.Context, counselorID, studentID string, expectedVersion int64) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": counselorID, "version": expectedVersion},
		bson.M{
			"$push": bson.M{"mentees": studentID},
			"$inc":  bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("error adding mentee: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.c.CountDocuments(ctx, bson.M{"_id": counselorID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("error checking counselor existence: %w", err)
	}
	if n == 0 {
		return repositories.ErrCounselorNotFound
	}
	return apperrors.ErrVersionConflict
}

// Save upserts counselor and bumps its version
func (s *CounselorStore) Save(ctx context.Context, counselor *models.Counselor) error {
	if counselor.ID == "" {
		counselor.ID = uuid.NewString()
	}
	if counselor.Role == "" {
		counselor.Role = models.RoleCounselor
	}
	mentees := counselor.MenteeIDs
	if mentees == nil {
		mentees = []string{}
	}

	var saved models.Counselor
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": counselor.ID},
		bson.M{
			"$set":         bson.M{"role": counselor.Role, "mentees": mentees},
			"$inc":         bson.M{"version": 1},
			"$setOnInsert": bson.M{"createdAt": time.Now().UTC()},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&saved)
	if err != nil {
		return fmt.Errorf("error saving counselor: %w", err)
	}

	counselor.Version = saved.Version
	return nil
}
