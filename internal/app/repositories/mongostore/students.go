package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// StudentStore persists students in the students collection
type StudentStore struct {
	c *mongo.Collection
}

// NewStudentStore creates a StudentStore
func NewStudentStore(db *mongo.Database) *StudentStore {
	return &StudentStore{c: db.Collection(StudentsCollection)}
}

func (s *StudentStore) findOne(ctx context.Context, filter bson.M) (*models.Student, error) {
	var st models.Student
	if err := s.c.FindOne(ctx, filter).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	return &st, nil
}

// FindByID loads a student by id
func (s *StudentStore) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// FindByEmail loads a student by email
func (s *StudentStore) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

// FindByPhoneNumber loads a student by canonical phone number
func (s *StudentStore) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Student, error) {
	return s.findOne(ctx, bson.M{"phoneNumber": phoneNumber})
}

// ExistsByID reports whether a student with id is stored
func (s *StudentStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return n > 0, nil
}

// Create inserts student under a fresh id and sets student.ID
func (s *StudentStore) Create(ctx context.Context, student *models.Student) error {
	doc := *student
	doc.ID = uuid.NewString()

	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			switch {
			case strings.Contains(err.Error(), emailIndex):
				return apperrors.ErrEmailAlreadyExists
			case strings.Contains(err.Error(), phoneIndex):
				return apperrors.ErrPhoneAlreadyExists
			}
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	student.ID = doc.ID
	return nil
}

// ListIDsByCounselor returns ids of the counselor's students, oldest first
func (s *StudentStore) ListIDsByCounselor(ctx context.Context, counselorID string) ([]string, error) {
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := s.c.Find(ctx, bson.M{"counselor": counselorID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	var rows []struct {
		ID string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("error decoding student ids: %w", err)
	}

	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	return ids, nil
}
