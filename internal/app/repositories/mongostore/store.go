// Package mongostore implements the repositories.Store contract on MongoDB.
package mongostore

import (
	"context"
	"fmt"

	"github.com/yigit/campuscare/internal/app/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection and index names
const (
	StudentsCollection   = "students"
	CounselorsCollection = "counselors"

	emailIndex = "students_email_key"
	phoneIndex = "students_phone_number_key"
)

// Store groups the MongoDB repositories. Transactions need a replica set.
type Store struct {
	client     *mongo.Client
	students   *StudentStore
	counselors *CounselorStore
}

// New creates a Store on db
func New(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		client:     client,
		students:   NewStudentStore(db),
		counselors: NewCounselorStore(db),
	}
}

// Students returns the student repository
func (s *Store) Students() repositories.IStudentRepository {
	return s.students
}

// Counselors returns the counselor repository
func (s *Store) Counselors() repositories.ICounselorRepository {
	return s.counselors
}

// WithinTransaction runs fn inside a multi-document transaction. The
// repositories passed to fn are the regular ones; they join the transaction
// through the session context.
func (s *Store) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongo session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, s.students, s.counselors)
	})
	return err
}

// EnsureIndexes creates the unique and lookup indexes the stores rely on
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(StudentsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(emailIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "phoneNumber", Value: 1}}, Options: options.Index().SetName(phoneIndex).SetUnique(true)},
		{Keys: bson.D{{Key: "counselor", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create student indexes: %w", err)
	}

	_, err = db.Collection(CounselorsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}, {Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create counselor indexes: %w", err)
	}
	return nil
}
