package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/yigit/campuscare/internal/db"
)

// Repositories holds the PostgreSQL repository instances and implements Store
type Repositories struct {
	pool                Pool
	StudentRepository   *StudentRepository
	CounselorRepository *CounselorRepository
}

// NewRepositories initializes all repositories
func NewRepositories(pool Pool) *Repositories {
	return &Repositories{
		pool:                pool,
		StudentRepository:   NewStudentRepository(pool),
		CounselorRepository: NewCounselorRepository(pool),
	}
}

// Students returns the pool-bound student repository
func (r *Repositories) Students() IStudentRepository {
	return r.StudentRepository
}

// Counselors returns the pool-bound counselor repository
func (r *Repositories) Counselors() ICounselorRepository {
	return r.CounselorRepository
}

// WithinTransaction runs fn with repositories bound to a single transaction
func (r *Repositories) WithinTransaction(ctx context.Context, fn TxFn) error {
	return db.WithTransaction(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, NewStudentRepository(tx), NewCounselorRepository(tx))
	})
}
