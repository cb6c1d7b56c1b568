package services

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/yigit/campuscare/internal/app/models"
	"github.com/yigit/campuscare/internal/app/repositories"
	"github.com/yigit/campuscare/internal/pkg/apperrors"
	"github.com/yigit/campuscare/internal/pkg/stream"
)

// memoryStore is an optimistic in-memory Store. Transactions buffer their
// writes and validate counselor versions at commit.
type memoryStore struct {
	mu         sync.Mutex
	students   map[string]*models.Student
	counselors []*models.Counselor

	// afterList runs after every transactional ListByRole, outside the lock.
	afterList func()
	commits   atomic.Int64
}

func newMemoryStore(counselors ...*models.Counselor) *memoryStore {
	s := &memoryStore{students: make(map[string]*models.Student)}
	for _, c := range counselors {
		s.counselors = append(s.counselors, cloneCounselor(c))
	}
	return s
}

func cloneCounselor(c *models.Counselor) *models.Counselor {
	cp := *c
	cp.MenteeIDs = append([]string{}, c.MenteeIDs...)
	if cp.Role == "" {
		cp.Role = models.RoleCounselor
	}
	return &cp
}

func (s *memoryStore) Students() repositories.IStudentRepository {
	return &memoryStudents{store: s}
}

func (s *memoryStore) Counselors() repositories.ICounselorRepository {
	return &memoryCounselors{store: s}
}

func (s *memoryStore) WithinTransaction(ctx context.Context, fn repositories.TxFn) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := &memoryTx{}
	if err := fn(ctx, &memoryStudents{store: s, tx: tx}, &memoryCounselors{store: s, tx: tx}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.commit(tx)
}

// bumpCounselor simulates a concurrent committed append.
func (s *memoryStore) bumpCounselor(id, menteeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.counselors {
		if c.ID == id {
			c.MenteeIDs = append(c.MenteeIDs, menteeID)
			c.Version++
		}
	}
}

func (s *memoryStore) counselor(id string) *models.Counselor {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.counselors {
		if c.ID == id {
			return cloneCounselor(c)
		}
	}
	return nil
}

func (s *memoryStore) studentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.students)
}

func (s *memoryStore) insertStudent(st *models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *st
	s.students[cp.ID] = &cp
}

type menteeAppend struct {
	counselorID string
	studentID   string
	expected    int64
}

type memoryTx struct {
	created []*models.Student
	appends []menteeAppend
}

func (s *memoryStore) commit(tx *memoryTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	versions := make(map[string]int64, len(s.counselors))
	for _, c := range s.counselors {
		versions[c.ID] = c.Version
	}
	for _, a := range tx.appends {
		v, ok := versions[a.counselorID]
		if !ok || v != a.expected {
			return apperrors.ErrVersionConflict
		}
		versions[a.counselorID] = v + 1
	}
	for _, st := range tx.created {
		for _, existing := range s.students {
			if existing.Email == st.Email {
				return apperrors.ErrEmailAlreadyExists
			}
			if existing.PhoneNumber == st.PhoneNumber {
				return apperrors.ErrPhoneAlreadyExists
			}
		}
	}

	for _, st := range tx.created {
		cp := *st
		s.students[cp.ID] = &cp
	}
	for _, a := range tx.appends {
		for _, c := range s.counselors {
			if c.ID == a.counselorID {
				c.MenteeIDs = append(c.MenteeIDs, a.studentID)
				c.Version++
			}
		}
	}
	s.commits.Add(1)
	return nil
}

type memoryStudents struct {
	store *memoryStore
	tx    *memoryTx
}

func (r *memoryStudents) find(ctx context.Context, match func(*models.Student) bool) (*models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if r.tx != nil {
		for _, st := range r.tx.created {
			if match(st) {
				cp := *st
				return &cp, nil
			}
		}
	}
	for _, st := range r.store.students {
		if match(st) {
			cp := *st
			return &cp, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *memoryStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.find(ctx, func(s *models.Student) bool { return s.ID == id })
}

func (r *memoryStudents) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	return r.find(ctx, func(s *models.Student) bool { return s.Email == email })
}

func (r *memoryStudents) FindByPhoneNumber(ctx context.Context, phoneNumber string) (*models.Student, error) {
	return r.find(ctx, func(s *models.Student) bool { return s.PhoneNumber == phoneNumber })
}

func (r *memoryStudents) ExistsByID(ctx context.Context, id string) (bool, error) {
	_, err := r.FindByID(ctx, id)
	if errors.Is(err, apperrors.ErrStudentNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *memoryStudents) Create(ctx context.Context, student *models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	student.ID = uuid.NewString()
	cp := *student
	if r.tx != nil {
		r.tx.created = append(r.tx.created, &cp)
		return nil
	}
	r.store.insertStudent(&cp)
	return nil
}

func (r *memoryStudents) ListIDsByCounselor(ctx context.Context, counselorID string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var matched []*models.Student
	for _, st := range r.store.students {
		if st.CounselorID == counselorID {
			matched = append(matched, st)
		}
	}
	slices.SortFunc(matched, func(a, b *models.Student) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		return 1
	})

	ids := make([]string, 0, len(matched))
	for _, st := range matched {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

type memoryCounselors struct {
	store *memoryStore
	tx    *memoryTx
}

// view returns committed counselors with this transaction's appends applied.
func (r *memoryCounselors) view() []*models.Counselor {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	out := make([]*models.Counselor, 0, len(r.store.counselors))
	for _, c := range r.store.counselors {
		cp := cloneCounselor(c)
		if r.tx != nil {
			for _, a := range r.tx.appends {
				if a.counselorID == cp.ID {
					cp.MenteeIDs = append(cp.MenteeIDs, a.studentID)
					cp.Version++
				}
			}
		}
		out = append(out, cp)
	}
	return out
}

func (r *memoryCounselors) ListByRole(ctx context.Context, role models.RoleType) ([]*models.Counselor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []*models.Counselor
	for _, c := range r.view() {
		if c.Role == role {
			out = append(out, c)
		}
	}
	if r.tx != nil && r.store.afterList != nil {
		r.store.afterList()
	}
	return out, nil
}

func (r *memoryCounselors) FindByID(ctx context.Context, id string) (*models.Counselor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, c := range r.view() {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperrors.NewResourceNotFoundError("counselor not found")
}

func (r *memoryCounselors) AddMentee(ctx context.Context, counselorID, studentID string, expectedVersion int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	current, err := r.FindByID(ctx, counselorID)
	if err != nil {
		return err
	}
	if current.Version != expectedVersion {
		return apperrors.ErrVersionConflict
	}
	a := menteeAppend{counselorID: counselorID, studentID: studentID, expected: expectedVersion}
	if r.tx != nil {
		r.tx.appends = append(r.tx.appends, a)
		return nil
	}
	return r.store.commit(&memoryTx{appends: []menteeAppend{a}})
}

func (r *memoryCounselors) Save(ctx context.Context, counselor *models.Counselor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, c := range r.store.counselors {
		if c.ID == counselor.ID {
			counselor.Version = c.Version + 1
			r.store.counselors[i] = cloneCounselor(counselor)
			return nil
		}
	}
	r.store.counselors = append(r.store.counselors, cloneCounselor(counselor))
	return nil
}

// countingSigner records how often it was asked to sign.
type countingSigner struct {
	calls atomic.Int64
}

func (s *countingSigner) Sign(subjectID string) (string, time.Time, error) {
	s.calls.Add(1)
	return "token-" + subjectID, time.Now().Add(time.Hour), nil
}

// recordingUpserter captures users sent to Stream.
type recordingUpserter struct {
	mu    sync.Mutex
	users []stream.User
	err   error
}

func (u *recordingUpserter) UpsertUsers(_ context.Context, users ...stream.User) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.users = append(u.users, users...)
	return u.err
}

// fakeProvisioner records identities and fails with err when set.
type fakeProvisioner struct {
	mu         sync.Mutex
	identities []ExternalIdentity
	err        error
}

func (p *fakeProvisioner) Provision(_ context.Context, identity ExternalIdentity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.identities = append(p.identities, identity)
	return p.err
}

func (p *fakeProvisioner) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.identities)
}
