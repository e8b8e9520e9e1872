package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/employees"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/users"
	"github.com/dmitrijs2005/staffbook/internal/server/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

// fakeUsersRepo keeps users in memory and enforces unique username/email the
// way the database indexes do.
type fakeUsersRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	existsErr error
	createErr error
	getErr    error
	// skipExists makes ExistsByUsernameOrEmail report false, simulating a
	// concurrent sign-up that slipped past the pre-check.
	skipExists bool
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{users: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, ex := range f.users {
		if ex.Email == u.Email {
			return nil, &common.ConflictError{Entity: "User", Field: "email"}
		}
		if ex.Username == u.Username {
			return nil, &common.ConflictError{Entity: "User", Field: "username"}
		}
	}
	cp := *u
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.users[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.existsErr != nil {
		return false, f.existsErr
	}
	if f.skipExists {
		return false, nil
	}
	for _, u := range f.users {
		if u.Username == username || u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// fakeEmployeesRepo is an in-memory employee store.
type fakeEmployeesRepo struct {
	mu   sync.Mutex
	rows []*models.Employee

	createErr error
	updateErr error
	takenErr  error
	listErr   error

	lastFilter models.EmployeeFilter
}

func (f *fakeEmployeesRepo) find(id string) (int, *models.Employee) {
	for i, e := range f.rows {
		if e.ID == id {
			return i, e
		}
	}
	return -1, nil
}

func (f *fakeEmployeesRepo) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	cp := *e
	cp.ID = uuid.NewString()
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	if cp.DateOfJoining.IsZero() {
		cp.DateOfJoining = cp.CreatedAt
	}
	f.rows = append(f.rows, &cp)
	out := cp
	return &out, nil
}

func (f *fakeEmployeesRepo) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, e := f.find(id)
	if e == nil {
		return nil, common.ErrorNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEmployeesRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Employee, error) {
	return f.GetByID(ctx, id)
}

func (f *fakeEmployeesRepo) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	i, _ := f.find(e.ID)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	cp := *e
	cp.UpdatedAt = time.Now()
	f.rows[i] = &cp
	out := cp
	return &out, nil
}

func (f *fakeEmployeesRepo) Delete(ctx context.Context, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i, e := f.find(id)
	if e == nil {
		return "", common.ErrorNotFound
	}
	f.rows = append(f.rows[:i], f.rows[i+1:]...)
	return e.ProfilePicture, nil
}

func (f *fakeEmployeesRepo) List(ctx context.Context) ([]models.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Employee, 0, len(f.rows))
	for i := len(f.rows) - 1; i >= 0; i-- {
		out = append(out, *f.rows[i])
	}
	return out, nil
}

func (f *fakeEmployeesRepo) Search(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	f.mu.Lock()
	f.lastFilter = filter
	f.mu.Unlock()

	all, err := f.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.Employee, 0, len(all))
	for _, e := range all {
		if containsFold(e.Department, filter.Department) && containsFold(e.Position, filter.Position) {
			out = append(out, e)
		}
	}
	return out, nil
}

// containsFold mirrors strpos(lower(s), lower(sub)) > 0; an empty sub matches.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func (f *fakeEmployeesRepo) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.takenErr != nil {
		return false, f.takenErr
	}
	for _, e := range f.rows {
		if e.Email == email && e.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	e *fakeEmployeesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Employees(db dbx.DBTX) employees.Repository   { return m.e }

// fakePictures records saved and deleted references.
type fakePictures struct {
	mu      sync.Mutex
	n       int
	saved   map[string]string
	deleted []string
	saveErr error
}

func newFakePictures() *fakePictures {
	return &fakePictures{saved: map[string]string{}}
}

func (p *fakePictures) Save(ctx context.Context, pic *storage.Picture) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return "", p.saveErr
	}
	b, err := io.ReadAll(pic.Body)
	if err != nil {
		return "", err
	}
	p.n++
	ref := "/uploads/pic-" + string(rune('0'+p.n)) + ".png"
	p.saved[ref] = string(b)
	return ref, nil
}

func (p *fakePictures) Delete(ctx context.Context, ref string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, ref)
	delete(p.saved, ref)
	return nil
}

func (p *fakePictures) live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.saved)
}
