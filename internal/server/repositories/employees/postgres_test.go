package employees

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "first_name", "last_name", "email", "phone_number", "department", "position",
	"salary", "profile_picture", "date_of_joining", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func employeeRow(id, first, dept, pos string, at time.Time) []driver.Value {
	return []driver.Value{id, first, "Lee", first + "@x.io", "555", dept, pos, 50000.0, "", at, at, at}
}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+employees.*COALESCE\(\$9,\s*now\(\)\).*RETURNING\s+id,`).
		WithArgs("Jo", "Lee", "jo@x.io", "555", "IT", "Developer", 50000.0, "/uploads/a.png", nil).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(employeeRow("e-1", "Jo", "IT", "Developer", now)...))

	got, err := repo.Create(context.Background(), &models.Employee{
		FirstName: "Jo", LastName: "Lee", Email: "jo@x.io", PhoneNumber: "555",
		Department: "IT", Position: "Developer", Salary: 50000, ProfilePicture: "/uploads/a.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "e-1", got.ID)
	assert.Equal(t, 50000.0, got.Salary)
	assert.Equal(t, now, got.DateOfJoining)
}

func TestCreate_ExplicitDateOfJoining(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	doj := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+employees`).
		WithArgs("Jo", "Lee", "jo@x.io", "555", "IT", "Developer", 1.0, "", doj).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(employeeRow("e-1", "Jo", "IT", "Developer", doj)...))

	_, err := repo.Create(context.Background(), &models.Employee{
		FirstName: "Jo", LastName: "Lee", Email: "jo@x.io", PhoneNumber: "555",
		Department: "IT", Position: "Developer", Salary: 1, DateOfJoining: doj,
	})
	require.NoError(t, err)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+employees`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"})

	_, err := repo.Create(context.Background(), &models.Employee{})
	require.ErrorIs(t, err, common.ErrorConflict)
	assert.Equal(t, "Employee with this email already exists", err.Error())
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+employees\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(employeeRow("e-1", "Jo", "IT", "Developer", now)...))

	got, err := repo.GetByID(context.Background(), "e-1")
	require.NoError(t, err)
	assert.Equal(t, "Jo", got.FirstName)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+employees\s+WHERE\s+id\s*=\s*\$1$`).
		WithArgs("e-2").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByID(context.Background(), "e-2")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByIDForUpdate_Locks(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)WHERE\s+id\s*=\s*\$1\s+FOR\s+UPDATE$`).
		WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(employeeRow("e-1", "Jo", "IT", "Developer", time.Now())...))

	_, err := repo.GetByIDForUpdate(context.Background(), "e-1")
	require.NoError(t, err)
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()
	e := &models.Employee{ID: "e-1", FirstName: "Jo", LastName: "Lee", Email: "jo@x.io", PhoneNumber: "555",
		Department: "Ops", Position: "Lead", Salary: 1, ProfilePicture: "/uploads/b.png", DateOfJoining: now}

	mock.ExpectQuery(`(?s)^UPDATE\s+employees\s+SET.*updated_at\s*=\s*now\(\).*WHERE\s+id\s*=\s*\$1`).
		WithArgs("e-1", "Jo", "Lee", "jo@x.io", "555", "Ops", "Lead", 1.0, "/uploads/b.png", now).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(employeeRow("e-1", "Jo", "Ops", "Lead", now)...))

	got, err := repo.Update(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, "Ops", got.Department)
}

func TestUpdate_Missing(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^UPDATE\s+employees`).WillReturnError(sql.ErrNoRows)

	_, err := repo.Update(context.Background(), &models.Employee{ID: "e-9"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+employees\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+profile_picture$`).
		WithArgs("e-1").
		WillReturnRows(sqlmock.NewRows([]string{"profile_picture"}).AddRow("/uploads/a.png"))

	pic, err := repo.Delete(context.Background(), "e-1")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", pic)

	mock.ExpectQuery(`(?s)^DELETE\s+FROM\s+employees`).WithArgs("e-1").WillReturnError(sql.ErrNoRows)
	_, err = repo.Delete(context.Background(), "e-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_OrderedNewestFirst(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+employees\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC$`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(employeeRow("e-2", "Bo", "IT", "Dev", now)...).
			AddRow(employeeRow("e-1", "Jo", "IT", "Dev", now.Add(-time.Hour))...))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "e-2", got[0].ID)
	assert.Equal(t, "e-1", got[1].ID)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+employees`).WillReturnRows(sqlmock.NewRows(cols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name   string
		filter models.EmployeeFilter
		query  string
		args   []driver.Value
	}{
		{
			name:   "department only",
			filter: models.EmployeeFilter{Department: "eng"},
			query:  `(?s)WHERE\s+strpos\(lower\(department\),\s*lower\(\$1\)\)\s*>\s*0\s+ORDER\s+BY`,
			args:   []driver.Value{"eng"},
		},
		{
			name:   "position only",
			filter: models.EmployeeFilter{Position: "Dev"},
			query:  `(?s)WHERE\s+strpos\(lower\(position\),\s*lower\(\$1\)\)\s*>\s*0\s+ORDER\s+BY`,
			args:   []driver.Value{"Dev"},
		},
		{
			name:   "both are ANDed",
			filter: models.EmployeeFilter{Department: "eng", Position: "dev"},
			query:  `(?s)strpos\(lower\(department\),\s*lower\(\$1\)\)\s*>\s*0\s+AND\s+strpos\(lower\(position\),\s*lower\(\$2\)\)`,
			args:   []driver.Value{"eng", "dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepoWithMock(t)

			mock.ExpectQuery(tt.query).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(cols).AddRow(employeeRow("e-1", "Jo", "Engineering", "Developer", time.Now())...))

			got, err := repo.Search(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Len(t, got, 1)
		})
	}
}

func TestSearch_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT`).WillReturnError(errors.New("boom"))

	_, err := repo.Search(context.Background(), models.EmployeeFilter{Department: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestEmailTaken(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`(?s)^SELECT\s+EXISTS\s*\(SELECT\s+1\s+FROM\s+employees\s+WHERE\s+email\s*=\s*\$1`).
		WithArgs("jo@x.io", "e-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	taken, err := repo.EmailTaken(context.Background(), "jo@x.io", "e-1")
	require.NoError(t, err)
	assert.False(t, taken)
}
