// Package employees is the employee store.
package employees

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/pgerr"
)

const entity = "Employee"

var constraints = pgerr.Constraints{"employees_email_key": "email"}

const columns = `id, first_name, last_name, email, phone_number, department, position,
		 salary, profile_picture, date_of_joining, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(s scanner) (*models.Employee, error) {
	e := &models.Employee{}
	err := s.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.PhoneNumber, &e.Department, &e.Position,
		&e.Salary, &e.ProfilePicture, &e.DateOfJoining, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create inserts e. A zero DateOfJoining is replaced by the insertion time.
func (r *PostgresRepository) Create(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	query :=
		`INSERT INTO employees (first_name, last_name, email, phone_number, department, position,
		 salary, profile_picture, date_of_joining)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, now()))
		 RETURNING ` + columns

	var doj any
	if !e.DateOfJoining.IsZero() {
		doj = e.DateOfJoining
	}

	row := r.db.QueryRowContext(ctx, query,
		e.FirstName, e.LastName, e.Email, e.PhoneNumber, e.Department, e.Position,
		e.Salary, e.ProfilePicture, doj)

	created, err := scanEmployee(row)
	if err != nil {
		return nil, pgerr.Map(err, entity, constraints)
	}
	return created, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + columns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, pgerr.Map(err, entity, constraints)
	}
	return e, nil
}

// GetByIDForUpdate is GetByID that also locks the row until the surrounding
// transaction ends.
func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Employee, error) {
	query := `SELECT ` + columns + ` FROM employees WHERE id = $1 FOR UPDATE`

	e, err := scanEmployee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, pgerr.Map(err, entity, constraints)
	}
	return e, nil
}

// Update overwrites every mutable column of the record with e.ID.
func (r *PostgresRepository) Update(ctx context.Context, e *models.Employee) (*models.Employee, error) {
	query :=
		`UPDATE employees SET first_name = $2, last_name = $3, email = $4, phone_number = $5,
		 department = $6, position = $7, salary = $8, profile_picture = $9, date_of_joining = $10,
		 updated_at = now()
		 WHERE id = $1
		 RETURNING ` + columns

	row := r.db.QueryRowContext(ctx, query, e.ID,
		e.FirstName, e.LastName, e.Email, e.PhoneNumber, e.Department, e.Position,
		e.Salary, e.ProfilePicture, e.DateOfJoining)

	updated, err := scanEmployee(row)
	if err != nil {
		return nil, pgerr.Map(err, entity, constraints)
	}
	return updated, nil
}

// Delete removes the record and returns its profile picture reference.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (string, error) {
	query := `DELETE FROM employees WHERE id = $1 RETURNING profile_picture`

	var picture string
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&picture); err != nil {
		return "", pgerr.Map(err, entity, constraints)
	}
	return picture, nil
}

// List returns every employee, most recently created first.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Employee, error) {
	query := `SELECT ` + columns + ` FROM employees ORDER BY created_at DESC, id DESC`
	return r.query(ctx, query)
}

// Search matches each non-empty filter field as a case-insensitive substring.
// strpos is used instead of LIKE so that % and _ in the input are literal.
func (r *PostgresRepository) Search(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	var (
		conds []string
		args  []any
	)
	if filter.Department != "" {
		args = append(args, filter.Department)
		conds = append(conds, fmt.Sprintf("strpos(lower(department), lower($%d)) > 0", len(args)))
	}
	if filter.Position != "" {
		args = append(args, filter.Position)
		conds = append(conds, fmt.Sprintf("strpos(lower(position), lower($%d)) > 0", len(args)))
	}

	query := `SELECT ` + columns + ` FROM employees`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return r.query(ctx, query, args...)
}

// EmailTaken reports whether another employee (not excludeID) uses email.
func (r *PostgresRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM employees WHERE email = $1 AND ($2 = '' OR id::text <> $2))`

	var taken bool
	if err := r.db.QueryRowContext(ctx, query, email, excludeID).Scan(&taken); err != nil {
		return false, pgerr.Map(err, entity, constraints)
	}
	return taken, nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]models.Employee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, pgerr.Map(err, entity, constraints)
	}
	defer rows.Close()

	out := make([]models.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, pgerr.Map(err, entity, constraints)
		}
		out = append(out, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, pgerr.Map(err, entity, constraints)
	}
	return out, nil
}
