package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/dbx"
	"github.com/dmitrijs2005/staffbook/internal/logging"
	"github.com/dmitrijs2005/staffbook/internal/server/metrics"
	"github.com/dmitrijs2005/staffbook/internal/server/models"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/pgerr"
	"github.com/dmitrijs2005/staffbook/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/staffbook/internal/server/storage"
	"github.com/dmitrijs2005/staffbook/internal/server/validation"
	"github.com/google/uuid"
)

// EmployeeService implements employee CRUD and search. Pictures are written
// before the record and removed again on every failure path, so a failed
// request never leaves a new file behind; replaced pictures are removed only
// after the record update committed.
type EmployeeService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	pictures      storage.PictureStore
	maxUploadSize int64
	logger        logging.Logger
}

func NewEmployeeService(db *sql.DB, m repomanager.RepositoryManager, pictures storage.PictureStore,
	maxUploadSize int64, logger logging.Logger) *EmployeeService {
	return &EmployeeService{
		db:            db,
		repomanager:   m,
		pictures:      pictures,
		maxUploadSize: maxUploadSize,
		logger:        logger.With("module", "employee_service"),
	}
}

// Create validates in, stores pic (may be nil) and inserts the record.
func (s *EmployeeService) Create(ctx context.Context, in validation.EmployeeInput, pic *storage.Picture) (*models.Employee, error) {
	fields, err := s.validate(in, pic)
	if err != nil {
		return nil, err
	}

	ref, err := s.savePicture(ctx, pic)
	if err != nil {
		return nil, err
	}

	e, err := s.insert(ctx, fields, ref)
	if err != nil {
		s.discardPicture(ctx, ref)
		return nil, err
	}
	return e, nil
}

func (s *EmployeeService) insert(ctx context.Context, fields *models.EmployeeFields, ref string) (*models.Employee, error) {
	repo := s.repomanager.Employees(s.db)

	taken, err := repo.EmailTaken(ctx, fields.Email, "")
	if err != nil {
		return nil, fmt.Errorf("error checking email: %w", err)
	}
	if taken {
		return nil, &common.ConflictError{Entity: "Employee", Field: "email"}
	}

	e := &models.Employee{ProfilePicture: ref}
	fields.Apply(e)

	created, err := repo.Create(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("error creating employee: %w", err)
	}
	return created, nil
}

// List returns all employees, newest first.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	return s.repomanager.Employees(s.db).List(ctx)
}

// Search requires at least one non-blank criterion.
func (s *EmployeeService) Search(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	filter, err := validation.ValidateFilter(filter)
	if err != nil {
		return nil, err
	}
	return s.repomanager.Employees(s.db).Search(ctx, filter)
}

// Get returns the employee with id. Malformed ids are reported as not found.
func (s *EmployeeService) Get(ctx context.Context, id string) (*models.Employee, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Employees(s.db).GetByID(ctx, id)
}

// Update replaces every field of the employee with id. A nil pic keeps the
// current picture; a missing joining date keeps the stored one.
func (s *EmployeeService) Update(ctx context.Context, id string, in validation.EmployeeInput, pic *storage.Picture) (*models.Employee, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	fields, err := s.validate(in, pic)
	if err != nil {
		return nil, err
	}

	newRef, err := s.savePicture(ctx, pic)
	if err != nil {
		return nil, err
	}

	var (
		oldRef  string
		updated *models.Employee
	)
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Employees(tx)

		cur, err := repo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if fields.Email != cur.Email {
			taken, err := repo.EmailTaken(ctx, fields.Email, id)
			if err != nil {
				return fmt.Errorf("error checking email: %w", err)
			}
			if taken {
				return &common.ConflictError{Entity: "Employee", Field: "email"}
			}
		}

		fields.Apply(cur)
		if newRef != "" {
			oldRef = cur.ProfilePicture
			cur.ProfilePicture = newRef
		}

		updated, err = repo.Update(ctx, cur)
		return err
	})
	if err != nil {
		s.discardPicture(ctx, newRef)
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		// Begin and commit failures come from dbx unmapped.
		if !errors.Is(err, common.ErrorStoreUnavailable) && pgerr.IsUnavailable(err) {
			err = fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
		}
		return nil, fmt.Errorf("error updating employee: %w", err)
	}

	s.discardPicture(ctx, oldRef)
	return updated, nil
}

// Delete removes the employee and then its picture.
func (s *EmployeeService) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	ref, err := s.repomanager.Employees(s.db).Delete(ctx, id)
	if err != nil {
		return err
	}

	s.discardPicture(ctx, ref)
	return nil
}

// validate collects field and picture failures into one error.
func (s *EmployeeService) validate(in validation.EmployeeInput, pic *storage.Picture) (*models.EmployeeFields, error) {
	fields, err := validation.ValidateEmployee(in)
	if pic == nil {
		return fields, err
	}

	perr := storage.CheckPicture(pic, s.maxUploadSize)
	if perr == nil {
		return fields, err
	}

	ve := &common.ValidationError{}
	if err != nil && !ve.Merge(err) {
		return nil, err
	}
	ve.Merge(perr)
	return nil, ve
}

func (s *EmployeeService) savePicture(ctx context.Context, pic *storage.Picture) (string, error) {
	if pic == nil {
		return "", nil
	}
	ref, err := s.pictures.Save(ctx, pic)
	metrics.RecordPictureOperation("save", err)
	if err != nil {
		return "", fmt.Errorf("error saving picture: %w", err)
	}
	return ref, nil
}

// discardPicture removes ref; failures are logged, not returned.
func (s *EmployeeService) discardPicture(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	err := s.pictures.Delete(ctx, ref)
	metrics.RecordPictureOperation("delete", err)
	if err != nil {
		s.logger.Warn(ctx, "picture cleanup failed", "ref", ref, "error", err)
	}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
