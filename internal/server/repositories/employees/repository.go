package employees

import (
	"context"

	"github.com/dmitrijs2005/staffbook/internal/server/models"
)

// Repository persists employee records.
type Repository interface {
	Create(ctx context.Context, e *models.Employee) (*models.Employee, error)
	GetByID(ctx context.Context, id string) (*models.Employee, error)
	GetByIDForUpdate(ctx context.Context, id string) (*models.Employee, error)
	Update(ctx context.Context, e *models.Employee) (*models.Employee, error)
	Delete(ctx context.Context, id string) (string, error)
	List(ctx context.Context) ([]models.Employee, error)
	Search(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error)
	EmailTaken(ctx context.Context, email, excludeID string) (bool, error)
}
