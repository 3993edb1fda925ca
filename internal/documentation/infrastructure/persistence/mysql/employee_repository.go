package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"gorm.io/gorm"
)

type employeeRepository struct {
	base
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db *gorm.DB) domain.EmployeeRepository {
	return &employeeRepository{base{db: db}}
}

func (r *employeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	model := toEmployeeModel(e)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicate(err) {
			return domain.ConflictError(domain.ErrDuplicateEmployeeDocument, "employee with document %s already exists", e.Document)
		}
		logger.Error(ctx, "employee_repository.create failed", "error", err)
		return fmt.Errorf("failed to create employee: %w", err)
	}
	e.ID, e.CreatedAt, e.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *employeeRepository) Update(ctx context.Context, e *domain.Employee) error {
	model := toEmployeeModel(e)
	err := r.getDB(ctx).Model(model).Select("name", "document", "hired_at", "updated_at").Updates(model).Error
	if err != nil {
		if isDuplicate(err) {
			return domain.ConflictError(domain.ErrDuplicateEmployeeDocument, "employee with document %s already exists", e.Document)
		}
		logger.Error(ctx, "employee_repository.update failed", "employee_id", e.ID, "error", err)
		return fmt.Errorf("failed to update employee: %w", err)
	}
	e.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *employeeRepository) GetByID(ctx context.Context, id uint) (*domain.Employee, error) {
	var model EmployeeModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundError(domain.ErrEmployeeNotFound, "employee with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return toEmployee(&model), nil
}

func (r *employeeRepository) FindByDocument(ctx context.Context, document string) (*domain.Employee, error) {
	var model EmployeeModel
	if err := r.getDB(ctx).Where("document = ?", document).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find employee by document: %w", err)
	}
	return toEmployee(&model), nil
}

func (r *employeeRepository) List(ctx context.Context, q domain.EmployeeQuery) ([]domain.Employee, int64, error) {
	var models []EmployeeModel
	var total int64

	query := r.getDB(ctx).Model(&EmployeeModel{})
	if q.Name != "" {
		query = query.Where("LOWER(name)"+likeEscape, likePattern(q.Name))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}
	if err := query.Order("name ASC").Order("id ASC").Offset(q.Offset).Limit(q.Limit).Find(&models).Error; err != nil {
		logger.Error(ctx, "employee_repository.list failed", "error", err)
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}

	out := make([]domain.Employee, len(models))
	for i := range models {
		out[i] = *toEmployee(&models[i])
	}
	return out, total, nil
}

func (r *employeeRepository) ListAll(ctx context.Context) ([]domain.Employee, error) {
	var models []EmployeeModel
	if err := r.getDB(ctx).Order("name ASC").Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]domain.Employee, len(models))
	for i := range models {
		out[i] = *toEmployee(&models[i])
	}
	return out, nil
}
