package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"gorm.io/gorm"
)

type documentRepository struct {
	base
}

// NewDocumentRepository 创建文档仓储
func NewDocumentRepository(db *gorm.DB) domain.DocumentRepository {
	return &documentRepository{base{db: db}}
}

// joined 带出员工与类型名称
func (r *documentRepository) joined(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).
		Table("documents AS d").
		Select("d.*, e.name AS employee_name, dt.name AS document_type_name").
		Joins("LEFT JOIN employees e ON e.id = d.employee_id").
		Joins("LEFT JOIN document_types dt ON dt.id = d.document_type_id")
}

func (r *documentRepository) Create(ctx context.Context, d *domain.Document) error {
	model := toDocumentModel(d)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicate(err) {
			return domain.ConflictError(domain.ErrDocumentAlreadySubmitted,
				"document already exists for employee %d and document type %d", d.EmployeeID, d.DocumentTypeID)
		}
		logger.Error(ctx, "document_repository.create failed", "error", err)
		return fmt.Errorf("failed to create document: %w", err)
	}
	d.ID, d.CreatedAt, d.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *documentRepository) Update(ctx context.Context, d *domain.Document) error {
	model := toDocumentModel(d)
	if err := r.getDB(ctx).Model(model).Select("name", "status", "sent_at", "updated_at").Updates(model).Error; err != nil {
		logger.Error(ctx, "document_repository.update failed", "document_id", d.ID, "error", err)
		return fmt.Errorf("failed to update document: %w", err)
	}
	d.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *documentRepository) Delete(ctx context.Context, id uint) error {
	res := r.getDB(ctx).Delete(&DocumentModel{}, id)
	if res.Error != nil {
		logger.Error(ctx, "document_repository.delete failed", "document_id", id, "error", res.Error)
		return fmt.Errorf("failed to delete document: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError(domain.ErrDocumentNotFound, "document with id %d not found", id)
	}
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uint) (*domain.Document, error) {
	var row documentRow
	if err := r.joined(ctx).Where("d.id = ?", id).Take(&row).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundError(domain.ErrDocumentNotFound, "document with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	d := row.toDomain()
	return &d, nil
}

func (r *documentRepository) FindByPair(ctx context.Context, p domain.Pair) (*domain.Document, error) {
	var model DocumentModel
	err := r.getDB(ctx).
		Where("employee_id = ? AND document_type_id = ?", p.EmployeeID, p.DocumentTypeID).
		First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document: %w", err)
	}
	d := (&documentRow{DocumentModel: model}).toDomain()
	return &d, nil
}

func (r *documentRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]domain.Document, error) {
	return r.scan(ctx, r.joined(ctx).Where("d.employee_id = ?", employeeID).Order("d.sent_at DESC"))
}

func (r *documentRepository) List(ctx context.Context, f domain.DocumentFilter) ([]domain.Document, error) {
	query := r.joined(ctx)
	if f.EmployeeID != nil {
		query = query.Where("d.employee_id = ?", *f.EmployeeID)
	}
	if f.DocumentTypeID != nil {
		query = query.Where("d.document_type_id = ?", *f.DocumentTypeID)
	}
	if f.Status != nil {
		query = query.Where("d.status = ?", string(*f.Status))
	}
	return r.scan(ctx, query.Order("d.status ASC").Order("d.sent_at DESC"))
}

func (r *documentRepository) ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]domain.Document, error) {
	query := r.joined(ctx).Where("d.status = ?", string(status))
	if status == domain.DocumentStatusSent {
		query = query.Order("d.sent_at DESC")
	} else {
		query = query.Order("d.created_at ASC")
	}
	return r.scan(ctx, query)
}

func (r *documentRepository) Pairs(ctx context.Context, employeeIDs, typeIDs []uint) ([]domain.Pair, error) {
	query := r.getDB(ctx).Model(&DocumentModel{}).Select("employee_id", "document_type_id")
	if len(employeeIDs) > 0 {
		query = query.Where("employee_id IN ?", employeeIDs)
	}
	if len(typeIDs) > 0 {
		query = query.Where("document_type_id IN ?", typeIDs)
	}

	var rows []pairRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query submitted pairs: %w", err)
	}
	out := make([]domain.Pair, len(rows))
	for i, row := range rows {
		out[i] = domain.Pair{EmployeeID: row.EmployeeID, DocumentTypeID: row.DocumentTypeID}
	}
	return out, nil
}

func (r *documentRepository) DocumentedTypeIDs(ctx context.Context, employeeID uint, typeIDs []uint) ([]uint, error) {
	if len(typeIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.getDB(ctx).Model(&DocumentModel{}).
		Where("employee_id = ? AND document_type_id IN ?", employeeID, typeIDs).
		Pluck("document_type_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query documented types: %w", err)
	}
	return ids, nil
}

func (r *documentRepository) CountByDocumentType(ctx context.Context, typeID uint) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&DocumentModel{}).Where("document_type_id = ?", typeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return count, nil
}

func (r *documentRepository) scan(ctx context.Context, query *gorm.DB) ([]domain.Document, error) {
	var rows []documentRow
	if err := query.Scan(&rows).Error; err != nil {
		logger.Error(ctx, "document_repository.list failed", "error", err)
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	out := make([]domain.Document, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}
