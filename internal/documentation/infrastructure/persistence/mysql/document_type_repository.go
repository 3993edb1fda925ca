package mysql

import (
	"context"
	"fmt"
	"strings"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"gorm.io/gorm"
)

type documentTypeRepository struct {
	base
}

// NewDocumentTypeRepository 创建文档类型仓储
func NewDocumentTypeRepository(db *gorm.DB) domain.DocumentTypeRepository {
	return &documentTypeRepository{base{db: db}}
}

func (r *documentTypeRepository) Create(ctx context.Context, dt *domain.DocumentType) error {
	model := toDocumentTypeModel(dt)
	if err := r.getDB(ctx).Create(model).Error; err != nil {
		if isDuplicate(err) {
			return domain.ConflictError(domain.ErrDuplicateDocumentTypeName, "document type with name %q already exists", dt.Name)
		}
		logger.Error(ctx, "document_type_repository.create failed", "error", err)
		return fmt.Errorf("failed to create document type: %w", err)
	}
	dt.ID, dt.CreatedAt, dt.UpdatedAt = model.ID, model.CreatedAt, model.UpdatedAt
	return nil
}

func (r *documentTypeRepository) Update(ctx context.Context, dt *domain.DocumentType) error {
	model := toDocumentTypeModel(dt)
	if err := r.getDB(ctx).Model(model).Select("name", "updated_at").Updates(model).Error; err != nil {
		if isDuplicate(err) {
			return domain.ConflictError(domain.ErrDuplicateDocumentTypeName, "document type with name %q already exists", dt.Name)
		}
		logger.Error(ctx, "document_type_repository.update failed", "document_type_id", dt.ID, "error", err)
		return fmt.Errorf("failed to update document type: %w", err)
	}
	dt.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *documentTypeRepository) Delete(ctx context.Context, id uint) error {
	res := r.getDB(ctx).Delete(&DocumentTypeModel{}, id)
	if res.Error != nil {
		logger.Error(ctx, "document_type_repository.delete failed", "document_type_id", id, "error", res.Error)
		return fmt.Errorf("failed to delete document type: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundError(domain.ErrDocumentTypeNotFound, "document type with id %d not found", id)
	}
	return nil
}

func (r *documentTypeRepository) GetByID(ctx context.Context, id uint) (*domain.DocumentType, error) {
	var model DocumentTypeModel
	if err := r.getDB(ctx).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.NotFoundError(domain.ErrDocumentTypeNotFound, "document type with id %d not found", id)
		}
		return nil, fmt.Errorf("failed to get document type: %w", err)
	}
	return toDocumentType(&model), nil
}

func (r *documentTypeRepository) FindByName(ctx context.Context, name string) (*domain.DocumentType, error) {
	var model DocumentTypeModel
	err := r.getDB(ctx).Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).First(&model).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find document type by name: %w", err)
	}
	return toDocumentType(&model), nil
}

func (r *documentTypeRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.DocumentType, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []DocumentTypeModel
	if err := r.getDB(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find document types: %w", err)
	}
	return toDocumentTypes(models), nil
}

func (r *documentTypeRepository) List(ctx context.Context) ([]domain.DocumentType, error) {
	var models []DocumentTypeModel
	if err := r.getDB(ctx).Order("name ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}
	return toDocumentTypes(models), nil
}

func toDocumentTypes(models []DocumentTypeModel) []domain.DocumentType {
	out := make([]domain.DocumentType, len(models))
	for i := range models {
		out[i] = *toDocumentType(&models[i])
	}
	return out
}
