package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
)

// DocumentTypeService 文档类型管理
type DocumentTypeService struct {
	types        domain.DocumentTypeRepository
	requirements domain.RequirementRepository
	documents    domain.DocumentRepository
	rt           runtime
}

// NewDocumentTypeService 创建文档类型服务
func NewDocumentTypeService(
	types domain.DocumentTypeRepository,
	requirements domain.RequirementRepository,
	documents domain.DocumentRepository,
	opts ...Option,
) *DocumentTypeService {
	return &DocumentTypeService{
		types:        types,
		requirements: requirements,
		documents:    documents,
		rt:           newRuntime(opts),
	}
}

// Create 创建文档类型，名称大小写不敏感唯一
func (s *DocumentTypeService) Create(ctx context.Context, name string) (*DocumentTypeDTO, error) {
	dt, err := domain.NewDocumentType(name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameAvailable(ctx, dt.Name, 0); err != nil {
		return nil, err
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.types.Create(txCtx, dt); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentTypeCreated, dt)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "document type created", "document_type_id", dt.ID, "name", dt.Name)
	return toDocumentTypeDTO(dt), nil
}

// Update 重命名文档类型，名称未变化时跳过唯一性检查
func (s *DocumentTypeService) Update(ctx context.Context, id uint, name string) (*DocumentTypeDTO, error) {
	dt, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == dt.Name {
		return toDocumentTypeDTO(dt), nil
	}
	if err := domain.ValidateDocumentTypeName(name); err != nil {
		return nil, err
	}
	if !strings.EqualFold(name, dt.Name) {
		if err := s.ensureNameAvailable(ctx, name, dt.ID); err != nil {
			return nil, err
		}
	}
	dt.Name = name

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.types.Update(txCtx, dt); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentTypeUpdated, dt)
	})
	if err != nil {
		return nil, err
	}

	s.rt.invalidateReport(ctx)
	return toDocumentTypeDTO(dt), nil
}

// Get 获取文档类型
func (s *DocumentTypeService) Get(ctx context.Context, id uint) (*DocumentTypeDTO, error) {
	dt, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentTypeDTO(dt), nil
}

// List 按名称列出全部文档类型
func (s *DocumentTypeService) List(ctx context.Context) ([]DocumentTypeDTO, error) {
	types, err := s.types.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentTypeDTO, len(types))
	for i := range types {
		out[i] = *toDocumentTypeDTO(&types[i])
	}
	return out, nil
}

// Delete 删除文档类型，存在关联或文档时拒绝
func (s *DocumentTypeService) Delete(ctx context.Context, id uint) error {
	dt, err := s.types.GetByID(ctx, id)
	if err != nil {
		return err
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		edges, err := s.requirements.CountByDocumentType(txCtx, id)
		if err != nil {
			return err
		}
		if edges > 0 {
			return domain.ConflictError(domain.ErrDocumentTypeInUse,
				"cannot delete document type %d: it is associated with %d employee(s)", id, edges)
		}

		docs, err := s.documents.CountByDocumentType(txCtx, id)
		if err != nil {
			return err
		}
		if docs > 0 {
			return domain.ConflictError(domain.ErrDocumentTypeInUse,
				"cannot delete document type %d: %d document(s) reference it", id, docs)
		}

		if err := s.types.Delete(txCtx, id); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentTypeDeleted, dt)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "document type deleted", "document_type_id", id)
	return nil
}

func (s *DocumentTypeService) ensureNameAvailable(ctx context.Context, name string, selfID uint) error {
	existing, err := s.types.FindByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ConflictError(domain.ErrDuplicateDocumentTypeName, "document type with name %q already exists", name)
	}
	return nil
}

func (s *DocumentTypeService) publish(ctx context.Context, eventType string, dt *domain.DocumentType) error {
	err := s.rt.publisher.Publish(ctx, eventType, strconv.FormatUint(uint64(dt.ID), 10), domain.DocumentTypeEvent{
		DocumentTypeID: dt.ID,
		Name:           dt.Name,
		Timestamp:      s.rt.now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
