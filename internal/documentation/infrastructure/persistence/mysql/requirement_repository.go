package mysql

import (
	"context"
	"fmt"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const requirementColumns = "edt.employee_id, edt.document_type_id, edt.created_at, " +
	"e.name AS employee_name, e.document AS employee_document, e.hired_at AS employee_hired_at, " +
	"dt.name AS document_type_name"

// 要求行上不存在文档，用于原子条件删除
const noDocumentCondition = "NOT EXISTS (SELECT 1 FROM documents d " +
	"WHERE d.employee_id = employee_document_types.employee_id " +
	"AND d.document_type_id = employee_document_types.document_type_id)"

type requirementRepository struct {
	base
}

// NewRequirementRepository 创建要求仓储
func NewRequirementRepository(db *gorm.DB) domain.RequirementRepository {
	return &requirementRepository{base{db: db}}
}

func (r *requirementRepository) joined(ctx context.Context) *gorm.DB {
	return r.getDB(ctx).
		Table("employee_document_types AS edt").
		Select(requirementColumns).
		Joins("JOIN employees e ON e.id = edt.employee_id").
		Joins("JOIN document_types dt ON dt.id = edt.document_type_id")
}

func (r *requirementRepository) Find(ctx context.Context, f domain.RequirementFilter) ([]domain.RequirementEdge, error) {
	query := r.joined(ctx)
	if len(f.EmployeeIDs) > 0 {
		query = query.Where("edt.employee_id IN ?", f.EmployeeIDs)
	}
	if len(f.DocumentTypeIDs) > 0 {
		query = query.Where("edt.document_type_id IN ?", f.DocumentTypeIDs)
	}
	if f.EmployeeName != "" {
		query = query.Where("LOWER(e.name)"+likeEscape, likePattern(f.EmployeeName))
	}
	if f.DocumentTypeName != "" {
		query = query.Where("LOWER(dt.name)"+likeEscape, likePattern(f.DocumentTypeName))
	}
	if f.HiredAfter != nil {
		query = query.Where("e.hired_at >= ?", *f.HiredAfter)
	}
	if f.HiredBefore != nil {
		query = query.Where("e.hired_at <= ?", *f.HiredBefore)
	}

	var rows []requirementRow
	if err := query.Order("edt.employee_id ASC").Order("edt.document_type_id ASC").Scan(&rows).Error; err != nil {
		logger.Error(ctx, "requirement_repository.find failed", "error", err)
		return nil, fmt.Errorf("failed to find requirements: %w", err)
	}
	return toEdges(rows), nil
}

func (r *requirementRepository) ListByEmployee(ctx context.Context, employeeID uint) ([]domain.RequirementEdge, error) {
	var rows []requirementRow
	err := r.joined(ctx).
		Where("edt.employee_id = ?", employeeID).
		Order("dt.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list employee requirements: %w", err)
	}
	return toEdges(rows), nil
}

func (r *requirementRepository) ExistingTypeIDs(ctx context.Context, employeeID uint, typeIDs []uint) ([]uint, error) {
	if len(typeIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.getDB(ctx).Model(&RequirementModel{}).
		Where("employee_id = ? AND document_type_id IN ?", employeeID, typeIDs).
		Pluck("document_type_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query existing requirements: %w", err)
	}
	return ids, nil
}

func (r *requirementRepository) Exists(ctx context.Context, p domain.Pair) (bool, error) {
	var count int64
	err := r.getDB(ctx).Model(&RequirementModel{}).
		Where("employee_id = ? AND document_type_id = ?", p.EmployeeID, p.DocumentTypeID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check requirement: %w", err)
	}
	return count > 0, nil
}

func (r *requirementRepository) Create(ctx context.Context, edges []domain.RequirementEdge) error {
	if len(edges) == 0 {
		return nil
	}
	models := make([]RequirementModel, len(edges))
	for i, e := range edges {
		models[i] = RequirementModel{EmployeeID: e.EmployeeID, DocumentTypeID: e.DocumentTypeID, CreatedAt: e.CreatedAt}
	}

	if err := r.getDB(ctx).Omit(clause.Associations).Create(&models).Error; err != nil {
		if isDuplicate(err) {
			return domain.ConflictError(domain.ErrAssociationExists, "")
		}
		logger.Error(ctx, "requirement_repository.create failed", "employee_id", edges[0].EmployeeID, "error", err)
		return fmt.Errorf("failed to create requirements: %w", err)
	}
	return nil
}

// DeleteUndocumented 检查与删除在同一条语句中完成
func (r *requirementRepository) DeleteUndocumented(ctx context.Context, employeeID uint, typeIDs []uint) (int64, error) {
	if len(typeIDs) == 0 {
		return 0, nil
	}
	res := r.getDB(ctx).
		Where("employee_id = ? AND document_type_id IN ?", employeeID, typeIDs).
		Where(noDocumentCondition).
		Delete(&RequirementModel{})
	if res.Error != nil {
		logger.Error(ctx, "requirement_repository.delete failed", "employee_id", employeeID, "error", res.Error)
		return 0, fmt.Errorf("failed to delete requirements: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *requirementRepository) CountByDocumentType(ctx context.Context, typeID uint) (int64, error) {
	var count int64
	if err := r.getDB(ctx).Model(&RequirementModel{}).Where("document_type_id = ?", typeID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count requirements: %w", err)
	}
	return count, nil
}

func toEdges(rows []requirementRow) []domain.RequirementEdge {
	out := make([]domain.RequirementEdge, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
