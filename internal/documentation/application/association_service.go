package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// AssociationService 维护员工与文档类型之间的提交要求
type AssociationService struct {
	employees    domain.EmployeeRepository
	types        domain.DocumentTypeRepository
	requirements domain.RequirementRepository
	documents    domain.DocumentRepository
	rt           runtime
}

// NewAssociationService 创建关联服务
func NewAssociationService(
	employees domain.EmployeeRepository,
	types domain.DocumentTypeRepository,
	requirements domain.RequirementRepository,
	documents domain.DocumentRepository,
	opts ...Option,
) *AssociationService {
	return &AssociationService{
		employees:    employees,
		types:        types,
		requirements: requirements,
		documents:    documents,
		rt:           newRuntime(opts),
	}
}

// List 返回员工当前关联的文档类型，按名称升序
func (s *AssociationService) List(ctx context.Context, employeeID uint) (*AssociationsDTO, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.associations(ctx, employee)
}

// Associate 为员工新增提交要求，任一类型不存在或已关联则整体失败
func (s *AssociationService) Associate(ctx context.Context, employeeID uint, typeIDs []uint) (*AssociationsDTO, error) {
	typeIDs = domain.UniqueIDs(typeIDs)
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureTypesExist(txCtx, typeIDs); err != nil {
			return err
		}

		existing, err := s.requirements.ExistingTypeIDs(txCtx, employeeID, typeIDs)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return domain.WithIDs(domain.ConflictError(domain.ErrAssociationExists,
				"employee already associated with document types: %s", domain.JoinIDs(existing)), "document_type_ids", existing)
		}

		return s.createEdges(txCtx, employeeID, typeIDs)
	})
	if err != nil {
		return nil, err
	}

	s.rt.invalidateReport(ctx)
	s.rt.countAssociations("created", len(typeIDs))
	logger.Info(ctx, "document types associated", "employee_id", employeeID, "document_type_ids", typeIDs)
	return s.associations(ctx, employee)
}

// Disassociate 移除提交要求，仍有文档的组合禁止移除
func (s *AssociationService) Disassociate(ctx context.Context, employeeID uint, typeIDs []uint) (*AssociationsDTO, error) {
	typeIDs = domain.UniqueIDs(typeIDs)
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		existing, err := s.requirements.ExistingTypeIDs(txCtx, employeeID, typeIDs)
		if err != nil {
			return err
		}
		_, missing := domain.SplitIDs(typeIDs, toSet(existing))
		if len(missing) > 0 {
			return domain.WithIDs(domain.NotFoundError(domain.ErrAssociationNotFound,
				"associations not found for document types: %s", domain.JoinIDs(missing)), "document_type_ids", missing)
		}

		documented, err := s.documents.DocumentedTypeIDs(txCtx, employeeID, typeIDs)
		if err != nil {
			return err
		}
		if len(documented) > 0 {
			return blockedError(documented)
		}

		return s.deleteEdges(txCtx, employeeID, typeIDs)
	})
	if err != nil {
		return nil, err
	}

	s.rt.invalidateReport(ctx)
	s.rt.countAssociations("removed", len(typeIDs))
	logger.Info(ctx, "document types disassociated", "employee_id", employeeID, "document_type_ids", typeIDs)
	return s.associations(ctx, employee)
}

// BulkAssociate 逐条处理批量关联，单条失败不影响其余条目
func (s *AssociationService) BulkAssociate(ctx context.Context, items []domain.BulkItem) (*BulkResultDTO, error) {
	if err := rejectDuplicatePairs(items); err != nil {
		return nil, err
	}

	result := newBulkResult(len(items))
	for _, item := range items {
		success, diagnostic, err := s.bulkAssociateItem(ctx, item)
		result.add(item, success, diagnostic, err)
		if err != nil {
			logger.Warn(ctx, "bulk association item failed", "employee_id", item.EmployeeID, "error", err)
		}
	}

	s.rt.invalidateReport(ctx)
	s.rt.countBulkFailures("associate", result.Summary.Failed)
	return result.finish(), nil
}

func (s *AssociationService) bulkAssociateItem(ctx context.Context, item domain.BulkItem) (*BulkSuccessDTO, *BulkErrorDTO, error) {
	typeIDs := domain.UniqueIDs(item.DocumentTypeIDs)
	var created, already []uint

	err := s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.employees.GetByID(txCtx, item.EmployeeID); err != nil {
			return err
		}
		if err := s.ensureTypesExist(txCtx, typeIDs); err != nil {
			return err
		}

		existing, err := s.requirements.ExistingTypeIDs(txCtx, item.EmployeeID, typeIDs)
		if err != nil {
			return err
		}
		already, created = domain.SplitIDs(typeIDs, toSet(existing))
		if len(created) == 0 {
			return domain.ConflictError(domain.ErrAssociationExists,
				"employee already associated with all document types: %s", domain.JoinIDs(already))
		}
		return s.createEdges(txCtx, item.EmployeeID, created)
	})
	if err != nil {
		return nil, nil, err
	}

	s.rt.countAssociations("created", len(created))
	success := &BulkSuccessDTO{
		EmployeeID:      item.EmployeeID,
		DocumentTypeIDs: created,
		Message:         fmt.Sprintf("associated %d document type(s)", len(created)),
	}
	var diagnostic *BulkErrorDTO
	if len(already) > 0 {
		diagnostic = &BulkErrorDTO{
			EmployeeID:      item.EmployeeID,
			DocumentTypeIDs: already,
			Error:           fmt.Sprintf("already associated with document types: %s", domain.JoinIDs(already)),
		}
	}
	return success, diagnostic, nil
}

// BulkDisassociate 逐条处理批量取消关联，有文档或不存在的组合作为诊断信息返回
func (s *AssociationService) BulkDisassociate(ctx context.Context, items []domain.BulkItem) (*BulkResultDTO, error) {
	if err := rejectDuplicatePairs(items); err != nil {
		return nil, err
	}

	result := newBulkResult(len(items))
	for _, item := range items {
		success, diagnostic, err := s.bulkDisassociateItem(ctx, item)
		result.add(item, success, diagnostic, err)
		if err != nil {
			logger.Warn(ctx, "bulk disassociation item failed", "employee_id", item.EmployeeID, "error", err)
		}
	}

	s.rt.invalidateReport(ctx)
	s.rt.countBulkFailures("disassociate", result.Summary.Failed)
	return result.finish(), nil
}

func (s *AssociationService) bulkDisassociateItem(ctx context.Context, item domain.BulkItem) (*BulkSuccessDTO, *BulkErrorDTO, error) {
	typeIDs := domain.UniqueIDs(item.DocumentTypeIDs)
	var removable, missing, documented []uint

	err := s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if _, err := s.employees.GetByID(txCtx, item.EmployeeID); err != nil {
			return err
		}

		existing, err := s.requirements.ExistingTypeIDs(txCtx, item.EmployeeID, typeIDs)
		if err != nil {
			return err
		}
		var present []uint
		present, missing = domain.SplitIDs(typeIDs, toSet(existing))
		if len(present) == 0 {
			return domain.NotFoundError(domain.ErrAssociationNotFound, "no associations found to remove")
		}

		documented, err = s.documents.DocumentedTypeIDs(txCtx, item.EmployeeID, present)
		if err != nil {
			return err
		}
		removable, _ = domain.SplitIDs(present, complement(present, documented))
		if len(removable) == 0 {
			return blockedError(documented)
		}
		return s.deleteEdges(txCtx, item.EmployeeID, removable)
	})
	if err != nil {
		return nil, nil, err
	}

	s.rt.countAssociations("removed", len(removable))
	success := &BulkSuccessDTO{
		EmployeeID:      item.EmployeeID,
		DocumentTypeIDs: removable,
		Message:         fmt.Sprintf("disassociated %d document type(s)", len(removable)),
	}

	var diagnostic *BulkErrorDTO
	skipped := append(append([]uint(nil), missing...), documented...)
	if len(skipped) > 0 {
		msg := ""
		if len(missing) > 0 {
			msg = fmt.Sprintf("associations not found for document types: %s", domain.JoinIDs(missing))
		}
		if len(documented) > 0 {
			if msg != "" {
				msg += "; "
			}
			msg += fmt.Sprintf("document types with submitted documents were kept: %s", domain.JoinIDs(documented))
		}
		diagnostic = &BulkErrorDTO{EmployeeID: item.EmployeeID, DocumentTypeIDs: skipped, Error: msg}
	}
	return success, diagnostic, nil
}

func (s *AssociationService) ensureTypesExist(ctx context.Context, typeIDs []uint) error {
	found, err := s.types.FindByIDs(ctx, typeIDs)
	if err != nil {
		return err
	}
	known := make(map[uint]bool, len(found))
	for _, dt := range found {
		known[dt.ID] = true
	}
	if _, missing := domain.SplitIDs(typeIDs, known); len(missing) > 0 {
		return domain.WithIDs(domain.NotFoundError(domain.ErrDocumentTypeNotFound,
			"document types not found: %s", domain.JoinIDs(missing)), "document_type_ids", missing)
	}
	return nil
}

// createEdges 同一批要求使用同一创建时间
func (s *AssociationService) createEdges(ctx context.Context, employeeID uint, typeIDs []uint) error {
	createdAt := s.rt.now()
	edges := make([]domain.RequirementEdge, len(typeIDs))
	for i, id := range typeIDs {
		edges[i] = domain.RequirementEdge{EmployeeID: employeeID, DocumentTypeID: id, CreatedAt: createdAt}
	}
	if err := s.requirements.Create(ctx, edges); err != nil {
		return err
	}
	return s.publish(ctx, domain.EventAssociationCreated, employeeID, typeIDs)
}

// deleteEdges 删除与检查在存储层原子完成，实际删除数不足说明存在并发提交
func (s *AssociationService) deleteEdges(ctx context.Context, employeeID uint, typeIDs []uint) error {
	deleted, err := s.requirements.DeleteUndocumented(ctx, employeeID, typeIDs)
	if err != nil {
		return err
	}
	if deleted != int64(len(typeIDs)) {
		return domain.ConflictError(domain.ErrAssociationHasDocuments,
			"associations changed concurrently for employee %d; retry the request", employeeID)
	}
	return s.publish(ctx, domain.EventAssociationRemoved, employeeID, typeIDs)
}

func (s *AssociationService) associations(ctx context.Context, employee *domain.Employee) (*AssociationsDTO, error) {
	edges, err := s.requirements.ListByEmployee(ctx, employee.ID)
	if err != nil {
		return nil, err
	}
	out := &AssociationsDTO{
		EmployeeID:    employee.ID,
		EmployeeName:  employee.Name,
		DocumentTypes: make([]AssociatedTypeDTO, len(edges)),
	}
	for i, e := range edges {
		out.DocumentTypes[i] = AssociatedTypeDTO{ID: e.DocumentTypeID, Name: e.DocumentTypeName, AssociatedAt: e.CreatedAt}
	}
	return out, nil
}

func (s *AssociationService) publish(ctx context.Context, eventType string, employeeID uint, typeIDs []uint) error {
	err := s.rt.publisher.Publish(ctx, eventType, strconv.FormatUint(uint64(employeeID), 10), domain.AssociationEvent{
		EmployeeID:      employeeID,
		DocumentTypeIDs: typeIDs,
		Timestamp:       s.rt.now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}

func rejectDuplicatePairs(items []domain.BulkItem) error {
	dups := domain.FindDuplicatePairs(items)
	if len(dups) == 0 {
		return nil
	}
	first := dups[0]
	return domain.BadRequestError(domain.ErrDuplicateBulkPair,
		"duplicate association for employee %d and document type %d", first.EmployeeID, first.DocumentTypeID)
}

func blockedError(documented []uint) error {
	return domain.WithIDs(domain.ConflictError(domain.ErrAssociationHasDocuments,
		"cannot disassociate document types with submitted documents: %s", domain.JoinIDs(documented)), "document_type_ids", documented)
}

func toSet(ids []uint) map[uint]bool {
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// complement 返回 all 中不属于 exclude 的 id 集合
func complement(all, exclude []uint) map[uint]bool {
	set := toSet(all)
	for _, id := range exclude {
		delete(set, id)
	}
	return set
}

// bulkResult 累积批量结果，每个条目至多计入一次成功
type bulkResult struct {
	BulkResultDTO
}

func newBulkResult(total int) *bulkResult {
	return &bulkResult{BulkResultDTO{
		Successful: make([]BulkSuccessDTO, 0, total),
		Errors:     make([]BulkErrorDTO, 0),
		Summary:    BulkSummaryDTO{Total: total},
	}}
}

func (r *bulkResult) add(item domain.BulkItem, success *BulkSuccessDTO, diagnostic *BulkErrorDTO, err error) {
	if err != nil {
		r.Errors = append(r.Errors, BulkErrorDTO{
			EmployeeID:      item.EmployeeID,
			DocumentTypeIDs: item.DocumentTypeIDs,
			Error:           errorMessage(err),
		})
		r.Summary.Failed++
		return
	}
	r.Successful = append(r.Successful, *success)
	r.Summary.Successful++
	if diagnostic != nil {
		r.Errors = append(r.Errors, *diagnostic)
	}
}

func (r *bulkResult) finish() *BulkResultDTO {
	return &r.BulkResultDTO
}

// errorMessage 业务错误返回其消息，其他错误不对外暴露细节
func errorMessage(err error) string {
	var ew *utils.ErrorWrapper
	if errors.As(err, &ew) && ew.Code != utils.CodeInternal {
		return ew.Message
	}
	return "internal error"
}
