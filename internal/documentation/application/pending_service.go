package application

import (
	"context"
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// 单个员工/文档类型视图的固定分页
const singleEntityLimit = 100

// PendingQuery 待提交推导查询
type PendingQuery struct {
	EmployeeIDs      []uint
	DocumentTypeIDs  []uint
	EmployeeName     string
	DocumentTypeName string
	MinDaysPending   *int
	MaxDaysPending   *int
	Priority         *domain.Priority
	HiredAfter       *time.Time
	HiredBefore      *time.Time
	SortBy           domain.SortKey
	SortOrder        domain.SortOrder
	Page             int
	Limit            int
}

// PendingService 推导尚未提交的文档
type PendingService struct {
	employees    domain.EmployeeRepository
	types        domain.DocumentTypeRepository
	requirements domain.RequirementRepository
	documents    domain.DocumentRepository
	rt           runtime
}

// NewPendingService 创建待提交服务
func NewPendingService(
	employees domain.EmployeeRepository,
	types domain.DocumentTypeRepository,
	requirements domain.RequirementRepository,
	documents domain.DocumentRepository,
	opts ...Option,
) *PendingService {
	return &PendingService{
		employees:    employees,
		types:        types,
		requirements: requirements,
		documents:    documents,
		rt:           newRuntime(opts),
	}
}

// Derive 求要求集合与已提交集合的差集，过滤、排序后分页；汇总基于完整结果
func (s *PendingService) Derive(ctx context.Context, q PendingQuery) (*PendingListDTO, error) {
	items, err := s.derive(ctx, q)
	if err != nil {
		return nil, err
	}

	page := utils.NewPagination(q.Page, q.Limit, len(items))
	return &PendingListDTO{
		Data:           toPendingItemDTOs(utils.Paginate(items, page)),
		Pagination:     page,
		Summary:        toPendingSummaryDTO(domain.SummarizePending(items)),
		AppliedFilters: appliedFilters(q),
	}, nil
}

// ByEmployee 单个员工的待提交文档
func (s *PendingService) ByEmployee(ctx context.Context, employeeID uint) (*EmployeePendingDTO, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	list, err := s.Derive(ctx, PendingQuery{EmployeeIDs: []uint{employeeID}, Page: 1, Limit: singleEntityLimit})
	if err != nil {
		return nil, err
	}
	return &EmployeePendingDTO{
		EmployeeID:       employeeID,
		PendingDocuments: list.Data,
		Summary:          list.Summary,
	}, nil
}

// ByDocumentType 单个文档类型的待提交文档
func (s *PendingService) ByDocumentType(ctx context.Context, documentTypeID uint) (*DocumentTypePendingDTO, error) {
	if _, err := s.types.GetByID(ctx, documentTypeID); err != nil {
		return nil, err
	}
	list, err := s.Derive(ctx, PendingQuery{DocumentTypeIDs: []uint{documentTypeID}, Page: 1, Limit: singleEntityLimit})
	if err != nil {
		return nil, err
	}
	return &DocumentTypePendingDTO{
		DocumentTypeID:   documentTypeID,
		PendingDocuments: list.Data,
		Summary:          list.Summary,
	}, nil
}

// Report 全量待提交报告，优先读取缓存
func (s *PendingService) Report(ctx context.Context) (*PendingReportDTO, error) {
	var cached PendingReportDTO
	hit, err := s.rt.cache.Get(ctx, &cached)
	if err != nil {
		logger.Warn(ctx, "failed to read pending report cache", "error", err)
	}
	if hit {
		return &cached, nil
	}

	items, err := s.derive(ctx, PendingQuery{})
	if err != nil {
		return nil, err
	}
	if len(items) > s.rt.reportLimit {
		logger.Warn(ctx, "pending report truncated", "total", len(items), "limit", s.rt.reportLimit)
		items = items[:s.rt.reportLimit]
	}

	report := toPendingReportDTO(domain.BuildPendingReport(items, s.rt.now()))
	if err := s.rt.cache.Set(ctx, report); err != nil {
		logger.Warn(ctx, "failed to cache pending report", "error", err)
	}
	return report, nil
}

func (s *PendingService) derive(ctx context.Context, q PendingQuery) ([]domain.PendingItem, error) {
	start := time.Now()
	employeeIDs := domain.UniqueIDs(q.EmployeeIDs)
	typeIDs := domain.UniqueIDs(q.DocumentTypeIDs)

	edges, err := s.requirements.Find(ctx, domain.RequirementFilter{
		EmployeeIDs:      employeeIDs,
		DocumentTypeIDs:  typeIDs,
		EmployeeName:     q.EmployeeName,
		DocumentTypeName: q.DocumentTypeName,
		HiredAfter:       q.HiredAfter,
		HiredBefore:      q.HiredBefore,
	})
	if err != nil {
		return nil, err
	}

	// 已提交组合只按标识过滤，名称与日期条件已体现在要求集合上
	submitted, err := s.documents.Pairs(ctx, employeeIDs, typeIDs)
	if err != nil {
		return nil, err
	}

	items := domain.DerivePending(edges, submitted, s.rt.now())
	items = domain.FilterPending(items, domain.PendingCriteria{
		MinDaysPending: q.MinDaysPending,
		MaxDaysPending: q.MaxDaysPending,
		Priority:       q.Priority,
	})
	domain.SortPending(items, q.SortBy, q.SortOrder)

	if s.rt.metrics != nil {
		s.rt.metrics.PendingDerivation.Observe(time.Since(start).Seconds())
	}
	logger.Debug(ctx, "pending documents derived",
		"requirements", len(edges),
		"submitted", len(submitted),
		"pending", len(items),
	)
	return items, nil
}

// appliedFilters 回显实际生效的查询条件
func appliedFilters(q PendingQuery) map[string]any {
	filters := map[string]any{}
	if len(q.EmployeeIDs) > 0 {
		filters["employee_ids"] = domain.UniqueIDs(q.EmployeeIDs)
	}
	if len(q.DocumentTypeIDs) > 0 {
		filters["document_type_ids"] = domain.UniqueIDs(q.DocumentTypeIDs)
	}
	if q.EmployeeName != "" {
		filters["employee_name"] = q.EmployeeName
	}
	if q.DocumentTypeName != "" {
		filters["document_type_name"] = q.DocumentTypeName
	}
	if q.MinDaysPending != nil {
		filters["min_days_pending"] = *q.MinDaysPending
	}
	if q.MaxDaysPending != nil {
		filters["max_days_pending"] = *q.MaxDaysPending
	}
	if q.Priority != nil {
		filters["priority"] = *q.Priority
	}
	if q.HiredAfter != nil {
		filters["hired_after"] = q.HiredAfter.Format(time.DateOnly)
	}
	if q.HiredBefore != nil {
		filters["hired_before"] = q.HiredBefore.Format(time.DateOnly)
	}

	sortBy, sortOrder := q.SortBy, q.SortOrder
	if sortBy == "" {
		sortBy = domain.SortByPriority
	}
	if sortOrder == "" {
		sortOrder = domain.SortDesc
	}
	filters["sort_by"] = sortBy
	filters["sort_order"] = sortOrder
	return filters
}

func toPendingReportDTO(r domain.PendingReport) *PendingReportDTO {
	out := &PendingReportDTO{
		Overview:       toPendingSummaryDTO(r.Overview),
		ByEmployee:     make([]ReportEmployeeDTO, len(r.ByEmployee)),
		ByDocumentType: make([]ReportDocumentTypeDTO, len(r.ByDocumentType)),
		GeneratedAt:    r.GeneratedAt,
	}
	for i, ep := range r.ByEmployee {
		out.ByEmployee[i] = ReportEmployeeDTO{
			EmployeeID:       ep.EmployeeID,
			EmployeeName:     ep.EmployeeName,
			PendingCount:     ep.PendingCount,
			PendingDocuments: ep.PendingDocuments,
		}
	}
	for i, tp := range r.ByDocumentType {
		out.ByDocumentType[i] = ReportDocumentTypeDTO{
			DocumentTypeID:    tp.DocumentTypeID,
			DocumentTypeName:  tp.DocumentTypeName,
			PendingCount:      tp.PendingCount,
			AffectedEmployees: tp.AffectedEmployees,
		}
	}
	return out
}
