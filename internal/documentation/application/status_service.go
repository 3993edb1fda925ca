package application

import (
	"context"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
)

// StatusService 汇总员工文档完成情况
type StatusService struct {
	employees    domain.EmployeeRepository
	requirements domain.RequirementRepository
	documents    domain.DocumentRepository
	rt           runtime
}

// NewStatusService 创建状态服务
func NewStatusService(
	employees domain.EmployeeRepository,
	requirements domain.RequirementRepository,
	documents domain.DocumentRepository,
	opts ...Option,
) *StatusService {
	return &StatusService{
		employees:    employees,
		requirements: requirements,
		documents:    documents,
		rt:           newRuntime(opts),
	}
}

// Get 单个员工的完成情况
func (s *StatusService) Get(ctx context.Context, employeeID uint) (*DocumentationStatusDTO, error) {
	status, err := s.status(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toStatusDTO(status), nil
}

// Multiple 逐个查询，失败条目单独记录，平均完成率只计成功结果
func (s *StatusService) Multiple(ctx context.Context, employeeIDs []uint) (*MultipleStatusDTO, error) {
	out := &MultipleStatusDTO{
		Results: make([]DocumentationStatusDTO, 0, len(employeeIDs)),
		Errors:  make([]StatusErrorDTO, 0),
	}
	succeeded := make([]domain.DocumentationStatus, 0, len(employeeIDs))

	for _, id := range employeeIDs {
		status, err := s.status(ctx, id)
		if err != nil {
			logger.Warn(ctx, "documentation status failed", "employee_id", id, "error", err)
			out.Errors = append(out.Errors, StatusErrorDTO{EmployeeID: id, Error: errorMessage(err)})
			continue
		}
		succeeded = append(succeeded, status)
		out.Results = append(out.Results, *toStatusDTO(status))
	}

	out.Summary = MultipleStatusSummaryDTO{
		Total:             len(employeeIDs),
		Successful:        len(out.Results),
		Failed:            len(out.Errors),
		AverageCompletion: domain.AverageCompletion(succeeded),
	}
	return out, nil
}

// Incomplete 全部员工中尚未完成者，整体完成率基于全体员工
func (s *StatusService) Incomplete(ctx context.Context) (*IncompleteDTO, error) {
	employees, err := s.employees.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	edges, err := s.requirements.Find(ctx, domain.RequirementFilter{})
	if err != nil {
		return nil, err
	}
	docs, err := s.documents.List(ctx, domain.DocumentFilter{})
	if err != nil {
		return nil, err
	}

	edgesByEmployee := make(map[uint][]domain.RequirementEdge)
	for _, e := range edges {
		edgesByEmployee[e.EmployeeID] = append(edgesByEmployee[e.EmployeeID], e)
	}
	docsByEmployee := make(map[uint][]domain.Document)
	for _, d := range docs {
		docsByEmployee[d.EmployeeID] = append(docsByEmployee[d.EmployeeID], d)
	}

	now := s.rt.now()
	statuses := make([]domain.DocumentationStatus, len(employees))
	for i, e := range employees {
		statuses[i] = domain.BuildStatus(e, edgesByEmployee[e.ID], docsByEmployee[e.ID], now)
	}

	incomplete, summary := domain.SummarizeIncomplete(statuses)
	out := &IncompleteDTO{
		IncompleteEmployees: make([]IncompleteEmployeeDTO, len(incomplete)),
		Summary: IncompleteSummaryDTO{
			TotalEmployees:        summary.TotalEmployees,
			IncompleteCount:       summary.IncompleteCount,
			CompleteCount:         summary.CompleteCount,
			OverallCompletionRate: summary.OverallCompletionRate,
		},
	}
	for i, e := range incomplete {
		out.IncompleteEmployees[i] = IncompleteEmployeeDTO{
			EmployeeID:           e.EmployeeID,
			EmployeeName:         e.EmployeeName,
			TotalRequired:        e.TotalRequired,
			TotalPending:         e.TotalPending,
			CompletionPercentage: e.CompletionPercentage,
			PendingDocuments:     e.PendingDocuments,
		}
	}
	return out, nil
}

func (s *StatusService) status(ctx context.Context, employeeID uint) (domain.DocumentationStatus, error) {
	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return domain.DocumentationStatus{}, err
	}
	edges, err := s.requirements.ListByEmployee(ctx, employeeID)
	if err != nil {
		return domain.DocumentationStatus{}, err
	}
	docs, err := s.documents.ListByEmployee(ctx, employeeID)
	if err != nil {
		return domain.DocumentationStatus{}, err
	}
	return domain.BuildStatus(*employee, edges, docs, s.rt.now()), nil
}
