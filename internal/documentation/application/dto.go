package application

import (
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// EmployeeDTO 员工
type EmployeeDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Document  string    `json:"document"`
	HiredAt   time.Time `json:"hired_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmployeeListDTO 员工分页列表
type EmployeeListDTO struct {
	Data       []EmployeeDTO    `json:"data"`
	Pagination utils.Pagination `json:"pagination"`
}

func toEmployeeDTO(e *domain.Employee) *EmployeeDTO {
	return &EmployeeDTO{
		ID:        e.ID,
		Name:      e.Name,
		Document:  e.Document,
		HiredAt:   e.HiredAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// DocumentTypeDTO 文档类型
type DocumentTypeDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toDocumentTypeDTO(dt *domain.DocumentType) *DocumentTypeDTO {
	return &DocumentTypeDTO{
		ID:        dt.ID,
		Name:      dt.Name,
		CreatedAt: dt.CreatedAt,
		UpdatedAt: dt.UpdatedAt,
	}
}

// AssociatedTypeDTO 已关联文档类型
type AssociatedTypeDTO struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name"`
	AssociatedAt time.Time `json:"associated_at"`
}

// AssociationsDTO 员工关联集合
type AssociationsDTO struct {
	EmployeeID    uint                `json:"employee_id"`
	EmployeeName  string              `json:"employee_name"`
	DocumentTypes []AssociatedTypeDTO `json:"document_types"`
}

// BulkSuccessDTO 批量操作的成功条目
type BulkSuccessDTO struct {
	EmployeeID      uint   `json:"employee_id"`
	DocumentTypeIDs []uint `json:"document_type_ids"`
	Message         string `json:"message"`
}

// BulkErrorDTO 批量操作的失败或诊断条目
type BulkErrorDTO struct {
	EmployeeID      uint   `json:"employee_id"`
	DocumentTypeIDs []uint `json:"document_type_ids,omitempty"`
	Error           string `json:"error"`
}

// BulkSummaryDTO 批量操作汇总，successful + failed = total
type BulkSummaryDTO struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BulkResultDTO 批量操作结果
type BulkResultDTO struct {
	Successful []BulkSuccessDTO `json:"successful"`
	Errors     []BulkErrorDTO   `json:"errors"`
	Summary    BulkSummaryDTO   `json:"summary"`
}

// DocumentDTO 文档
type DocumentDTO struct {
	ID               uint                  `json:"id"`
	EmployeeID       uint                  `json:"employee_id"`
	EmployeeName     string                `json:"employee_name,omitempty"`
	DocumentTypeID   uint                  `json:"document_type_id"`
	DocumentTypeName string                `json:"document_type_name,omitempty"`
	Name             string                `json:"name"`
	Status           domain.DocumentStatus `json:"status"`
	SentAt           *time.Time            `json:"sent_at"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

func toDocumentDTO(d *domain.Document) *DocumentDTO {
	return &DocumentDTO{
		ID:               d.ID,
		EmployeeID:       d.EmployeeID,
		EmployeeName:     d.EmployeeName,
		DocumentTypeID:   d.DocumentTypeID,
		DocumentTypeName: d.DocumentTypeName,
		Name:             d.Name,
		Status:           d.Status,
		SentAt:           d.SentAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func toDocumentDTOs(docs []domain.Document) []DocumentDTO {
	out := make([]DocumentDTO, len(docs))
	for i := range docs {
		out[i] = *toDocumentDTO(&docs[i])
	}
	return out
}

// DocumentSummaryDTO 文档汇总
type DocumentSummaryDTO struct {
	Total   int `json:"total"`
	Sent    int `json:"sent"`
	Pending int `json:"pending"`
}

// DocumentListDTO 文档列表
type DocumentListDTO struct {
	Data    []DocumentDTO      `json:"data"`
	Summary DocumentSummaryDTO `json:"summary"`
}

// UploadURLDTO 预签名上传信息
type UploadURLDTO struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expires_at"`
}

// PendingItemDTO 待提交条目
type PendingItemDTO struct {
	EmployeeID       uint            `json:"employee_id"`
	EmployeeName     string          `json:"employee_name"`
	EmployeeDocument string          `json:"employee_document"`
	EmployeeHiredAt  time.Time       `json:"employee_hired_at"`
	DocumentTypeID   uint            `json:"document_type_id"`
	DocumentTypeName string          `json:"document_type_name"`
	PendingSince     time.Time       `json:"pending_since"`
	DaysPending      int             `json:"days_pending"`
	Priority         domain.Priority `json:"priority"`
}

// PriorityBreakdownDTO 优先级分布
type PriorityBreakdownDTO struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// PendingSummaryDTO 待提交汇总
type PendingSummaryDTO struct {
	TotalPendingDocuments int                  `json:"total_pending_documents"`
	UniqueEmployees       int                  `json:"unique_employees"`
	AverageDaysPending    int                  `json:"average_days_pending"`
	PriorityBreakdown     PriorityBreakdownDTO `json:"priority_breakdown"`
}

// PendingListDTO 待提交分页结果
type PendingListDTO struct {
	Data           []PendingItemDTO  `json:"data"`
	Pagination     utils.Pagination  `json:"pagination"`
	Summary        PendingSummaryDTO `json:"summary"`
	AppliedFilters map[string]any    `json:"applied_filters"`
}

// EmployeePendingDTO 单个员工的待提交
type EmployeePendingDTO struct {
	EmployeeID       uint              `json:"employee_id"`
	PendingDocuments []PendingItemDTO  `json:"pending_documents"`
	Summary          PendingSummaryDTO `json:"summary"`
}

// DocumentTypePendingDTO 单个文档类型的待提交
type DocumentTypePendingDTO struct {
	DocumentTypeID   uint              `json:"document_type_id"`
	PendingDocuments []PendingItemDTO  `json:"pending_documents"`
	Summary          PendingSummaryDTO `json:"summary"`
}

// ReportEmployeeDTO 报告中的员工分组
type ReportEmployeeDTO struct {
	EmployeeID       uint     `json:"employee_id"`
	EmployeeName     string   `json:"employee_name"`
	PendingCount     int      `json:"pending_count"`
	PendingDocuments []string `json:"pending_documents"`
}

// ReportDocumentTypeDTO 报告中的文档类型分组
type ReportDocumentTypeDTO struct {
	DocumentTypeID    uint   `json:"document_type_id"`
	DocumentTypeName  string `json:"document_type_name"`
	PendingCount      int    `json:"pending_count"`
	AffectedEmployees int    `json:"affected_employees"`
}

// PendingReportDTO 待提交报告
type PendingReportDTO struct {
	Overview       PendingSummaryDTO       `json:"overview"`
	ByEmployee     []ReportEmployeeDTO     `json:"by_employee"`
	ByDocumentType []ReportDocumentTypeDTO `json:"by_document_type"`
	GeneratedAt    time.Time               `json:"generated_at"`
}

func toPendingItemDTOs(items []domain.PendingItem) []PendingItemDTO {
	out := make([]PendingItemDTO, len(items))
	for i, item := range items {
		out[i] = PendingItemDTO{
			EmployeeID:       item.EmployeeID,
			EmployeeName:     item.EmployeeName,
			EmployeeDocument: item.EmployeeDocument,
			EmployeeHiredAt:  item.EmployeeHiredAt,
			DocumentTypeID:   item.DocumentTypeID,
			DocumentTypeName: item.DocumentTypeName,
			PendingSince:     item.PendingSince,
			DaysPending:      item.DaysPending,
			Priority:         item.Priority,
		}
	}
	return out
}

func toPendingSummaryDTO(s domain.PendingSummary) PendingSummaryDTO {
	return PendingSummaryDTO{
		TotalPendingDocuments: s.TotalPending,
		UniqueEmployees:       s.UniqueEmployees,
		AverageDaysPending:    s.AverageDaysPending,
		PriorityBreakdown: PriorityBreakdownDTO{
			High:   s.PriorityBreakdown.High,
			Medium: s.PriorityBreakdown.Medium,
			Low:    s.PriorityBreakdown.Low,
		},
	}
}

// StatusItemDTO 单个要求的提交情况
type StatusItemDTO struct {
	DocumentTypeID   uint                  `json:"document_type_id"`
	DocumentTypeName string                `json:"document_type_name"`
	Status           domain.DocumentStatus `json:"status"`
	DocumentID       *uint                 `json:"document_id,omitempty"`
	DocumentName     string                `json:"document_name,omitempty"`
	SentAt           *time.Time            `json:"sent_at,omitempty"`
	PendingSince     time.Time             `json:"pending_since"`
}

// StatusSummaryDTO 状态摘要
type StatusSummaryDTO struct {
	IsComplete  bool     `json:"is_complete"`
	NextActions []string `json:"next_actions"`
}

// DocumentationStatusDTO 员工文档完成情况
type DocumentationStatusDTO struct {
	EmployeeID           uint             `json:"employee_id"`
	EmployeeName         string           `json:"employee_name"`
	TotalRequired        int              `json:"total_required"`
	TotalSent            int              `json:"total_sent"`
	TotalPending         int              `json:"total_pending"`
	CompletionPercentage int              `json:"completion_percentage"`
	Documents            []StatusItemDTO  `json:"documents"`
	Summary              StatusSummaryDTO `json:"summary"`
}

func toStatusDTO(s domain.DocumentationStatus) *DocumentationStatusDTO {
	items := make([]StatusItemDTO, len(s.Documents))
	for i, item := range s.Documents {
		items[i] = StatusItemDTO{
			DocumentTypeID:   item.DocumentTypeID,
			DocumentTypeName: item.DocumentTypeName,
			Status:           item.Status,
			DocumentID:       item.DocumentID,
			DocumentName:     item.DocumentName,
			SentAt:           item.SentAt,
			PendingSince:     item.PendingSince,
		}
	}
	return &DocumentationStatusDTO{
		EmployeeID:           s.EmployeeID,
		EmployeeName:         s.EmployeeName,
		TotalRequired:        s.TotalRequired,
		TotalSent:            s.TotalSent,
		TotalPending:         s.TotalPending,
		CompletionPercentage: s.CompletionPercentage,
		Documents:            items,
		Summary: StatusSummaryDTO{
			IsComplete:  s.IsComplete,
			NextActions: s.NextActions,
		},
	}
}

// StatusErrorDTO 批量状态查询中的失败条目
type StatusErrorDTO struct {
	EmployeeID uint   `json:"employee_id"`
	Error      string `json:"error"`
}

// MultipleStatusSummaryDTO 批量状态汇总
type MultipleStatusSummaryDTO struct {
	Total             int `json:"total"`
	Successful        int `json:"successful"`
	Failed            int `json:"failed"`
	AverageCompletion int `json:"average_completion"`
}

// MultipleStatusDTO 批量状态结果
type MultipleStatusDTO struct {
	Results []DocumentationStatusDTO `json:"results"`
	Errors  []StatusErrorDTO         `json:"errors"`
	Summary MultipleStatusSummaryDTO `json:"summary"`
}

// IncompleteEmployeeDTO 未完成员工
type IncompleteEmployeeDTO struct {
	EmployeeID           uint     `json:"employee_id"`
	EmployeeName         string   `json:"employee_name"`
	TotalRequired        int      `json:"total_required"`
	TotalPending         int      `json:"total_pending"`
	CompletionPercentage int      `json:"completion_percentage"`
	PendingDocuments     []string `json:"pending_documents"`
}

// IncompleteSummaryDTO 全员完成情况
type IncompleteSummaryDTO struct {
	TotalEmployees        int `json:"total_employees"`
	IncompleteCount       int `json:"incomplete_count"`
	CompleteCount         int `json:"complete_count"`
	OverallCompletionRate int `json:"overall_completion_rate"`
}

// IncompleteDTO 未完成员工列表
type IncompleteDTO struct {
	IncompleteEmployees []IncompleteEmployeeDTO `json:"incomplete_employees"`
	Summary             IncompleteSummaryDTO    `json:"summary"`
}
