package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// 超过该天数的最早待提交项会出现在 next actions 中
const priorityCalloutDays = 7

// StatusItem 单个要求的提交情况
type StatusItem struct {
	DocumentTypeID   uint
	DocumentTypeName string
	Status           DocumentStatus
	DocumentID       *uint
	DocumentName     string
	SentAt           *time.Time
	PendingSince     time.Time
}

// DocumentationStatus 员工文档完成情况
type DocumentationStatus struct {
	EmployeeID           uint
	EmployeeName         string
	TotalRequired        int
	TotalSent            int
	TotalPending         int
	CompletionPercentage int
	Documents            []StatusItem
	IsComplete           bool
	NextActions          []string
}

// PendingTypeNames 返回待提交的类型名称
func (s DocumentationStatus) PendingTypeNames() []string {
	names := make([]string, 0, s.TotalPending)
	for _, item := range s.Documents {
		if item.Status == DocumentStatusPending {
			names = append(names, item.DocumentTypeName)
		}
	}
	return names
}

// BuildStatus 将要求集合与已提交文档一一对应并汇总
func BuildStatus(employee Employee, edges []RequirementEdge, docs []Document, now time.Time) DocumentationStatus {
	edges = slices.Clone(edges)
	slices.SortStableFunc(edges, func(a, b RequirementEdge) int {
		return strings.Compare(a.DocumentTypeName, b.DocumentTypeName)
	})

	byType := make(map[uint]Document, len(docs))
	for _, d := range docs {
		if _, ok := byType[d.DocumentTypeID]; !ok {
			byType[d.DocumentTypeID] = d
		}
	}

	status := DocumentationStatus{
		EmployeeID:   employee.ID,
		EmployeeName: employee.Name,
		Documents:    make([]StatusItem, 0, len(edges)),
	}

	for _, e := range edges {
		item := StatusItem{
			DocumentTypeID:   e.DocumentTypeID,
			DocumentTypeName: e.DocumentTypeName,
			Status:           DocumentStatusPending,
			PendingSince:     e.CreatedAt,
		}
		if d, ok := byType[e.DocumentTypeID]; ok {
			id := d.ID
			item.Status = DocumentStatusSent
			item.DocumentID = &id
			item.DocumentName = d.Name
			item.SentAt = d.SentAt
			status.TotalSent++
		}
		status.Documents = append(status.Documents, item)
	}

	status.TotalRequired = len(edges)
	status.TotalPending = status.TotalRequired - status.TotalSent
	status.CompletionPercentage = RoundRatio(status.TotalSent, status.TotalRequired, 100, 100)
	status.IsComplete = status.TotalPending == 0
	status.NextActions = nextActions(status, now)
	return status
}

func nextActions(status DocumentationStatus, now time.Time) []string {
	if status.IsComplete {
		return []string{"All required documents have been submitted"}
	}

	var oldest *StatusItem
	for i := range status.Documents {
		item := &status.Documents[i]
		if item.Status != DocumentStatusPending {
			continue
		}
		if oldest == nil || item.PendingSince.Before(oldest.PendingSince) {
			oldest = item
		}
	}

	actions := []string{
		fmt.Sprintf("Submit the following documents: %s", strings.Join(status.PendingTypeNames(), ", ")),
	}
	if oldest != nil {
		if days := DaysSince(oldest.PendingSince, now); days > priorityCalloutDays {
			actions = append(actions, fmt.Sprintf("Priority: %s has been pending for %d days", oldest.DocumentTypeName, days))
		}
	}
	return actions
}

// IncompleteEmployee 未完成员工概要
type IncompleteEmployee struct {
	EmployeeID           uint
	EmployeeName         string
	TotalRequired        int
	TotalPending         int
	CompletionPercentage int
	PendingDocuments     []string
}

// IncompleteSummary 全员完成情况
type IncompleteSummary struct {
	TotalEmployees        int
	IncompleteCount       int
	CompleteCount         int
	OverallCompletionRate int
}

// SummarizeIncomplete 从全部员工的状态中挑出未完成者
func SummarizeIncomplete(statuses []DocumentationStatus) ([]IncompleteEmployee, IncompleteSummary) {
	incomplete := make([]IncompleteEmployee, 0)
	for _, s := range statuses {
		if s.IsComplete {
			continue
		}
		incomplete = append(incomplete, IncompleteEmployee{
			EmployeeID:           s.EmployeeID,
			EmployeeName:         s.EmployeeName,
			TotalRequired:        s.TotalRequired,
			TotalPending:         s.TotalPending,
			CompletionPercentage: s.CompletionPercentage,
			PendingDocuments:     s.PendingTypeNames(),
		})
	}

	total := len(statuses)
	complete := total - len(incomplete)
	return incomplete, IncompleteSummary{
		TotalEmployees:        total,
		IncompleteCount:       len(incomplete),
		CompleteCount:         complete,
		OverallCompletionRate: RoundRatio(complete, total, 100, 100),
	}
}

// AverageCompletion 成功结果的平均完成率，无结果时为 0
func AverageCompletion(statuses []DocumentationStatus) int {
	sum := 0
	for _, s := range statuses {
		sum += s.CompletionPercentage
	}
	return RoundRatio(sum, len(statuses), 1, 0)
}
