package domain

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Priority 待提交优先级，仅由等待天数决定
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// 优先级阈值（天）
const (
	HighPriorityDays   = 30
	MediumPriorityDays = 14
)

// PriorityForDays 30 天及以上为 HIGH，14 天及以上为 MEDIUM，否则 LOW
func PriorityForDays(days int) Priority {
	switch {
	case days >= HighPriorityDays:
		return PriorityHigh
	case days >= MediumPriorityDays:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Rank 排序权重 HIGH=3 MEDIUM=2 LOW=1
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// ParsePriority 解析优先级，大小写不敏感
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.Rank() > 0
}

// SortKey 待提交列表排序字段
type SortKey string

const (
	SortByEmployeeName     SortKey = "employee_name"
	SortByDocumentTypeName SortKey = "document_type_name"
	SortByDaysPending      SortKey = "days_pending"
	SortByPriority         SortKey = "priority"
	SortByPendingSince     SortKey = "pending_since"
	SortByHiredAt          SortKey = "hired_at"
)

// SortKeys 全部可用排序字段
var SortKeys = []SortKey{
	SortByEmployeeName,
	SortByDocumentTypeName,
	SortByDaysPending,
	SortByPriority,
	SortByPendingSince,
	SortByHiredAt,
}

// SortOrder 排序方向
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// PendingItem 一条未满足的提交要求
type PendingItem struct {
	EmployeeID       uint
	EmployeeName     string
	EmployeeDocument string
	EmployeeHiredAt  time.Time
	DocumentTypeID   uint
	DocumentTypeName string
	PendingSince     time.Time
	DaysPending      int
	Priority         Priority
}

// DaysSince 返回 since 到 now 的整天数（向下取整）
func DaysSince(since, now time.Time) int {
	const day = 24 * time.Hour
	d := now.Sub(since)
	days := int(d / day)
	if d < 0 && d%day != 0 {
		days--
	}
	return days
}

// DerivePending 求要求集合与已提交集合的差集，保持 edges 的原有顺序
func DerivePending(edges []RequirementEdge, submitted []Pair, now time.Time) []PendingItem {
	done := make(map[Pair]struct{}, len(submitted))
	for _, p := range submitted {
		done[p] = struct{}{}
	}

	items := make([]PendingItem, 0, len(edges))
	for _, e := range edges {
		if _, ok := done[e.Pair()]; ok {
			continue
		}
		days := DaysSince(e.CreatedAt, now)
		items = append(items, PendingItem{
			EmployeeID:       e.EmployeeID,
			EmployeeName:     e.EmployeeName,
			EmployeeDocument: e.EmployeeDocument,
			EmployeeHiredAt:  e.EmployeeHiredAt,
			DocumentTypeID:   e.DocumentTypeID,
			DocumentTypeName: e.DocumentTypeName,
			PendingSince:     e.CreatedAt,
			DaysPending:      days,
			Priority:         PriorityForDays(days),
		})
	}
	return items
}

// PendingCriteria 依赖推导字段的后置过滤条件，边界均为闭区间
type PendingCriteria struct {
	MinDaysPending *int
	MaxDaysPending *int
	Priority       *Priority
}

// Match 判断条目是否满足条件
func (c PendingCriteria) Match(item PendingItem) bool {
	if c.MinDaysPending != nil && item.DaysPending < *c.MinDaysPending {
		return false
	}
	if c.MaxDaysPending != nil && item.DaysPending > *c.MaxDaysPending {
		return false
	}
	if c.Priority != nil && item.Priority != *c.Priority {
		return false
	}
	return true
}

// FilterPending 应用后置过滤
func FilterPending(items []PendingItem, c PendingCriteria) []PendingItem {
	out := make([]PendingItem, 0, len(items))
	for _, item := range items {
		if c.Match(item) {
			out = append(out, item)
		}
	}
	return out
}

// SortPending 稳定排序，相等元素保持原有顺序；空值默认按 priority 降序
func SortPending(items []PendingItem, key SortKey, order SortOrder) {
	if key == "" {
		key = SortByPriority
	}
	if order == "" {
		order = SortDesc
	}

	compare := comparatorFor(key)
	if order == SortDesc {
		slices.SortStableFunc(items, func(a, b PendingItem) int { return compare(b, a) })
		return
	}
	slices.SortStableFunc(items, compare)
}

func comparatorFor(key SortKey) func(a, b PendingItem) int {
	switch key {
	case SortByEmployeeName:
		return func(a, b PendingItem) int { return strings.Compare(a.EmployeeName, b.EmployeeName) }
	case SortByDocumentTypeName:
		return func(a, b PendingItem) int { return strings.Compare(a.DocumentTypeName, b.DocumentTypeName) }
	case SortByDaysPending:
		return func(a, b PendingItem) int { return cmp.Compare(a.DaysPending, b.DaysPending) }
	case SortByPendingSince:
		return func(a, b PendingItem) int { return a.PendingSince.Compare(b.PendingSince) }
	case SortByHiredAt:
		return func(a, b PendingItem) int { return a.EmployeeHiredAt.Compare(b.EmployeeHiredAt) }
	default:
		return func(a, b PendingItem) int { return cmp.Compare(a.Priority.Rank(), b.Priority.Rank()) }
	}
}

// PriorityBreakdown 各优先级数量
type PriorityBreakdown struct {
	High   int
	Medium int
	Low    int
}

// PendingSummary 基于完整过滤结果的汇总，与分页无关
type PendingSummary struct {
	TotalPending       int
	UniqueEmployees    int
	AverageDaysPending int
	PriorityBreakdown  PriorityBreakdown
}

// SummarizePending 计算汇总
func SummarizePending(items []PendingItem) PendingSummary {
	var s PendingSummary
	employees := make(map[uint]struct{})
	totalDays := 0

	for _, item := range items {
		employees[item.EmployeeID] = struct{}{}
		totalDays += item.DaysPending
		switch item.Priority {
		case PriorityHigh:
			s.PriorityBreakdown.High++
		case PriorityMedium:
			s.PriorityBreakdown.Medium++
		case PriorityLow:
			s.PriorityBreakdown.Low++
		}
	}

	s.TotalPending = len(items)
	s.UniqueEmployees = len(employees)
	s.AverageDaysPending = RoundRatio(totalDays, len(items), 1, 0)
	return s
}

// EmployeePending 报告中按员工分组的统计
type EmployeePending struct {
	EmployeeID       uint
	EmployeeName     string
	PendingCount     int
	PendingDocuments []string
}

// DocumentTypePending 报告中按文档类型分组的统计
type DocumentTypePending struct {
	DocumentTypeID    uint
	DocumentTypeName  string
	PendingCount      int
	AffectedEmployees int
}

// PendingReport 待提交报告
type PendingReport struct {
	Overview       PendingSummary
	ByEmployee     []EmployeePending
	ByDocumentType []DocumentTypePending
	GeneratedAt    time.Time
}

// BuildPendingReport 对同一推导结果做两种独立分组，分组按 id 升序
func BuildPendingReport(items []PendingItem, now time.Time) PendingReport {
	byEmployee := make(map[uint]*EmployeePending)
	byType := make(map[uint]*DocumentTypePending)
	affected := make(map[uint]map[uint]struct{})

	for _, item := range items {
		ep, ok := byEmployee[item.EmployeeID]
		if !ok {
			ep = &EmployeePending{EmployeeID: item.EmployeeID, EmployeeName: item.EmployeeName}
			byEmployee[item.EmployeeID] = ep
		}
		ep.PendingCount++
		ep.PendingDocuments = append(ep.PendingDocuments, item.DocumentTypeName)

		tp, ok := byType[item.DocumentTypeID]
		if !ok {
			tp = &DocumentTypePending{DocumentTypeID: item.DocumentTypeID, DocumentTypeName: item.DocumentTypeName}
			byType[item.DocumentTypeID] = tp
			affected[item.DocumentTypeID] = make(map[uint]struct{})
		}
		tp.PendingCount++
		affected[item.DocumentTypeID][item.EmployeeID] = struct{}{}
	}

	report := PendingReport{
		Overview:       SummarizePending(items),
		ByEmployee:     make([]EmployeePending, 0, len(byEmployee)),
		ByDocumentType: make([]DocumentTypePending, 0, len(byType)),
		GeneratedAt:    now,
	}
	for _, ep := range byEmployee {
		report.ByEmployee = append(report.ByEmployee, *ep)
	}
	for id, tp := range byType {
		tp.AffectedEmployees = len(affected[id])
		report.ByDocumentType = append(report.ByDocumentType, *tp)
	}
	slices.SortFunc(report.ByEmployee, func(a, b EmployeePending) int { return cmp.Compare(a.EmployeeID, b.EmployeeID) })
	slices.SortFunc(report.ByDocumentType, func(a, b DocumentTypePending) int { return cmp.Compare(a.DocumentTypeID, b.DocumentTypeID) })
	return report
}
