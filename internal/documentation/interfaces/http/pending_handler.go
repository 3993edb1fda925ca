package http

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/internal/documentation/application"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

const (
	defaultPendingLimit = 10
	maxPendingLimit     = 100
)

// MultipleStatusRequest 批量状态查询
type MultipleStatusRequest struct {
	EmployeeIDs []uint `json:"employee_ids" binding:"required,min=1,dive,gt=0"`
}

// DerivePending 推导待提交文档
func (h *Handler) DerivePending(c *gin.Context) {
	q, err := parsePendingQuery(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.svc.Pending.Derive(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

// PendingReport 全量待提交报告
func (h *Handler) PendingReport(c *gin.Context) {
	report, err := h.svc.Pending.Report(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, report)
}

// PendingByEmployee 单个员工的待提交文档
func (h *Handler) PendingByEmployee(c *gin.Context) {
	id, ok := pathID(c, "employeeId")
	if !ok {
		return
	}
	dto, err := h.svc.Pending.ByEmployee(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// PendingByDocumentType 单个文档类型的待提交情况
func (h *Handler) PendingByDocumentType(c *gin.Context) {
	id, ok := pathID(c, "documentTypeId")
	if !ok {
		return
	}
	dto, err := h.svc.Pending.ByDocumentType(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// GetStatus 员工文档完成情况
func (h *Handler) GetStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dto, err := h.svc.Status.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// MultipleStatus 多个员工的完成情况，单个失败记入 errors
func (h *Handler) MultipleStatus(c *gin.Context) {
	var req MultipleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Status.Multiple(c.Request.Context(), req.EmployeeIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// IncompleteStatus 列出未完成的员工
func (h *Handler) IncompleteStatus(c *gin.Context) {
	dto, err := h.svc.Status.Incomplete(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// parsePendingQuery 解析 /pending-documents 的查询参数
func parsePendingQuery(c *gin.Context) (application.PendingQuery, error) {
	q := application.PendingQuery{
		EmployeeName:     strings.TrimSpace(c.Query("employee_name")),
		DocumentTypeName: strings.TrimSpace(c.Query("document_type_name")),
		Page:             1,
		Limit:            defaultPendingLimit,
	}

	var err error
	if q.EmployeeIDs, err = queryIDs(c, "employee_ids"); err != nil {
		return q, err
	}
	if q.DocumentTypeIDs, err = queryIDs(c, "document_type_ids"); err != nil {
		return q, err
	}
	// 单数形式与复数形式合并
	single, err := queryIDs(c, "employee_id")
	if err != nil {
		return q, err
	}
	q.EmployeeIDs = append(q.EmployeeIDs, single...)
	if single, err = queryIDs(c, "document_type_id"); err != nil {
		return q, err
	}
	q.DocumentTypeIDs = append(q.DocumentTypeIDs, single...)
	if q.MinDaysPending, err = queryInt(c, "min_days_pending", 0); err != nil {
		return q, err
	}
	if q.MaxDaysPending, err = queryInt(c, "max_days_pending", 0); err != nil {
		return q, err
	}

	page, err := queryInt(c, "page", 1)
	if err != nil {
		return q, err
	}
	if page != nil {
		q.Page = *page
	}
	limit, err := queryInt(c, "limit", 1)
	if err != nil {
		return q, err
	}
	if limit != nil {
		if *limit > maxPendingLimit {
			return q, fmt.Errorf("limit must not exceed %d", maxPendingLimit)
		}
		q.Limit = *limit
	}

	if raw := c.Query("priority"); raw != "" {
		p, ok := domain.ParsePriority(raw)
		if !ok {
			return q, fmt.Errorf("priority must be one of LOW, MEDIUM, HIGH")
		}
		q.Priority = &p
	}
	if raw := c.Query("sort_by"); raw != "" {
		key := domain.SortKey(raw)
		if !slices.Contains(domain.SortKeys, key) {
			return q, fmt.Errorf("sort_by must be one of %s", joinSortKeys())
		}
		q.SortBy = key
	}
	if raw := c.Query("sort_order"); raw != "" {
		order := domain.SortOrder(strings.ToLower(raw))
		if order != domain.SortAsc && order != domain.SortDesc {
			return q, fmt.Errorf("sort_order must be asc or desc")
		}
		q.SortOrder = order
	}

	if q.HiredAfter, err = queryDate(c, "hired_after"); err != nil {
		return q, err
	}
	if q.HiredBefore, err = queryDate(c, "hired_before"); err != nil {
		return q, err
	}
	return q, nil
}

// queryIDs 支持 ?ids=1&ids=2 与 ?ids=1,2 两种写法
func queryIDs(c *gin.Context, name string) ([]uint, error) {
	var ids []uint
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 32)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("%s must contain positive integers", name)
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}

func queryInt(c *gin.Context, name string, min int) (*int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	if n < min {
		return nil, fmt.Errorf("%s must be at least %d", name, min)
	}
	return &n, nil
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &t, nil
}

func joinSortKeys() string {
	keys := make([]string, len(domain.SortKeys))
	for i, k := range domain.SortKeys {
		keys[i] = string(k)
	}
	return strings.Join(keys, ", ")
}
