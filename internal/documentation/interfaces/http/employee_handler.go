package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/internal/documentation/application"
)

// CreateEmployeeRequest 创建员工请求
type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required,personname"`
	Document string `json:"document" binding:"required,cpf"`
	HiredAt  string `json:"hired_at" binding:"required,notfuture,businessday"`
}

// UpdateEmployeeRequest 更新员工请求，缺省字段保持不变
type UpdateEmployeeRequest struct {
	Name     *string `json:"name" binding:"omitempty,personname"`
	Document *string `json:"document" binding:"omitempty,cpf"`
	HiredAt  *string `json:"hired_at" binding:"omitempty,notfuture,businessday"`
}

// ListEmployeesRequest 员工列表查询参数
type ListEmployeesRequest struct {
	Page  int    `form:"page" binding:"omitempty,min=1"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Name  string `form:"name"`
}

// DocumentTypeRequest 创建或更新文档类型
type DocumentTypeRequest struct {
	Name string `json:"name" binding:"required,typename"`
}

// CreateEmployee 创建员工
func (h *Handler) CreateEmployee(c *gin.Context) {
	var req CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	hiredAt, err := parseDate(req.HiredAt)
	if err != nil {
		badRequest(c, err)
		return
	}

	dto, err := h.svc.Employees.Create(c.Request.Context(), application.CreateEmployeeCommand{
		Name:     req.Name,
		Document: req.Document,
		HiredAt:  hiredAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, dto)
}

// ListEmployees 分页列出员工
func (h *Handler) ListEmployees(c *gin.Context) {
	var req ListEmployeesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.svc.Employees.List(c.Request.Context(), application.ListEmployeesQuery{
		Page:  req.Page,
		Limit: req.Limit,
		Name:  req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

// GetEmployee 获取员工
func (h *Handler) GetEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dto, err := h.svc.Employees.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// UpdateEmployee 更新员工
func (h *Handler) UpdateEmployee(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	cmd := application.UpdateEmployeeCommand{Name: req.Name, Document: req.Document}
	if req.HiredAt != nil {
		hiredAt, err := parseDate(*req.HiredAt)
		if err != nil {
			badRequest(c, err)
			return
		}
		cmd.HiredAt = &hiredAt
	}

	dto, err := h.svc.Employees.Update(c.Request.Context(), id, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// CreateDocumentType 创建文档类型
func (h *Handler) CreateDocumentType(c *gin.Context) {
	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.DocumentTypes.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, dto)
}

// ListDocumentTypes 按名称列出文档类型
func (h *Handler) ListDocumentTypes(c *gin.Context) {
	list, err := h.svc.DocumentTypes.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

// GetDocumentType 获取文档类型
func (h *Handler) GetDocumentType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dto, err := h.svc.DocumentTypes.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// UpdateDocumentType 重命名文档类型
func (h *Handler) UpdateDocumentType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req DocumentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.DocumentTypes.Update(c.Request.Context(), id, req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// DeleteDocumentType 删除未被引用的文档类型
func (h *Handler) DeleteDocumentType(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DocumentTypes.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"message": "document type deleted", "id": id})
}
