package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/internal/documentation/application"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

// AssociationRequest 关联或解除关联请求
type AssociationRequest struct {
	DocumentTypeIDs []uint `json:"document_type_ids" binding:"required,min=1,unique,dive,gt=0"`
}

// BulkAssociationItem 批量请求中的单个员工
type BulkAssociationItem struct {
	EmployeeID      uint   `json:"employee_id" binding:"required,gt=0"`
	DocumentTypeIDs []uint `json:"document_type_ids" binding:"required,min=1,unique,dive,gt=0"`
}

// BulkAssociationRequest 批量关联请求
type BulkAssociationRequest struct {
	Associations []BulkAssociationItem `json:"associations" binding:"required,min=1,dive"`
}

// SubmitDocumentRequest 提交文档请求
type SubmitDocumentRequest struct {
	DocumentTypeID uint   `json:"document_type_id" binding:"required,gt=0"`
	Name           string `json:"name" binding:"required,filename"`
}

// ResubmitDocumentRequest 重新提交请求
type ResubmitDocumentRequest struct {
	Name string `json:"name" binding:"required,filename"`
}

// UploadURLRequest 预签名上传请求
type UploadURLRequest struct {
	DocumentTypeID uint   `json:"document_type_id" binding:"required,gt=0"`
	FileName       string `json:"file_name" binding:"required,filename"`
	ContentType    string `json:"content_type"`
}

// UpdateStatusRequest 修改文档状态请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=SENT PENDING"`
}

// ListDocumentsRequest 文档列表过滤条件
type ListDocumentsRequest struct {
	EmployeeID     *uint   `form:"employee_id" binding:"omitempty,gt=0"`
	DocumentTypeID *uint   `form:"document_type_id" binding:"omitempty,gt=0"`
	Status         *string `form:"status" binding:"omitempty,oneof=SENT PENDING"`
}

// Associate 为员工关联文档类型
func (h *Handler) Associate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Associations.Associate(c.Request.Context(), id, req.DocumentTypeIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, dto)
}

// Disassociate 解除员工与文档类型的关联
func (h *Handler) Disassociate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Associations.Disassociate(c.Request.Context(), id, req.DocumentTypeIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// ListAssociations 列出员工已关联的文档类型
func (h *Handler) ListAssociations(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dto, err := h.svc.Associations.List(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// BulkAssociate 批量关联，单项失败不影响其他项
func (h *Handler) BulkAssociate(c *gin.Context) {
	items, ok := bindBulk(c)
	if !ok {
		return
	}
	result, err := h.svc.Associations.BulkAssociate(c.Request.Context(), items)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, result)
}

// BulkDisassociate 批量解除关联
func (h *Handler) BulkDisassociate(c *gin.Context) {
	items, ok := bindBulk(c)
	if !ok {
		return
	}
	result, err := h.svc.Associations.BulkDisassociate(c.Request.Context(), items)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, result)
}

func bindBulk(c *gin.Context) ([]domain.BulkItem, bool) {
	var req BulkAssociationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return nil, false
	}
	items := make([]domain.BulkItem, len(req.Associations))
	for i, a := range req.Associations {
		items[i] = domain.BulkItem{EmployeeID: a.EmployeeID, DocumentTypeIDs: a.DocumentTypeIDs}
	}
	return items, true
}

// SubmitDocument 提交文档
func (h *Handler) SubmitDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req SubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Documents.Submit(c.Request.Context(), application.SubmitDocumentCommand{
		EmployeeID:     id,
		DocumentTypeID: req.DocumentTypeID,
		Name:           req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusCreated, dto)
}

// ResubmitDocument 重新提交未处于 SENT 状态的文档
func (h *Handler) ResubmitDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	typeID, ok := pathID(c, "documentTypeId")
	if !ok {
		return
	}
	var req ResubmitDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Documents.Resubmit(c.Request.Context(), application.SubmitDocumentCommand{
		EmployeeID:     id,
		DocumentTypeID: typeID,
		Name:           req.Name,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// ListEmployeeDocuments 列出员工全部文档
func (h *Handler) ListEmployeeDocuments(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	docs, err := h.svc.Documents.ListByEmployee(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, docs)
}

// RequestUploadURL 申请预签名上传地址
func (h *Handler) RequestUploadURL(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Documents.RequestUploadURL(c.Request.Context(), application.UploadURLCommand{
		EmployeeID:     id,
		DocumentTypeID: req.DocumentTypeID,
		FileName:       req.FileName,
		ContentType:    req.ContentType,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// ListDocuments 按条件过滤文档
func (h *Handler) ListDocuments(c *gin.Context) {
	var req ListDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}

	q := application.ListDocumentsQuery{EmployeeID: req.EmployeeID, DocumentTypeID: req.DocumentTypeID}
	if req.Status != nil {
		status := domain.DocumentStatus(*req.Status)
		q.Status = &status
	}

	list, err := h.svc.Documents.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, list)
}

// ListDocumentsByStatus 按状态列出文档
func (h *Handler) ListDocumentsByStatus(c *gin.Context) {
	status, err := domain.ParseDocumentStatus(c.Param("status"))
	if err != nil {
		badRequest(c, err)
		return
	}
	docs, err := h.svc.Documents.ListByStatus(c.Request.Context(), status)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, docs)
}

// GetDocument 获取文档
func (h *Handler) GetDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dto, err := h.svc.Documents.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}

// DeleteDocument 删除文档
func (h *Handler) DeleteDocument(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Documents.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"message": "document deleted", "id": id})
}

// UpdateDocumentStatus 修改文档状态
func (h *Handler) UpdateDocumentStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	dto, err := h.svc.Documents.UpdateStatus(c.Request.Context(), id, domain.DocumentStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	success(c, http.StatusOK, dto)
}
