// Package http 员工文档服务的 HTTP 接口
package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/employeedocs/internal/documentation/application"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// Services 处理器依赖的应用服务
type Services struct {
	Employees     *application.EmployeeService
	DocumentTypes *application.DocumentTypeService
	Associations  *application.AssociationService
	Documents     *application.DocumentService
	Pending       *application.PendingService
	Status        *application.StatusService
}

// Handler HTTP 处理器
type Handler struct {
	svc Services
}

// NewHandler 创建 HTTP 处理器
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes 注册 /api/v1 下的全部路由
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api/v1")

	employees := api.Group("/employees")
	{
		employees.POST("", h.CreateEmployee)
		employees.GET("", h.ListEmployees)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", h.UpdateEmployee)

		employees.POST("/:id/document-types", h.Associate)
		employees.DELETE("/:id/document-types", h.Disassociate)
		employees.GET("/:id/document-types", h.ListAssociations)

		employees.POST("/:id/documents", h.SubmitDocument)
		employees.GET("/:id/documents", h.ListEmployeeDocuments)
		employees.POST("/:id/documents/upload-url", h.RequestUploadURL)
		employees.PUT("/:id/documents/:documentTypeId", h.ResubmitDocument)

		employees.GET("/:id/documentation-status", h.GetStatus)
	}

	bulk := api.Group("/bulk-associations")
	{
		bulk.POST("/associate", h.BulkAssociate)
		bulk.DELETE("/disassociate", h.BulkDisassociate)
	}

	types := api.Group("/document-types")
	{
		types.POST("", h.CreateDocumentType)
		types.GET("", h.ListDocumentTypes)
		types.GET("/:id", h.GetDocumentType)
		types.PUT("/:id", h.UpdateDocumentType)
		types.DELETE("/:id", h.DeleteDocumentType)
	}

	documents := api.Group("/documents")
	{
		documents.GET("", h.ListDocuments)
		documents.GET("/by-status/:status", h.ListDocumentsByStatus)
		documents.GET("/:id", h.GetDocument)
		documents.DELETE("/:id", h.DeleteDocument)
		documents.PATCH("/:id/status", h.UpdateDocumentStatus)
	}

	pending := api.Group("/pending-documents")
	{
		pending.GET("", h.DerivePending)
		pending.GET("/report", h.PendingReport)
		pending.GET("/employee/:employeeId", h.PendingByEmployee)
		pending.GET("/document-type/:documentTypeId", h.PendingByDocumentType)
	}

	status := api.Group("/documentation-status")
	{
		status.POST("/multiple", h.MultipleStatus)
		status.GET("/incomplete", h.IncompleteStatus)
	}
}

// pathID 解析正整数路径参数，失败时直接写入 400
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: name + " must be a positive integer",
			Code:  utils.CodeBadRequest,
		})
		return 0, false
	}
	return uint(id), true
}
