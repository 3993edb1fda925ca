package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// ErrorResponse 统一错误响应体
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

var statusByCode = map[string]int{
	utils.CodeNotFound:   http.StatusNotFound,
	utils.CodeConflict:   http.StatusConflict,
	utils.CodeBadRequest: http.StatusBadRequest,
}

func success(c *gin.Context, status int, data any) {
	c.JSON(status, data)
}

// writeError 按错误码映射 HTTP 状态，未分类错误只返回通用信息
func writeError(c *gin.Context, err error) {
	var ew *utils.ErrorWrapper
	if errors.As(err, &ew) {
		if status, ok := statusByCode[ew.Code]; ok {
			c.JSON(status, ErrorResponse{Error: ew.Message, Code: ew.Code, Details: ew.Details})
			return
		}
	}

	logger.Error(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error: "internal server error",
		Code:  utils.CodeInternal,
	})
}

// badRequest 绑定或参数解析失败
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    utils.CodeBadRequest,
			Details: fieldErrors(verrs),
		})
		return
	}

	var ew *utils.ErrorWrapper
	if errors.As(err, &ew) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ew.Message, Code: utils.CodeBadRequest, Details: ew.Details})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: utils.CodeBadRequest})
}

// FieldError 单个字段的校验失败
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func fieldErrors(verrs validator.ValidationErrors) []FieldError {
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: ruleMessage(fe),
		})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "cpf":
		return "invalid CPF format"
	case "notfuture":
		return "date cannot be in the future"
	case "businessday":
		return "date must be a business day"
	case "filename":
		return "document name must be a valid filename with extension"
	case "personname":
		return "name must contain only letters, spaces, apostrophes, periods and hyphens"
	case "typename":
		return "document type name must contain only letters, numbers, spaces and basic punctuation (- _ . ())"
	case "min", "max", "len":
		return fe.Field() + " must satisfy " + fe.Tag() + "=" + fe.Param()
	case "unique":
		return fe.Field() + " must not contain duplicates"
	case "oneof":
		return fe.Field() + " must be one of " + fe.Param()
	}
	return fe.Field() + " is invalid"
}
