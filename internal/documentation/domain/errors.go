package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// 领域错误哨兵，通过 errors.Is 判断
var (
	ErrEmployeeNotFound          = errors.New("employee not found")
	ErrDocumentTypeNotFound      = errors.New("document type not found")
	ErrAssociationNotFound       = errors.New("association not found")
	ErrDocumentNotFound          = errors.New("document not found")
	ErrDuplicateEmployeeDocument = errors.New("employee document already registered")
	ErrDuplicateDocumentTypeName = errors.New("document type name already exists")
	ErrAssociationExists         = errors.New("employee already associated with document types")
	ErrDocumentAlreadySubmitted  = errors.New("document already submitted")
	ErrAssociationHasDocuments   = errors.New("cannot disassociate document types with submitted documents")
	ErrDocumentTypeInUse         = errors.New("document type is in use")
	ErrDuplicateBulkPair         = errors.New("duplicate employee/document type pair in request")
	ErrNotAssociated             = errors.New("employee is not required to submit this document type")
	ErrStatusUnchanged           = errors.New("document already has this status")
	ErrInvalidCPF                = errors.New("invalid CPF")
	ErrInvalidHireDate           = errors.New("invalid hire date")
	ErrInvalidDocumentName       = errors.New("invalid document name")
	ErrInvalidEmployeeName       = errors.New("invalid employee name")
	ErrInvalidDocumentTypeName   = errors.New("invalid document type name")
	ErrInvalidStatus             = errors.New("invalid document status")
)

// NotFoundError 资源不存在，details 携带缺失的 id
func NotFoundError(sentinel error, format string, args ...any) error {
	return kindError(utils.CodeNotFound, sentinel, format, args...)
}

// ConflictError 资源冲突
func ConflictError(sentinel error, format string, args ...any) error {
	return kindError(utils.CodeConflict, sentinel, format, args...)
}

// BadRequestError 输入关系不合法
func BadRequestError(sentinel error, format string, args ...any) error {
	return kindError(utils.CodeBadRequest, sentinel, format, args...)
}

func kindError(code string, sentinel error, format string, args ...any) error {
	message := sentinel.Error()
	if format != "" {
		message = fmt.Sprintf(format, args...)
	}
	return utils.NewErrorWrapper(code, message, sentinel)
}

// WithIDs 为错误附加 id 列表详情
func WithIDs(err error, key string, ids []uint) error {
	var ew *utils.ErrorWrapper
	if errors.As(err, &ew) {
		ew.WithDetails(map[string][]uint{key: ids})
	}
	return err
}

// JoinIDs 以 ", " 拼接 id
func JoinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ", ")
}
