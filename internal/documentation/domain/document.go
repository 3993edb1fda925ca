package domain

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// DocumentStatus 文档状态
type DocumentStatus string

const (
	DocumentStatusSent    DocumentStatus = "SENT"
	DocumentStatusPending DocumentStatus = "PENDING"
)

// ParseDocumentStatus 解析状态字符串
func ParseDocumentStatus(s string) (DocumentStatus, error) {
	switch DocumentStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case DocumentStatusSent:
		return DocumentStatusSent, nil
	case DocumentStatusPending:
		return DocumentStatusPending, nil
	}
	return "", BadRequestError(ErrInvalidStatus, "status must be one of SENT, PENDING")
}

// Document 员工针对某文档类型提交的文件，每个组合最多一条
type Document struct {
	ID             uint
	EmployeeID     uint
	DocumentTypeID uint
	Name           string
	Status         DocumentStatus
	SentAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	DocumentTypeName string
	EmployeeName     string
}

// Pair 返回组合键
func (d Document) Pair() Pair {
	return Pair{EmployeeID: d.EmployeeID, DocumentTypeID: d.DocumentTypeID}
}

var documentNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\x{00C0}-\x{00FF}\s\-_.()]+\.[a-zA-Z]{2,5}$`)

// NormalizeDocumentName 去除首尾空白后校验文件名
func NormalizeDocumentName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 3 || n > 255 {
		return "", BadRequestError(ErrInvalidDocumentName, "document name must be between 3 and 255 characters")
	}
	if !documentNamePattern.MatchString(name) {
		return "", BadRequestError(ErrInvalidDocumentName, "document name must be a valid filename with extension")
	}
	return name, nil
}

// NewSentDocument 创建已发送的文档
func NewSentDocument(employeeID, documentTypeID uint, name string, now time.Time) (*Document, error) {
	name, err := NormalizeDocumentName(name)
	if err != nil {
		return nil, err
	}
	sentAt := now
	return &Document{
		EmployeeID:     employeeID,
		DocumentTypeID: documentTypeID,
		Name:           name,
		Status:         DocumentStatusSent,
		SentAt:         &sentAt,
	}, nil
}

// Resubmit 原地重新提交，已发送的文档不能重新提交
func (d *Document) Resubmit(name string, now time.Time) error {
	if d.Status == DocumentStatusSent {
		return ConflictError(ErrDocumentAlreadySubmitted, "document %d has already been sent", d.ID)
	}
	name, err := NormalizeDocumentName(name)
	if err != nil {
		return err
	}
	sentAt := now
	d.Name = name
	d.Status = DocumentStatusSent
	d.SentAt = &sentAt
	return nil
}

// ChangeStatus 修改状态，变为 SENT 时刷新发送时间
func (d *Document) ChangeStatus(status DocumentStatus, now time.Time) error {
	if d.Status == status {
		return BadRequestError(ErrStatusUnchanged, "document already has status %s", status)
	}
	d.Status = status
	if status == DocumentStatusSent {
		sentAt := now
		d.SentAt = &sentAt
	}
	return nil
}

// DocumentSummary 文档列表汇总
type DocumentSummary struct {
	Total   int
	Sent    int
	Pending int
}

// SummarizeDocuments 统计各状态数量
func SummarizeDocuments(docs []Document) DocumentSummary {
	s := DocumentSummary{Total: len(docs)}
	for _, d := range docs {
		switch d.Status {
		case DocumentStatusSent:
			s.Sent++
		case DocumentStatusPending:
			s.Pending++
		}
	}
	return s
}
