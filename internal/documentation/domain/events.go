package domain

import "time"

// 领域事件类型
const (
	EventEmployeeCreated       = "employee.created"
	EventEmployeeUpdated       = "employee.updated"
	EventDocumentTypeCreated   = "document_type.created"
	EventDocumentTypeUpdated   = "document_type.updated"
	EventDocumentTypeDeleted   = "document_type.deleted"
	EventAssociationCreated    = "association.created"
	EventAssociationRemoved    = "association.removed"
	EventDocumentSubmitted     = "document.submitted"
	EventDocumentResubmitted   = "document.resubmitted"
	EventDocumentStatusChanged = "document.status_changed"
	EventDocumentDeleted       = "document.deleted"
)

// EmployeeEvent 员工创建/更新事件
type EmployeeEvent struct {
	EmployeeID uint      `json:"employee_id"`
	Name       string    `json:"name"`
	Document   string    `json:"document"`
	HiredAt    time.Time `json:"hired_at"`
	Timestamp  time.Time `json:"timestamp"`
}

// DocumentTypeEvent 文档类型事件
type DocumentTypeEvent struct {
	DocumentTypeID uint      `json:"document_type_id"`
	Name           string    `json:"name"`
	Timestamp      time.Time `json:"timestamp"`
}

// AssociationEvent 关联变更事件
type AssociationEvent struct {
	EmployeeID      uint      `json:"employee_id"`
	DocumentTypeIDs []uint    `json:"document_type_ids"`
	Timestamp       time.Time `json:"timestamp"`
}

// DocumentEvent 文档提交与状态事件
type DocumentEvent struct {
	DocumentID     uint           `json:"document_id"`
	EmployeeID     uint           `json:"employee_id"`
	DocumentTypeID uint           `json:"document_type_id"`
	Name           string         `json:"name"`
	Status         DocumentStatus `json:"status"`
	PreviousStatus DocumentStatus `json:"previous_status,omitempty"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
