// Package mysql 提供文档管理仓储接口的 GORM 实现，兼容 MySQL 与 PostgreSQL 方言
package mysql

import (
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

// EmployeeModel 员工表映射
type EmployeeModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(100);index;not null;comment:员工姓名"`
	Document  string    `gorm:"column:document;type:varchar(11);uniqueIndex;not null;comment:CPF"`
	HiredAt   time.Time `gorm:"column:hired_at;type:date;not null;comment:入职日期"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (EmployeeModel) TableName() string { return "employees" }

// DocumentTypeModel 文档类型表映射
type DocumentTypeModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(50);uniqueIndex;not null;comment:类型名称"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (DocumentTypeModel) TableName() string { return "document_types" }

// RequirementModel 员工-文档类型要求表，复合主键
type RequirementModel struct {
	EmployeeID     uint      `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	DocumentTypeID uint      `gorm:"column:document_type_id;primaryKey;autoIncrement:false;index"`
	CreatedAt      time.Time `gorm:"column:created_at;not null;comment:待提交起始时间"`

	Employee     EmployeeModel     `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	DocumentType DocumentTypeModel `gorm:"foreignKey:DocumentTypeID;constraint:OnDelete:RESTRICT"`
}

func (RequirementModel) TableName() string { return "employee_document_types" }

// DocumentModel 文档表，每个组合最多一条
type DocumentModel struct {
	ID             uint       `gorm:"primaryKey;autoIncrement"`
	EmployeeID     uint       `gorm:"column:employee_id;uniqueIndex:idx_documents_pair;not null"`
	DocumentTypeID uint       `gorm:"column:document_type_id;uniqueIndex:idx_documents_pair;index;not null"`
	Name           string     `gorm:"column:name;type:varchar(255);not null;comment:文件名"`
	Status         string     `gorm:"column:status;type:varchar(20);index;not null"`
	SentAt         *time.Time `gorm:"column:sent_at"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (DocumentModel) TableName() string { return "documents" }

// Models 需要迁移的全部表，要求表依赖员工与类型表
func Models() []any {
	return []any{&EmployeeModel{}, &DocumentTypeModel{}, &RequirementModel{}, &DocumentModel{}}
}

// mapping helpers

func toEmployeeModel(e *domain.Employee) *EmployeeModel {
	return &EmployeeModel{
		ID:        e.ID,
		Name:      e.Name,
		Document:  e.Document,
		HiredAt:   e.HiredAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toEmployee(m *EmployeeModel) *domain.Employee {
	return &domain.Employee{
		ID:        m.ID,
		Name:      m.Name,
		Document:  m.Document,
		HiredAt:   m.HiredAt,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDocumentTypeModel(dt *domain.DocumentType) *DocumentTypeModel {
	return &DocumentTypeModel{
		ID:        dt.ID,
		Name:      dt.Name,
		CreatedAt: dt.CreatedAt,
		UpdatedAt: dt.UpdatedAt,
	}
}

func toDocumentType(m *DocumentTypeModel) *domain.DocumentType {
	return &domain.DocumentType{
		ID:        m.ID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDocumentModel(d *domain.Document) *DocumentModel {
	return &DocumentModel{
		ID:             d.ID,
		EmployeeID:     d.EmployeeID,
		DocumentTypeID: d.DocumentTypeID,
		Name:           d.Name,
		Status:         string(d.Status),
		SentAt:         d.SentAt,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// documentRow 文档行及关联查询带出的名称
type documentRow struct {
	DocumentModel    `gorm:"embedded"`
	EmployeeName     string `gorm:"column:employee_name"`
	DocumentTypeName string `gorm:"column:document_type_name"`
}

func (r *documentRow) toDomain() domain.Document {
	return domain.Document{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		DocumentTypeID:   r.DocumentTypeID,
		Name:             r.Name,
		Status:           domain.DocumentStatus(r.Status),
		SentAt:           r.SentAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
		EmployeeName:     r.EmployeeName,
		DocumentTypeName: r.DocumentTypeName,
	}
}

// requirementRow 要求行及员工、类型展示字段
type requirementRow struct {
	EmployeeID       uint      `gorm:"column:employee_id"`
	DocumentTypeID   uint      `gorm:"column:document_type_id"`
	CreatedAt        time.Time `gorm:"column:created_at"`
	EmployeeName     string    `gorm:"column:employee_name"`
	EmployeeDocument string    `gorm:"column:employee_document"`
	EmployeeHiredAt  time.Time `gorm:"column:employee_hired_at"`
	DocumentTypeName string    `gorm:"column:document_type_name"`
}

func (r *requirementRow) toDomain() domain.RequirementEdge {
	return domain.RequirementEdge{
		EmployeeID:       r.EmployeeID,
		DocumentTypeID:   r.DocumentTypeID,
		CreatedAt:        r.CreatedAt,
		EmployeeName:     r.EmployeeName,
		EmployeeDocument: r.EmployeeDocument,
		EmployeeHiredAt:  r.EmployeeHiredAt,
		DocumentTypeName: r.DocumentTypeName,
	}
}

// pairRow 组合键投影
type pairRow struct {
	EmployeeID     uint `gorm:"column:employee_id"`
	DocumentTypeID uint `gorm:"column:document_type_id"`
}
