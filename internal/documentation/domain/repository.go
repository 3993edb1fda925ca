package domain

import (
	"context"
	"time"
)

// EmployeeQuery 员工列表查询
type EmployeeQuery struct {
	Name   string
	Offset int
	Limit  int
}

// EmployeeRepository 员工仓储接口
type EmployeeRepository interface {
	Create(ctx context.Context, e *Employee) error
	Update(ctx context.Context, e *Employee) error
	// GetByID 不存在时返回 ErrEmployeeNotFound
	GetByID(ctx context.Context, id uint) (*Employee, error)
	// FindByDocument 不存在时返回 nil, nil
	FindByDocument(ctx context.Context, document string) (*Employee, error)
	List(ctx context.Context, q EmployeeQuery) ([]Employee, int64, error)
	ListAll(ctx context.Context) ([]Employee, error)
}

// DocumentTypeRepository 文档类型仓储接口
type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *DocumentType) error
	Update(ctx context.Context, dt *DocumentType) error
	Delete(ctx context.Context, id uint) error
	// GetByID 不存在时返回 ErrDocumentTypeNotFound
	GetByID(ctx context.Context, id uint) (*DocumentType, error)
	// FindByName 大小写不敏感匹配，不存在时返回 nil, nil
	FindByName(ctx context.Context, name string) (*DocumentType, error)
	FindByIDs(ctx context.Context, ids []uint) ([]DocumentType, error)
	List(ctx context.Context) ([]DocumentType, error)
}

// RequirementFilter 要求集合的标识/名称/日期过滤，名称为大小写不敏感子串匹配
type RequirementFilter struct {
	EmployeeIDs      []uint
	DocumentTypeIDs  []uint
	EmployeeName     string
	DocumentTypeName string
	HiredAfter       *time.Time
	HiredBefore      *time.Time
}

// RequirementRepository 员工-文档类型要求仓储接口
type RequirementRepository interface {
	// Find 按 (employee_id, document_type_id) 升序返回带展示字段的要求
	Find(ctx context.Context, f RequirementFilter) ([]RequirementEdge, error)
	// ListByEmployee 按文档类型名称升序
	ListByEmployee(ctx context.Context, employeeID uint) ([]RequirementEdge, error)
	ExistingTypeIDs(ctx context.Context, employeeID uint, typeIDs []uint) ([]uint, error)
	Exists(ctx context.Context, p Pair) (bool, error)
	Create(ctx context.Context, edges []RequirementEdge) error
	// DeleteUndocumented 原子删除没有文档的要求，返回删除行数
	DeleteUndocumented(ctx context.Context, employeeID uint, typeIDs []uint) (int64, error)
	CountByDocumentType(ctx context.Context, typeID uint) (int64, error)
}

// DocumentFilter 文档列表过滤
type DocumentFilter struct {
	EmployeeID     *uint
	DocumentTypeID *uint
	Status         *DocumentStatus
}

// DocumentRepository 文档仓储接口
type DocumentRepository interface {
	Create(ctx context.Context, d *Document) error
	Update(ctx context.Context, d *Document) error
	Delete(ctx context.Context, id uint) error
	// GetByID 不存在时返回 ErrDocumentNotFound
	GetByID(ctx context.Context, id uint) (*Document, error)
	// FindByPair 不存在时返回 nil, nil
	FindByPair(ctx context.Context, p Pair) (*Document, error)
	// ListByEmployee 按发送时间倒序
	ListByEmployee(ctx context.Context, employeeID uint) ([]Document, error)
	// List 按状态升序、发送时间倒序
	List(ctx context.Context, f DocumentFilter) ([]Document, error)
	// ListByStatus SENT 按发送时间倒序，PENDING 按创建时间升序
	ListByStatus(ctx context.Context, status DocumentStatus) ([]Document, error)
	// Pairs 返回匹配标识过滤的已提交组合
	Pairs(ctx context.Context, employeeIDs, typeIDs []uint) ([]Pair, error)
	DocumentedTypeIDs(ctx context.Context, employeeID uint, typeIDs []uint) ([]uint, error)
	CountByDocumentType(ctx context.Context, typeID uint) (int64, error)
}

// Transactor 在同一事务中执行多个仓储操作
type Transactor interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

// EventPublisher 领域事件发布接口，在事务 context 中调用时随事务提交
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, aggregateID string, payload any) error
}

// ReportCache 待提交报告缓存
type ReportCache interface {
	Get(ctx context.Context, dest any) (bool, error)
	Set(ctx context.Context, value any) error
	Invalidate(ctx context.Context) error
}

// PresignedUpload 预签名上传地址
type PresignedUpload struct {
	URL       string
	Key       string
	Method    string
	ExpiresAt time.Time
}

// FileStorage 文档文件存储
type FileStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (*PresignedUpload, error)
}
