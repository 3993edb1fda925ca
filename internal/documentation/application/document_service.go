package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// SubmitDocumentCommand 提交文档命令
type SubmitDocumentCommand struct {
	EmployeeID     uint
	DocumentTypeID uint
	Name           string
}

// UploadURLCommand 申请上传地址命令
type UploadURLCommand struct {
	EmployeeID     uint
	DocumentTypeID uint
	FileName       string
	ContentType    string
}

// ListDocumentsQuery 文档列表过滤，nil 表示不过滤
type ListDocumentsQuery struct {
	EmployeeID     *uint
	DocumentTypeID *uint
	Status         *domain.DocumentStatus
}

// DocumentService 文档提交与状态管理
type DocumentService struct {
	employees    domain.EmployeeRepository
	types        domain.DocumentTypeRepository
	requirements domain.RequirementRepository
	documents    domain.DocumentRepository
	rt           runtime
}

// NewDocumentService 创建文档服务
func NewDocumentService(
	employees domain.EmployeeRepository,
	types domain.DocumentTypeRepository,
	requirements domain.RequirementRepository,
	documents domain.DocumentRepository,
	opts ...Option,
) *DocumentService {
	return &DocumentService{
		employees:    employees,
		types:        types,
		requirements: requirements,
		documents:    documents,
		rt:           newRuntime(opts),
	}
}

// Submit 首次提交文档，要求组合必须存在且尚无文档
func (s *DocumentService) Submit(ctx context.Context, cmd SubmitDocumentCommand) (*DocumentDTO, error) {
	pair := domain.Pair{EmployeeID: cmd.EmployeeID, DocumentTypeID: cmd.DocumentTypeID}
	doc, err := domain.NewSentDocument(pair.EmployeeID, pair.DocumentTypeID, cmd.Name, s.rt.now())
	if err != nil {
		return nil, err
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.ensureRequired(txCtx, pair); err != nil {
			return err
		}

		existing, err := s.documents.FindByPair(txCtx, pair)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ConflictError(domain.ErrDocumentAlreadySubmitted,
				"document already exists for this employee and document type (document id %d)", existing.ID)
		}

		if err := s.documents.Create(txCtx, doc); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentSubmitted, doc, "")
	})
	if err != nil {
		return nil, err
	}

	s.rt.invalidateReport(ctx)
	s.rt.countSubmission("submit")
	logger.Info(ctx, "document submitted", "document_id", doc.ID, "employee_id", doc.EmployeeID, "document_type_id", doc.DocumentTypeID)
	return s.reload(ctx, doc.ID)
}

// Resubmit 在原记录上重新提交，已发送的文档不能重新提交
func (s *DocumentService) Resubmit(ctx context.Context, cmd SubmitDocumentCommand) (*DocumentDTO, error) {
	pair := domain.Pair{EmployeeID: cmd.EmployeeID, DocumentTypeID: cmd.DocumentTypeID}

	var doc *domain.Document
	err := s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.documents.FindByPair(txCtx, pair)
		if err != nil {
			return err
		}
		if doc == nil {
			return domain.NotFoundError(domain.ErrDocumentNotFound,
				"no document found for employee %d and document type %d", pair.EmployeeID, pair.DocumentTypeID)
		}

		previous := doc.Status
		if err := doc.Resubmit(cmd.Name, s.rt.now()); err != nil {
			return err
		}
		if err := s.documents.Update(txCtx, doc); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentResubmitted, doc, previous)
	})
	if err != nil {
		return nil, err
	}

	s.rt.invalidateReport(ctx)
	s.rt.countSubmission("resubmit")
	logger.Info(ctx, "document resubmitted", "document_id", doc.ID)
	return s.reload(ctx, doc.ID)
}

// UpdateStatus 修改文档状态
func (s *DocumentService) UpdateStatus(ctx context.Context, id uint, status domain.DocumentStatus) (*DocumentDTO, error) {
	err := s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		doc, err := s.documents.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		previous := doc.Status
		if err := doc.ChangeStatus(status, s.rt.now()); err != nil {
			return err
		}
		if err := s.documents.Update(txCtx, doc); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentStatusChanged, doc, previous)
	})
	if err != nil {
		return nil, err
	}

	s.rt.invalidateReport(ctx)
	logger.Info(ctx, "document status changed", "document_id", id, "status", status)
	return s.reload(ctx, id)
}

// Get 获取文档
func (s *DocumentService) Get(ctx context.Context, id uint) (*DocumentDTO, error) {
	return s.reload(ctx, id)
}

// ListByEmployee 员工的全部文档，按发送时间倒序
func (s *DocumentService) ListByEmployee(ctx context.Context, employeeID uint) ([]DocumentDTO, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, err
	}
	docs, err := s.documents.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return toDocumentDTOs(docs), nil
}

// List 按条件过滤文档并附带状态汇总
func (s *DocumentService) List(ctx context.Context, q ListDocumentsQuery) (*DocumentListDTO, error) {
	docs, err := s.documents.List(ctx, domain.DocumentFilter{
		EmployeeID:     q.EmployeeID,
		DocumentTypeID: q.DocumentTypeID,
		Status:         q.Status,
	})
	if err != nil {
		return nil, err
	}

	summary := domain.SummarizeDocuments(docs)
	return &DocumentListDTO{
		Data:    toDocumentDTOs(docs),
		Summary: DocumentSummaryDTO{Total: summary.Total, Sent: summary.Sent, Pending: summary.Pending},
	}, nil
}

// ListByStatus 按状态列出文档
func (s *DocumentService) ListByStatus(ctx context.Context, status domain.DocumentStatus) ([]DocumentDTO, error) {
	docs, err := s.documents.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}
	return toDocumentDTOs(docs), nil
}

// Delete 删除文档，删除后对应要求重新变为待提交
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	err := s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		doc, err := s.documents.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := s.documents.Delete(txCtx, id); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventDocumentDeleted, doc, "")
	})
	if err != nil {
		return err
	}

	s.rt.invalidateReport(ctx)
	logger.Info(ctx, "document deleted", "document_id", id)
	return nil
}

// RequestUploadURL 为文档文件生成预签名上传地址
func (s *DocumentService) RequestUploadURL(ctx context.Context, cmd UploadURLCommand) (*UploadURLDTO, error) {
	if s.rt.storage == nil {
		return nil, utils.Internal("file storage is not configured", nil)
	}

	fileName, err := domain.NormalizeDocumentName(cmd.FileName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureRequired(ctx, domain.Pair{EmployeeID: cmd.EmployeeID, DocumentTypeID: cmd.DocumentTypeID}); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("employees/%d/%d/%s-%s", cmd.EmployeeID, cmd.DocumentTypeID, uuid.NewString(), fileName)
	upload, err := s.rt.storage.PresignUpload(ctx, key, cmd.ContentType)
	if err != nil {
		return nil, utils.Internal("failed to generate upload url", err)
	}

	logger.Info(ctx, "upload url issued", "employee_id", cmd.EmployeeID, "document_type_id", cmd.DocumentTypeID, "key", upload.Key)
	return &UploadURLDTO{
		UploadURL: upload.URL,
		Key:       upload.Key,
		Method:    upload.Method,
		ExpiresAt: upload.ExpiresAt,
	}, nil
}

// ensureRequired 员工与类型必须存在，且员工被要求提交该类型
func (s *DocumentService) ensureRequired(ctx context.Context, pair domain.Pair) error {
	if _, err := s.employees.GetByID(ctx, pair.EmployeeID); err != nil {
		return err
	}
	if _, err := s.types.GetByID(ctx, pair.DocumentTypeID); err != nil {
		return err
	}

	required, err := s.requirements.Exists(ctx, pair)
	if err != nil {
		return err
	}
	if !required {
		return domain.BadRequestError(domain.ErrNotAssociated,
			"employee %d is not required to submit document type %d", pair.EmployeeID, pair.DocumentTypeID)
	}
	return nil
}

// reload 重新读取以带出员工与类型名称
func (s *DocumentService) reload(ctx context.Context, id uint) (*DocumentDTO, error) {
	doc, err := s.documents.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDocumentDTO(doc), nil
}

func (s *DocumentService) publish(ctx context.Context, eventType string, d *domain.Document, previous domain.DocumentStatus) error {
	err := s.rt.publisher.Publish(ctx, eventType, strconv.FormatUint(uint64(d.ID), 10), domain.DocumentEvent{
		DocumentID:     d.ID,
		EmployeeID:     d.EmployeeID,
		DocumentTypeID: d.DocumentTypeID,
		Name:           d.Name,
		Status:         d.Status,
		PreviousStatus: previous,
		SentAt:         d.SentAt,
		Timestamp:      s.rt.now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
