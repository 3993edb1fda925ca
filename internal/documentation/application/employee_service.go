package application

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
	"github.com/wyfcoding/employeedocs/pkg/logger"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

// CreateEmployeeCommand 创建员工命令
type CreateEmployeeCommand struct {
	Name     string
	Document string
	HiredAt  time.Time
}

// UpdateEmployeeCommand 更新员工命令，nil 字段保持不变
type UpdateEmployeeCommand struct {
	Name     *string
	Document *string
	HiredAt  *time.Time
}

// ListEmployeesQuery 员工列表查询
type ListEmployeesQuery struct {
	Page  int
	Limit int
	Name  string
}

// EmployeeService 员工管理
type EmployeeService struct {
	employees domain.EmployeeRepository
	rt        runtime
}

// NewEmployeeService 创建员工服务
func NewEmployeeService(employees domain.EmployeeRepository, opts ...Option) *EmployeeService {
	return &EmployeeService{employees: employees, rt: newRuntime(opts)}
}

// Create 创建员工，CPF 全局唯一
func (s *EmployeeService) Create(ctx context.Context, cmd CreateEmployeeCommand) (*EmployeeDTO, error) {
	employee, err := domain.NewEmployee(cmd.Name, cmd.Document, cmd.HiredAt, s.rt.now())
	if err != nil {
		return nil, err
	}

	if err := s.ensureDocumentAvailable(ctx, employee.Document); err != nil {
		return nil, err
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.employees.Create(txCtx, employee); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventEmployeeCreated, employee)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "employee created", "employee_id", employee.ID)
	return toEmployeeDTO(employee), nil
}

// Update 更新员工，仅在 CPF 变化时重新校验唯一性
func (s *EmployeeService) Update(ctx context.Context, id uint, cmd UpdateEmployeeCommand) (*EmployeeDTO, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	update := domain.EmployeeUpdate{Name: cmd.Name, Document: cmd.Document, HiredAt: cmd.HiredAt}
	if update.IsEmpty() {
		return toEmployeeDTO(employee), nil
	}

	documentChanged, err := employee.Apply(update, s.rt.now())
	if err != nil {
		return nil, err
	}
	if documentChanged {
		if err := s.ensureDocumentAvailable(ctx, employee.Document); err != nil {
			return nil, err
		}
	}

	err = s.rt.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.employees.Update(txCtx, employee); err != nil {
			return err
		}
		return s.publish(txCtx, domain.EventEmployeeUpdated, employee)
	})
	if err != nil {
		return nil, err
	}

	// 员工姓名出现在待提交报告中
	s.rt.invalidateReport(ctx)
	logger.Info(ctx, "employee updated", "employee_id", employee.ID, "document_changed", documentChanged)
	return toEmployeeDTO(employee), nil
}

// Get 获取员工
func (s *EmployeeService) Get(ctx context.Context, id uint) (*EmployeeDTO, error) {
	employee, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeDTO(employee), nil
}

// List 分页列出员工，按姓名排序
func (s *EmployeeService) List(ctx context.Context, q ListEmployeesQuery) (*EmployeeListDTO, error) {
	page := utils.NewPagination(q.Page, q.Limit, 0)
	employees, total, err := s.employees.List(ctx, domain.EmployeeQuery{
		Name:   q.Name,
		Offset: page.Offset(),
		Limit:  page.Limit,
	})
	if err != nil {
		return nil, err
	}

	data := make([]EmployeeDTO, len(employees))
	for i := range employees {
		data[i] = *toEmployeeDTO(&employees[i])
	}
	return &EmployeeListDTO{
		Data:       data,
		Pagination: utils.NewPagination(page.Page, page.Limit, int(total)),
	}, nil
}

func (s *EmployeeService) ensureDocumentAvailable(ctx context.Context, document string) error {
	existing, err := s.employees.FindByDocument(ctx, document)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ConflictError(domain.ErrDuplicateEmployeeDocument, "employee with document %s already exists", document)
	}
	return nil
}

func (s *EmployeeService) publish(ctx context.Context, eventType string, e *domain.Employee) error {
	err := s.rt.publisher.Publish(ctx, eventType, strconv.FormatUint(uint64(e.ID), 10), domain.EmployeeEvent{
		EmployeeID: e.ID,
		Name:       e.Name,
		Document:   e.Document,
		HiredAt:    e.HiredAt,
		Timestamp:  s.rt.now(),
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", eventType, err)
	}
	return nil
}
