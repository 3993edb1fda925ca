package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// Employee 员工聚合
type Employee struct {
	ID        uint
	Name      string
	Document  string
	HiredAt   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewEmployee 校验并创建员工，document 会被规范化为纯数字
func NewEmployee(name, document string, hiredAt, now time.Time) (*Employee, error) {
	name = strings.TrimSpace(name)
	if err := ValidateEmployeeName(name); err != nil {
		return nil, err
	}
	doc, err := ValidateDocument(document)
	if err != nil {
		return nil, err
	}
	if err := ValidateHireDate(hiredAt, now); err != nil {
		return nil, err
	}

	return &Employee{
		Name:     name,
		Document: doc,
		HiredAt:  hiredAt,
	}, nil
}

// ValidateEmployeeName 姓名 2-100 个字符，仅允许字母、空格、撇号、句点与连字符
func ValidateEmployeeName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 {
		return BadRequestError(ErrInvalidEmployeeName, "name must be between 2 and 100 characters")
	}
	for _, r := range name {
		if unicode.IsLetter(r) || r == ' ' || r == '\'' || r == '.' || r == '-' {
			continue
		}
		return BadRequestError(ErrInvalidEmployeeName, "name must contain only letters, spaces, apostrophes, periods and hyphens")
	}
	return nil
}

// ValidateDocument 规范化并校验 CPF
func ValidateDocument(document string) (string, error) {
	doc := NormalizeCPF(document)
	if !ValidCPF(doc) {
		return "", BadRequestError(ErrInvalidCPF, "invalid CPF format")
	}
	return doc, nil
}

// ValidateHireDate 入职日期不能晚于今天结束，且必须为工作日
func ValidateHireDate(hiredAt, now time.Time) error {
	if hiredAt.IsZero() {
		return BadRequestError(ErrInvalidHireDate, "hired date is required")
	}
	if hiredAt.After(EndOfDay(now)) {
		return BadRequestError(ErrInvalidHireDate, "hired date cannot be in the future")
	}
	if !IsBusinessDay(hiredAt) {
		return BadRequestError(ErrInvalidHireDate, "hired date must be a business day")
	}
	return nil
}

// IsBusinessDay 周一至周五
func IsBusinessDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// EndOfDay 返回 t 所在日的最后一刻
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// EmployeeUpdate 员工更新字段，nil 表示不修改
type EmployeeUpdate struct {
	Name     *string
	Document *string
	HiredAt  *time.Time
}

// IsEmpty 没有任何字段需要修改
func (u EmployeeUpdate) IsEmpty() bool {
	return u.Name == nil && u.Document == nil && u.HiredAt == nil
}

// Apply 校验并应用更新，返回 document 是否发生变化
func (e *Employee) Apply(u EmployeeUpdate, now time.Time) (documentChanged bool, err error) {
	if u.Name != nil {
		name := strings.TrimSpace(*u.Name)
		if err := ValidateEmployeeName(name); err != nil {
			return false, err
		}
		e.Name = name
	}
	if u.Document != nil {
		doc, err := ValidateDocument(*u.Document)
		if err != nil {
			return false, err
		}
		documentChanged = doc != e.Document
		e.Document = doc
	}
	if u.HiredAt != nil {
		if err := ValidateHireDate(*u.HiredAt, now); err != nil {
			return false, err
		}
		e.HiredAt = *u.HiredAt
	}
	return documentChanged, nil
}
