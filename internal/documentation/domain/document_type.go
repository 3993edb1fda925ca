package domain

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// DocumentType 文档类型
type DocumentType struct {
	ID        uint
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewDocumentType 校验并创建文档类型
func NewDocumentType(name string) (*DocumentType, error) {
	name = strings.TrimSpace(name)
	if err := ValidateDocumentTypeName(name); err != nil {
		return nil, err
	}
	return &DocumentType{Name: name}, nil
}

// ValidateDocumentTypeName 名称 2-50 个字符，允许字母、数字、空格与 - _ . ( )
func ValidateDocumentTypeName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return BadRequestError(ErrInvalidDocumentTypeName, "document type name must be between 2 and 50 characters")
	}
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" -_.()", r) {
			continue
		}
		return BadRequestError(ErrInvalidDocumentTypeName, "document type name must contain only letters, numbers, spaces and basic punctuation (- _ . ())")
	}
	return nil
}
