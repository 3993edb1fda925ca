package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/employeedocs/pkg/utils"
)

func TestNewEmployee(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	e, err := NewEmployee(" Ana Souza ", "111.444.777-35", monday, now)
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", e.Name)
	assert.Equal(t, "11144477735", e.Document)

	tests := []struct {
		name     string
		fullName string
		document string
		hiredAt  time.Time
		want     error
	}{
		{"short name", "A", "11144477735", monday, ErrInvalidEmployeeName},
		{"digits in name", "Ana 2", "11144477735", monday, ErrInvalidEmployeeName},
		{"bad cpf", "Ana", "11111111111", monday, ErrInvalidCPF},
		{"future", "Ana", "11144477735", monday.AddDate(0, 0, 1), ErrInvalidHireDate},
		{"weekend", "Ana", "11144477735", monday.AddDate(0, 0, -1), ErrInvalidHireDate},
		{"missing", "Ana", "11144477735", time.Time{}, ErrInvalidHireDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEmployee(tt.fullName, tt.document, tt.hiredAt, now)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, utils.CodeBadRequest, utils.CodeOf(err))
		})
	}
}

func TestEmployeeApply(t *testing.T) {
	e := &Employee{ID: 1, Name: "Ana", Document: "11144477735", HiredAt: daysAgo(10)}

	doc := "111.444.777-35"
	changed, err := e.Apply(EmployeeUpdate{Document: &doc}, now)
	require.NoError(t, err)
	assert.False(t, changed)

	doc = "52998224725"
	name := "Ana Lima"
	changed, err = e.Apply(EmployeeUpdate{Document: &doc, Name: &name}, now)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Ana Lima", e.Name)

	assert.True(t, EmployeeUpdate{}.IsEmpty())
}

func TestFindDuplicatePairs(t *testing.T) {
	items := []BulkItem{
		{EmployeeID: 1, DocumentTypeIDs: []uint{1, 2}},
		{EmployeeID: 2, DocumentTypeIDs: []uint{1}},
		{EmployeeID: 1, DocumentTypeIDs: []uint{2, 2}},
	}
	assert.Equal(t, []Pair{{1, 2}}, FindDuplicatePairs(items))
	assert.Empty(t, FindDuplicatePairs(items[:2]))
}

func TestDocumentTypeName(t *testing.T) {
	_, err := NewDocumentType("Carteira de Trabalho (CTPS)")
	assert.NoError(t, err)
	_, err = NewDocumentType("x")
	assert.ErrorIs(t, err, ErrInvalidDocumentTypeName)
	_, err = NewDocumentType("bad/name")
	assert.ErrorIs(t, err, ErrInvalidDocumentTypeName)
}
