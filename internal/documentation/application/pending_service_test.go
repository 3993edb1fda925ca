package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/employeedocs/internal/documentation/domain"
)

// pendingFixture 三名员工，四条要求，其中一条已提交
func pendingFixture(extra ...Option) (*fixture, []uint, []uint) {
	f := newFixture(extra...)
	ana := f.seedEmployee("Ana Souza", f.now.AddDate(-1, 0, 0))
	bruno := f.seedEmployee("Bruno Lima", f.now.AddDate(0, -2, 0))
	carla := f.seedEmployee("Carla Dias", f.now.AddDate(0, 0, -10))
	rg := f.seedType("RG")
	cnh := f.seedType("CNH")

	f.seedEdge(ana, rg, 40)
	f.seedEdge(ana, cnh, 20)
	f.seedEdge(bruno, rg, 5)
	f.seedEdge(carla, rg, 14)
	f.seedDocument(ana, cnh, domain.DocumentStatusPending)

	return f, []uint{ana, bruno, carla}, []uint{rg, cnh}
}

func TestDeriveIsSetDifference(t *testing.T) {
	f, emps, types := pendingFixture()

	out, err := f.pending.Derive(context.Background(), PendingQuery{Page: 1, Limit: 10})
	require.NoError(t, err)

	got := make([]domain.Pair, len(out.Data))
	for i, item := range out.Data {
		got[i] = domain.Pair{EmployeeID: item.EmployeeID, DocumentTypeID: item.DocumentTypeID}
	}
	assert.ElementsMatch(t, []domain.Pair{
		{EmployeeID: emps[0], DocumentTypeID: types[0]},
		{EmployeeID: emps[1], DocumentTypeID: types[0]},
		{EmployeeID: emps[2], DocumentTypeID: types[0]},
	}, got)

	// 默认按优先级降序
	assert.Equal(t, domain.PriorityHigh, out.Data[0].Priority)
	assert.Equal(t, domain.PriorityMedium, out.Data[1].Priority)
	assert.Equal(t, domain.PriorityLow, out.Data[2].Priority)
	assert.Equal(t, domain.SortByPriority, out.AppliedFilters["sort_by"])
}

func TestDeriveSummaryIgnoresPagination(t *testing.T) {
	f, _, _ := pendingFixture()

	out, err := f.pending.Derive(context.Background(), PendingQuery{Page: 2, Limit: 1})
	require.NoError(t, err)

	assert.Len(t, out.Data, 1)
	assert.Equal(t, 3, out.Pagination.Total)
	assert.Equal(t, 3, out.Pagination.TotalPages)
	assert.Equal(t, PendingSummaryDTO{
		TotalPendingDocuments: 3,
		UniqueEmployees:       3,
		AverageDaysPending:    20,
		PriorityBreakdown:     PriorityBreakdownDTO{High: 1, Medium: 1, Low: 1},
	}, out.Summary)
}

func TestDeriveFilters(t *testing.T) {
	f, emps, types := pendingFixture()
	ctx := context.Background()

	tests := []struct {
		name  string
		query PendingQuery
		want  []uint
	}{
		{"employee ids", PendingQuery{EmployeeIDs: []uint{emps[1], emps[1]}}, []uint{emps[1]}},
		{"employee name", PendingQuery{EmployeeName: "LIMA"}, []uint{emps[1]}},
		{"document type name", PendingQuery{DocumentTypeName: "cnh"}, nil},
		{"document type ids", PendingQuery{DocumentTypeIDs: []uint{types[0]}}, []uint{emps[0], emps[2], emps[1]}},
		{"min days inclusive", PendingQuery{MinDaysPending: ptr(14)}, []uint{emps[0], emps[2]}},
		{"max days inclusive", PendingQuery{MaxDaysPending: ptr(14)}, []uint{emps[2], emps[1]}},
		{"min greater than max", PendingQuery{MinDaysPending: ptr(20), MaxDaysPending: ptr(10)}, nil},
		{"priority", PendingQuery{Priority: ptr(domain.PriorityLow)}, []uint{emps[1]}},
		{"hired after", PendingQuery{HiredAfter: ptr(f.now.AddDate(0, -3, 0))}, []uint{emps[2], emps[1]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Page, tt.query.Limit = 1, 10
			out, err := f.pending.Derive(ctx, tt.query)
			require.NoError(t, err)

			var got []uint
			for _, item := range out.Data {
				got = append(got, item.EmployeeID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveSorting(t *testing.T) {
	f, emps, _ := pendingFixture()
	ctx := context.Background()

	out, err := f.pending.Derive(ctx, PendingQuery{SortBy: domain.SortByDaysPending, SortOrder: domain.SortAsc, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, out.Data, 3)
	assert.Equal(t, []int{5, 14, 40}, []int{out.Data[0].DaysPending, out.Data[1].DaysPending, out.Data[2].DaysPending})

	out, err = f.pending.Derive(ctx, PendingQuery{SortBy: domain.SortByEmployeeName, SortOrder: domain.SortDesc, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, emps[2], out.Data[0].EmployeeID)
	assert.Equal(t, emps[0], out.Data[2].EmployeeID)
}

func TestPendingByEntity(t *testing.T) {
	f, emps, types := pendingFixture()
	ctx := context.Background()

	byEmp, err := f.pending.ByEmployee(ctx, emps[0])
	require.NoError(t, err)
	require.Len(t, byEmp.PendingDocuments, 1)
	assert.Equal(t, "RG", byEmp.PendingDocuments[0].DocumentTypeName)
	assert.Equal(t, 1, byEmp.Summary.TotalPendingDocuments)

	byType, err := f.pending.ByDocumentType(ctx, types[0])
	require.NoError(t, err)
	assert.Len(t, byType.PendingDocuments, 3)
	assert.Equal(t, 3, byType.Summary.UniqueEmployees)

	_, err = f.pending.ByEmployee(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
	_, err = f.pending.ByDocumentType(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrDocumentTypeNotFound)
}

// memCache 记录读写次数的报告缓存
type memCache struct {
	value *PendingReportDTO
	sets  int
}

func (c *memCache) Get(_ context.Context, dest any) (bool, error) {
	if c.value == nil {
		return false, nil
	}
	*dest.(*PendingReportDTO) = *c.value
	return true, nil
}

func (c *memCache) Set(_ context.Context, value any) error {
	c.value = value.(*PendingReportDTO)
	c.sets++
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.value = nil
	return nil
}

func TestReportGroupsAndCaches(t *testing.T) {
	cache := &memCache{}
	f, emps, types := pendingFixture(WithReportCache(cache))
	ctx := context.Background()

	report, err := f.pending.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Overview.TotalPendingDocuments)
	require.Len(t, report.ByEmployee, 3)
	assert.Equal(t, emps[0], report.ByEmployee[0].EmployeeID)
	assert.Equal(t, []string{"RG"}, report.ByEmployee[0].PendingDocuments)
	require.Len(t, report.ByDocumentType, 1)
	assert.Equal(t, types[0], report.ByDocumentType[0].DocumentTypeID)
	assert.Equal(t, 3, report.ByDocumentType[0].AffectedEmployees)
	assert.Equal(t, f.now, report.GeneratedAt)

	_, err = f.pending.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	_, err = f.associations.Disassociate(ctx, emps[1], []uint{types[0]})
	require.NoError(t, err)
	assert.Nil(t, cache.value)

	report, err = f.pending.Report(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Overview.TotalPendingDocuments)
	assert.Equal(t, 2, cache.sets)
}

func ptr[T any](v T) *T { return &v }
