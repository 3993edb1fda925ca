package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return now.Add(-time.Duration(n) * 24 * time.Hour)
}

func edge(emp, dt uint, age int) RequirementEdge {
	return RequirementEdge{
		EmployeeID:       emp,
		DocumentTypeID:   dt,
		CreatedAt:        daysAgo(age),
		EmployeeName:     map[uint]string{1: "Ana", 2: "Bruno", 3: "Carla"}[emp],
		DocumentTypeName: map[uint]string{1: "CPF", 2: "RG", 3: "CNH"}[dt],
	}
}

func TestPriorityForDays(t *testing.T) {
	tests := []struct {
		days int
		want Priority
	}{
		{29, PriorityMedium},
		{30, PriorityHigh},
		{13, PriorityLow},
		{14, PriorityMedium},
		{0, PriorityLow},
		{90, PriorityHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PriorityForDays(tt.days), "days=%d", tt.days)
	}
	assert.Equal(t, 3, PriorityHigh.Rank())
	assert.Equal(t, 2, PriorityMedium.Rank())
	assert.Equal(t, 1, PriorityLow.Rank())
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, 0, DaysSince(now.Add(-23*time.Hour), now))
	assert.Equal(t, 1, DaysSince(now.Add(-25*time.Hour), now))
	assert.Equal(t, -1, DaysSince(now.Add(time.Hour), now))
}

func TestDerivePendingIsSetDifference(t *testing.T) {
	edges := []RequirementEdge{edge(1, 1, 3), edge(1, 2, 3), edge(2, 1, 3), edge(2, 3, 3)}
	submitted := []Pair{{1, 2}, {2, 3}, {3, 1}}

	items := DerivePending(edges, submitted, now)

	got := make([]Pair, 0, len(items))
	for _, item := range items {
		got = append(got, Pair{item.EmployeeID, item.DocumentTypeID})
	}
	assert.Equal(t, []Pair{{1, 1}, {2, 1}}, got)
}

func TestDerivePendingComputesAge(t *testing.T) {
	items := DerivePending([]RequirementEdge{edge(1, 1, 31), edge(1, 2, 14), edge(1, 3, 2)}, nil, now)
	require.Len(t, items, 3)

	assert.Equal(t, 31, items[0].DaysPending)
	assert.Equal(t, PriorityHigh, items[0].Priority)
	assert.Equal(t, PriorityMedium, items[1].Priority)
	assert.Equal(t, PriorityLow, items[2].Priority)
	assert.Equal(t, daysAgo(31), items[0].PendingSince)
}

func TestFilterPendingInclusiveBounds(t *testing.T) {
	items := DerivePending([]RequirementEdge{edge(1, 1, 10), edge(1, 2, 20), edge(1, 3, 30)}, nil, now)

	minDays, maxDays := 10, 20
	got := FilterPending(items, PendingCriteria{MinDaysPending: &minDays, MaxDaysPending: &maxDays})
	assert.Len(t, got, 2)

	minDays, maxDays = 25, 5
	assert.Empty(t, FilterPending(items, PendingCriteria{MinDaysPending: &minDays, MaxDaysPending: &maxDays}))

	high := PriorityHigh
	got = FilterPending(items, PendingCriteria{Priority: &high})
	require.Len(t, got, 1)
	assert.Equal(t, uint(3), got[0].DocumentTypeID)
}

func TestSortPending(t *testing.T) {
	base := DerivePending([]RequirementEdge{edge(1, 1, 5), edge(2, 2, 40), edge(3, 3, 5), edge(1, 2, 20)}, nil, now)

	t.Run("default priority desc keeps ties stable", func(t *testing.T) {
		items := append([]PendingItem(nil), base...)
		SortPending(items, "", "")
		assert.Equal(t, []uint{2, 1, 1, 3}, employeeIDs(items))
		assert.Equal(t, uint(1), items[2].DocumentTypeID)
	})

	t.Run("employee name asc", func(t *testing.T) {
		items := append([]PendingItem(nil), base...)
		SortPending(items, SortByEmployeeName, SortAsc)
		assert.Equal(t, []uint{1, 1, 2, 3}, employeeIDs(items))
	})

	t.Run("days pending asc", func(t *testing.T) {
		items := append([]PendingItem(nil), base...)
		SortPending(items, SortByDaysPending, SortAsc)
		assert.Equal(t, []int{5, 5, 20, 40}, []int{items[0].DaysPending, items[1].DaysPending, items[2].DaysPending, items[3].DaysPending})
		assert.Equal(t, uint(1), items[0].EmployeeID)
		assert.Equal(t, uint(3), items[1].EmployeeID)
	})

	t.Run("pending since desc", func(t *testing.T) {
		items := append([]PendingItem(nil), base...)
		SortPending(items, SortByPendingSince, SortDesc)
		assert.Equal(t, 5, items[0].DaysPending)
		assert.Equal(t, 40, items[3].DaysPending)
	})
}

func employeeIDs(items []PendingItem) []uint {
	ids := make([]uint, len(items))
	for i, item := range items {
		ids[i] = item.EmployeeID
	}
	return ids
}

func TestSummarizePending(t *testing.T) {
	items := DerivePending([]RequirementEdge{edge(1, 1, 1), edge(1, 2, 2), edge(2, 1, 40)}, nil, now)

	s := SummarizePending(items)
	assert.Equal(t, 3, s.TotalPending)
	assert.Equal(t, 2, s.UniqueEmployees)
	assert.Equal(t, 14, s.AverageDaysPending)
	assert.Equal(t, PriorityBreakdown{High: 1, Medium: 0, Low: 2}, s.PriorityBreakdown)

	assert.Equal(t, PendingSummary{}, SummarizePending(nil))
}

func TestBuildPendingReport(t *testing.T) {
	items := DerivePending([]RequirementEdge{edge(2, 1, 1), edge(1, 2, 2), edge(1, 1, 3)}, nil, now)

	report := BuildPendingReport(items, now)

	require.Len(t, report.ByEmployee, 2)
	assert.Equal(t, uint(1), report.ByEmployee[0].EmployeeID)
	assert.Equal(t, []string{"RG", "CPF"}, report.ByEmployee[0].PendingDocuments)
	assert.Equal(t, 2, report.ByEmployee[0].PendingCount)

	require.Len(t, report.ByDocumentType, 2)
	assert.Equal(t, uint(1), report.ByDocumentType[0].DocumentTypeID)
	assert.Equal(t, 2, report.ByDocumentType[0].AffectedEmployees)
	assert.Equal(t, 3, report.Overview.TotalPending)
	assert.Equal(t, now, report.GeneratedAt)
}
