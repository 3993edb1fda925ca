package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildStatusCompletion(t *testing.T) {
	employee := Employee{ID: 1, Name: "Ana"}
	edges := []RequirementEdge{edge(1, 1, 3), edge(1, 2, 3), edge(1, 3, 3), {EmployeeID: 1, DocumentTypeID: 4, DocumentTypeName: "Titulo", CreatedAt: daysAgo(3)}}
	sentAt := daysAgo(1)
	docs := []Document{
		{ID: 10, EmployeeID: 1, DocumentTypeID: 1, Name: "cpf.pdf", Status: DocumentStatusSent, SentAt: &sentAt},
		{ID: 11, EmployeeID: 1, DocumentTypeID: 2, Name: "rg.pdf", Status: DocumentStatusSent, SentAt: &sentAt},
		{ID: 12, EmployeeID: 1, DocumentTypeID: 3, Name: "cnh.pdf", Status: DocumentStatusPending},
	}

	status := BuildStatus(employee, edges, docs, now)

	assert.Equal(t, 4, status.TotalRequired)
	assert.Equal(t, 3, status.TotalSent)
	assert.Equal(t, 1, status.TotalPending)
	assert.Equal(t, 75, status.CompletionPercentage)
	assert.False(t, status.IsComplete)
	assert.Equal(t, []string{"Submit the following documents: Titulo"}, status.NextActions)

	require.Len(t, status.Documents, 4)
	assert.Equal(t, "CNH", status.Documents[0].DocumentTypeName)
	require.NotNil(t, status.Documents[0].DocumentID)
	assert.Equal(t, uint(12), *status.Documents[0].DocumentID)
}

func TestBuildStatusVacuouslyComplete(t *testing.T) {
	status := BuildStatus(Employee{ID: 1}, nil, nil, now)
	assert.Equal(t, 100, status.CompletionPercentage)
	assert.True(t, status.IsComplete)
	assert.Equal(t, []string{"All required documents have been submitted"}, status.NextActions)
}

func TestBuildStatusPriorityCallout(t *testing.T) {
	edges := []RequirementEdge{edge(1, 1, 8), edge(1, 2, 12), edge(1, 3, 2)}

	status := BuildStatus(Employee{ID: 1}, edges, nil, now)

	assert.Equal(t, 0, status.CompletionPercentage)
	require.Len(t, status.NextActions, 2)
	assert.Equal(t, "Submit the following documents: CNH, CPF, RG", status.NextActions[0])
	assert.Equal(t, "Priority: RG has been pending for 12 days", status.NextActions[1])

	status = BuildStatus(Employee{ID: 1}, []RequirementEdge{edge(1, 1, 7)}, nil, now)
	assert.Len(t, status.NextActions, 1)
}

func TestRoundRatio(t *testing.T) {
	assert.Equal(t, 67, RoundRatio(2, 3, 100, 100))
	assert.Equal(t, 33, RoundRatio(1, 3, 100, 100))
	assert.Equal(t, 50, RoundRatio(1, 2, 100, 100))
	assert.Equal(t, 3, RoundRatio(5, 2, 1, 0))
	assert.Equal(t, 100, RoundRatio(0, 0, 100, 100))
}

func TestSummarizeIncomplete(t *testing.T) {
	statuses := []DocumentationStatus{
		BuildStatus(Employee{ID: 1, Name: "Ana"}, []RequirementEdge{edge(1, 1, 1)}, nil, now),
		BuildStatus(Employee{ID: 2, Name: "Bruno"}, nil, nil, now),
		BuildStatus(Employee{ID: 3, Name: "Carla"}, nil, nil, now),
	}

	incomplete, summary := SummarizeIncomplete(statuses)
	require.Len(t, incomplete, 1)
	assert.Equal(t, []string{"CPF"}, incomplete[0].PendingDocuments)
	assert.Equal(t, IncompleteSummary{TotalEmployees: 3, IncompleteCount: 1, CompleteCount: 2, OverallCompletionRate: 67}, summary)

	assert.Equal(t, 67, AverageCompletion(statuses))
	assert.Equal(t, 0, AverageCompletion(nil))
}

func TestDocumentLifecycle(t *testing.T) {
	doc, err := NewSentDocument(1, 2, "  contrato.pdf ", now)
	require.NoError(t, err)
	assert.Equal(t, "contrato.pdf", doc.Name)
	assert.Equal(t, DocumentStatusSent, doc.Status)

	assert.ErrorIs(t, doc.Resubmit("novo.pdf", now), ErrDocumentAlreadySubmitted)
	assert.ErrorIs(t, doc.ChangeStatus(DocumentStatusSent, now), ErrStatusUnchanged)

	require.NoError(t, doc.ChangeStatus(DocumentStatusPending, now))
	later := now.Add(time.Hour)
	require.NoError(t, doc.Resubmit("novo.pdf", later))
	assert.Equal(t, "novo.pdf", doc.Name)
	assert.Equal(t, later, *doc.SentAt)
}

func TestNormalizeDocumentName(t *testing.T) {
	for _, name := range []string{"a.pdf", "relatório final (v2).docx", "scan_01.jpeg"} {
		_, err := NormalizeDocumentName(name)
		assert.NoError(t, err, name)
	}
	for _, name := range []string{"ab", "noextension", "bad.p", "bad.toolong", "semi;colon.pdf"} {
		_, err := NormalizeDocumentName(name)
		assert.ErrorIs(t, err, ErrInvalidDocumentName, name)
	}
}
