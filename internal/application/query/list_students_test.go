package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

func seedStudents() *fakeStudentRepo {
	repo := newFakeStudentRepo()
	repo.students[1] = &student.Student{ID: 1, FullName: "Aminata Diallo", StatusID: statusID(1), AgentName: "Bureau Douala"}
	repo.students[2] = &student.Student{ID: 2, FullName: "Serge Kamga", StatusID: statusID(3), AgentName: "Bureau Yaoundé"}
	repo.students[3] = &student.Student{ID: 3, FullName: "Fatou Ndiaye", StatusID: statusID(1), AgentName: "Bureau Douala"}
	return repo
}

func TestListStudents_All(t *testing.T) {
	handler := NewListStudentsHandler(seedStudents())

	result, err := handler.Handle(context.Background(), ListStudentsQuery{})
	require.NoError(t, err)
	assert.Len(t, result.Students, 3)
}

func TestListStudents_ByStatus(t *testing.T) {
	handler := NewListStudentsHandler(seedStudents())

	result, err := handler.Handle(context.Background(), ListStudentsQuery{StatusID: statusID(1)})
	require.NoError(t, err)
	assert.Len(t, result.Students, 2)
}

func TestListStudents_Search(t *testing.T) {
	handler := NewListStudentsHandler(seedStudents())

	result, err := handler.Handle(context.Background(), ListStudentsQuery{Search: "  diallo "})
	require.NoError(t, err)
	require.Len(t, result.Students, 1)
	assert.Equal(t, "Aminata Diallo", result.Students[0].FullName)
}

func TestListStudents_ByAgent(t *testing.T) {
	handler := NewListStudentsHandler(seedStudents())

	result, err := handler.Handle(context.Background(), ListStudentsQuery{AgentName: "Bureau Douala"})
	require.NoError(t, err)
	assert.Len(t, result.Students, 2)
}

func TestGetStudent_Found(t *testing.T) {
	handler := NewGetStudentHandler(seedStudents())

	stud, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Serge Kamga", stud.FullName)
}

func TestGetStudent_Missing(t *testing.T) {
	handler := NewGetStudentHandler(newFakeStudentRepo())

	_, err := handler.Handle(context.Background(), GetStudentQuery{StudentID: 9})
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err))
}

func TestListStatuses_ReturnsActive(t *testing.T) {
	handler := NewListStatusesHandler(newFakeStatusRepo("Prospect", "Envoyé"))

	statuses, err := handler.Handle(context.Background())
	require.NoError(t, err)
	assert.Len(t, statuses, 2)
}
