package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

func seedStudent(t *testing.T, repo *fakeStudentRepo, name string) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{FullName: name})
	require.NoError(t, err)
	_, err = repo.Create(context.Background(), s, nil)
	require.NoError(t, err)
	return s
}

func TestSetStudentStatus_AppliesTransition(t *testing.T) {
	repo := newFakeStudentRepo()
	bus := &capturingBus{}
	handler := NewSetStudentStatusHandler(repo, bus, nil)

	stud := seedStudent(t, repo, "Aminata Diallo")

	result, err := handler.Handle(context.Background(), SetStudentStatusCommand{
		StudentID:    stud.ID,
		ToStatusID:   statusID(3),
		ActingUserID: userID(9),
	})
	require.NoError(t, err)

	assert.True(t, result.Applied)
	require.NotNil(t, result.Student)
	require.NotNil(t, result.Student.StatusID)
	assert.EqualValues(t, 3, *result.Student.StatusID)

	require.NotNil(t, result.Change)
	assert.Nil(t, result.Change.FromStatusID)
	assert.EqualValues(t, 3, *result.Change.ToStatusID)
	assert.Equal(t, int64(9), *result.Change.ChangedByUserID)
}

func TestSetStudentStatus_PublishesEvent(t *testing.T) {
	repo := newFakeStudentRepo()
	bus := &capturingBus{}
	handler := NewSetStudentStatusHandler(repo, bus, nil)

	stud := seedStudent(t, repo, "Aminata Diallo")

	_, err := handler.Handle(context.Background(), SetStudentStatusCommand{
		StudentID:  stud.ID,
		ToStatusID: statusID(2),
	})
	require.NoError(t, err)

	require.Len(t, bus.events, 1)
	event, ok := bus.events[0].(student.StatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, shared.EventStudentStatusChanged, event.EventType())
	assert.Equal(t, stud.ID, event.StudentID)
	assert.EqualValues(t, 2, *event.ToStatusID)
}

func TestSetStudentStatus_HistoryChains(t *testing.T) {
	repo := newFakeStudentRepo()
	handler := NewSetStudentStatusHandler(repo, nil, nil)
	ctx := context.Background()

	stud := seedStudent(t, repo, "Aminata Diallo")

	// Walk the student through 1 -> 3 -> none -> 2.
	for _, to := range []*status.StatusID{statusID(1), statusID(3), nil, statusID(2)} {
		_, err := handler.Handle(ctx, SetStudentStatusCommand{StudentID: stud.ID, ToStatusID: to})
		require.NoError(t, err)
	}

	trail, err := repo.History(ctx, stud.ID)
	require.NoError(t, err)
	require.Len(t, trail, 4)

	// Each entry's from must equal the previous entry's to.
	for i := 1; i < len(trail); i++ {
		prev, curr := trail[i-1], trail[i]
		if prev.ToStatusID == nil {
			assert.Nil(t, curr.FromStatusID)
		} else {
			require.NotNil(t, curr.FromStatusID)
			assert.Equal(t, *prev.ToStatusID, *curr.FromStatusID)
		}
	}

	assert.Nil(t, trail[0].FromStatusID)
	assert.True(t, trail[2].IsClearing())
	assert.EqualValues(t, 2, *trail[3].ToStatusID)
}

func TestSetStudentStatus_SameStatusStillRecorded(t *testing.T) {
	repo := newFakeStudentRepo()
	handler := NewSetStudentStatusHandler(repo, nil, nil)
	ctx := context.Background()

	stud := seedStudent(t, repo, "Aminata Diallo")

	for i := 0; i < 2; i++ {
		result, err := handler.Handle(ctx, SetStudentStatusCommand{
			StudentID:  stud.ID,
			ToStatusID: statusID(1),
		})
		require.NoError(t, err)
		assert.True(t, result.Applied)
	}

	trail, err := repo.History(ctx, stud.ID)
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}

func TestSetStudentStatus_MissingStudentIsNoOp(t *testing.T) {
	repo := newFakeStudentRepo()
	bus := &capturingBus{}
	handler := NewSetStudentStatusHandler(repo, bus, nil)

	result, err := handler.Handle(context.Background(), SetStudentStatusCommand{
		StudentID:  404,
		ToStatusID: statusID(1),
	})
	require.NoError(t, err)

	assert.False(t, result.Applied)
	assert.Nil(t, result.Student)
	assert.Nil(t, result.Change)
	assert.Empty(t, bus.events)
	assert.Empty(t, repo.history)
}

func TestSetStudentStatus_InvalidID(t *testing.T) {
	handler := NewSetStudentStatusHandler(newFakeStudentRepo(), nil, nil)

	_, err := handler.Handle(context.Background(), SetStudentStatusCommand{StudentID: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
