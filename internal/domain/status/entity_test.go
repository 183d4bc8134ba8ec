package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultStatuses_PipelineOrder(t *testing.T) {
	statuses := DefaultStatuses()
	assert.Len(t, statuses, 7)

	assert.Equal(t, "Prospect", statuses[0].Name)
	assert.Equal(t, "Voyage effectué", statuses[len(statuses)-1].Name)

	// Sort orders must be strictly increasing so the list renders as the
	// canonical pipeline sequence.
	for i := 1; i < len(statuses); i++ {
		assert.Greater(t, statuses[i].SortOrder, statuses[i-1].SortOrder)
	}

	for _, s := range statuses {
		assert.True(t, s.Active)
		assert.NoError(t, s.Validate())
	}
}

func TestStatus_Validate(t *testing.T) {
	s := &Status{Name: "   "}
	assert.Error(t, s.Validate())

	s.Name = "Accepté"
	assert.NoError(t, s.Validate())
}

func TestStatusID_IsValid(t *testing.T) {
	assert.True(t, StatusID(1).IsValid())
	assert.False(t, StatusID(0).IsValid())
	assert.False(t, StatusID(-3).IsValid())
}
