package student

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
)

func TestNewStudent_Normalization(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	s, err := NewStudent(NewStudentParams{
		FullName:  "  Aminata Diallo  ",
		Phone:     " +237 650 00 00 00 ",
		Email:     " Aminata.Diallo@Example.COM ",
		Country:   " Cameroun ",
		AgentName: " Paul ",
		Notes:     "  premier contact  ",
		Now:       now,
	})
	require.NoError(t, err)

	assert.Equal(t, "Aminata Diallo", s.FullName)
	assert.Equal(t, "+237 650 00 00 00", s.Phone)
	assert.Equal(t, "aminata.diallo@example.com", s.Email)
	assert.Equal(t, "Cameroun", s.Country)
	assert.Equal(t, "Paul", s.AgentName)
	assert.Equal(t, "premier contact", s.Notes)
	assert.Equal(t, now, s.CreatedAt)
	assert.Equal(t, now, s.UpdatedAt)
}

func TestNewStudent_DefaultCurrency(t *testing.T) {
	s, err := NewStudent(NewStudentParams{FullName: "Test"})
	require.NoError(t, err)
	assert.Equal(t, "FCFA", s.Currency)

	s, err = NewStudent(NewStudentParams{FullName: "Test", Currency: " EUR "})
	require.NoError(t, err)
	assert.Equal(t, "EUR", s.Currency)
}

func TestNewStudent_InvalidFullName(t *testing.T) {
	_, err := NewStudent(NewStudentParams{FullName: "   "})
	assert.ErrorIs(t, err, ErrInvalidFullName)

	_, err = NewStudent(NewStudentParams{FullName: strings.Repeat("x", 201)})
	assert.ErrorIs(t, err, ErrInvalidFullName)
}

func TestNewStudent_NegativeAmount(t *testing.T) {
	_, err := NewStudent(NewStudentParams{FullName: "Test", TotalAmount: -1})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestNewStudent_NoStatusByDefault(t *testing.T) {
	s, err := NewStudent(NewStudentParams{FullName: "Test"})
	require.NoError(t, err)
	assert.False(t, s.HasStatus())
	assert.Nil(t, s.StatusID)
}

func TestStudent_StatusEquals(t *testing.T) {
	a := status.StatusID(1)
	b := status.StatusID(2)

	s := &Student{StatusID: &a}
	assert.True(t, s.StatusEquals(&a))
	assert.False(t, s.StatusEquals(&b))
	assert.False(t, s.StatusEquals(nil))

	s.StatusID = nil
	assert.True(t, s.StatusEquals(nil))
	assert.False(t, s.StatusEquals(&a))
}

func TestStatusChange_Kinds(t *testing.T) {
	to := status.StatusID(1)

	initial := &StatusChange{FromStatusID: nil, ToStatusID: &to}
	assert.True(t, initial.IsInitial())
	assert.False(t, initial.IsClearing())

	clearing := &StatusChange{FromStatusID: &to, ToStatusID: nil}
	assert.False(t, clearing.IsInitial())
	assert.True(t, clearing.IsClearing())
}
