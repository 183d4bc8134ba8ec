package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/afcalink/afcalink-backoffice/internal/domain/payment"
	"github.com/afcalink/afcalink-backoffice/internal/domain/shared"
	"github.com/afcalink/afcalink-backoffice/internal/domain/student"
)

func TestComputeBalance_DerivesFromReceivedOnly(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	studentRepo.students[1] = &student.Student{
		ID:          1,
		FullName:    "Aminata Diallo",
		TotalAmount: 500000,
		Currency:    "FCFA",
	}

	paymentRepo := &fakePaymentRepo{}
	paymentRepo.entries = append(paymentRepo.entries,
		&payment.Payment{ID: 1, StudentID: 1, Amount: 150000, Status: payment.StatusReceived},
		&payment.Payment{ID: 2, StudentID: 1, Amount: 50000, Status: payment.StatusReceived},
		&payment.Payment{ID: 3, StudentID: 1, Amount: 100000, Status: payment.StatusPending},
		&payment.Payment{ID: 4, StudentID: 2, Amount: 999999, Status: payment.StatusReceived},
	)

	handler := NewComputeBalanceHandler(studentRepo, paymentRepo)

	result, err := handler.Handle(context.Background(), ComputeBalanceQuery{StudentID: 1})
	require.NoError(t, err)

	assert.Equal(t, student.StudentID(1), result.StudentID)
	assert.Equal(t, "FCFA", result.Currency)
	assert.Equal(t, student.Amount(500000), result.Balance.TotalAmount)
	assert.Equal(t, student.Amount(200000), result.Balance.Paid)
	assert.Equal(t, int64(300000), result.Balance.Balance)
}

func TestComputeBalance_OverpaymentGoesNegative(t *testing.T) {
	studentRepo := newFakeStudentRepo()
	studentRepo.students[1] = &student.Student{ID: 1, FullName: "Paul Biya Jr", TotalAmount: 100000, Currency: "FCFA"}

	paymentRepo := &fakePaymentRepo{}
	paymentRepo.entries = append(paymentRepo.entries,
		&payment.Payment{ID: 1, StudentID: 1, Amount: 150000, Status: payment.StatusReceived},
	)

	handler := NewComputeBalanceHandler(studentRepo, paymentRepo)

	result, err := handler.Handle(context.Background(), ComputeBalanceQuery{StudentID: 1})
	require.NoError(t, err)

	assert.Equal(t, int64(-50000), result.Balance.Balance)
}

func TestComputeBalance_MissingStudent(t *testing.T) {
	handler := NewComputeBalanceHandler(newFakeStudentRepo(), &fakePaymentRepo{})

	result, err := handler.Handle(context.Background(), ComputeBalanceQuery{StudentID: 42})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, shared.IsNotFound(err))
}

func TestComputeBalance_InvalidID(t *testing.T) {
	handler := NewComputeBalanceHandler(newFakeStudentRepo(), &fakePaymentRepo{})

	_, err := handler.Handle(context.Background(), ComputeBalanceQuery{StudentID: 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}
