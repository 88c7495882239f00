package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	storeErr := errors.New("insert or update on table \"items\" violates foreign key constraint")

	tests := []struct {
		name         string
		err          error
		isValidation bool
		isNotFound   bool
	}{
		{
			name:         "Validation error",
			err:          NewValidationError("item %d: quantity must be positive", 2),
			isValidation: true,
		},
		{
			name:       "Wrapped not found",
			err:        fmt.Errorf("get catalog: %w", ErrProjectNotFound),
			isNotFound: true,
		},
		{
			name:       "Empty catalog",
			err:        ErrCatalogEmpty,
			isNotFound: true,
		},
		{
			name: "Transaction error",
			err:  &TransactionError{Op: "insert items", Err: storeErr},
		},
		{
			name: "Nil error",
			err:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValidation, IsValidation(tt.err))
			assert.Equal(t, tt.isNotFound, IsNotFound(tt.err))
		})
	}
}

func TestTransactionError_Unwrap(t *testing.T) {
	storeErr := errors.New("connection reset")
	err := fmt.Errorf("submit order: %w", &TransactionError{Op: "commit", Err: storeErr})

	var txErr *TransactionError
	assert.True(t, errors.As(err, &txErr))
	assert.Equal(t, "commit", txErr.Op)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "order transaction failed at commit")
}
