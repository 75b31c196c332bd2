package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserSafeMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", fmt.Errorf("%w: select a product first", ErrValidation), "Select a product first"},
		{"wrapped validation", fmt.Errorf("add line: %w", fmt.Errorf("%w: amount must be greater than zero", ErrValidation)), "Amount must be greater than zero"},
		{"state", fmt.Errorf("%w: save the order before submitting", ErrInvalidState), "Save the order before submitting"},
		{"bare sentinel", ErrNotFound, "Not found"},
		{"persistence", fmt.Errorf("%w: redis down", ErrPersistence), "Could not save right now, please try again"},
		{"internal", errors.New("pq: connection refused"), "Something went wrong, please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserSafeMessage(tt.err))
		})
	}
}

func TestIsRecoverable(t *testing.T) {
	assert.True(t, IsRecoverable(fmt.Errorf("x: %w", ErrValidation)))
	assert.True(t, IsRecoverable(ErrInvalidState))
	assert.False(t, IsRecoverable(errors.New("boom")))
}

func TestPaginationBounds(t *testing.T) {
	p := NewPagination(2, 10, 25)
	start, end := p.Bounds()
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)
	assert.Equal(t, 3, p.TotalPages)

	p = NewPagination(5, 10, 25)
	start, end = p.Bounds()
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}
