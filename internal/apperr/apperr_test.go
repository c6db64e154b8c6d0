package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFoundf("order %s not found", "o1"), NotFound},
		{"wrapped", fmt.Errorf("place order: %w", InsufficientStockf("insufficient stock")), InsufficientStock},
		{"plain error", errors.New("boom"), Internal},
		{"nil", nil, Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorsIsMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("checkout: %w", InsufficientStockf("product p1 has 2 left"))
	assert.True(t, errors.Is(err, ErrInsufficientStock))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := Wrap(Conflict, cause, "category %q already exists", "Books")
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `category "Books" already exists: duplicate entry`, err.Error())
	assert.True(t, IsKind(err, Conflict))
}
