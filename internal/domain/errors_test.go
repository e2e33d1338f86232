package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procurement-api/internal/domain"
)

func TestNotFound_EsErrNotFound(t *testing.T) {
	err := domain.NotFound("Purchase order", 42)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.False(t, errors.Is(err, domain.ErrValidation))
	assert.Equal(t, "Purchase order with ID 42 not found", err.Error())
	assert.Equal(t, 42, err.Fields["id"])
}

func TestKindOf_SobreviveAlWrapping(t *testing.T) {
	base := domain.InvalidState("Only DRAFT dispatches can be updated")
	wrapped := fmt.Errorf("update dispatch: %w", base)

	assert.Equal(t, domain.ErrInvalidState, domain.KindOf(wrapped))

	var de *domain.Error
	assert.True(t, errors.As(wrapped, &de))
	assert.Equal(t, "Only DRAFT dispatches can be updated", de.Message)
}

func TestKindOf_ErrorNoDeDominio(t *testing.T) {
	assert.Nil(t, domain.KindOf(errors.New("boom")))
}

func TestError_SinMensajeUsaElKind(t *testing.T) {
	err := &domain.Error{Kind: domain.ErrConflict}
	assert.Equal(t, domain.ErrConflict.Error(), err.Error())
}
