package phone_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/pkg/phone"
)

func TestNormalize_NumeroIndioValido(t *testing.T) {
	got, err := phone.Normalize("98765 43210", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)
}

func TestNormalize_PrefijoInternacional(t *testing.T) {
	got, err := phone.Normalize("+1 650-253-0000", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+16502530000", got)
}

func TestNormalize_Invalido(t *testing.T) {
	_, err := phone.Normalize("12", "IN")
	assert.Error(t, err)

	_, err = phone.Normalize("   ", "IN")
	assert.Error(t, err)

	_, err = phone.Normalize("not-a-phone", "IN")
	assert.Error(t, err)
}
