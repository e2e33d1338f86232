package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/pkg/jwt"
)

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate("secret", "store.keeper", "Store Keeper", "store", "procurement-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "store.keeper", claims.UserID)
	assert.Equal(t, "store", claims.Role)
	assert.Equal(t, "procurement-api", claims.Issuer)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("secret", "u1", "", "", "iss", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("secret", "u1", "", "", "iss", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("secret", token)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u1", "", "", "iss", 5)
	assert.Error(t, err)
	_, err = jwt.Parse("", "x.y.z")
	assert.Error(t, err)
}
