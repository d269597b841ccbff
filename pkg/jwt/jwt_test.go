package jwt_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/pluckd-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, exp, err := pkgjwt.Generate(testSecret, 42, "pluckd-test", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, tok)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "pluckd-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "cada token lleva un jti único")
}

func TestParse_Expired(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, 1, "pluckd-test", -time.Minute)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.ErrorIs(t, err, pkgjwt.ErrExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, 1, "pluckd-test", time.Hour)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestParse_TamperedPayload(t *testing.T) {
	tok, _, err := pkgjwt.Generate(testSecret, 1, "pluckd-test", time.Hour)
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	require.Len(t, parts, 3)
	// Se reemplaza el payload por el de otro token (otro usuario) manteniendo la firma original.
	other, _, err := pkgjwt.Generate(testSecret, 2, "pluckd-test", time.Hour)
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1]

	_, err = pkgjwt.Parse(testSecret, strings.Join(parts, "."))
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestParse_Garbage(t *testing.T) {
	_, err := pkgjwt.Parse(testSecret, "token.invalido.aqui")
	assert.ErrorIs(t, err, pkgjwt.ErrMalformed)
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, _, err := pkgjwt.Generate("", 1, "pluckd-test", time.Hour)
	assert.Error(t, err)
}
