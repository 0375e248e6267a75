package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/pkg/jwt"
)

const secret = "secreto-de-pruebas"

func TestGenerateYParse(t *testing.T) {
	token, err := jwt.Generate(secret, "u-1", "c-1", "MANAGER", "gestion-api", time.Hour)
	require.NoError(t, err)

	claims, err := jwt.Parse(secret, "gestion-api", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "c-1", claims.CompanyID)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestParse_Rechazos(t *testing.T) {
	valid, err := jwt.Generate(secret, "u-1", "c-1", "WORKER", "gestion-api", time.Hour)
	require.NoError(t, err)
	expired, err := jwt.Generate(secret, "u-1", "c-1", "WORKER", "gestion-api", time.Nanosecond)
	require.NoError(t, err)
	noCompany, err := jwt.Generate(secret, "u-1", "", "WORKER", "gestion-api", time.Hour)
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	tests := []struct {
		name   string
		secret string
		issuer string
		token  string
	}{
		{"firma incorrecta", "otro-secreto", "gestion-api", valid},
		{"emisor distinto", secret, "otro-emisor", valid},
		{"expirado", secret, "gestion-api", expired},
		{"sin empresa", secret, "gestion-api", noCompany},
		{"basura", secret, "", "no.es.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := jwt.Parse(tt.secret, tt.issuer, tt.token)
			assert.ErrorIs(t, err, jwt.ErrInvalidToken)
		})
	}
}

func TestGenerate_ParametrosInvalidos(t *testing.T) {
	_, err := jwt.Generate("", "u-1", "c-1", "WORKER", "", time.Hour)
	assert.Error(t, err)
	_, err = jwt.Generate(secret, "u-1", "c-1", "WORKER", "", 0)
	assert.Error(t, err)
}
