package jwt

import (
	"testing"
	"time"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_CarriesClaims(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "15m")

	token, expiresAt, err := svc.GenerateAccessToken(employee.Employee{
		ID:         "emp-1",
		Name:       "Awa Diop",
		Email:      "awa.diop@example.sn",
		Department: "Informatique",
		Role:       employee.RoleDGPEC,
	})

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Greater(t, expiresAt, time.Now().Unix())

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	userID, _ := decoded.Get("user_id")
	assert.Equal(t, "emp-1", userID)
	role, _ := decoded.Get("role")
	assert.Equal(t, "dgpec", role)
	tokenType, _ := decoded.Get("type")
	assert.Equal(t, "access", tokenType)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "not-a-duration")

	_, _, err := svc.GenerateAccessToken(employee.Employee{ID: "emp-1"})

	assert.Error(t, err)
}

func TestSSEToken_RoundTrip(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "15m")

	token, expiresIn, err := svc.GenerateSSEToken("emp-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := svc.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "emp-1", userID)
}

func TestValidateSSEToken_RejectsAccessToken(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "15m")

	// An access token must not open an SSE stream.
	token, _, err := svc.GenerateAccessToken(employee.Employee{ID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.ValidateSSEToken(token)
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsGarbage(t *testing.T) {
	t.Parallel()
	svc := NewJWTService("test-secret", "15m")

	_, err := svc.ValidateSSEToken("not.a.token")
	assert.Error(t, err)
}

func TestValidateSSEToken_RejectsForeignKey(t *testing.T) {
	t.Parallel()
	issuer := NewJWTService("secret-a", "15m")
	verifier := NewJWTService("secret-b", "15m")

	token, _, err := issuer.GenerateSSEToken("emp-1")
	require.NoError(t, err)

	_, err = verifier.ValidateSSEToken(token)
	assert.Error(t, err)
}
