package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/profile-builder/internal/config"
)

const testSecret = "a-reasonably-long-test-secret"

// signToken mints a token the way the account service would. Production code
// has no signing path, so the tests build their own.
func signToken(t *testing.T, secret string, method jwt.SigningMethod, claims jwt.Claims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func testClaims(userID uuid.UUID, expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func newVerifier(leeway time.Duration, issuer string) *TokenVerifier {
	return NewTokenVerifier(&config.JWTConfig{Secret: testSecret, Issuer: issuer, Leeway: leeway})
}

func TestVerify_ValidToken(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, testClaims(userID, time.Hour))

	got, err := newVerifier(0, "").Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerify_WrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", jwt.SigningMethodHS256, testClaims(uuid.New(), time.Hour))

	_, err := newVerifier(0, "").Verify(token)
	assert.Error(t, err)
}

func TestVerify_ExpiredToken(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS256, testClaims(uuid.New(), -time.Minute))

	_, err := newVerifier(0, "").Verify(token)
	assert.Error(t, err)
}

func TestVerify_LeewayToleratesClockDrift(t *testing.T) {
	// expired ten seconds ago, one minute of leeway
	token := signToken(t, testSecret, jwt.SigningMethodHS256, testClaims(uuid.New(), -10*time.Second))

	_, err := newVerifier(time.Minute, "").Verify(token)
	assert.NoError(t, err)
}

func TestVerify_MissingExpiry(t *testing.T) {
	userID := uuid.New()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, &Claims{UserID: userID})

	_, err := newVerifier(0, "").Verify(token)
	assert.Error(t, err)
}

func TestVerify_RejectsOtherSigningMethods(t *testing.T) {
	token := signToken(t, testSecret, jwt.SigningMethodHS512, testClaims(uuid.New(), time.Hour))

	_, err := newVerifier(0, "").Verify(token)
	assert.Error(t, err)
}

func TestVerify_MissingUserID(t *testing.T) {
	now := time.Now()
	token := signToken(t, testSecret, jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	})

	_, err := newVerifier(0, "").Verify(token)
	assert.Error(t, err)
}

func TestVerify_IssuerCheckedWhenConfigured(t *testing.T) {
	claims := testClaims(uuid.New(), time.Hour)
	claims.Issuer = "profile-accounts"
	token := signToken(t, testSecret, jwt.SigningMethodHS256, claims)

	_, err := newVerifier(0, "profile-accounts").Verify(token)
	assert.NoError(t, err)

	_, err = newVerifier(0, "someone-else").Verify(token)
	assert.Error(t, err)

	// no expected issuer configured, any issuer passes
	_, err = newVerifier(0, "").Verify(token)
	assert.NoError(t, err)
}

func TestVerify_GarbageInput(t *testing.T) {
	v := newVerifier(0, "")

	_, err := v.Verify("")
	assert.Error(t, err)

	_, err = v.Verify("not.a.token")
	assert.Error(t, err)
}
