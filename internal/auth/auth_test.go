package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vwds/internal/domain"
	"vwds/internal/models"
)

const testSecret = "test-secret"

func testUser(role models.Role) *models.User {
	return &models.User{ID: 7, Username: "alice", Email: "alice@example.com", Role: role}
}

func TestIssueVerify_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, 24*time.Hour)
	tok, exp, err := m.Issue(testUser(models.RolePoliceOfficer))
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, time.Minute)

	c, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, "alice", c.Username)
	assert.Equal(t, models.RolePoliceOfficer, c.Role)
}

func TestVerify_Failures(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	_, err := m.Verify("")
	assert.ErrorIs(t, err, domain.ErrMissingToken)

	_, err = m.Verify("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	other := NewTokenManager("other-secret", time.Hour)
	tok, _, err := other.Issue(testUser(models.RoleAdmin))
	require.NoError(t, err)
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "wrong secret")

	past := m.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	tok, _, err = past.Issue(testUser(models.RoleAdmin))
	require.NoError(t, err)
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidToken, "expired")
}

func TestVerify_RejectsUnknownRoleAndAlgorithm(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID:   1,
		Username: "mallory",
		Role:     "superuser",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err := forged.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID:   1,
		Username: "mallory",
		Role:     models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	s, err = hs512.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1, Username: "mallory", Role: models.RoleAdmin})
	s, err = noExp.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/vehicles", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc.def.ghi")
	assert.Equal(t, "abc.def.ghi", TokenFromRequest(r))

	r.Header.Set("Authorization", "bearer xyz")
	assert.Equal(t, "xyz", TokenFromRequest(r))

	r.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	assert.Empty(t, TokenFromRequest(r))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", hash)
	assert.True(t, CheckPassword("pw123", hash))
	assert.False(t, CheckPassword("pw124", hash))
}

func TestAuthorize(t *testing.T) {
	for _, role := range models.Roles {
		c := &Claims{UserID: 1, Username: "u", Role: role}
		err := Authorize(c, AdminOnly)
		if role == models.RoleAdmin {
			assert.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, domain.ErrForbidden, role)
		}
		assert.NoError(t, Authorize(c, AnyRole))
	}

	assert.ErrorIs(t, Authorize(&Claims{Role: models.RoleDataEntry}, TicketIssuers), domain.ErrForbidden)
	assert.ErrorIs(t, Authorize(&Claims{Role: models.RolePoliceOfficer}, DataEntryRoles), domain.ErrForbidden)
	assert.ErrorIs(t, Authorize(nil, AnyRole), domain.ErrMissingToken)
}
