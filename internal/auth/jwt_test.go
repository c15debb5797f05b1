package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/logfrete/freight-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(userType domain.UserType, carrierName string) *domain.User {
	u := &domain.User{
		FullName:    "Ana Souza",
		Username:    "ana.souza",
		Email:       "ana@logfrete.com.br",
		UserType:    userType,
		CarrierName: carrierName,
	}
	u.ID = uuid.New()
	return u
}

func TestIssueAndValidateRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "freight-api", time.Hour)
	user := testUser(domain.UserTypeUser, "")

	token, err := issuer.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	actor, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, "Ana Souza", actor.FullName)
	assert.Equal(t, "ana@logfrete.com.br", actor.Email)
	assert.Equal(t, domain.UserTypeUser, actor.Role)
	assert.Empty(t, actor.CarrierName)
	assert.True(t, actor.IsStaff())
}

func TestCarrierClaimsSurviveRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "freight-api", time.Hour)
	user := testUser(domain.UserTypeCarrier, "Acme Transportes")

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	actor, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserTypeCarrier, actor.Role)
	assert.Equal(t, "Acme Transportes", actor.CarrierName)
	assert.True(t, actor.IsCarrier())
	assert.False(t, actor.IsStaff())
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "freight-api", -time.Minute)

	token, err := issuer.Issue(testUser(domain.UserTypeUser, ""))
	require.NoError(t, err)

	_, err = issuer.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "freight-api", time.Hour)
	other := NewTokenIssuer("other-secret", "freight-api", time.Hour)

	token, err := issuer.Issue(testUser(domain.UserTypeUser, ""))
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsWrongIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "freight-api", time.Hour)
	other := NewTokenIssuer("test-secret", "another-service", time.Hour)

	token, err := issuer.Issue(testUser(domain.UserTypeUser, ""))
	require.NoError(t, err)

	_, err = other.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "freight-api", time.Hour)

	_, err := issuer.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCanActOn(t *testing.T) {
	staff := &Actor{Role: domain.UserTypeUser}
	carrier := &Actor{Role: domain.UserTypeCarrier, CarrierName: "Acme Transportes"}

	ownMap := &domain.FreightMap{SelectedCarrier: "Acme Transportes"}
	otherMap := &domain.FreightMap{SelectedCarrier: "Beta Logística"}

	assert.True(t, staff.CanActOn(ownMap))
	assert.True(t, staff.CanActOn(otherMap))
	assert.True(t, carrier.CanActOn(ownMap))
	assert.False(t, carrier.CanActOn(otherMap))
}
