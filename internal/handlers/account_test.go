package handlers

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/talentverse/talentverse-backend/internal/models"
	"github.com/talentverse/talentverse-backend/internal/services"
)

func TestRegister_CreatesUserWithBonusAndToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, "POST", "/api/account/register", "", map[string]string{
		"username": "alice",
		"email":    "Alice@X.com",
		"password": "Secret1!",
		"bio":      "I teach guitar",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	resp := decodeEnvelope(t, w)
	assert.True(t, resp.Success)

	var dto UserDto
	decodeData(t, resp, &dto)
	assert.Equal(t, "alice", dto.Username)
	assert.Equal(t, "alice@x.com", dto.Email, "email is stored lower-cased")
	assert.NotEmpty(t, dto.Token)

	var user models.User
	require.NoError(t, env.db.Where("email = ?", "alice@x.com").First(&user).Error)
	assert.Equal(t, models.RoleMember, user.Role)
	assert.Equal(t, float64(5), user.Credits, "signup bonus applied")

	var tx models.CreditTransaction
	require.NoError(t, env.db.Where("user_id = ?", user.ID).First(&tx).Error)
	assert.Equal(t, models.TransactionTypeBonus, tx.Type)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "a@x.com", "Secret1!", false)

	w := env.request(t, "POST", "/api/account/register", "", map[string]string{
		"username": "alice2",
		"email":    "A@X.com",
		"password": "Secret1!",
	})
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "User already exists", decodeEnvelope(t, w).Message)
}

func TestLogin_WithoutTwoFactorReturnsToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "a@x.com", "Secret1!", false)

	w := env.request(t, "POST", "/api/account/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "Secret1!",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var dto UserDto
	decodeData(t, decodeEnvelope(t, w), &dto)
	assert.NotEmpty(t, dto.Token)
	assert.False(t, dto.IsTwoFactorRequired)
}

func TestLogin_RejectionDoesNotRevealAccountExistence(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "a@x.com", "Secret1!", false)

	unknown := env.request(t, "POST", "/api/account/login", "", map[string]string{
		"email":    "nobody@x.com",
		"password": "Secret1!",
	})
	wrongPassword := env.request(t, "POST", "/api/account/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "WrongPass1!",
	})

	assert.Equal(t, 401, unknown.Code)
	assert.Equal(t, 401, wrongPassword.Code)
	assert.JSONEq(t, unknown.Body.String(), wrongPassword.Body.String(),
		"unknown user and wrong password must be indistinguishable")
}

func TestLogin_WithTwoFactorReturnsPendingAndNoToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "a@x.com", "Secret1!", true)

	w := env.request(t, "POST", "/api/account/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "Secret1!",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var raw map[string]json.RawMessage
	decodeData(t, decodeEnvelope(t, w), &raw)
	assert.NotContains(t, raw, "token", "pending response must not carry a token")

	var dto UserDto
	decodeData(t, decodeEnvelope(t, w), &dto)
	assert.True(t, dto.IsTwoFactorRequired)
}

func TestLoginWith2FA_Flow(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", true)

	// First step stores a fresh code; overwrite it with a known one
	w := env.request(t, "POST", "/api/account/login", "", map[string]string{
		"email":    "a@x.com",
		"password": "Secret1!",
	})
	require.Equal(t, 200, w.Code)
	require.NoError(t, env.codes.Put(context.Background(), codeOwner(user.ID), "654321"))

	// Malformed code is rejected before store validation
	w = env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "a@x.com",
		"code":  "65ab21",
	})
	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "Code must be exactly 6 digits", decodeEnvelope(t, w).Message)

	// Wrong code
	w = env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "a@x.com",
		"code":  "000000",
	})
	assert.Equal(t, 401, w.Code)

	// Correct code yields a token
	w = env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "a@x.com",
		"code":  "654321",
	})
	require.Equal(t, 200, w.Code, w.Body.String())
	var dto UserDto
	decodeData(t, decodeEnvelope(t, w), &dto)
	assert.NotEmpty(t, dto.Token)

	// Replaying the consumed code fails
	w = env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "a@x.com",
		"code":  "654321",
	})
	assert.Equal(t, 401, w.Code)
}

func TestLoginWith2FA_RejectsAccountsWithoutTwoFactor(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "alice", "a@x.com", "Secret1!", false)

	w := env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "a@x.com",
		"code":  "123456",
	})
	assert.Equal(t, 401, w.Code)

	w = env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "ghost@x.com",
		"code":  "123456",
	})
	assert.Equal(t, 401, w.Code)
}

func TestEnableTwoFactor_RequiresValidCode(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	token := env.tokenFor(t, user)

	// Without a stored code, enabling fails
	w := env.request(t, "POST", "/api/account/enable-2fa", token, map[string]string{
		"code": "123456",
	})
	assert.Equal(t, 400, w.Code)

	var loaded models.User
	require.NoError(t, env.db.First(&loaded, user.ID).Error)
	assert.False(t, loaded.TwoFactorEnabled)

	// With a valid code, the flag is persisted
	require.NoError(t, env.codes.Put(context.Background(), codeOwner(user.ID), "123456"))
	w = env.request(t, "POST", "/api/account/enable-2fa", token, map[string]string{
		"code": " 123456 ",
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	require.NoError(t, env.db.First(&loaded, user.ID).Error)
	assert.True(t, loaded.TwoFactorEnabled)
}

func TestDisableTwoFactor(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", true)
	token := env.tokenFor(t, user)

	require.NoError(t, env.codes.Put(context.Background(), codeOwner(user.ID), "123456"))
	w := env.request(t, "POST", "/api/account/disable-2fa", token, map[string]string{
		"code": "123456",
	})
	require.Equal(t, 200, w.Code)

	var loaded models.User
	require.NoError(t, env.db.First(&loaded, user.ID).Error)
	assert.False(t, loaded.TwoFactorEnabled)
}

func TestRequestTwoFactorCode_StoresCode(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	token := env.tokenFor(t, user)

	w := env.request(t, "POST", "/api/account/request-2fa-code", token, nil)
	require.Equal(t, 200, w.Code, w.Body.String())

	// A code for this owner now exists: a wrong submission leaves it in
	// place, so enabling with it afterwards still works once we learn it.
	valid, err := env.codes.Validate(context.Background(), codeOwner(user.ID), "000000")
	require.NoError(t, err)
	assert.False(t, valid, "random code should not equal the probe value")
}

func TestEnrollAuthenticator_PersistsSecret(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", false)
	token := env.tokenFor(t, user)

	w := env.request(t, "POST", "/api/account/enroll-authenticator", token, nil)
	require.Equal(t, 200, w.Code, w.Body.String())

	var data struct {
		Secret string `json:"secret"`
		URI    string `json:"uri"`
	}
	decodeData(t, decodeEnvelope(t, w), &data)
	assert.NotEmpty(t, data.Secret)
	assert.Contains(t, data.URI, "otpauth://totp/")

	var loaded models.User
	require.NoError(t, env.db.First(&loaded, user.ID).Error)
	assert.Equal(t, data.Secret, loaded.TOTPSecret)
}

func TestLoginWith2FA_AcceptsAuthenticatorCode(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice", "a@x.com", "Secret1!", true)

	secret, _, err := services.GenerateTOTPSecret(user.Email)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(user).Update("totp_secret", secret).Error)

	// No emailed code in the store; the time-based code alone completes login
	code, err := services.GenerateTOTPCode(secret, time.Now())
	require.NoError(t, err)

	w := env.request(t, "POST", "/api/account/login-2fa", "", map[string]string{
		"email": "a@x.com",
		"code":  code,
	})
	require.Equal(t, 200, w.Code, w.Body.String())

	var dto UserDto
	decodeData(t, decodeEnvelope(t, w), &dto)
	assert.NotEmpty(t, dto.Token)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, "GET", "/api/users/profile", "", nil)
	assert.Equal(t, 401, w.Code)

	w = env.request(t, "GET", "/api/users/profile", "not-a-token", nil)
	assert.Equal(t, 401, w.Code)
}
