package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateTOTPSecret(t *testing.T) {
	secret, uri, err := GenerateTOTPSecret("a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.Contains(t, uri, "otpauth://totp/")
	assert.Contains(t, uri, "TalentVerse")
}

func TestValidateTOTPCode_CurrentStep(t *testing.T) {
	secret, _, err := GenerateTOTPSecret("a@x.com")
	require.NoError(t, err)

	at := time.Now()
	code, err := GenerateTOTPCode(secret, at)
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.True(t, ValidateTOTPCode(code, secret, at))
}

func TestValidateTOTPCode_SkewTolerance(t *testing.T) {
	secret, _, err := GenerateTOTPSecret("a@x.com")
	require.NoError(t, err)

	at := time.Now()
	code, err := GenerateTOTPCode(secret, at)
	require.NoError(t, err)

	// One step of drift on either side is accepted
	assert.True(t, ValidateTOTPCode(code, secret, at.Add(30*time.Second)))
	assert.True(t, ValidateTOTPCode(code, secret, at.Add(-30*time.Second)))

	// Two steps is outside the window
	assert.False(t, ValidateTOTPCode(code, secret, at.Add(90*time.Second)))
}

func TestValidateTOTPCode_WrongCode(t *testing.T) {
	secret, _, err := GenerateTOTPSecret("a@x.com")
	require.NoError(t, err)

	assert.False(t, ValidateTOTPCode("000000", secret, time.Now()))
	assert.False(t, ValidateTOTPCode("garbage", secret, time.Now()))
}
