package services

import (
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP settings: 30-second period, 6 digits, HMAC-SHA1, one step of
// clock-skew tolerance on either side (RFC 6238 defaults).
const (
	totpIssuer = "TalentVerse"
	totpPeriod = 30
	totpSkew   = 1
)

// GenerateTOTPSecret creates a new shared secret for an account and the
// otpauth provisioning URI an authenticator app can enroll from.
func GenerateTOTPSecret(accountName string) (secret string, uri string, err error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: accountName,
		Period:      totpPeriod,
		SecretSize:  20,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", "", err
	}

	return key.Secret(), key.URL(), nil
}

// ValidateTOTPCode checks a code against the secret at the given time,
// accepting the current step and one adjacent step on either side.
func ValidateTOTPCode(code, secret string, at time.Time) bool {
	rv, err := totp.ValidateCustom(code, secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})

	return rv && err == nil
}

// GenerateTOTPCode derives the code for a secret at the given time.
func GenerateTOTPCode(secret string, at time.Time) (string, error) {
	return totp.GenerateCodeCustom(secret, at, totp.ValidateOpts{
		Period:    totpPeriod,
		Skew:      totpSkew,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
}
