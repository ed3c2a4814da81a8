package auth

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"net/url"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// TOTP generates shared secrets and validates time-based one-time codes.
// Codes are six digits, SHA1, 30-second steps, with one step of clock-drift
// tolerance in either direction.
type TOTP struct {
	issuer string
}

func NewTOTP(issuer string) *TOTP {
	return &TOTP{issuer: issuer}
}

// GenerateSecret produces a fresh random shared secret labeled with the
// account identifier (shown by authenticator apps next to the issuer).
func (t *TOTP) GenerateSecret(accountLabel string) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      t.issuer,
		AccountName: accountLabel,
	})
	if err != nil {
		return "", err
	}
	return key.Secret(), nil
}

// EnrollmentImage renders the secret as a base64-encoded PNG QR code for
// import into an authenticator app. Pure function of its inputs.
func (t *TOTP) EnrollmentImage(secret, accountLabel string) (string, error) {
	v := url.Values{}
	v.Set("secret", secret)
	v.Set("issuer", t.issuer)

	u := url.URL{
		Scheme:   "otpauth",
		Host:     "totp",
		Path:     "/" + t.issuer + ":" + accountLabel,
		RawQuery: v.Encode(),
	}

	key, err := otp.NewKeyFromURL(u.String())
	if err != nil {
		return "", err
	}

	img, err := key.Image(200, 200)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// GenerateCode computes the current one-time code for a secret. It exists
// for test harnesses standing in for an authenticator app; production flows
// only validate.
func (t *TOTP) GenerateCode(secret string) (string, error) {
	return totp.GenerateCode(secret, time.Now().UTC())
}

// ValidateCode reports whether code matches the expected value for secret
// within the allowed clock drift. Never returns an error to the caller: a
// malformed code simply does not validate.
func (t *TOTP) ValidateCode(secret, code string) bool {
	ok, err := totp.ValidateCustom(code, secret, time.Now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}
