package mfa

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const totpSecretBytes = 20

var seedEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// TOTPConfig configures RFC 6238 code generation.
type TOTPConfig struct {
	Issuer    string
	Digits    int
	Period    int
	Algorithm string
	Skew      int
}

// DefaultTOTPConfig matches common authenticator apps.
func DefaultTOTPConfig() TOTPConfig {
	return TOTPConfig{
		Issuer:    "goIdentity",
		Digits:    6,
		Period:    30,
		Algorithm: "SHA1",
		Skew:      1,
	}
}

func (c TOTPConfig) validate() error {
	if c.Digits < 6 || c.Digits > 8 {
		return errors.New("totp digits must be between 6 and 8")
	}
	if c.Period <= 0 {
		return errors.New("totp period must be positive")
	}
	if c.Skew < 0 || c.Skew > 5 {
		return errors.New("totp skew must be between 0 and 5")
	}
	if _, err := hmacFunc(c.Algorithm); err != nil {
		return err
	}
	return nil
}

type totp struct {
	config TOTPConfig
}

// newSeed returns a random base32 (unpadded) seed.
func (t *totp) newSeed() (string, error) {
	raw := make([]byte, totpSecretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return seedEncoding.EncodeToString(raw), nil
}

func (t *totp) provisionURI(seed, account string) string {
	issuer := t.config.Issuer
	label := url.PathEscape(issuer + ":" + account)

	v := url.Values{}
	v.Set("secret", seed)
	v.Set("issuer", issuer)
	v.Set("period", strconv.Itoa(t.config.Period))
	v.Set("digits", strconv.Itoa(t.config.Digits))
	v.Set("algorithm", strings.ToUpper(t.config.Algorithm))

	return "otpauth://totp/" + label + "?" + v.Encode()
}

// code returns the code for seed at now. Used by tests and tooling.
func (t *totp) code(seed string, now time.Time) (string, error) {
	secret, err := seedEncoding.DecodeString(seed)
	if err != nil {
		return "", fmt.Errorf("decode totp seed: %w", err)
	}
	return hotpCode(secret, now.Unix()/int64(t.config.Period), t.config.Digits, t.config.Algorithm)
}

// verify checks otp against seed within the configured skew.
func (t *totp) verify(seed string, otp Otp, now time.Time) (bool, error) {
	if len(otp) != t.config.Digits {
		return false, nil
	}
	secret, err := seedEncoding.DecodeString(seed)
	if err != nil {
		return false, fmt.Errorf("decode totp seed: %w", err)
	}
	if len(secret) == 0 {
		return false, errors.New("empty totp secret")
	}

	base := now.Unix() / int64(t.config.Period)
	for step := -t.config.Skew; step <= t.config.Skew; step++ {
		counter := base + int64(step)
		if counter < 0 {
			continue
		}
		generated, err := hotpCode(secret, counter, t.config.Digits, t.config.Algorithm)
		if err != nil {
			return false, err
		}
		if subtle.ConstantTimeCompare([]byte(generated), []byte(otp)) == 1 {
			return true, nil
		}
	}
	return false, nil
}

func hotpCode(secret []byte, counter int64, digits int, algorithm string) (string, error) {
	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(counter))

	hf, err := hmacFunc(algorithm)
	if err != nil {
		return "", err
	}
	mac := hmac.New(hf, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	return fmt.Sprintf("%0*d", digits, bin%mod), nil
}

func hmacFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case "", "SHA1":
		return sha1.New, nil
	case "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, errors.New("unsupported totp algorithm")
	}
}
