package mfa

import (
	"strings"
	"testing"
	"time"
)

func TestHOTPRFCVectors(t *testing.T) {
	cases := []struct {
		algorithm string
		secret    string
		ts        int64
		code      string
	}{
		{"SHA1", "12345678901234567890", 59, "94287082"},
		{"SHA1", "12345678901234567890", 1111111109, "07081804"},
		{"SHA1", "12345678901234567890", 2000000000, "69279037"},
		{"SHA256", "12345678901234567890123456789012", 59, "46119246"},
		{"SHA256", "12345678901234567890123456789012", 1234567890, "91819424"},
		{"SHA512", "1234567890123456789012345678901234567890123456789012345678901234", 59, "90693936"},
	}

	for _, tc := range cases {
		tp := &totp{config: TOTPConfig{Digits: 8, Period: 30, Algorithm: tc.algorithm}}
		seed := seedEncoding.EncodeToString([]byte(tc.secret))
		ok, err := tp.verify(seed, Otp(tc.code), time.Unix(tc.ts, 0))
		if err != nil || !ok {
			t.Fatalf("%s vector failed at t=%d: ok=%v err=%v", tc.algorithm, tc.ts, ok, err)
		}
	}
}

func TestTOTPSkewWindow(t *testing.T) {
	tp := &totp{config: DefaultTOTPConfig()}
	seed, err := tp.newSeed()
	if err != nil {
		t.Fatalf("newSeed: %v", err)
	}
	now := time.Unix(1_700_000_000, 0)
	code, err := tp.code(seed, now)
	if err != nil {
		t.Fatalf("code: %v", err)
	}

	for _, d := range []time.Duration{0, 30 * time.Second, -30 * time.Second} {
		if ok, _ := tp.verify(seed, Otp(code), now.Add(d)); !ok {
			t.Fatalf("expected code to verify at offset %s", d)
		}
	}
	if ok, _ := tp.verify(seed, Otp(code), now.Add(2*time.Minute)); ok {
		t.Fatal("expected code outside the skew window to fail")
	}
	if ok, _ := tp.verify(seed, "12345", now); ok {
		t.Fatal("expected wrong-length code to fail")
	}
}

func TestProvisionURI(t *testing.T) {
	tp := &totp{config: DefaultTOTPConfig()}
	uri := tp.provisionURI("ABCDEF", "alice@example.com")
	for _, want := range []string{"otpauth://totp/", "secret=ABCDEF", "issuer=goIdentity", "digits=6", "period=30"} {
		if !strings.Contains(uri, want) {
			t.Fatalf("uri %q missing %q", uri, want)
		}
	}
}

func TestTOTPConfigValidate(t *testing.T) {
	bad := []TOTPConfig{
		{Digits: 4, Period: 30},
		{Digits: 6, Period: 0},
		{Digits: 6, Period: 30, Skew: 9},
		{Digits: 6, Period: 30, Algorithm: "MD5"},
	}
	for i, cfg := range bad {
		if err := cfg.validate(); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
	if err := DefaultTOTPConfig().validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}
