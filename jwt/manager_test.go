package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	gjwt "github.com/golang-jwt/jwt/v5"
)

func newEdKeys(t *testing.T) (ed25519.PublicKey, ed25519.PrivateKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate ed25519 key: %v", err)
	}
	return pub, priv
}

func registered(iss string, ttl time.Duration) gjwt.RegisteredClaims {
	now := time.Now()
	return gjwt.RegisteredClaims{
		Issuer:    iss,
		Subject:   "sub",
		IssuedAt:  gjwt.NewNumericDate(now),
		NotBefore: gjwt.NewNumericDate(now),
		ExpiresAt: gjwt.NewNumericDate(now.Add(ttl)),
	}
}

func TestSignAndParseEd25519(t *testing.T) {
	pub, priv := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, Issuer: "identity"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	tok, err := m.Sign(registered("identity", time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var got gjwt.RegisteredClaims
	if err := m.Parse(tok, &got); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Subject != "sub" {
		t.Fatalf("unexpected subject %q", got.Subject)
	}
}

func TestParseRejectsWrongAlgorithm(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	tok := gjwt.NewWithClaims(gjwt.SigningMethodHS256, registered("", time.Minute))
	signed, err := tok.SignedString([]byte("secret-secret-secret-secret-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	var claims gjwt.RegisteredClaims
	if err := m.Parse(signed, &claims); err == nil {
		t.Fatal("expected wrong algorithm to be rejected")
	}
}

func TestParseIssuerAndExpiry(t *testing.T) {
	key := []byte("0123456789abcdef0123456789abcdef")
	now := time.Now()
	m, err := NewManager(Config{
		SigningMethod: MethodHS256,
		PrivateKey:    key,
		Issuer:        "identity",
		Now:           func() time.Time { return now },
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}

	other, _ := NewManager(Config{SigningMethod: MethodHS256, PrivateKey: key, Issuer: "other"})
	badIssuer, _ := other.Sign(registered("other", time.Minute))
	var claims gjwt.RegisteredClaims
	if err := m.Parse(badIssuer, &claims); !errors.Is(err, gjwt.ErrTokenInvalidIssuer) {
		t.Fatalf("expected invalid issuer, got %v", err)
	}

	short, _ := m.Sign(registered("identity", time.Second))
	now = now.Add(time.Hour)
	if err := m.Parse(short, &claims); !errors.Is(err, gjwt.ErrTokenExpired) {
		t.Fatalf("expected expired token, got %v", err)
	}
}

func TestKeyRotationWithVerifyKeys(t *testing.T) {
	pub1, priv1 := newEdKeys(t)
	pub2, _ := newEdKeys(t)
	m, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		PrivateKey:    priv1,
		KeyID:         "k1",
		VerifyKeys:    map[string][]byte{"k1": pub1, "k2": pub2},
	})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	tok, err := m.Sign(registered("", time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var claims gjwt.RegisteredClaims
	if err := m.Parse(tok, &claims); err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := NewManager(Config{
		SigningMethod: MethodEd25519,
		KeyID:         "k3",
		VerifyKeys:    map[string][]byte{"k1": pub1},
	}); err == nil {
		t.Fatal("expected unknown KeyID to be rejected")
	}
}

func TestNewManagerValidation(t *testing.T) {
	pub, _ := newEdKeys(t)
	cases := []Config{
		{SigningMethod: "rs512"},
		{SigningMethod: MethodHS256, PrivateKey: []byte("short")},
		{SigningMethod: MethodEd25519},
		{SigningMethod: MethodEd25519, PublicKey: pub, Leeway: time.Hour},
		{SigningMethod: MethodES256, PublicKey: []byte("not pem")},
	}
	for i, cfg := range cases {
		if _, err := NewManager(cfg); err == nil {
			t.Fatalf("case %d: expected error", i)
		}
	}
}

func TestPublicKeyDerivedFromPrivate(t *testing.T) {
	_, priv := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, Issuer: "identity"})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	tok, err := m.Sign(registered("identity", time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var got gjwt.RegisteredClaims
	if err := m.Parse(tok, &got); err != nil {
		t.Fatalf("parse with derived key: %v", err)
	}
}

func TestSignWithoutPrivateKey(t *testing.T) {
	pub, _ := newEdKeys(t)
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PublicKey: pub})
	if err != nil {
		t.Fatalf("new manager: %v", err)
	}
	if _, err := m.Sign(registered("", time.Minute)); err == nil {
		t.Fatal("expected verify-only manager to refuse signing")
	}
}

func FuzzParse(f *testing.F) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		f.Fatal(err)
	}
	m, err := NewManager(Config{SigningMethod: MethodEd25519, PrivateKey: priv, PublicKey: pub, Issuer: "fuzz"})
	if err != nil {
		f.Fatal(err)
	}
	valid, err := m.Sign(registered("fuzz", time.Minute))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(valid)
	f.Add("")
	f.Add("a.b.c")
	f.Add("eyJhbGciOiJub25lIn0.e30.")

	f.Fuzz(func(t *testing.T, s string) {
		var claims gjwt.RegisteredClaims
		_ = m.Parse(s, &claims)
	})
}
