package jwt

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SigningMethod selects the JWS algorithm.
type SigningMethod string

const (
	MethodEd25519 SigningMethod = "ed25519"
	MethodES256   SigningMethod = "es256"
	MethodHS256   SigningMethod = "hs256"
)

// Config configures a Manager.
//
// PrivateKey is required to sign. For hs256 it is also the verification
// key; for ed25519 and es256 the public half is derived from it when
// PublicKey is empty. Keys may be raw ed25519 bytes or PEM.
type Config struct {
	SigningMethod SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Audience      string
	Leeway        time.Duration
	MaxFutureIAT  time.Duration
	KeyID         string
	VerifyKeys    map[string][]byte
	// Now overrides the validation clock.
	Now func() time.Time
}

// Manager signs and parses tokens. It is immutable after NewManager.
type Manager struct {
	config    Config
	signKey   any
	verifyKey any
}

// ErrIATInFuture reports a token issued too far ahead of the local clock.
var ErrIATInFuture = errors.New("token iat too far in the future")

// NewManager validates cfg and resolves its keys.
func NewManager(cfg Config) (*Manager, error) {
	if cfg.Leeway < 0 || cfg.Leeway > 2*time.Minute {
		return nil, errors.New("invalid leeway configuration")
	}
	if cfg.MaxFutureIAT == 0 {
		cfg.MaxFutureIAT = 10 * time.Minute
	}
	if cfg.MaxFutureIAT < 0 || cfg.MaxFutureIAT > 24*time.Hour {
		return nil, errors.New("invalid MaxFutureIAT configuration")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	cfg.KeyID = strings.TrimSpace(cfg.KeyID)

	m := &Manager{config: cfg}
	switch cfg.SigningMethod {
	case MethodHS256:
		if len(cfg.PrivateKey) < 32 {
			return nil, errors.New("hs256 requires a key of at least 32 bytes")
		}
		m.signKey, m.verifyKey = cfg.PrivateKey, cfg.PrivateKey
	case MethodEd25519, MethodES256:
		if len(cfg.PrivateKey) > 0 {
			k, err := m.parsePrivate(cfg.PrivateKey)
			if err != nil {
				return nil, err
			}
			m.signKey = k
		}
		if len(cfg.PublicKey) > 0 {
			k, err := m.parsePublic(cfg.PublicKey)
			if err != nil {
				return nil, err
			}
			m.verifyKey = k
		} else if m.signKey != nil {
			m.verifyKey = publicOf(m.signKey)
		}
		if len(cfg.VerifyKeys) == 0 && m.verifyKey == nil {
			return nil, fmt.Errorf("%s requires public key or verify key set", cfg.SigningMethod)
		}
	default:
		return nil, errors.New("unsupported signing method")
	}

	for kid, key := range cfg.VerifyKeys {
		if strings.TrimSpace(kid) == "" {
			return nil, errors.New("verify key map contains empty kid")
		}
		if _, err := m.keyBytesToVerifyKey(key); err != nil {
			return nil, fmt.Errorf("invalid verify key for kid %q: %w", kid, err)
		}
	}
	if cfg.KeyID != "" && len(cfg.VerifyKeys) > 0 {
		if _, ok := cfg.VerifyKeys[cfg.KeyID]; !ok {
			return nil, errors.New("KeyID is not present in VerifyKeys")
		}
	}
	return m, nil
}

// Issuer returns the configured issuer.
func (m *Manager) Issuer() string {
	return m.config.Issuer
}

// Sign encodes claims with the configured key.
func (m *Manager) Sign(claims jwt.Claims) (string, error) {
	if m.signKey == nil {
		return "", errors.New("manager has no signing key")
	}
	token := jwt.NewWithClaims(m.method(), claims)
	if m.config.KeyID != "" {
		token.Header["kid"] = m.config.KeyID
	}
	return token.SignedString(m.signKey)
}

// Parse verifies tokenStr and decodes it into claims. Errors wrap the
// golang-jwt sentinels, so callers can test for jwt.ErrTokenExpired and
// friends with errors.Is.
func (m *Manager) Parse(tokenStr string, claims jwt.Claims) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.method().Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.config.Now),
	}
	if m.config.Leeway > 0 {
		options = append(options, jwt.WithLeeway(m.config.Leeway))
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	token, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, m.keyFunc)
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrTokenInvalidClaims
	}

	iat, err := claims.GetIssuedAt()
	if err == nil && iat != nil && iat.Time.After(m.config.Now().Add(m.config.MaxFutureIAT)) {
		return ErrIATInFuture
	}
	return nil
}

func (m *Manager) keyFunc(t *jwt.Token) (any, error) {
	if t.Method.Alg() != m.method().Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
	}

	kid, _ := t.Header["kid"].(string)
	if len(m.config.VerifyKeys) > 0 {
		if kid == "" {
			return nil, errors.New("missing kid")
		}
		key, ok := m.config.VerifyKeys[kid]
		if !ok {
			return nil, errors.New("unknown kid")
		}
		return m.keyBytesToVerifyKey(key)
	}
	if m.config.KeyID != "" && kid != m.config.KeyID {
		return nil, errors.New("unknown kid")
	}
	return m.verifyKey, nil
}

func (m *Manager) method() jwt.SigningMethod {
	switch m.config.SigningMethod {
	case MethodHS256:
		return jwt.SigningMethodHS256
	case MethodES256:
		return jwt.SigningMethodES256
	default:
		return jwt.SigningMethodEdDSA
	}
}

func (m *Manager) parsePrivate(key []byte) (any, error) {
	if m.config.SigningMethod == MethodES256 {
		return parseECPrivateKey(key)
	}
	return parseEdPrivateKey(key)
}

func (m *Manager) parsePublic(key []byte) (any, error) {
	if m.config.SigningMethod == MethodES256 {
		return parseECPublicKey(key)
	}
	return parseEdPublicKey(key)
}

func (m *Manager) keyBytesToVerifyKey(key []byte) (any, error) {
	if m.config.SigningMethod == MethodHS256 {
		return key, nil
	}
	return m.parsePublic(key)
}

func publicOf(signKey any) any {
	switch k := signKey.(type) {
	case ed25519.PrivateKey:
		return k.Public()
	case *ecdsa.PrivateKey:
		return &k.PublicKey
	}
	return nil
}

func parseEdPrivateKey(key []byte) (ed25519.PrivateKey, error) {
	if len(key) == ed25519.PrivateKeySize {
		return ed25519.PrivateKey(key), nil
	}
	parsed, err := jwt.ParseEdPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 private key")
	}
	edKey, ok := parsed.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.New("invalid ed25519 private key type")
	}
	return edKey, nil
}

func parseEdPublicKey(key []byte) (ed25519.PublicKey, error) {
	if len(key) == ed25519.PublicKeySize {
		return ed25519.PublicKey(key), nil
	}
	parsed, err := jwt.ParseEdPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ed25519 public key")
	}
	edKey, ok := parsed.(ed25519.PublicKey)
	if !ok {
		return nil, errors.New("invalid ed25519 public key type")
	}
	return edKey, nil
}

func parseECPrivateKey(key []byte) (*ecdsa.PrivateKey, error) {
	k, err := jwt.ParseECPrivateKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ecdsa private key")
	}
	return k, nil
}

func parseECPublicKey(key []byte) (*ecdsa.PublicKey, error) {
	k, err := jwt.ParseECPublicKeyFromPEM(key)
	if err != nil {
		return nil, errors.New("invalid ecdsa public key")
	}
	return k, nil
}
