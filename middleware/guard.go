package middleware

import (
	"context"
	"net/http"
	"strings"

	goIdentity "github.com/MrEthical07/goIdentity"
	"github.com/MrEthical07/goIdentity/token"
)

// SessionValidator is implemented by *goIdentity.Engine.
type SessionValidator interface {
	SessionClaims(ctx context.Context, tok token.Token) (*token.Claims, error)
}

func Guard(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := session(r, v)
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(goIdentity.WithSession(r.Context(), claims)))
		})
	}
}

func Optional(v SessionValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := session(r, v); ok {
				r = r.WithContext(goIdentity.WithSession(r.Context(), claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func session(r *http.Request, v SessionValidator) (*token.Claims, bool) {
	if v == nil {
		return nil, false
	}
	raw, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, false
	}
	tok, err := token.Parse(raw)
	if err != nil {
		return nil, false
	}
	claims, err := v.SessionClaims(r.Context(), tok)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tok := value[len(bearer):]
	if tok == "" {
		return "", false
	}

	return tok, true
}
