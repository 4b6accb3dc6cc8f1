package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestGenerator_AcceptedByMiddleware は発行したトークンが AuthRequired を通過することを検証します。
func TestGenerator_AcceptedByMiddleware(t *testing.T) {
	t.Parallel()

	const secret = "round-trip-secret"
	token, err := NewGenerator(secret, 720*time.Hour).GenerateToken("grafana")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, c := runMiddleware(secret, "Bearer "+token)
	if c.IsAborted() {
		t.Fatal("expected token to be accepted")
	}
	if got := c.GetString(ContextSubject); got != "grafana" {
		t.Errorf("expected subject %q, got %q", "grafana", got)
	}

	_, c = runMiddleware("rotated-secret", "Bearer "+token)
	if !c.IsAborted() {
		t.Error("expected token to be rejected after secret rotation")
	}
}

// TestGenerator_GenerateToken は生成されたトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name       string
		subject    string
		expiration time.Duration
	}{
		{"dashboard client", "dashboard", time.Hour},
		{"client with dashes", "ops-cron-job", 24 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", tt.expiration)
			gen.now = func() time.Time { return now }
			tokenStr, err := gen.GenerateToken(tt.subject)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			claims := &jwt.RegisteredClaims{}
			_, err = jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte("test-secret"), nil
			}, jwt.WithTimeFunc(func() time.Time { return now }))
			if err != nil {
				t.Fatalf("failed to parse token: %v", err)
			}

			if claims.Subject != tt.subject {
				t.Errorf("expected sub %q, got %q", tt.subject, claims.Subject)
			}
			if claims.Issuer != Issuer {
				t.Errorf("expected iss %q, got %q", Issuer, claims.Issuer)
			}
			if !claims.ExpiresAt.Time.Equal(now.Add(tt.expiration)) {
				t.Errorf("expected exp %v, got %v", now.Add(tt.expiration), claims.ExpiresAt.Time)
			}
		})
	}
}

// TestGenerator_EmptySubject は空のsubjectを拒否することを検証します。
func TestGenerator_EmptySubject(t *testing.T) {
	t.Parallel()

	if _, err := NewGenerator("secret", time.Hour).GenerateToken(""); err == nil {
		t.Fatal("expected error for empty subject")
	}
}
