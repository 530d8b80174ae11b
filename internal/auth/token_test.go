package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/bwise1/media_ranker/internal/auth"
	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := auth.NewTokenIssuer("secret", time.Hour)
	id := uuid.New()

	token, expiresAt, err := issuer.Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Fatalf("token already expired at %v", expiresAt)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != id {
		t.Fatalf("Verify = %s; want %s", got, id)
	}
}

func TestTokenErrors(t *testing.T) {
	id := uuid.New()

	expired, _, err := auth.NewTokenIssuer("secret", -time.Minute).Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	other, _, err := auth.NewTokenIssuer("other-secret", time.Hour).Issue(id)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	issuer := auth.NewTokenIssuer("secret", time.Hour)
	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", expired, auth.ErrTokenExpired},
		{"wrong secret", other, auth.ErrInvalidToken},
		{"malformed", "not.a.token", auth.ErrInvalidToken},
		{"empty", "", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := issuer.Verify(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("Verify error = %v; want %v", err, tt.want)
			}
		})
	}
}
