package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bwise1/media_ranker/internal/auth"
	"golang.org/x/oauth2"
)

func fakeGitHub(t *testing.T, user map[string]any) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.Form.Get("code") != "good-code" {
			http.Error(w, `{"error":"bad_verification_code"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"gh-token","token_type":"bearer"}`))
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer gh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newGitHub(srv *httptest.Server) *auth.GitHub {
	gh := auth.NewGitHub(auth.ProviderConfig{ClientID: "id", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	gh.WithEndpoint(oauth2.Endpoint{
		AuthURL:   srv.URL + "/login/oauth/authorize",
		TokenURL:  srv.URL + "/login/oauth/access_token",
		AuthStyle: oauth2.AuthStyleInParams,
	})
	gh.APIBase = srv.URL
	return gh
}

func TestGitHubIdentify(t *testing.T) {
	srv := fakeGitHub(t, map[string]any{"id": 583231, "login": "octocat", "name": "The Octocat", "email": "octo@github.com"})
	gh := newGitHub(srv)

	id, err := gh.Identify(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	want := auth.Identity{UID: "583231", Provider: "github", Name: "The Octocat", Email: "octo@github.com"}
	if id != want {
		t.Fatalf("Identify = %#v; want %#v", id, want)
	}
}

func TestGitHubIdentifyFallsBackToLogin(t *testing.T) {
	srv := fakeGitHub(t, map[string]any{"id": 1, "login": "octocat", "name": nil})

	id, err := newGitHub(srv).Identify(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if id.Name != "octocat" {
		t.Fatalf("Name = %q; want login", id.Name)
	}
}

func TestGitHubIdentifyWithoutIDHasNoUID(t *testing.T) {
	srv := fakeGitHub(t, map[string]any{"login": "ghost"})

	id, err := newGitHub(srv).Identify(context.Background(), "good-code")
	if err != nil {
		t.Fatalf("Identify failed: %v", err)
	}
	if id.UID != "" {
		t.Fatalf("UID = %q; want empty", id.UID)
	}
}

func TestGitHubIdentifyBadCode(t *testing.T) {
	srv := fakeGitHub(t, nil)

	if _, err := newGitHub(srv).Identify(context.Background(), "bad-code"); err == nil {
		t.Fatal("expected an error for a rejected code")
	}
}

func TestAuthCodeURLCarriesState(t *testing.T) {
	providers := auth.Providers(
		auth.ProviderConfig{ClientID: "gh", ClientSecret: "s"},
		auth.ProviderConfig{ClientID: "gg", ClientSecret: "s"},
	)
	if len(providers) != 2 {
		t.Fatalf("expected two providers, got %d", len(providers))
	}
	for name, p := range providers {
		if u := p.AuthCodeURL("xyz"); !strings.Contains(u, "state=xyz") {
			t.Errorf("%s AuthCodeURL = %q", name, u)
		}
	}

	if got := auth.Providers(auth.ProviderConfig{}, auth.ProviderConfig{ClientID: "only-id"}); len(got) != 0 {
		t.Fatalf("unconfigured providers should be skipped, got %d", len(got))
	}
}
