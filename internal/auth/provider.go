package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Provider is an OAuth identity source.
type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Identify(ctx context.Context, code string) (Identity, error)
}

type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c ProviderConfig) configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Providers builds every provider that has credentials, keyed by name.
func Providers(githubCfg, googleCfg ProviderConfig) map[string]Provider {
	providers := map[string]Provider{}
	if githubCfg.configured() {
		p := NewGitHub(githubCfg)
		providers[p.Name()] = p
	}
	if googleCfg.configured() {
		p := NewGoogle(googleCfg)
		providers[p.Name()] = p
	}
	return providers
}

const githubAPI = "https://api.github.com"

type GitHub struct {
	oauth   *oauth2.Config
	APIBase string
}

func NewGitHub(cfg ProviderConfig) *GitHub {
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		APIBase: githubAPI,
	}
}

// WithEndpoint points the provider at another OAuth server.
func (g *GitHub) WithEndpoint(endpoint oauth2.Endpoint) *GitHub {
	g.oauth.Endpoint = endpoint
	return g
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (g *GitHub) Identify(ctx context.Context, code string) (Identity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(err, "github: exchange code")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(g.APIBase, "/")+"/user", nil)
	if err != nil {
		return Identity{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(err, "github: fetch user")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Identity{}, fmt.Errorf("github: fetch user: unexpected status %d", resp.StatusCode)
	}

	var u githubUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return Identity{}, pkgerrors.Wrap(err, "github: decode user")
	}

	id := Identity{
		Provider: g.Name(),
		Name:     u.Name,
		Email:    u.Email,
	}
	if u.ID != 0 {
		id.UID = strconv.FormatInt(u.ID, 10)
	}
	if strings.TrimSpace(id.Name) == "" {
		id.Name = u.Login
	}
	return id, nil
}

type Google struct {
	oauth *oauth2.Config
	opts  []option.ClientOption
}

func NewGoogle(cfg ProviderConfig) *Google {
	return &Google{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// WithEndpoint points the provider at another OAuth server and userinfo API.
func (g *Google) WithEndpoint(endpoint oauth2.Endpoint, apiBase string) *Google {
	g.oauth.Endpoint = endpoint
	g.opts = append(g.opts, option.WithEndpoint(apiBase))
	return g
}

func (g *Google) Name() string { return "google" }

func (g *Google) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (g *Google) Identify(ctx context.Context, code string) (Identity, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(err, "google: exchange code")
	}

	opts := append([]option.ClientOption{option.WithTokenSource(g.oauth.TokenSource(ctx, token))}, g.opts...)
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return Identity{}, pkgerrors.Wrap(err, "google: userinfo client")
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return Identity{}, pkgerrors.Wrap(err, "google: fetch userinfo")
	}

	name := info.Name
	if strings.TrimSpace(name) == "" {
		name = strings.SplitN(info.Email, "@", 2)[0]
	}
	return Identity{
		UID:      info.Id,
		Provider: g.Name(),
		Name:     name,
		Email:    info.Email,
	}, nil
}
