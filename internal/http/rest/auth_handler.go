package rest

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bwise1/media_ranker/internal/auth"
	"github.com/bwise1/media_ranker/util"
	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/go-chi/chi/v5"
)

const (
	stateCookie   = "oauth_state"
	stateLifetime = 10 * time.Minute
)

func (api *API) AuthRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Method(http.MethodGet, "/{provider}/login", Handler(api.BeginLogin))
	mux.Method(http.MethodGet, "/{provider}/callback", Handler(api.LoginCallback))
	mux.Method(http.MethodPost, "/logout", Handler(api.Logout))

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/me", Handler(api.Me))
	})

	return mux
}

func (api *API) provider(r *http.Request) (auth.Provider, bool) {
	p, ok := api.Deps.Providers[chi.URLParam(r, "provider")]
	return p, ok
}

// BeginLogin redirects to the provider's consent page.
func (api *API) BeginLogin(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	p, ok := api.provider(r)
	if !ok {
		return respondWithError(nil, "unknown login provider", values.NotFound, &tc)
	}

	state, err := util.RandomString(16)
	if err != nil {
		return respondWithError(err, "failed to start login", values.Error, &tc)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateLifetime.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, p.AuthCodeURL(state), http.StatusFound)
	return nil
}

// LoginCallback finishes the OAuth dance and returns a session token.
func (api *API) LoginCallback(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	p, ok := api.provider(r)
	if !ok {
		return respondWithError(nil, "unknown login provider", values.NotFound, &tc)
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		return respondWithError(err, "login state mismatch", values.NotAuthorised, &tc)
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Path: "/auth", MaxAge: -1})

	code := r.URL.Query().Get("code")
	if code == "" {
		return respondWithError(nil, "Could not log in", values.NotAuthorised, &tc)
	}

	identity, err := p.Identify(r.Context(), code)
	if err != nil {
		return respondWithError(err, "Could not log in", values.NotAuthorised, &tc)
	}

	login, err := api.Deps.Auth.Authenticate(r.Context(), identity)
	if err != nil {
		if errors.Is(err, auth.ErrMissingUID) {
			return respondWithError(err, "Could not log in", values.NotAuthorised, &tc)
		}
		return respondWithDomainError(err, "Could not create user account", &tc)
	}

	message := fmt.Sprintf("Logged in as returning user %s", login.User.Username)
	status := values.Success
	if login.Created {
		message = fmt.Sprintf("Logged in as new user %s", login.User.Username)
		status = values.Created
	}
	return success(status, message, login)
}

// Logout is a no-op for bearer tokens; clients drop their token.
func (api *API) Logout(_ http.ResponseWriter, _ *http.Request) *ServerResponse {
	return success(values.Success, "Successfully logged out", nil)
}

func (api *API) Me(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	user := util.CurrentUser(r.Context())
	if user == nil {
		return respondWithError(nil, "not-authorized", values.NotAuthorised, &tc)
	}
	return success(values.Success, "Current user", user)
}
