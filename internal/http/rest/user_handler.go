package rest

import (
	"net/http"

	"github.com/bwise1/media_ranker/util"
	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/go-chi/chi/v5"
)

func (api *API) UserRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.OptionalLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListUsers))
		r.Method(http.MethodGet, "/{id}", Handler(api.GetProfile))
	})

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodDelete, "/me", Handler(api.DeleteAccount))
	})

	return mux
}

func (api *API) ListUsers(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	users, status, message, err := api.ListUsersHelper(r.Context())
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return success(status, message, users)
}

func (api *API) GetProfile(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	userID, err := util.StringToUUID(chi.URLParam(r, "id"))
	if err != nil {
		return respondWithError(err, "user not found", values.NotFound, &tc)
	}

	profile, status, message, err := api.GetUserProfileHelper(r.Context(), userID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return success(status, message, profile)
}

func (api *API) DeleteAccount(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	user := util.CurrentUser(r.Context())
	if user == nil {
		return respondWithError(nil, "not-authorized", values.NotAuthorised, &tc)
	}

	status, message, err := api.DeleteAccountHelper(r.Context(), user.ID)
	if err != nil {
		return respondWithError(err, message, status, &tc)
	}

	return success(status, message, nil)
}
