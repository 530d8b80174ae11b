package rest

import (
	"net/http"

	"github.com/bwise1/media_ranker/internal/category"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/util"
	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/go-chi/chi/v5"
)

// Home serves the spotlight: best work plus each category's top ten.
func (api *API) Home(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	spot, err := api.Deps.Ranking.Home(r.Context())
	if err != nil {
		return respondWithDomainError(err, "failed to load rankings", &tc)
	}

	return success(values.Success, "Rankings fetched successfully", spot)
}

func (api *API) TopWorks(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	c, err := category.Normalize(chi.URLParam(r, "category"))
	if err != nil {
		return respondWithDomainError(model.FieldError(category.Field, "is not a valid category"), "invalid category", &tc)
	}

	limit, err := util.ParseLimit(r.URL.Query().Get("limit"), maxLimit)
	if err != nil {
		return respondWithError(err, "limit must be a number", values.BadRequestBody, &tc)
	}

	top, err := api.Deps.Ranking.TopN(r.Context(), c, limit)
	if err != nil {
		return respondWithDomainError(err, "failed to load rankings", &tc)
	}

	return success(values.Success, "Top "+c.Plural()+" fetched successfully", top)
}

// ListWorks returns every work grouped by category.
func (api *API) ListWorks(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	grouped, err := api.Deps.Ranking.GroupedByCategory(r.Context())
	if err != nil {
		return respondWithDomainError(err, "failed to list works", &tc)
	}

	return success(values.Success, "Works fetched successfully", grouped)
}
