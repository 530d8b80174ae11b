package rest

import (
	"net/http"

	"github.com/bwise1/media_ranker/internal/logging"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/util"
	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxCoverSize   = 10 << 20
	coverFormField = "cover"
)

func (api *API) WorkRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Group(func(r chi.Router) {
		r.Use(api.OptionalLogin)
		r.Method(http.MethodGet, "/top/{category}", Handler(api.TopWorks))
	})

	mux.Group(func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/", Handler(api.ListWorks))
		r.Method(http.MethodPost, "/", Handler(api.CreateWork))
		r.Method(http.MethodGet, "/{id}", Handler(api.GetWork))
		r.Method(http.MethodPut, "/{id}", Handler(api.UpdateWork))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteWork))
		r.Method(http.MethodPost, "/{id}/upvote", Handler(api.UpvoteWork))
		r.Method(http.MethodPost, "/{id}/cover", Handler(api.UploadCover))
	})

	return mux
}

func workID(r *http.Request) (uuid.UUID, error) {
	return util.StringToUUID(chi.URLParam(r, "id"))
}

func (api *API) decodeWorkRequest(tc *tracing.Context, r *http.Request) (model.WorkRequest, *ServerResponse) {
	var req model.WorkRequest
	if decodeErr := util.DecodeJSONBody(tc, r.Body, &req); decodeErr != nil {
		return req, respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, tc)
	}
	if err := util.ValidateRequest(req); err != nil {
		return req, respondWithDomainError(err, "invalid request", tc)
	}
	return req, nil
}

func (api *API) CreateWork(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	req, errResp := api.decodeWorkRequest(&tc, r)
	if errResp != nil {
		return errResp
	}

	work, err := api.Deps.Works.Create(r.Context(), util.CurrentUser(r.Context()), req)
	if err != nil {
		return respondWithDomainError(err, "failed to create work", &tc)
	}

	return success(values.Created, "Successfully created "+work.Category.String()+" "+work.ID.String(), work)
}

func (api *API) GetWork(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	id, err := workID(r)
	if err != nil {
		return respondWithError(err, "work not found", values.NotFound, &tc)
	}

	detail, err := api.Deps.Works.Detail(r.Context(), id)
	if err != nil {
		return respondWithDomainError(err, "failed to fetch work", &tc)
	}

	return success(values.Success, "Work fetched successfully", detail)
}

func (api *API) UpdateWork(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	id, err := workID(r)
	if err != nil {
		return respondWithError(err, "work not found", values.NotFound, &tc)
	}

	req, errResp := api.decodeWorkRequest(&tc, r)
	if errResp != nil {
		return errResp
	}

	work, err := api.Deps.Works.Update(r.Context(), util.CurrentUser(r.Context()), id, req)
	if err != nil {
		return respondWithDomainError(err, "failed to update work", &tc)
	}

	return success(values.Success, "Successfully updated "+work.Category.String()+" "+work.ID.String(), work)
}

func (api *API) DeleteWork(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	id, err := workID(r)
	if err != nil {
		return respondWithError(err, "work not found", values.NotFound, &tc)
	}

	if err := api.Deps.Works.Delete(r.Context(), util.CurrentUser(r.Context()), id); err != nil {
		return respondWithDomainError(err, "failed to delete work", &tc)
	}

	return success(values.Success, "Successfully destroyed work "+id.String(), nil)
}

func (api *API) UpvoteWork(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	id, err := workID(r)
	if err != nil {
		return respondWithError(err, "work not found", values.NotFound, &tc)
	}

	vote, err := api.Deps.Works.Upvote(r.Context(), util.CurrentUser(r.Context()), id)
	if err != nil {
		return respondWithDomainError(err, "failed to record vote", &tc)
	}

	return success(values.Created, "Successfully upvoted!", vote)
}

func (api *API) UploadCover(w http.ResponseWriter, r *http.Request) *ServerResponse {
	tc, _ := tracing.From(r.Context())

	if api.Deps.Covers == nil {
		return &ServerResponse{
			Message:    "cover uploads are not configured",
			Status:     values.Failed,
			StatusCode: http.StatusServiceUnavailable,
		}
	}

	id, err := workID(r)
	if err != nil {
		return respondWithError(err, "work not found", values.NotFound, &tc)
	}

	user := util.CurrentUser(r.Context())
	work, err := api.Deps.Works.Editable(r.Context(), user, id)
	if err != nil {
		return respondWithDomainError(err, "failed to load work", &tc)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCoverSize)
	file, _, err := r.FormFile(coverFormField)
	if err != nil {
		return respondWithError(err, "a cover image is required in the \"cover\" field", values.BadRequestBody, &tc)
	}
	defer file.Close()

	url, err := api.Deps.Covers.UploadCover(r.Context(), file, util.Slugify(work.Title)+"-"+work.ID.String())
	if err != nil {
		return respondWithError(err, "failed to upload cover", values.Error, &tc)
	}
	logging.From(r.Context()).Info("cover uploaded", zap.String("work_id", id.String()), zap.String("url", url))

	work, err = api.Deps.Works.SetCover(r.Context(), user, id, url)
	if err != nil {
		return respondWithDomainError(err, "failed to save cover", &tc)
	}

	return success(values.Success, "Cover uploaded successfully", work)
}
