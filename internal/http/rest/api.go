package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/bwise1/media_ranker/config"
	deps "github.com/bwise1/media_ranker/internal/debs"
	"github.com/bwise1/media_ranker/internal/logging"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

// maxLimit caps ?limit= on ranking endpoints.
const maxLimit = 100

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	if resp == nil {
		// the handler already wrote the response
		return
	}

	if resp.Err != nil {
		logger := logging.From(r.Context())
		if resp.StatusCode >= http.StatusInternalServerError {
			logger.Error(resp.Message, zap.Error(resp.Err))
		} else {
			logger.Debug(resp.Message, zap.String("status", resp.Status), zap.Error(resp.Err))
		}
	}

	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server *http.Server
	Config *config.Config
	Deps   *deps.Dependencies
	Logger *zap.Logger
}

// Init builds the HTTP server. Serve calls it when needed.
func (api *API) Init() {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.Routes(),
	}
}

func (api *API) Serve() error {
	if api.Server == nil {
		api.Init()
	}
	return api.Server.ListenAndServe()
}

// Routes builds the full router.
func (api *API) Routes() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)
	mux.Use(api.RequestLogger)

	mux.With(api.OptionalLogin).Method(http.MethodGet, "/", Handler(api.Home))
	mux.Mount("/works", api.WorkRoutes())
	mux.Mount("/users", api.UserRoutes())
	mux.Mount("/auth", api.AuthRoutes())
	mux.Get("/ws", api.Deps.WebSocket.HandleConnections)

	mux.NotFound(Handler(func(_ http.ResponseWriter, _ *http.Request) *ServerResponse {
		return respondWithError(nil, "route not found", values.NotFound, nil)
	}).ServeHTTP)
	mux.MethodNotAllowed(Handler(func(_ http.ResponseWriter, _ *http.Request) *ServerResponse {
		return &ServerResponse{
			Message:    "method not allowed",
			Status:     values.NotAllowed,
			StatusCode: http.StatusMethodNotAllowed,
		}
	}).ServeHTTP)

	return mux
}

func (api *API) Shutdown(ctx context.Context) error {
	if api.Server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultShutdownPeriod)
	defer cancel()
	return api.Server.Shutdown(ctx)
}

func (api *API) logger() *zap.Logger {
	if api.Logger != nil {
		return api.Logger
	}
	return zap.NewNop()
}
