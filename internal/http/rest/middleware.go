package rest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/bwise1/media_ranker/internal/auth"
	"github.com/bwise1/media_ranker/internal/logging"
	"github.com/bwise1/media_ranker/internal/model"
	"github.com/bwise1/media_ranker/util"
	"github.com/bwise1/media_ranker/util/tracing"
	"github.com/bwise1/media_ranker/util/values"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/lucsky/cuid"
	"go.uber.org/zap"
)

const defaultRequestSource = "web"

// RequestTracing handles the request tracing context
func RequestTracing(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		requestSource := strings.TrimSpace(r.Header.Get(values.HeaderRequestSource))
		if requestSource == "" {
			requestSource = defaultRequestSource
		}

		requestID := r.Header.Get(values.HeaderRequestID)
		if requestID == "" {
			requestID = cuid.New()
		}
		w.Header().Set(values.HeaderRequestID, requestID)

		ctx := tracing.With(r.Context(), tracing.Context{
			RequestID:     requestID,
			RequestSource: requestSource,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequestLogger logs every request once it has been served and makes a
// request scoped logger available to handlers.
func (api *API) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := logging.WithContext(r.Context(), api.logger())
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(logging.Into(r.Context(), logger)))

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

// RequireLogin rejects requests without a valid bearer token and stores the
// user on the request context.
func (api *API) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := api.authenticate(r)
		if err != nil {
			status, message := domainStatus(err)
			writeErrorResponse(w, err, status, message)
			return
		}

		next.ServeHTTP(w, r.WithContext(util.WithUser(r.Context(), user)))
	})
}

// OptionalLogin stores the user when a valid token is sent and otherwise
// lets the request through anonymously.
func (api *API) OptionalLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := api.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(util.WithUser(r.Context(), user)))
	})
}

func (api *API) authenticate(r *http.Request) (model.User, error) {
	authorization := strings.Split(r.Header.Get("Authorization"), " ")
	if len(authorization) != 2 || authorization[0] != "Bearer" || authorization[1] == "" {
		return model.User{}, model.ErrUnauthenticated
	}

	user, err := api.Deps.Auth.CurrentUser(r.Context(), authorization[1])
	if err != nil && !errors.Is(err, auth.ErrTokenExpired) && !errors.Is(err, auth.ErrInvalidToken) {
		logging.From(r.Context()).Warn("resolve session", zap.Error(err))
	}
	return user, err
}
