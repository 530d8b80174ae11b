package values

type contextKey string

// Response statuses. util.StatusCode maps each one to an HTTP status code.
const (
	Success        = "success"
	Created        = "created"
	Error          = "error"
	Failed         = "failed"
	BadRequestBody = "bad-request-body"
	Unprocessable  = "unprocessable"
	NotAllowed     = "not-allowed"
	Conflict       = "conflict"
	NotFound       = "not-found"
	NotAuthorised  = "not-authorised"
	TokenExpired   = "token-expired"
)

const SystemErr = "something went wrong, please try again"

const (
	HeaderRequestSource = "X-Request-Source"
	HeaderRequestID     = "X-Request-ID"
)

const (
	ContextTracingKey contextKey = "tracing"
	ContextUserKey    contextKey = "current-user"
	ContextLoggerKey  contextKey = "logger"
)
