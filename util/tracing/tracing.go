package tracing

import (
	"context"
	"fmt"

	"github.com/bwise1/media_ranker/util/values"
)

// Context identifies a single request as it moves through handlers and logs.
type Context struct {
	RequestID     string
	RequestSource string
}

func (c Context) String() string {
	return fmt.Sprintf("request_id=%s source=%s", c.RequestID, c.RequestSource)
}

// With stores tc on ctx.
func With(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, values.ContextTracingKey, tc)
}

// From returns the tracing context stored on ctx, if any.
func From(ctx context.Context) (Context, bool) {
	tc, ok := ctx.Value(values.ContextTracingKey).(Context)
	return tc, ok
}
