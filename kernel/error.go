package kernel

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
)

// MakeError records err on the active span, closes it and steps back to
// the parent. The error is kept on the runtime so deferred handlers can
// see it.
func (rt *RequestRuntime) MakeError(err error) error {
	s := rt.Span
	s.RecordError(err)
	s.SetStatus(codes.Error, err.Error())
	s.End()
	rt.Error = err
	rt.StepBack()

	return err
}

func (rt *RequestRuntime) MakeErrorf(format string, args ...interface{}) error {
	return rt.MakeError(fmt.Errorf(format, args...))
}

// E aborts the request with the standard response envelope. The message
// is whatever err carries; hashes and passwords must never flow through
// here.
func (rt *RequestRuntime) E(code int, err error) *RequestRuntime {
	rt.AppRuntime.Diagnostic.CountError(rt.SpanContext)
	rt.RequestContext.AbortWithStatusJSON(code, &gin.H{
		"success": false,
		"message": rt.MakeError(err).Error(),
		"traceId": rt.Span.SpanContext().TraceID().String(),
	})
	return rt
}

func (rt *RequestRuntime) Ef(code int, format string, args ...interface{}) *RequestRuntime {
	return rt.E(code, fmt.Errorf(format, args...))
}
