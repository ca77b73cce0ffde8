package kernel

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

type spanCtxPair struct {
	span trace.Span
	ctx  context.Context
}

// RequestRuntime carries per-request state: the active span stack, the
// database handle and, once the admin middleware has run, the verified
// admin email.
type RequestRuntime struct {
	AppRuntime *AppRuntime
	DB         *gorm.DB

	AdminEmail string

	RequestContext *gin.Context
	Span           trace.Span
	SpanContext    context.Context

	Error error

	pairs   []*spanCtxPair
	current int
}

func InitRequest(art *AppRuntime, rctx *gin.Context) *RequestRuntime {
	ctx := rctx.Request.Context()
	span, ctx := art.Diagnostic.BeginTracing(ctx, rctx.FullPath())

	log.Debug().Str("uri", rctx.Request.RequestURI).Msg("initializing request")

	rt := &RequestRuntime{
		AppRuntime: art,
		DB:         art.DatabaseClient,

		RequestContext: rctx,
		Span:           span,
		SpanContext:    ctx,

		pairs: make([]*spanCtxPair, 0, 4),
	}

	rt.pairs = append(rt.pairs, &spanCtxPair{span: span, ctx: ctx})

	return rt
}

func (rt *RequestRuntime) NewChildTracer(spanName string) *RequestRuntime {
	ctx, span := rt.AppRuntime.Diagnostic.Tracer.Start(rt.SpanContext, spanName)
	rt.pairs = append(rt.pairs, &spanCtxPair{span: span, ctx: ctx})
	return rt
}

func (rt *RequestRuntime) Advance() {
	if len(rt.pairs)-1 < rt.current+1 {
		log.Warn().Int("current", rt.current).Msg("trying to advance out of bounds")
		return
	}
	rt.current++
	rt.apply()
}

func (rt *RequestRuntime) StepBack() {
	if rt.current == 0 {
		log.Warn().Msg("trying to step back out of bounds")
		return
	}
	rt.current--
	rt.apply()
}

// End closes the current span and pops it off the stack.
func (rt *RequestRuntime) End() *RequestRuntime {
	if rt.Span.IsRecording() {
		rt.Span.End()
	}
	rt.pairs = append(rt.pairs[:rt.current], rt.pairs[rt.current+1:]...)
	return rt
}

func (rt *RequestRuntime) EndBlock() {
	rt.End().StepBack()
}

// Finish ends whatever spans are still open, root included.
func (rt *RequestRuntime) Finish() {
	for i := len(rt.pairs) - 1; i >= 0; i-- {
		if rt.pairs[i].span.IsRecording() {
			rt.pairs[i].span.End()
		}
	}
	rt.pairs = rt.pairs[:0]
	rt.current = 0
}

func (rt *RequestRuntime) apply() {
	pair := rt.pairs[rt.current]
	rt.Span = pair.span
	rt.SpanContext = pair.ctx
}
