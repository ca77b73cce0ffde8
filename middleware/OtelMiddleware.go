package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.nhat.io/otelsql/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"git.sr.ht/~aondrejcak/trendify-api/kernel"
)

type responseWriter struct {
	gin.ResponseWriter
	ctx  context.Context
	span trace.Span
	body []byte
}

func TracerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		art := kernel.LoadConfig()
		rt := kernel.InitRequest(art, c)

		rt.Span.SetAttributes(
			attribute.KeyValue("http.method", c.Request.Method),
			attribute.KeyValue("http.url", c.Request.URL.String()),
			attribute.KeyValue("http.host", c.Request.Host),
		)

		if requestId, err := kernel.UuidV7(); err == nil {
			rt.Span.SetAttributes(attribute.KeyValue("http.request_id", requestId))
			c.Header("X-Request-ID", requestId)
		}

		// Bodies are never attached to spans: login and password-change
		// payloads carry credentials.
		if art.Diagnostic.RequestCounter != nil {
			art.Diagnostic.RequestCounter.Add(rt.SpanContext, 1,
				metric.WithAttributes(attribute.KeyValue("http.method", c.Request.Method)),
			)
		}

		c.Writer = &responseWriter{
			ResponseWriter: c.Writer,
			ctx:            rt.SpanContext,
			span:           rt.Span,
		}

		c.Set("rt", rt)

		c.Next()

		rt.Finish()
	}
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = b

	w.span.SetAttributes(attribute.KeyValue("http.response_size", len(b)))

	return w.ResponseWriter.Write(b)
}
