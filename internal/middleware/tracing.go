package middleware

import (
	"context"
	"errors"
	"fmt"

	"mmorpgboard/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TracingMiddleware opens a server span per request. Once the handler chain
// has run the span is renamed after the matched route pattern and tagged
// with the signed-in user and, for redirects, their target.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method()+" "+c.Path(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.path", c.Path()),
				attribute.String("http.ip", c.IP()),
				attribute.String("http.user_agent", c.Get("User-Agent")),
			),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(context.WithValue(ctx, TraceIDKey, traceID))

		err := c.Next()

		status := c.Response().StatusCode()
		routed := true
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			// Router misses come back as plain 404/405 errors.
			routed = fe.Code != fiber.StatusNotFound && fe.Code != fiber.StatusMethodNotAllowed
		}
		if route := c.Route(); routed && route != nil {
			span.SetName(c.Method() + " " + route.Path)
			span.SetAttributes(attribute.String("http.route", route.Path))
		}
		span.SetAttributes(attribute.Int("http.status_code", status))

		if userID, ok := c.Locals("userID").(uint); ok {
			span.SetAttributes(
				attribute.Int64("board.user_id", int64(userID)),
				attribute.Bool("board.authenticated", true),
			)
		} else {
			span.SetAttributes(attribute.Bool("board.authenticated", false))
		}
		if status == fiber.StatusSeeOther {
			span.SetAttributes(attribute.String("board.redirect", string(c.Response().Header.Peek(fiber.HeaderLocation))))
		}

		if err != nil {
			span.RecordError(err)
		}
		if status >= fiber.StatusInternalServerError || (err != nil && fe == nil) {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		return err
	}
}
