package serverutils

import (
	"errors"
	"log"

	"wolfpack-be/internal/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuthRequired:
		return fiber.StatusUnauthorized
	case apperr.KindPermissionDenied:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		return fiber.StatusConflict
	case apperr.KindValidationFailed:
		return fiber.StatusBadRequest
	case apperr.KindRateLimited:
		return fiber.StatusTooManyRequests
	case apperr.KindUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// JSON error envelope. Unknown errors are logged and masked with a generic
// message; raw internals never reach the client.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var ae *apperr.AppError
		if errors.As(err, &ae) {
			return ctx.Status(statusForKind(ae.Kind)).
				JSON(ErrorResponse(ae.Message, ae.Kind.String()))
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Message, ""))
		}

		log.Printf("unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse("something went wrong", "internal"))
	}
}
