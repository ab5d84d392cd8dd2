package serverutils

import (
	"errors"
	"log"

	"ai-retrieval-be/pkg/retrieval"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ErrorHandlerMiddleware converts errors bubbling out of handlers into the
// uniform response envelope. Unrecognized errors stay opaque 500s.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
			message = fiberErr.Message
		case errors.Is(err, retrieval.ErrEmptyQuery), errors.Is(err, retrieval.ErrEmptyUserId):
			code = fiber.StatusBadRequest
			message = err.Error()
		case errors.Is(err, gorm.ErrRecordNotFound):
			code = fiber.StatusNotFound
			message = "Resource not found"
		default:
			log.Printf("[ERROR] Unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
