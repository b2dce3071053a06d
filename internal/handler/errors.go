package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/jengzang/fleet-tracker-go/internal/service"
	"github.com/jengzang/fleet-tracker-go/pkg/response"
)

// statusOf maps service errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err using the response envelope. Client errors carry
// the service message; server errors are logged and replaced.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	_ = c.Error(err)
	code := statusOf(err)
	switch code {
	case http.StatusServiceUnavailable:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("store unavailable")
		response.Error(c, code, "service temporarily unavailable")
	case http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unexpected error")
		response.InternalError(c, "internal server error")
	default:
		response.Error(c, code, err.Error())
	}
}

// respondBindError reports a failed ShouldBind* call.
func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]response.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, response.FieldError{
				Field:   lowerFirst(fe.Field()),
				Message: fieldMessage(fe),
			})
		}
		response.ValidationError(c, details)
		return
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		response.ValidationError(c, []response.FieldError{{
			Field:   typeErr.Field,
			Message: "must be a " + typeErr.Type.String(),
		}})
		return
	}

	response.BadRequest(c, "malformed request")
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
