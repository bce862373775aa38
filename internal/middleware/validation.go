package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"regexp"

	"github.com/go-chi/chi/v5"

	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/utils"
)

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const validatedRequestKey contextKey = "validated_request"

// request models implement this interface
type Validator interface {
	Validate() error
}

// ValidateRequest decodes the JSON body into the route's request type, runs
// its Validate method, and stores the validated struct in the request
// context for the handler.
func ValidateRequest[T Validator]() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Create a new instance of the request type
			var req T
			reqType := reflect.TypeOf(req)
			if reqType.Kind() == reflect.Ptr {
				req = reflect.New(reqType.Elem()).Interface().(T)
			} else {
				req = reflect.New(reqType).Interface().(T)
			}

			if err := json.NewDecoder(r.Body).Decode(req); err != nil {
				utils.JSON(w, http.StatusBadRequest, models.Fail("Invalid JSON in request body"))
				return
			}

			if err := req.Validate(); err != nil {
				utils.JSON(w, http.StatusBadRequest, models.Fail(err.Error()))
				return
			}

			ctx := context.WithValue(r.Context(), validatedRequestKey, req)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetValidatedRequest retrieves the validated request from context
func GetValidatedRequest[T any](r *http.Request) T {
	return r.Context().Value(validatedRequestKey).(T)
}

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidObjectID checks the 24-hex-character identifier shape.
func IsValidObjectID(id string) bool {
	return objectIDPattern.MatchString(id)
}

// RequireObjectID rejects requests whose {id} path segment is not a
// well-formed object identifier before they reach the controller.
func RequireObjectID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsValidObjectID(chi.URLParam(r, "id")) {
			utils.JSON(w, http.StatusBadRequest, models.Fail("Invalid ID format"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
