package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"

	"github.com/frahmantamala/timekeeping/internal"
	"github.com/frahmantamala/timekeeping/internal/transport"
)

// OpenAPIValidator checks requests against the operations declared in an
// OpenAPI document before they reach a handler.
type OpenAPIValidator struct {
	router routers.Router
	*transport.BaseHandler
}

// NewOpenAPIValidator loads and validates document. Its paths must carry the
// same prefix the router mounts them under.
func NewOpenAPIValidator(ctx context.Context, document []byte, logger *slog.Logger) (*OpenAPIValidator, error) {
	doc, err := openapi3.NewLoader().LoadFromData(document)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}

	return &OpenAPIValidator{router: router, BaseHandler: transport.NewBaseHandler(logger)}, nil
}

// Middleware rejects requests whose parameters or body do not match the
// declared operation. Undeclared routes pass through untouched. Security
// requirements are left to the auth middleware.
func (v *OpenAPIValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				MultiError:         true,
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}

		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.WriteAppError(w, requestValidationError(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func requestValidationError(err error) *internal.AppError {
	out := make([]internal.ValidationError, 0)
	collectValidationErrors(err, "", &out)
	if len(out) == 0 {
		out = append(out, internal.ValidationError{
			Message: err.Error(),
			Code:    string(internal.ErrCodeInvalidRequest),
		})
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: out}).
		WithCause(err)
}

func collectValidationErrors(err error, field string, out *[]internal.ValidationError) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectValidationErrors(inner, field, out)
		}
	case *openapi3filter.RequestError:
		name := field
		if e.Parameter != nil {
			name = e.Parameter.Name
		}
		before := len(*out)
		if e.Err != nil {
			collectValidationErrors(e.Err, name, out)
		}
		if len(*out) == before {
			*out = append(*out, internal.ValidationError{
				Field:   name,
				Message: firstNonEmpty(e.Reason, e.Error()),
				Code:    string(internal.ErrCodeInvalidRequest),
			})
		}
	case *openapi3.SchemaError:
		name := field
		if ptr := e.JSONPointer(); len(ptr) > 0 {
			name = strings.Join(ptr, ".")
		}
		*out = append(*out, internal.ValidationError{
			Field:   name,
			Message: firstNonEmpty(e.Reason, e.Error()),
			Code:    string(internal.ErrCodeValidationFailed),
		})
	default:
		var parseErr *openapi3filter.ParseError
		if stderrors.As(err, &parseErr) {
			*out = append(*out, internal.ValidationError{
				Field:   field,
				Message: parseErr.Error(),
				Code:    string(internal.ErrCodeInvalidRequest),
			})
		}
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
