package http

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	legacyrouter "github.com/getkin/kin-openapi/routers/legacy"
)

//go:embed openapi.yaml
var specYAML []byte

type openAPI struct {
	doc    *openapi3.T
	router routers.Router
}

var loadOpenAPI = sync.OnceValues(func() (*openAPI, error) {
	doc, err := openapi3.NewLoader().LoadFromData(specYAML)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	// NewRouter validates the document.
	router, err := legacyrouter.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	return &openAPI{doc: doc, router: router}, nil
})

// Spec returns the OpenAPI document describing this API.
func Spec() (*openapi3.T, error) {
	api, err := loadOpenAPI()
	if err != nil {
		return nil, err
	}
	return api.doc, nil
}

// validateRequests checks parameters and JSON bodies against the document
// before they reach a handler. Undocumented paths such as /metrics pass
// through untouched. Bodies are JSON whatever the client's Content-Type says.
func validateRequests(router routers.Router, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, params, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if r.Method == http.MethodPost {
				r.Header.Set("Content-Type", "application/json")
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route:      route,
				Options:    &openapi3filter.Options{MultiError: true},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Warn("request does not match the API document", "path", r.URL.Path, "err", err)
				writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
