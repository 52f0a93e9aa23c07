package swagger

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const DocumentPath = "/openapi.yml"

// Handler serves Swagger UI pointed at the embedded API document.
func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(DocumentPath),
		httpSwagger.DocExpansion("list"),
	)
}

// DocumentHandler serves the raw OpenAPI document.
func DocumentHandler(spec []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec)
	}
}
