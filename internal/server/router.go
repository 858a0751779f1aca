// Package server assembles the HTTP router.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	"github.com/cloudrelay/uploader/internal/files"
	appMiddleware "github.com/cloudrelay/uploader/internal/middleware"
	"github.com/cloudrelay/uploader/internal/presign"
	"github.com/cloudrelay/uploader/internal/response"
	"github.com/cloudrelay/uploader/internal/storage"
)

// Deps are the wired components the router serves.
type Deps struct {
	Registry       *storage.Registry
	Presign        *presign.Handler
	Files          *files.Handler
	AllowedOrigins []string
	Logger         *zap.Logger
}

// ProviderStatus reports whether a provider can serve requests.
type ProviderStatus struct {
	ID     string `json:"id"`
	Usable bool   `json:"usable"`
}

// ProvidersResponse lists every supported provider.
type ProvidersResponse struct {
	Providers []ProviderStatus `json:"providers"`
}

// NewRouter builds the chi router with middleware, docs and API routes.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger(d.Logger))
	r.Use(chiMiddleware.Recoverer)
	r.Use(appMiddleware.CORS(d.AllowedOrigins))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{"status": "ok"})
	})

	// Swagger UI, served at /swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/providers", listProviders(d.Registry))

		r.Route("/{provider}", func(r chi.Router) {
			r.Route("/presign", func(r chi.Router) {
				r.Post("/upload", d.Presign.IssueUpload)
				r.Post("/download", d.Presign.IssueDownload)
				r.Post("/delete", d.Presign.IssueDelete)
			})
			r.Post("/uploads/complete", d.Presign.RecordCompletion)

			r.Route("/files", func(r chi.Router) {
				r.Get("/", d.Files.List)
				r.Post("/", d.Files.Upload)
				r.Delete("/", d.Files.Delete)
				r.Get("/download", d.Files.Download)
			})
		})
	})

	return r
}

// listProviders godoc
//
//	@Summary	List storage providers
//	@Tags		providers
//	@Produce	json
//	@Success	200	{object}	ProvidersResponse
//	@Router		/providers [get]
func listProviders(registry *storage.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clients := registry.Clients()
		out := ProvidersResponse{Providers: make([]ProviderStatus, 0, len(clients))}
		for _, c := range clients {
			out.Providers = append(out.Providers, ProviderStatus{ID: c.ID().String(), Usable: c.Usable()})
		}
		response.OK(w, out)
	}
}
