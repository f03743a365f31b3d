package handler

import (
	"net/http"

	"github.com/rs/cors"
)

// Routes builds the HTTP surface. Unknown methods on known paths get 405
// from the mux; every route is wrapped in CORS for allowedOrigins.
func (h *HTTPHandler) Routes(allowedOrigins []string) http.Handler {
	mux := http.NewServeMux()

	public := func(pattern, route string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.instrument(route, fn))
	}
	protected := func(pattern, route string, fn http.HandlerFunc) {
		mux.Handle(pattern, h.instrument(route, h.RequireBearer(fn)))
	}

	public("GET /ping", "/ping", h.Ping)
	public("GET /health", "/health", h.HealthCheck)
	public("POST /register", "/register", h.Register)
	public("POST /login", "/login", h.Login)

	protected("POST /add_record", "/add_record", h.AddRecord)
	protected("GET /get_records", "/get_records", h.GetRecords)
	protected("GET /records/summary", "/records/summary", h.Summary)
	protected("GET /records/export.csv", "/records/export.csv", h.ExportCSV)

	mux.Handle("GET /metrics", h.metrics.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(mux)
}
