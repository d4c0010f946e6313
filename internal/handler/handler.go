// Package handler provides HTTP request handlers for lixshare.
// These handlers implement the JSON creation API and the HTML pages for
// the landing form and for viewing documents.
package handler

import (
	"bytes"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	lixshare "github.com/liskl/lixshare"
	"github.com/liskl/lixshare/internal/config"
	"github.com/liskl/lixshare/internal/gateway"
)

// Handler contains dependencies for HTTP handlers.
type Handler struct {
	config   *config.Config
	gateway  *gateway.Gateway
	logger   *zap.Logger
	template *template.Template // Parsed HTML templates
	staticFS fs.FS              // Embedded static files (JS, CSS)
}

// New creates a new Handler with the given configuration and gateway.
func New(cfg *config.Config, gw *gateway.Gateway, logger *zap.Logger) *Handler {
	h := &Handler{
		config:  cfg,
		gateway: gw,
		logger:  logger,
	}

	// Initialize embedded templates
	h.initTemplates()

	// Initialize static file serving
	h.initStaticFS()

	return h
}

// initTemplates parses the embedded HTML templates.
// Templates use Go's html/template for safe HTML rendering.
func (h *Handler) initTemplates() {
	templateFS, err := lixshare.TemplateFS()
	if err != nil {
		// Continue without templates - pages fall back to plain HTML
		h.logger.Error("loading templates", zap.Error(err))
		return
	}

	h.template, err = template.ParseFS(templateFS, "*.html")
	if err != nil {
		h.logger.Error("parsing templates", zap.Error(err))
	}
}

// initStaticFS sets up the embedded static file system.
func (h *Handler) initStaticFS() {
	staticFS, err := lixshare.StaticFS()
	if err != nil {
		h.logger.Error("loading static files", zap.Error(err))
		return
	}
	h.staticFS = staticFS
}

// Routes returns the chi router with all routes configured.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	// Health check endpoints
	r.Get("/health", h.healthCheck)
	r.Get("/ready", h.readyCheck)

	// Static files served from embedded filesystem
	// JS files: /js/lixshare.js
	// CSS files: /css/style.css
	if h.staticFS != nil {
		fileServer := http.FileServer(http.FS(h.staticFS))
		r.Handle("/js/*", fileServer)
		r.Handle("/css/*", fileServer)
	}

	r.Get("/", h.serveIndex)
	r.Post("/", h.createDocument)
	r.Get("/{docID}", h.getDocument)

	return r
}

// healthCheck returns a simple health status.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// readyCheck reports whether the document store answers.
func (h *Handler) readyCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := h.gateway.Ping(r.Context()); err != nil {
		h.logger.Warn("store not ready", zap.Error(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"status": "unavailable"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// IndexPage contains data passed to the landing page template.
type IndexPage struct {
	Name          string
	BasePath      string
	ExpireOptions []config.ExpireOption
}

// serveIndex serves the document creation form.
func (h *Handler) serveIndex(w http.ResponseWriter, r *http.Request) {
	data := IndexPage{
		Name:          h.config.Main.Name,
		BasePath:      h.config.Main.BasePath,
		ExpireOptions: h.config.ExpireOptions(),
	}
	h.render(w, http.StatusOK, "index.html", data)
}

// render executes a template, falling back to a bare error page.
func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if h.template != nil {
		if t := h.template.Lookup(name); t != nil {
			// Render into memory first so a template error can still change the status
			var buf bytes.Buffer
			err := t.Execute(&buf, data)
			if err == nil {
				w.WriteHeader(status)
				w.Write(buf.Bytes())
				return
			}
			h.logger.Error("executing template", zap.String("template", name), zap.Error(err))
		}
	}

	// Fallback to basic HTML if template fails
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>lixshare</title>
    <meta charset="utf-8">
</head>
<body>
    <h1>lixshare</h1>
    <p>Error loading template. Please check your installation.</p>
</body>
</html>`))
}

// jsonError sends a JSON error response: {"detail": message}.
func (h *Handler) jsonError(w http.ResponseWriter, message string, status int) {
	h.jsonResponse(w, status, map[string]string{"detail": message})
}

// jsonResponse sends a JSON response with the given status.
func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
