package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/config"
	"github.com/bobmcallan/hedge-portal/internal/models"
	"github.com/bobmcallan/hedge-portal/internal/view"
)

// IndexData is the data passed to index.html.
type IndexData struct {
	Version         string
	Analysts        []models.Analyst
	Models          []models.Model
	Providers       []string
	DefaultModel    string
	DefaultProvider string
	DevMode         bool
}

// PageHandler serves the index page and static assets from the pages FS.
type PageHandler struct {
	logger    *common.Logger
	templates *template.Template
	static    http.Handler
	data      IndexData
}

// NewPageHandler parses the page templates in fsys. The index form offers the
// analysts and models of catalog.
func NewPageHandler(logger *common.Logger, fsys fs.FS, catalog models.Catalog, analysisCfg config.AnalysisConfig, devMode bool) (*PageHandler, error) {
	templates, err := template.New("").Funcs(view.TemplateFuncs).ParseFS(fsys, "*.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	staticFS, err := fs.Sub(fsys, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	return &PageHandler{
		logger:    logger,
		templates: templates,
		static:    http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
		data: IndexData{
			Version:         config.GetVersion(),
			Analysts:        catalog.Analysts,
			Models:          catalog.Models,
			Providers:       catalog.Providers(),
			DefaultModel:    analysisCfg.DefaultModel,
			DefaultProvider: analysisCfg.DefaultProvider,
			DevMode:         devMode,
		},
	}, nil
}

// ServeIndex handles GET /.
func (h *PageHandler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, "index.html", h.data); err != nil {
		if h.logger != nil {
			h.logger.Error().Str("template", "index.html").Str("error", err.Error()).Msg("failed to render page")
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// StaticFileHandler handles GET /static/*. Directory listings are refused.
func (h *PageHandler) StaticFileHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if strings.HasSuffix(r.URL.Path, "/") {
		http.NotFound(w, r)
		return
	}
	h.static.ServeHTTP(w, r)
}
