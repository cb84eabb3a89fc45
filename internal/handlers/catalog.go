package handlers

import (
	"net/http"

	"github.com/bobmcallan/hedge-portal/internal/models"
)

// CatalogHandler serves the analyst and model lists.
type CatalogHandler struct {
	catalog models.Catalog
}

// NewCatalogHandler creates a catalog handler.
func NewCatalogHandler(catalog models.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// HandleAnalysts handles GET /api/analysts.
func (h *CatalogHandler) HandleAnalysts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.catalog.Analysts)
}

// HandleModels handles GET /api/models.
func (h *CatalogHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, h.catalog.Models)
}
