package view

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/hedge-portal/internal/models"
)

// Form field names shared with the index page.
const (
	FieldTickers  = "tickers"
	FieldAnalysts = "analysts"
	FieldModel    = "model"
	FieldProvider = "provider"
)

// ParseForm reads an analysis request from a url-encoded or multipart form.
func ParseForm(r *http.Request) (models.AnalysisRequest, error) {
	if err := r.ParseForm(); err != nil {
		return models.AnalysisRequest{}, fmt.Errorf("invalid form: %w", err)
	}

	analysts := make([]string, 0, len(r.PostForm[FieldAnalysts]))
	for _, a := range r.PostForm[FieldAnalysts] {
		if a = strings.TrimSpace(a); a != "" {
			analysts = append(analysts, a)
		}
	}

	return models.AnalysisRequest{
		Tickers:  r.PostFormValue(FieldTickers),
		Analysts: analysts,
		Model:    strings.TrimSpace(r.PostFormValue(FieldModel)),
		Provider: strings.TrimSpace(r.PostFormValue(FieldProvider)),
	}, nil
}
