// Package edge implements the edge dispatcher: static assets are served from
// an asset store, every other request is recorded and answered with a stub.
package edge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/hedge-portal/internal/common"
	"github.com/bobmcallan/hedge-portal/internal/interfaces"
)

// MockMessage is the message carried by every stub response.
const MockMessage = "This is a mock response from the edge dispatcher"

// diagnosticKeyPrefix prefixes the millisecond timestamp of each descriptor key.
const diagnosticKeyPrefix = "request_"

// Observer receives dispatcher events. *metrics.Recorder satisfies it.
type Observer interface {
	DiagnosticWrite(err error)
	AssetServed(source string)
}

// MockResponse is the JSON body returned for non-static requests.
type MockResponse struct {
	Message string             `json:"message"`
	Request *RequestDescriptor `json:"request"`
}

// Dispatcher routes edge requests.
type Dispatcher struct {
	staticPrefix string
	assets       http.Handler
	diagnostics  interfaces.KeyValueStorage
	logger       *common.Logger
	observer     Observer
	now          func() time.Time
}

// NewDispatcher creates a Dispatcher. Paths under staticPrefix go to assets;
// descriptors of all other requests are written to diagnostics.
func NewDispatcher(staticPrefix string, assets http.Handler, diagnostics interfaces.KeyValueStorage, logger *common.Logger) *Dispatcher {
	if staticPrefix == "" {
		staticPrefix = "/static/"
	}
	return &Dispatcher{
		staticPrefix: staticPrefix,
		assets:       assets,
		diagnostics:  diagnostics,
		logger:       logger,
		now:          time.Now,
	}
}

// SetObserver attaches an observer for diagnostic writes.
func (d *Dispatcher) SetObserver(o Observer) {
	d.observer = o
}

// SetClock overrides the clock used for diagnostic keys.
func (d *Dispatcher) SetClock(now func() time.Time) {
	d.now = now
}

// ServeHTTP implements http.Handler.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			d.fail(w, r, fmt.Errorf("%v", rec))
		}
	}()

	if strings.HasPrefix(r.URL.Path, d.staticPrefix) {
		if d.assets == nil {
			d.fail(w, r, errors.New("no asset store configured"))
			return
		}
		d.assets.ServeHTTP(w, r)
		return
	}

	if err := d.dispatch(w, r); err != nil {
		d.fail(w, r, err)
	}
}

func (d *Dispatcher) dispatch(w http.ResponseWriter, r *http.Request) error {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	}
	desc, err := NewRequestDescriptor(r)
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(desc)
	if err != nil {
		return fmt.Errorf("failed to encode request descriptor: %w", err)
	}
	d.persist(r.Context(), encoded)

	body, err := json.Marshal(MockResponse{Message: MockMessage, Request: desc})
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
	return nil
}

// persist writes the descriptor to the diagnostic store. Failures are logged
// and counted only; the response is unaffected.
func (d *Dispatcher) persist(ctx context.Context, encoded []byte) {
	if d.diagnostics == nil {
		return
	}

	key := diagnosticKeyPrefix + strconv.FormatInt(d.now().UnixMilli(), 10)
	err := d.diagnostics.Set(ctx, key, string(encoded))
	if d.observer != nil {
		d.observer.DiagnosticWrite(err)
	}
	if err != nil {
		d.logger.Warn().Str("key", key).Err(err).Msg("Failed to persist request descriptor")
	}
}

func (d *Dispatcher) fail(w http.ResponseWriter, r *http.Request, err error) {
	d.logger.Error().Str("method", r.Method).Str("path", r.URL.Path).Err(err).Msg("Dispatch failed")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte("Error: " + err.Error()))
}
