package edge

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodySize caps the request body the dispatcher will read. Larger bodies
// fail the request instead of being truncated.
const maxBodySize = 1 << 20 // 1MB

// RequestDescriptor is the normalized form of a dispatched request, echoed
// back to the caller and retained in the diagnostic store.
type RequestDescriptor struct {
	Method  string            `json:"method"`
	Path    string            `json:"path"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// NewRequestDescriptor captures r. Header names are lower-cased and repeated
// values joined with ", ". The body is read as text except for GET and HEAD,
// which always yield an empty body.
func NewRequestDescriptor(r *http.Request) (*RequestDescriptor, error) {
	headers := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		headers[strings.ToLower(name)] = strings.Join(values, ", ")
	}
	if r.Host != "" {
		headers["host"] = r.Host
	}

	desc := &RequestDescriptor{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: headers,
	}

	if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Body == nil {
		return desc, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	desc.Body = string(body)
	return desc, nil
}
