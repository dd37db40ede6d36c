package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	_ "github.com/custodia-labs/lexcore/docs"
)

// Every parameterless GET route in the API document must be served at
// basePath + path.
func TestAPIDocRoutesAreServed(t *testing.T) {
	s, _ := newTestServer(nil, nil)

	rr := do(t, s, "GET", "/swagger/doc.json", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200 for doc.json, got %d", rr.Code)
	}
	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode api doc: %v", err)
	}
	if doc.BasePath != "/api/v1" {
		t.Fatalf("unexpected base path %q", doc.BasePath)
	}

	checked := 0
	for path, ops := range doc.Paths {
		if _, ok := ops["get"]; !ok || strings.Contains(path, "{") {
			continue
		}
		checked++
		rr := do(t, s, "GET", doc.BasePath+path, nil)
		if rr.Code == http.StatusNotFound || rr.Code == http.StatusMethodNotAllowed {
			t.Errorf("GET %s%s: status %d", doc.BasePath, path, rr.Code)
		}
	}
	if checked < 3 {
		t.Errorf("expected health, ready and version among documented routes, checked %d", checked)
	}
}

func TestHealthRoutes_RootAndBasePath(t *testing.T) {
	s, _ := newTestServer(nil, nil)
	for _, path := range []string{"/health", "/api/v1/health", "/ready", "/api/v1/ready", "/version", "/api/v1/version"} {
		if rr := do(t, s, "GET", path, nil); rr.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, rr.Code)
		}
	}
}
