package httpadapter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestEmbeddedOpenAPISpecIsValid(t *testing.T) {
	if err := ValidateOpenAPISpec(context.Background()); err != nil {
		t.Fatalf("embedded spec must validate: %v", err)
	}
}

func TestOpenAPIDocumentIsServed(t *testing.T) {
	_, handler := newTestRouter()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var doc map[string]any
	if err := json.Unmarshal(res.Body.Bytes(), &doc); err != nil {
		t.Fatalf("served document is not json: %v", err)
	}
	if doc["openapi"] == "" {
		t.Fatalf("expected openapi version field")
	}
	paths, ok := doc["paths"].(map[string]any)
	if !ok || len(paths) == 0 {
		t.Fatalf("expected non-empty paths object")
	}
}
