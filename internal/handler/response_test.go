package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/blogapi/internal/service"
)

func TestWriteServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", service.FieldErrors{{Field: "title", Message: "The title field is required."}}.Err(), http.StatusUnprocessableEntity, "The title field is required."},
		{"slug conflict", service.ErrSlugExists, http.StatusUnprocessableEntity, "The slug has already been taken."},
		{"wrapped not found", fmt.Errorf("load: %w", service.ErrPostNotFound), http.StatusNotFound, "Post not found."},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "This action is unauthorized."},
		{"bad token", service.ErrInvalidToken, http.StatusUnauthorized, "Unauthenticated."},
		{"internal", errors.New("disk on fire"), http.StatusInternalServerError, "Internal server error."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newJSONContext(http.MethodGet, "/", nil)
			writeServiceError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, w.Code)
			}
			env := decodeEnvelope(t, w)
			if env.Status != "error" || env.Message != tt.message {
				t.Fatalf("unexpected envelope: %+v", env)
			}
		})
	}
}

func TestStringListMarksNonStrings(t *testing.T) {
	got := stringList([]interface{}{"go", 3.0, nil, "web"})
	if len(got) != 4 || got[0] != "go" || got[1] != "" || got[2] != "" || got[3] != "web" {
		t.Fatalf("unexpected list: %#v", got)
	}
	if stringList(nil) != nil {
		t.Fatalf("expected nil for missing tags")
	}
}
