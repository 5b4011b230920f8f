package handler

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"reflect"
	"testing"

	"document-ingest/internal/domain"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, 404, "Document not found")

	if rec.Code != 404 {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %s", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["error"] != "Document not found" {
		t.Errorf("Unexpected error message: %q", body["error"])
	}
}

func TestToAppError(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{domain.ErrDocumentNotFound, 404},
		{domain.ErrInvalidFile, 400},
		{&domain.ValidationError{Field: "title", Message: "is required"}, 400},
		{errors.New("boom"), 500},
	}
	for _, c := range cases {
		if got := toAppError(c.err).StatusCode; got != c.status {
			t.Errorf("toAppError(%v) status = %d, want %d", c.err, got, c.status)
		}
	}
}

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  ", nil},
		{"a", []string{"a"}},
		{"a, b ,c", []string{"a", "b", "c"}},
		{"a,,b", []string{"a", "b"}},
	}
	for _, c := range cases {
		if got := splitCSV(c.in); !reflect.DeepEqual(got, c.want) {
			t.Errorf("splitCSV(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseGroups(t *testing.T) {
	got := parseGroups("group-1:Research, group-2")
	want := []domain.Group{
		{ID: "group-1", Name: "Research"},
		{ID: "group-2"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseGroups = %v, want %v", got, want)
	}

	if parseGroups("") != nil {
		t.Error("Expected nil for empty input")
	}
}
