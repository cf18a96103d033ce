package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestJSONWritesBodyAndHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	JSON(rec, 201, map[string]string{"status": "created"})

	if rec.Code != 201 {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	if body["status"] != "created" {
		t.Fatalf("body = %v", body)
	}
}

func TestGetLoggerInitializesOnce(t *testing.T) {
	first := GetLogger()
	if first == nil {
		t.Fatal("GetLogger returned nil")
	}
	if second := GetLogger(); second != first {
		t.Fatal("GetLogger returned a different logger on the second call")
	}
}
