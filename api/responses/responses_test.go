package responses

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/tarea-javier/olist-insights/pkg/errors"
)

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]string{"hello": "world"})

	if got := w.Code; got != http.StatusOK {
		t.Fatalf("expected status 200 but got %d", got)
	}
	var envelope SuccessEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["hello"] != "world" {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeNotFound, "no such section")
	WriteError(context.Background(), nil, w, err)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var envelope ErrorEnvelope
	if decodeErr := json.NewDecoder(w.Body).Decode(&envelope); decodeErr != nil {
		t.Fatalf("decode envelope: %v", decodeErr)
	}
	if envelope.Error.Code != string(pkgerrors.CodeNotFound) {
		t.Fatalf("unexpected error code %q", envelope.Error.Code)
	}
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(context.Background(), nil, w, errors.New("boom"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var envelope ErrorEnvelope
	if err := json.NewDecoder(w.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Error.Message != "internal server error" {
		t.Fatalf("internal details must not leak, got %q", envelope.Error.Message)
	}
}

func TestWriteErrorIncludesAllowedDetails(t *testing.T) {
	w := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeSchema, "missing columns").
		WithDetails(map[string]any{"columns": []string{"order_id"}})
	WriteError(context.Background(), nil, w, err)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	var envelope ErrorEnvelope
	if decodeErr := json.NewDecoder(w.Body).Decode(&envelope); decodeErr != nil {
		t.Fatalf("decode envelope: %v", decodeErr)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected details for schema errors")
	}
}
