package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/asset-tracker/internal/repo"
	"github.com/crucial707/asset-tracker/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// requestWithChiURLParams returns a request with chi route context and URL params set.
func requestWithChiURLParams(method, path string, body []byte, params map[string]string) *http.Request {
	var r *http.Request
	if body != nil {
		r = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	return r
}

var (
	fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	assetListColumns = []string{
		"id", "asset_tag", "name", "category", "manufacturer", "model", "serial_number",
		"location", "description", "purchase_date", "purchase_cost", "warranty_expiry",
		"status", "assigned_to", "created_at", "updated_at", "name", "email",
	}
	assetDetailColumns = append(append([]string{}, assetListColumns...), "department", "phone")
	userColumns        = []string{"id", "name", "email", "role", "department", "phone", "password_hash", "created_at"}
)

// assetValues is one stored asset row. assignee is nil for unassigned assets.
func assetValues(id uuid.UUID, name, status string, assignee *uuid.UUID, detail bool) []driver.Value {
	var assignedTo, userName, userEmail driver.Value
	if assignee != nil {
		assignedTo, userName, userEmail = assignee.String(), "Jane Doe", "jane@example.com"
	}
	v := []driver.Value{
		id.String(), "TAG-" + name, name, "laptop", "Dell", nil, nil,
		nil, nil, nil, 1200.0, nil,
		status, assignedTo, fixedNow, fixedNow, userName, userEmail,
	}
	if detail {
		v = append(v, nil, nil)
	}
	return v
}

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// newAssetHandler wires the real repos and service over db with a fixed clock and id.
func newAssetHandler(db *sql.DB, newID uuid.UUID) *AssetHandler {
	svc := service.NewAssetService(repo.NewAssetRepo(db), repo.NewUserRepo(db))
	svc.Now = func() time.Time { return fixedNow }
	svc.NewID = func() uuid.UUID { return newID }
	return &AssetHandler{Service: svc}
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}
