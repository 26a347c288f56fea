package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/asset-tracker/internal/middleware"
	"github.com/crucial707/asset-tracker/internal/repo"
	"github.com/crucial707/asset-tracker/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var authSecret = []byte("test-secret")

func TestAuthHandler_Login(t *testing.T) {
	db, mock := newTestDB(t)
	id := uuid.New()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectQuery(`FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Admin", "admin@example.com", "admin", nil, nil, string(hash), fixedNow))
	mock.ExpectQuery(`FROM users WHERE lower\(email\) = lower\(\$1\)`).
		WithArgs("admin@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Admin", "admin@example.com", "admin", nil, nil, string(hash), fixedNow))

	h := &AuthHandler{Users: service.NewUserService(repo.NewUserRepo(db)), Secret: authSecret, TTL: time.Hour}

	rr := httptest.NewRecorder()
	h.Login(rr, requestWithChiURLParams("POST", "/api/auth/login", []byte(`{"email":" Admin@Example.com ","password":"correct horse"}`), nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200: %s", rr.Code, rr.Body.String())
	}
	body := decodeBody(t, rr)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("no token in %v", body)
	}
	user, _ := body["user"].(map[string]any)
	if _, leaked := user["passwordHash"]; leaked || user["id"] != id.String() {
		t.Errorf("unexpected user: %v", user)
	}

	// The issued token must pass the auth middleware.
	var gotID uuid.UUID
	protected := middleware.JWTMiddleware(authSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = middleware.GetUserID(r.Context())
	}))
	req := httptest.NewRequest("GET", "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected.ServeHTTP(httptest.NewRecorder(), req)
	if gotID != id {
		t.Errorf("token subject = %v, want %v", gotID, id)
	}

	rr = httptest.NewRecorder()
	h.Login(rr, requestWithChiURLParams("POST", "/api/auth/login", []byte(`{"email":"admin@example.com","password":"wrong"}`), nil))
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: got %d, want 401", rr.Code)
	}
}

func TestAuthHandler_Login_UnknownEmail(t *testing.T) {
	db, mock := newTestDB(t)
	mock.ExpectQuery(`FROM users WHERE lower\(email\)`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	h := &AuthHandler{Users: service.NewUserService(repo.NewUserRepo(db)), Secret: authSecret, TTL: time.Hour}
	rr := httptest.NewRecorder()
	h.Login(rr, requestWithChiURLParams("POST", "/api/auth/login", []byte(`{"email":"nobody@example.com","password":"x"}`), nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if msg := decodeBody(t, rr)["message"]; msg != "invalid credentials" {
		t.Errorf("message = %v", msg)
	}
}

func TestAuthHandler_Verify(t *testing.T) {
	db, mock := newTestDB(t)
	id := uuid.New()
	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(id.String(), "Jane Doe", "jane@example.com", "user", nil, nil, "", fixedNow))

	h := &AuthHandler{Users: service.NewUserService(repo.NewUserRepo(db)), Secret: authSecret, TTL: time.Hour}

	req := httptest.NewRequest("GET", "/api/auth/verify", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, id))
	rr := httptest.NewRecorder()
	h.Verify(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Verify status: got %d, want 200", rr.Code)
	}
	user, _ := decodeBody(t, rr)["user"].(map[string]any)
	if user["email"] != "jane@example.com" {
		t.Errorf("unexpected user: %v", user)
	}
}
