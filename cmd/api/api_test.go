package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/milstock/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// TestAPI_LoginThenListPurchases is an integration test: it builds the full
// router with a sqlmock-backed DB, logs in to get a JWT, then calls
// GET /api/purchases with the token.
func TestAPI_LoginThenListPurchases(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	ts := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

	// Login: GetByUsername("cmdr")
	mock.ExpectQuery(`SELECT id, username, password_hash, role, base_id, is_superuser FROM users WHERE username = \$1`).
		WithArgs("cmdr").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "base_id", "is_superuser"}).
			AddRow(2, "cmdr", string(hash), "COMMANDER", 4, false))

	// Authenticator reloads the user by id from the token.
	mock.ExpectQuery(`SELECT id, username, password_hash, role, base_id, is_superuser FROM users WHERE id = \$1`).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "base_id", "is_superuser"}).
			AddRow(2, "cmdr", string(hash), "COMMANDER", 4, false))

	// GET /api/purchases scoped to the commander's base.
	mock.ExpectQuery(`SELECT id, base_id, equipment_type_id, quantity, unit_cost, purchased_at, created_by, notes, created_at FROM purchases WHERE base_id = \$1 ORDER BY id`).
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "base_id", "equipment_type_id", "quantity", "unit_cost", "purchased_at", "created_by", "notes", "created_at"}).
			AddRow(1, 4, 3, 100, nil, ts, 2, "", ts))

	cfg := config.Config{
		JWTSecret:      "test-secret-for-integration",
		JWTExpireHours: 1,
	}
	r := newRouter(db, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	// 1) Login
	loginBody, _ := json.Marshal(map[string]string{"username": "cmdr", "password": "secret123"})
	loginResp, err := http.Post(srv.URL+"/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer loginResp.Body.Close()
	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("login status: got %d, want 200", loginResp.StatusCode)
	}
	var loginOut struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&loginOut); err != nil || loginOut.Token == "" {
		t.Fatalf("login response: %v", err)
	}

	// 2) GET /api/purchases with Bearer token
	req, _ := http.NewRequest("GET", srv.URL+"/api/purchases", nil)
	req.Header.Set("Authorization", "Bearer "+loginOut.Token)
	purchasesResp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("purchases request: %v", err)
	}
	defer purchasesResp.Body.Close()
	if purchasesResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /api/purchases status: got %d, want 200", purchasesResp.StatusCode)
	}
	var purchases []struct {
		ID       int `json:"id"`
		BaseID   int `json:"base_id"`
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(purchasesResp.Body).Decode(&purchases); err != nil {
		t.Fatalf("decode purchases: %v", err)
	}
	if len(purchases) != 1 || purchases[0].BaseID != 4 {
		t.Errorf("unexpected purchases: %+v", purchases)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

// TestAPI_Health is a quick smoke test for the health endpoint.
func TestAPI_Health(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cfg := config.Config{JWTSecret: "x"}
	r := newRouter(db, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /healthz status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Ready checks that /readyz pings the DB and returns 200 when it is reachable.
func TestAPI_Ready(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	mock.ExpectPing()

	cfg := config.Config{JWTSecret: "x"}
	r := newRouter(db, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/readyz")
	if err != nil {
		t.Fatalf("ready request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET /readyz status: got %d, want 200", resp.StatusCode)
	}
}

// TestAPI_Unauthenticated verifies /api routes reject requests without a token.
func TestAPI_Unauthenticated(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	cfg := config.Config{JWTSecret: "x"}
	r := newRouter(db, cfg)
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api/purchases")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("GET /api/purchases status: got %d, want 401", resp.StatusCode)
	}
}
