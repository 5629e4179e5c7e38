package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"stareduca_backend/internal/config"
	"stareduca_backend/internal/model"
	"stareduca_backend/internal/repository"
	"stareduca_backend/internal/util"
	"testing"
	"time"

	"gorm.io/gorm"
)

func newAuthService(db *gorm.DB, hub *HubClient) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.JWT.DevExpireTime = 168 * time.Hour
	return NewAuthService(
		repository.NewStudentRepository(db),
		newGamificationService(db),
		hub,
		cfg,
	)
}

func newHubTestServer(t *testing.T, student HubStudent) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/mini-app-exchange" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Mini-App-Id") != "stareduca-junior" {
			t.Errorf("missing mini app header, got %q", r.Header.Get("X-Mini-App-Id"))
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["code"] == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body["code"] != "valid-code" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"user": student})
	}))
}

func newTestHubClient(baseURL string) *HubClient {
	return NewHubClient(&config.HubConfig{
		BaseURL:        baseURL,
		MiniAppID:      "stareduca-junior",
		TimeoutSeconds: 5 * time.Second,
	})
}

func TestExchangeCode_CreatesStudentAndAwardsLogin(t *testing.T) {
	db := newTestDB(t)
	server := newHubTestServer(t, HubStudent{
		ID:        "hub-123",
		FirstName: "Ana",
		LastName:  "García",
		Email:     "ana@familia.dev",
		Code:      "E-2026001",
		FamilyID:  "fam-1",
	})
	defer server.Close()

	svc := newAuthService(db, newTestHubClient(server.URL))

	session, err := svc.ExchangeCode(context.Background(), "valid-code", "")
	if err != nil {
		t.Fatalf("ExchangeCode: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("session token is empty")
	}
	if session.Student.FirstName != "Ana" || session.Student.Code != "E-2026001" {
		t.Fatalf("session student = %+v", session.Student)
	}
	// 当天首次登录带 5 点经验和连续 1 天
	if session.Student.XpTotal != 5 || session.Student.CurrentStreak != 1 {
		t.Fatalf("login xp/streak = %d/%d, want 5/1", session.Student.XpTotal, session.Student.CurrentStreak)
	}

	claims, err := util.ParseJWT(session.Token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.ExternalID != "hub-123" || claims.Dev {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestExchangeCode_SecondLoginSameDayNoXp(t *testing.T) {
	db := newTestDB(t)
	server := newHubTestServer(t, HubStudent{
		ID:        "hub-123",
		FirstName: "Ana",
		Code:      "E-2026001",
	})
	defer server.Close()

	svc := newAuthService(db, newTestHubClient(server.URL))

	if _, err := svc.ExchangeCode(context.Background(), "valid-code", ""); err != nil {
		t.Fatalf("first exchange: %v", err)
	}
	session, err := svc.ExchangeCode(context.Background(), "valid-code", "")
	if err != nil {
		t.Fatalf("second exchange: %v", err)
	}
	if session.Student.XpTotal != 5 {
		t.Fatalf("same day second login xp = %d, want 5", session.Student.XpTotal)
	}

	var count int64
	db.Model(&model.Student{}).Where("external_id = ?", "hub-123").Count(&count)
	if count != 1 {
		t.Fatalf("student rows = %d, want 1", count)
	}
}

func TestExchangeCode_InvalidCode(t *testing.T) {
	db := newTestDB(t)
	server := newHubTestServer(t, HubStudent{ID: "hub-123", Code: "E-1"})
	defer server.Close()

	svc := newAuthService(db, newTestHubClient(server.URL))

	if _, err := svc.ExchangeCode(context.Background(), "expired", ""); !errors.Is(err, util.ErrInvalidExchangeCode) {
		t.Fatalf("expected ErrInvalidExchangeCode, got %v", err)
	}
}

func TestExchangeCode_RejectsNonJuniorCode(t *testing.T) {
	db := newTestDB(t)
	server := newHubTestServer(t, HubStudent{
		ID:        "hub-999",
		FirstName: "Pedro",
		Code:      "T-2026001",
	})
	defer server.Close()

	svc := newAuthService(db, newTestHubClient(server.URL))

	if _, err := svc.ExchangeCode(context.Background(), "valid-code", ""); !errors.Is(err, util.ErrNotJuniorStudent) {
		t.Fatalf("expected ErrNotJuniorStudent, got %v", err)
	}
}

func TestDevLogin_LocalhostOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(db, nil)

	if _, err := svc.DevLogin("stareduca.com", ""); !errors.Is(err, util.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	session, err := svc.DevLogin("localhost:8080", "")
	if err != nil {
		t.Fatalf("DevLogin: %v", err)
	}
	if session.Token == "" || session.Student.FirstName != "Estudiante" {
		t.Fatalf("session = %+v", session)
	}

	claims, err := util.ParseJWT(session.Token, "test-secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if !claims.Dev || claims.ExternalID != "dev-student-001" {
		t.Fatalf("claims = %+v", claims)
	}

	// 重复登录复用同一条记录
	if _, err := svc.DevLogin("127.0.0.1:8080", ""); err != nil {
		t.Fatalf("second DevLogin: %v", err)
	}
	var count int64
	db.Model(&model.Student{}).Where("external_id = ?", "dev-student-001").Count(&count)
	if count != 1 {
		t.Fatalf("dev student rows = %d, want 1", count)
	}
}

func TestHubClient_ExchangeErrors(t *testing.T) {
	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"user": HubStudent{}})
	}))
	defer empty.Close()

	if _, err := newTestHubClient(empty.URL).ExchangeCode(context.Background(), "x"); err == nil {
		t.Fatalf("empty user payload must fail")
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	if _, err := newTestHubClient(down.URL).ExchangeCode(context.Background(), "x"); err == nil {
		t.Fatalf("non-2xx must fail")
	}
}
