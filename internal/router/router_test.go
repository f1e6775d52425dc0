package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bites4life/internal/auth"
	"bites4life/internal/config"
	"bites4life/internal/db"
	apperrors "bites4life/internal/errors"
	"bites4life/internal/handler"
	"bites4life/internal/model"
	"bites4life/internal/repository"
	"bites4life/internal/service"
)

var stampPattern = regexp.MustCompile(`^\d{2}:\d{2} (AM|PM)$`)

// memTokenStore keeps tokens in process so revocation can be exercised
// without Redis.
type memTokenStore struct {
	mu        sync.Mutex
	refresh   map[string]auth.Session
	blacklist map[string]bool
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{refresh: map[string]auth.Session{}, blacklist: map[string]bool{}}
}

func (m *memTokenStore) StoreRefreshToken(_ context.Context, id string, s auth.Session, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refresh[id] = s
	return nil
}

func (m *memTokenStore) GetRefreshToken(_ context.Context, id string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.refresh[id]
	if !ok {
		return auth.Session{}, fmt.Errorf("refresh token not found")
	}
	return s, nil
}

func (m *memTokenStore) DeleteRefreshToken(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.refresh, id)
	return nil
}

func (m *memTokenStore) BlacklistAccessToken(_ context.Context, id string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blacklist[id] = true
	return nil
}

func (m *memTokenStore) IsAccessTokenBlacklisted(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.blacklist[id], nil
}

type testServer struct {
	e *echo.Echo
}

func newTestServer(t *testing.T, requireAuth bool) *testServer {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := db.Open(config.DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB, true))

	cfg := &config.Config{
		JWTSecret:                "test-secret",
		RequireAuth:              requireAuth,
		CheckCodeRegistersDevice: true,
		CORSAllowOrigins:         []string{"*"},
	}

	riderRepo := repository.NewRiderRepository(gormDB)
	userRepo := repository.NewUserRepository(gormDB)
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	adminService := service.NewAdminService(userRepo)
	_, err = adminService.EnsureSuperAdmin(context.Background(), "super", "4343")
	require.NoError(t, err)

	authService := service.NewAuthService(userRepo, jwtService, newMemTokenStore())
	riderService := service.NewRiderService(riderRepo, service.RiderServiceOptions{
		Stamps:         service.NewStampFormatter(time.UTC, ""),
		RegisterDevice: cfg.CheckCodeRegistersDevice,
	})

	e := echo.New()
	Register(e, cfg, jwtService, authService, Handlers{
		System: handler.NewSystemHandler(handler.PingFunc(func(ctx context.Context) error {
			return db.Ping(ctx, gormDB)
		}), nil),
		Auth:  handler.NewAuthHandler(authService),
		Rider: handler.NewRiderHandler(riderService),
		Admin: handler.NewAdminHandler(adminService),
	})
	return &testServer{e: e}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("User-Agent", "RiderApp/2.1 (Android 14)")
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) addRider(t *testing.T, name, token string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/add_rider", map[string]string{"name": name}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[handler.AddRiderResponse](t, rec).Code
}

func (s *testServer) rider(t *testing.T, code string) handler.RiderView {
	t.Helper()
	rec := s.do(t, http.MethodGet, "/get_riders", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	for _, v := range decode[[]handler.RiderView](t, rec) {
		if v.Code == code {
			return v
		}
	}
	t.Fatalf("rider %s not listed", code)
	return handler.RiderView{}
}

func TestIndexAndHealth(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Online", decode[handler.IndexResponse](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	health := decode[handler.HealthResponse](t, rec)
	assert.Equal(t, "up", health.Database)
	assert.Equal(t, "disabled", health.Cache)
}

func TestAddRiderThenCheckCode(t *testing.T) {
	s := newTestServer(t, false)

	code := s.addRider(t, "Ali", "")
	assert.Regexp(t, `^[1-9]\d{3}$`, code)

	rec := s.do(t, http.MethodGet, "/check_code/"+code, nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	check := decode[handler.CodeCheckResponse](t, rec)
	assert.True(t, check.Success)
	assert.Equal(t, "Ali", check.Name)
	assert.Equal(t, model.StatusAvailable, check.Status)
	assert.Equal(t, model.RingIdle, check.RingStatus)

	view := s.rider(t, code)
	assert.Equal(t, "RiderApp/2.1 (Android 14)", view.DeviceInfo)
	assert.Equal(t, view.DeviceInfo, view.Device)
	assert.Equal(t, model.TimePlaceholder, view.RTime)
	assert.Equal(t, model.TimePlaceholder, view.ATime)
}

func TestRiderStateTransitions(t *testing.T) {
	s := newTestServer(t, false)
	code := s.addRider(t, "Bilal", "")

	t.Run("ring then report clears ring", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			rec := s.do(t, http.MethodPost, "/admin/ring_rider", map[string]string{"code": code}, "")
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, model.RingRinging, s.rider(t, code).RingStatus)

		rec := s.do(t, http.MethodPost, "/update_status", map[string]string{"code": code, "status": "Here"}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		view := s.rider(t, code)
		assert.Equal(t, model.StatusHere, view.Status)
		assert.Equal(t, model.RingIdle, view.RingStatus)
		assert.Regexp(t, stampPattern, view.RTime)
	})

	t.Run("stop ring on idle rider succeeds", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/admin/stop_ring", map[string]string{"code": code}, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[handler.SuccessResponse](t, rec).Success)
		assert.Equal(t, model.RingIdle, s.rider(t, code).RingStatus)
	})

	t.Run("on route via update_status does not stamp a_time", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/update_status", map[string]string{"code": code, "status": "On Route"}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		view := s.rider(t, code)
		assert.Equal(t, model.StatusOnRoute, view.Status)
		assert.Equal(t, model.TimePlaceholder, view.ATime)
	})

	t.Run("admin on route stamps a_time", func(t *testing.T) {
		s.do(t, http.MethodPost, "/admin/ring_rider", map[string]string{"code": code}, "")
		rec := s.do(t, http.MethodPost, "/admin/on_route", map[string]string{"code": code}, "")
		require.Equal(t, http.StatusOK, rec.Code)

		view := s.rider(t, code)
		assert.Equal(t, model.StatusOnRoute, view.Status)
		assert.Regexp(t, stampPattern, view.ATime)
		assert.Equal(t, model.RingIdle, view.RingStatus)
	})

	t.Run("custom status is stored as is", func(t *testing.T) {
		rec := s.do(t, http.MethodPost, "/update_status", map[string]string{"code": code, "status": "On Break"}, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, model.Status("On Break"), s.rider(t, code).Status)
	})
}

func TestConcurrentRingsThenReport(t *testing.T) {
	s := newTestServer(t, false)
	code := s.addRider(t, "Chand", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodPost, "/admin/ring_rider", strings.NewReader(`{"code":"`+code+`"}`))
			req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			rec := httptest.NewRecorder()
			s.e.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
		}()
	}
	wg.Wait()

	rec := s.do(t, http.MethodPost, "/update_status", map[string]string{"code": code, "status": "Coming"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RingIdle, s.rider(t, code).RingStatus)
}

func TestRiderErrors(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name           string
		method         string
		path           string
		body           interface{}
		expectedStatus int
		expectedCode   string
	}{
		{"delete unknown rider", http.MethodDelete, "/delete_rider/4242", nil, http.StatusNotFound, "RIDER_NOT_FOUND"},
		{"check unknown code", http.MethodGet, "/check_code/4242", nil, http.StatusNotFound, "RIDER_NOT_FOUND"},
		{"report unknown rider", http.MethodPost, "/update_status", map[string]string{"code": "4242", "status": "Here"}, http.StatusNotFound, "RIDER_NOT_FOUND"},
		{"ring unknown rider", http.MethodPost, "/admin/ring_rider", map[string]string{"code": "4242"}, http.StatusNotFound, "RIDER_NOT_FOUND"},
		{"report without status", http.MethodPost, "/update_status", map[string]string{"code": "4242"}, http.StatusBadRequest, "BAD_REQUEST"},
		{"add rider without name", http.MethodPost, "/add_rider", map[string]string{}, http.StatusBadRequest, "BAD_REQUEST"},
		{"on route without code", http.MethodPost, "/admin/on_route", map[string]string{}, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown route", http.MethodGet, "/nope", nil, http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.method, tt.path, tt.body, "")
			assert.Equal(t, tt.expectedStatus, rec.Code)

			body := decode[apperrors.ErrorResponse](t, rec)
			assert.False(t, body.Success)
			assert.Equal(t, tt.expectedCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestDeleteRider(t *testing.T) {
	s := newTestServer(t, false)
	code := s.addRider(t, "Dawood", "")

	rec := s.do(t, http.MethodDelete, "/delete_rider/"+code, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/delete_rider/"+code, nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/get_riders", nil, "")
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestLogin(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/login", map[string]string{"email": "super", "password": "4343"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[handler.LoginResponse](t, rec)
	assert.True(t, login.Success)
	assert.Equal(t, model.RoleSuperAdmin, login.Role)
	assert.NotEmpty(t, login.AccessToken)

	rec = s.do(t, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": login.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[handler.RefreshResponse](t, rec).AccessToken)

	rec = s.do(t, http.MethodPost, "/login", map[string]string{"email": "super", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decode[apperrors.ErrorResponse](t, rec).Code)
}

func TestAdminAccounts(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/add_admin", map[string]string{"email": "ops@example.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	added := decode[handler.AddAdminResponse](t, rec)
	assert.NotZero(t, added.ID)

	rec = s.do(t, http.MethodPost, "/add_admin", map[string]string{"email": "ops@example.com", "password": "pw2"}, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decode[apperrors.ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodGet, "/get_admins", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	admins := decode[[]handler.AdminView](t, rec)
	require.Len(t, admins, 1)
	assert.Equal(t, "ops@example.com", admins[0].Email)
	assert.Equal(t, model.DeviceNeverLoggedIn, admins[0].Device)

	rec = s.do(t, http.MethodDelete, "/delete_admin/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/delete_admin/%d", added.ID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, fmt.Sprintf("/delete_admin/%d", added.ID), nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ADMIN_NOT_FOUND", decode[apperrors.ErrorResponse](t, rec).Code)
}

func TestRequireAuth(t *testing.T) {
	s := newTestServer(t, true)

	login := func(email, password string) handler.LoginResponse {
		rec := s.do(t, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[handler.LoginResponse](t, rec)
	}

	rec := s.do(t, http.MethodGet, "/get_riders", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, decode[apperrors.ErrorResponse](t, rec).Success)

	rec = s.do(t, http.MethodGet, "/get_riders", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	super := login("super", "4343")
	code := s.addRider(t, "Ehsan", super.AccessToken)

	// Rider-app routes stay public.
	rec = s.do(t, http.MethodGet, "/check_code/"+code, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/update_status", map[string]string{"code": code, "status": "Coming"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/add_admin", map[string]string{"email": "ops", "password": "pw"}, super.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	admin := login("ops", "pw")
	rec = s.do(t, http.MethodPost, "/admin/ring_rider", map[string]string{"code": code}, admin.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/get_riders", nil, admin.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_TOKEN", decode[apperrors.ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodGet, "/get_admins", nil, admin.AccessToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode[apperrors.ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": admin.RefreshToken}, admin.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/get_riders", nil, admin.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_REVOKED", decode[apperrors.ErrorResponse](t, rec).Code)

	rec = s.do(t, http.MethodPost, "/auth/refresh", map[string]string{"refresh_token": admin.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCodeForStatus(t *testing.T) {
	assert.Equal(t, "NOT_FOUND", codeForStatus(http.StatusNotFound))
	assert.Equal(t, "METHOD_NOT_ALLOWED", codeForStatus(http.StatusMethodNotAllowed))
	assert.Equal(t, "UNAUTHORIZED", codeForStatus(http.StatusUnauthorized))
	assert.Equal(t, "INTERNAL_ERROR", codeForStatus(http.StatusBadGateway))
	assert.Equal(t, "SERVICE_UNAVAILABLE", codeForStatus(http.StatusServiceUnavailable))
}
