package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"library-backend/internal/platform/config"
	"library-backend/internal/platform/session"
	"library-backend/internal/stubs"
)

type testServer struct {
	t  *testing.T
	h  http.Handler
	db *stubs.MemoryDB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := &config.Config{Version: "test", Mode: config.ModeRelease}
	mem := stubs.NewSeededMemoryDB(time.Now().UTC())
	issuer := session.NewIssuer([]byte("test-secret"), time.Hour)
	return &testServer{t: t, h: NewRouter(cfg, zap.NewNop(), MemoryRepositories(mem), issuer), db: mem}
}

func (s *testServer) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type book struct {
	BookID             int64  `json:"bookId"`
	AvailabilityStatus string `json:"availabilityStatus"`
}

type reservation struct {
	ReservationID int64  `json:"reservationId"`
	BookID        int64  `json:"bookId"`
	Title         string `json:"title"`
	Status        string `json:"status"`
}

func (s *testServer) bookStatus(id int64) string {
	s.t.Helper()
	w := s.do(http.MethodGet, "/api/books", nil)
	require.Equal(s.t, http.StatusOK, w.Code)
	for _, b := range decode[[]book](s.t, w) {
		if b.BookID == id {
			return b.AvailabilityStatus
		}
	}
	s.t.Fatalf("book %d not listed", id)
	return ""
}

func TestReservationLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/reserve", map[string]int64{"memberId": 201, "bookId": 5})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[struct {
		Message       string `json:"message"`
		ReservationID int64  `json:"reservationId"`
	}](t, w)
	assert.Equal(t, "Reservation requested. Waiting for staff approval.", created.Message)
	id := strconv.FormatInt(created.ReservationID, 10)
	assert.Equal(t, "/api/reservations/"+id, w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/api/members/201/reservations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[[]reservation](t, w)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(5), mine[0].BookID)
	assert.Equal(t, "Pending", mine[0].Status)

	w = s.do(http.MethodPut, "/api/staff/reservations/"+id, map[string]string{"status": "Accepted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Reservation Accepted."}`, w.Body.String())
	assert.Equal(t, "Reserved", s.bookStatus(5))

	w = s.do(http.MethodDelete, "/api/reserve/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Reservation cancelled."}`, w.Body.String())
	assert.Equal(t, "Available", s.bookStatus(5))

	w = s.do(http.MethodGet, "/api/reservations/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSearchWithoutTitle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/books/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"code":"INVALID_ARGUMENT","message":"title is required"}}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/books/search?title=dune", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]book](t, w), 1)
}

func TestReserveUnavailableBook(t *testing.T) {
	s := newTestServer(t)
	before := s.db.ReservationCount()

	w := s.do(http.MethodPost, "/api/reserve", map[string]int64{"memberId": 201, "bookId": 6})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, before, s.db.ReservationCount())

	w = s.do(http.MethodGet, "/api/staff/reservations/all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]reservation](t, w), before)
}

func TestReserveMissingFields(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/reserve", map[string]int64{"memberId": 201})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/reserve/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, "/api/reserve/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveUnrecognizedStatus(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPut, "/api/staff/reservations/1", map[string]string{"status": "Maybe"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/reservations/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Accepted", decode[reservation](t, w).Status)
}

func TestReadEndpointsAreIdempotent(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{
		"/api/staff/reservations/all",
		"/api/loans/active",
		"/api/staff/loans/checkedout",
		"/api/staff/fines/summary",
		"/api/analytics/genres",
		"/api/analytics/top-borrowed",
		"/api/analytics/status-count",
		"/api/genres",
	} {
		first := s.do(http.MethodGet, path, nil)
		second := s.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, first.Code, path)
		assert.Equal(t, first.Body.String(), second.Body.String(), path)
	}
}

func TestRoles(t *testing.T) {
	s := newTestServer(t)

	// Member は スタッフ用の操作ができない
	w := s.do(http.MethodGet, "/api/staff/reservations/all", nil, session.HeaderRole, "Member")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPut, "/api/staff/reservations/1", map[string]string{"status": "Declined"}, session.HeaderRole, "Member")
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodGet, "/api/staff/reservations/all", nil, session.HeaderRole, "Staff")
	assert.Equal(t, http.StatusOK, w.Code)

	// トークンで会員に紐付いたセッション
	w = s.do(http.MethodPost, "/api/sessions", map[string]any{"role": "Member", "memberId": 202})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := decode[struct {
		Token string `json:"token"`
	}](t, w).Token
	auth := "Bearer " + token

	w = s.do(http.MethodPost, "/api/reserve", map[string]int64{"memberId": 201, "bookId": 5}, "Authorization", auth)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = s.do(http.MethodPost, "/api/reserve", map[string]int64{"memberId": 202, "bookId": 5}, "Authorization", auth)
	assert.Equal(t, http.StatusCreated, w.Code)
	w = s.do(http.MethodGet, "/api/members/201/reservations", nil, "Authorization", auth)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = s.do(http.MethodGet, "/api/books", nil, "Authorization", "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/staff/loans/checkedout/export?encoding=shift_jis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=shift_jis", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "checked_out_loans.csv")

	w = s.do(http.MethodGet, "/api/staff/loans/checkedout/export?encoding=ebcdic", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthzAndRequestID(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = s.do(http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthzUnavailable(t *testing.T) {
	cfg := &config.Config{Mode: config.ModeRelease}
	repos := MemoryRepositories(stubs.NewMemoryDB())
	repos.Ping = func(context.Context) error { return errors.New("dial tcp: refused") }
	h := NewRouter(cfg, zap.NewNop(), repos, session.NewIssuer([]byte("x"), time.Hour))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestNew_MemoryDriver(t *testing.T) {
	cfg := &config.Config{
		Version: "test",
		Mode:    config.ModeDev,
		Server: config.ServerConfig{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: time.Second,
			AllowOrigins:    []string{"http://localhost:3000"},
		},
		DB:      config.DatabaseConfig{Driver: config.DriverMemory},
		Session: config.SessionConfig{TTL: time.Hour},
	}
	require.NoError(t, cfg.Validate())
	a, err := New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)

	w := httptest.NewRecorder()
	a.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNewRouter_DevCORS(t *testing.T) {
	issuer := session.NewIssuer([]byte("test-secret"), time.Hour)
	repos := MemoryRepositories(stubs.NewSeededMemoryDB(time.Now().UTC()))

	cfg := &config.Config{Mode: config.ModeDev, Server: config.ServerConfig{AllowOrigins: []string{"http://localhost:3000"}}}
	h := NewRouter(cfg, zap.NewNop(), repos, issuer)
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	// 許可リストが空なら CORS を付けずに起動する
	empty := &config.Config{Mode: config.ModeDev}
	require.NotPanics(t, func() { h = NewRouter(empty, zap.NewNop(), repos, issuer) })
	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/books", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
