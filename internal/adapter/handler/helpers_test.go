package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rl1809/production-records/internal/adapter/auth"
	"github.com/rl1809/production-records/internal/core/domain"
	"github.com/rl1809/production-records/internal/core/service"
	"github.com/rl1809/production-records/internal/metrics"
	"github.com/rl1809/production-records/internal/port"
)

const testSecret = "test-secret"

// testEpoch is the first timestamp handed out by steppingClock.
var testEpoch = time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

// steppingClock returns a clock that advances one second per call.
func steppingClock() func() time.Time {
	var ticks atomic.Int64
	return func() time.Time {
		return testEpoch.Add(time.Duration(ticks.Add(1)) * time.Second)
	}
}

// memRepo is an in-memory RecordRepository ordered by creation time.
type memRepo struct {
	mu      sync.Mutex
	records []domain.Record
}

func (m *memRepo) AppendRecord(ctx context.Context, record domain.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

func (m *memRepo) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Record, len(m.records))
	copy(out, m.records)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memRepo) Close() error { return nil }

// countingRepo wraps a repository and counts calls that reach it.
type countingRepo struct {
	port.RecordRepository
	appends atomic.Int32
	lists   atomic.Int32
	fail    error
}

func (c *countingRepo) AppendRecord(ctx context.Context, record domain.Record) error {
	c.appends.Add(1)
	if c.fail != nil {
		return c.fail
	}
	return c.RecordRepository.AppendRecord(ctx, record)
}

func (c *countingRepo) ListRecentRecords(ctx context.Context, limit int) ([]domain.Record, error) {
	c.lists.Add(1)
	if c.fail != nil {
		return nil, c.fail
	}
	return c.RecordRepository.ListRecentRecords(ctx, limit)
}

type testEnv struct {
	repo    *countingRepo
	issuer  *auth.JWTIssuer
	metrics *metrics.Metrics
	records *service.RecordService
	authSvc *service.AuthService
	http    http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	repo := &countingRepo{RecordRepository: &memRepo{}}

	issuer := auth.NewJWTIssuer(testSecret, time.Hour)
	m := metrics.New(prometheus.NewRegistry())
	records := service.NewRecordService(repo, time.Second).WithClock(steppingClock())
	authSvc := service.NewAuthService(issuer)

	h := NewHTTPHandler(records, authSvc, m, zap.NewNop())

	return &testEnv{
		repo:    repo,
		issuer:  issuer,
		metrics: m,
		records: records,
		authSvc: authSvc,
		http:    h.Routes([]string{"*"}),
	}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.http.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) login(t *testing.T, username string) string {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/login", "", map[string]string{"username": username, "password": "irrelevant"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp LoginHTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func validRecordBody(i int) map[string]interface{} {
	return map[string]interface{}{
		"parca_ad": "flanş",
		"adet":     i + 1,
		"vardiya":  []string{"A", "B", "C"}[i%3],
		"operator": "ayse",
		"makine":   "cnc-1",
	}
}

func newRequest(method, path string, body io.Reader) *http.Request {
	return httptest.NewRequest(method, path, body)
}

func serve(env *testEnv, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.http.ServeHTTP(rec, r)
	return rec
}

var errStoreDown = errors.New("store unavailable")
