package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/lockwise/lockshop-backend/pkg/errors"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func loginAttempt(t *testing.T, handler http.Handler, email, remoteAddr string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"email":"` + email + `","password":"kilit-123"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimitPassesBodyThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	var seenBody string
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(strings.Builder)
		_, err := io.Copy(buf, r.Body)
		require.NoError(t, err)
		seenBody = buf.String()
	}))

	rec := loginAttempt(t, handler, "usta@example.com", "1.2.3.4:5678")
	require.Equal(t, http.StatusOK, rec.Code)
	// the email sniff must not consume the body before the handler
	assert.Contains(t, seenBody, `"email":"usta@example.com"`)
}

func TestAuthRateLimitBlocksRepeatedEmail(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Same email from rotating IPs still hits the email counter.
	require.Equal(t, http.StatusOK, loginAttempt(t, handler, "hedef@example.com", "10.0.0.1:1111").Code)
	require.Equal(t, http.StatusOK, loginAttempt(t, handler, "hedef@example.com", "10.0.0.2:2222").Code)

	rec := loginAttempt(t, handler, "hedef@example.com", "10.0.0.3:3333")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, string(pkgerrors.CodeRateLimit), payload.Error.Code)
}

func TestAuthRateLimitBlocksRepeatedIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, newFakeRateStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Different emails, same address.
	require.Equal(t, http.StatusOK, loginAttempt(t, handler, "bir@example.com", "5.6.7.8:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, loginAttempt(t, handler, "iki@example.com", "5.6.7.8:1234").Code)
}

func TestAuthRateLimitDisabledWithoutStore(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 1, 1)
	handler := AuthRateLimit(policy, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, loginAttempt(t, handler, "free@example.com", "9.9.9.9:9999").Code)
	}
}
