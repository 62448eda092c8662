package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
	"github.com/rewardlabs-io/reward-ledger/internal/db"
	"github.com/rewardlabs-io/reward-ledger/internal/services"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

// pingOnlyDB embeds the interface so only Ping is callable; everything
// else panics, which is what these routing tests want.
type pingOnlyDB struct {
	db.DbInterface
	pingErr error
}

func (f *pingOnlyDB) Ping(ctx context.Context) error { return f.pingErr }

func newTestServer(pingErr error) *Server {
	cfg := &config.Config{
		Ledger: config.LedgerConfig{OperatorKey: "topsecret"},
		API:    config.APIConfig{Host: "127.0.0.1", Port: 8080},
	}
	dbClient := &pingOnlyDB{pingErr: pingErr}
	svc := services.NewService(cfg, dbClient, nil, nil, nil, services.SystemClock{})
	return New(cfg, svc, dbClient)
}

func TestHealthcheck(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := newTestServer(nil)
		rec := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("db down", func(t *testing.T) {
		s := newTestServer(errors.New("connection refused"))
		rec := httptest.NewRecorder()
		s.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestOperatorKeyMiddleware(t *testing.T) {
	s := newTestServer(nil)

	t.Run("missing key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/pause-operations", strings.NewReader(`{"paused":true}`))
		s.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body errorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, types.Unauthorized.String(), body.ErrorCode)
	})

	t.Run("wrong key", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/v1/admin/pause-operations", strings.NewReader(`{"paused":true}`))
		req.Header.Set(operatorKeyHeader, "nope")
		s.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMalformedBody(t *testing.T) {
	s := newTestServer(nil)

	paths := []string{"/v1/swap", "/v1/stake", "/v1/unstake", "/v1/claim", "/v1/withdraw", "/v1/accounts"}
	for _, path := range paths {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("{not json"))
		s.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, path)

		var body errorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, types.ValidationError.String(), body.ErrorCode, path)
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, types.NewErrorWithMsg(http.StatusConflict, types.AlreadyRegistered, "account taken"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, types.AlreadyRegistered.String(), body.ErrorCode)
	assert.Equal(t, "account taken", body.Message)
}
