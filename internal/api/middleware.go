package api

import (
	"net/http"

	"github.com/rewardlabs-io/reward-ledger/internal/observability/tracing"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

const operatorKeyHeader = "X-Operator-Key"

func (s *Server) traceRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := tracing.InjectTraceID(r.Context())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireOperatorKey guards the administrative collaborator surface.
func (s *Server) requireOperatorKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(operatorKeyHeader) != s.cfg.Ledger.OperatorKey {
			writeError(w, types.NewErrorWithMsg(
				http.StatusUnauthorized,
				types.Unauthorized,
				"invalid operator key",
			))
			return
		}
		next.ServeHTTP(w, r)
	})
}
