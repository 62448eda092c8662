package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rewardlabs-io/reward-ledger/internal/db/model"
	"github.com/rewardlabs-io/reward-ledger/internal/observability/metrics"
	"github.com/rewardlabs-io/reward-ledger/internal/types"
)

type errorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	//nolint:errcheck
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err *types.Error) {
	writeJSON(w, err.StatusCode, errorResponse{
		ErrorCode: err.ErrorCode.String(),
		Message:   err.Error(),
	})
}

func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, types.NewValidationFailedError(err))
		return body, false
	}
	return body, true
}

func (s *Server) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		writeError(w, types.NewInternalServiceError(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("register")

	body, ok := decodeBody[struct {
		Address  string `json:"address"`
		Referrer string `json:"referrer"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}

	if err := s.svc.RegisterAccount(r.Context(), body.Address, body.Referrer); err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusCreated)
	writeJSON(w, http.StatusCreated, map[string]string{"address": body.Address})
}

func (s *Server) handleGetAccount(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	account, err := s.svc.GetAccount(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, account)
}

func (s *Server) handleGetReferralReward(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	reward, err := s.svc.GetReferralReward(r.Context(), address)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"address":      address,
		"total_reward": reward,
	})
}

func (s *Server) handleSwap(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("swap")

	body, ok := decodeBody[struct {
		Caller       string `json:"caller"`
		StableAmount int64  `json:"stable_amount"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}

	tokenAmount, err := s.svc.Swap(r.Context(), body.Caller, body.StableAmount)
	if err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]int64{"token_amount": tokenAmount})
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("stake")

	body, ok := decodeBody[struct {
		Caller string `json:"caller"`
		Amount int64  `json:"amount"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}

	if err := s.svc.Stake(r.Context(), body.Caller, body.Amount); err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"status": "staked"})
}

func (s *Server) handleUnstake(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("unstake")

	body, ok := decodeBody[struct {
		Caller string `json:"caller"`
		Amount int64  `json:"amount"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}

	if err := s.svc.Unstake(r.Context(), body.Caller, body.Amount); err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"status": "unstaked"})
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("claim")

	body, ok := decodeBody[struct {
		Caller  string `json:"caller"`
		Address string `json:"address"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}
	// The relayer pattern: anyone may settle on behalf of an account.
	if body.Address == "" {
		body.Address = body.Caller
	}

	accrued, err := s.svc.Claim(r.Context(), body.Caller, body.Address)
	if err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]int64{"accrued": accrued})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("withdraw")

	body, ok := decodeBody[struct {
		Caller string `json:"caller"`
		Amount int64  `json:"amount"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}

	if err := s.svc.WithdrawStable(r.Context(), body.Caller, body.Amount); err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]string{"status": "withdrawn"})
}

func (s *Server) handleUpdateParams(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody[struct {
		DailyInterestRate int64   `json:"daily_interest_rate"`
		SignupBonus       int64   `json:"signup_bonus"`
		TokenToStableRate int64   `json:"token_to_stable_rate"`
		ReferralPermille  []int64 `json:"referral_permille"`
	}](w, r)
	if !ok {
		return
	}

	params := &model.LedgerParamsDocument{
		DailyInterestRate: body.DailyInterestRate,
		SignupBonus:       body.SignupBonus,
		TokenToStableRate: body.TokenToStableRate,
		ReferralPermille:  body.ReferralPermille,
	}
	if err := s.svc.UpdateLedgerParams(r.Context(), params); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handlePauseOperations(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody[struct {
		Paused bool `json:"paused"`
	}](w, r)
	if !ok {
		return
	}

	if err := s.svc.PauseOperations(r.Context(), body.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": body.Paused})
}

func (s *Server) handlePauseWithdrawals(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody[struct {
		Paused bool `json:"paused"`
	}](w, r)
	if !ok {
		return
	}

	if err := s.svc.PauseWithdrawals(r.Context(), body.Paused); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paused": body.Paused})
}

func (s *Server) handleSetBalance(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	body, ok := decodeBody[struct {
		Amount   int64  `json:"amount"`
		Referrer string `json:"referrer"`
	}](w, r)
	if !ok {
		return
	}

	if err := s.svc.SetAccountBalance(r.Context(), address, body.Amount, body.Referrer); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"address": address})
}

func (s *Server) handleFlagProgramIdentity(w http.ResponseWriter, r *http.Request) {
	address := chi.URLParam(r, "address")
	body, ok := decodeBody[struct {
		Flagged bool `json:"flagged"`
	}](w, r)
	if !ok {
		return
	}

	if err := s.svc.FlagProgramIdentity(r.Context(), address, body.Flagged); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"flagged": body.Flagged})
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	observe := metrics.StartOperationDurationTimer("sweep")

	body, ok := decodeBody[struct {
		Count int64 `json:"count"`
	}](w, r)
	if !ok {
		observe(http.StatusBadRequest)
		return
	}

	processed, err := s.svc.DistributeDailyRewards(r.Context(), body.Count)
	if err != nil {
		observe(err.StatusCode)
		writeError(w, err)
		return
	}
	observe(http.StatusOK)
	writeJSON(w, http.StatusOK, map[string]float64{"processed_pct": processed})
}
