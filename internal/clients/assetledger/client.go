package assetledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/rewardlabs-io/reward-ledger/internal/config"
)

// Client talks to one asset-ledger endpoint over HTTP. Transfers are
// never retried because they are not idempotent; balance reads are
// retried with exponential backoff.
type Client struct {
	httpClient *http.Client
	cfg        *config.AssetLedgerConfig
}

func NewClient(cfg *config.AssetLedgerConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

type transferRequest struct {
	From   string `json:"from,omitempty"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

type balanceResponse struct {
	Address string `json:"address"`
	Balance int64  `json:"balance"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *Client) Transfer(ctx context.Context, to string, amount int64) error {
	req := transferRequest{To: to, Amount: amount}
	return c.post(ctx, "/v1/transfer", req)
}

func (c *Client) TransferFrom(ctx context.Context, from, to string, amount int64) error {
	req := transferRequest{From: from, To: to, Amount: amount}
	return c.post(ctx, "/v1/transfer-from", req)
}

func (c *Client) BalanceOf(ctx context.Context, address string) (int64, error) {
	callForBalance := func() (int64, error) {
		url := fmt.Sprintf("%s/v1/balances/%s", c.cfg.Endpoint, address)
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return 0, err
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			return 0, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return 0, readError(resp)
		}

		var balance balanceResponse
		if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
			return 0, fmt.Errorf("failed to decode balance response: %w", err)
		}
		return balance.Balance, nil
	}

	balance, err := clientCallWithRetry(ctx, callForBalance, c.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance of %q: %w", address, err)
	}
	return balance, nil
}

func (c *Client) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	url := c.cfg.Endpoint + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readError(resp)
	}
	return nil
}

func readError(resp *http.Response) error {
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ledger returned status %d", resp.StatusCode)
	}

	var errResp errorResponse
	if err := json.Unmarshal(raw, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, string(raw))
	}
	return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, errResp.Error)
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	cfg *config.AssetLedgerConfig,
) (T, error) {
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(cfg.MaxRetryTimes),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Ctx(ctx).Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the asset ledger, retrying with exponential backoff")
		}))
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
