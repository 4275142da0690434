package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/vaultkeeper/multivault/pkg/core"
)

// Gateway settles executed transactions through a remote settlement endpoint.
// Transient network errors and 5xx responses are retried; any other non-2xx
// response is permanent.
type Gateway struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
}

type settlementRequest struct {
	To    string `json:"to"`
	Value uint64 `json:"value"`
}

func NewGateway(baseURL string, logger *zap.Logger) *Gateway {
	return &Gateway{
		logger:  logger,
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: baseURL,
	}
}

// Transfer matches core.TransferFunc.
func (g *Gateway) Transfer(ctx context.Context, to core.Address, value uint64) error {
	payload, err := json.Marshal(settlementRequest{To: to.ToRaw(), Value: value})
	if err != nil {
		return errors.Wrap(err, "marshal settlement request")
	}
	return retry.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/settlements", bytes.NewReader(payload))
		if err != nil {
			return retry.Unrecoverable(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := g.client.Do(req)
		if err != nil {
			g.logger.Warn("settlement request failed", zap.Error(err))
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("settlement endpoint returned %d", resp.StatusCode)
		}
		if resp.StatusCode >= http.StatusMultipleChoices {
			return retry.Unrecoverable(fmt.Errorf("settlement rejected with %d", resp.StatusCode))
		}
		return nil
	}, retry.Attempts(10), retry.Delay(10*time.Millisecond))
}
