package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const jsonRPCVersion = "2.0"

var (
	// ErrRelayUnreachable marks a transport-level failure. Retrying with
	// backoff is the caller's call; the client never retries on its own.
	ErrRelayUnreachable = errors.New("relay unreachable")

	// ErrRelayMalformed marks a response that violates the expected
	// schema. Fatal; the raw body is included for diagnosis.
	ErrRelayMalformed = errors.New("malformed relay response")
)

// RPCError is a structured error returned by the solver bus.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("relay error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	ID      string        `json:"id"`
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

// Client speaks the solver-bus JSON-RPC protocol over HTTP.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a solver-bus client. Timeouts are the caller's
// responsibility via the context passed to each call.
func NewClient(url string, logger *zap.Logger) *Client {
	if url == "" {
		url = DefaultURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// FetchOptions asks solvers for quotes. An empty slice is a valid
// "no liquidity" answer, not an error.
func (c *Client) FetchOptions(ctx context.Context, req *QuoteRequest) ([]Option, error) {
	result, err := c.call(ctx, "quote", req)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 || string(result) == "null" {
		return nil, nil
	}
	var options []Option
	if err := json.Unmarshal(result, &options); err != nil {
		return nil, fmt.Errorf("%w: quote result %q: %v", ErrRelayMalformed, result, err)
	}
	c.logger.Debug("Fetched solver options",
		zap.String("asset_in", req.AssetIn),
		zap.String("asset_out", req.AssetOut),
		zap.Int("count", len(options)),
	)
	return options, nil
}

// PublishIntent submits a signed intent for settlement and returns the
// relay's acknowledgement. Once this succeeds the operation is
// submitted and irrevocable from this side.
func (c *Client) PublishIntent(ctx context.Context, pub *PublishIntent) (json.RawMessage, error) {
	if pub.QuoteHashes == nil {
		pub = &PublishIntent{SignedData: pub.SignedData, QuoteHashes: []string{}}
	}
	result, err := c.call(ctx, "publish_intent", pub)
	if err != nil {
		return nil, err
	}
	c.logger.Info("Published intent",
		zap.Int("quote_hashes", len(pub.QuoteHashes)),
	)
	return result, nil
}

func (c *Client) call(ctx context.Context, method string, params ...interface{}) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(rpcRequest{
		ID:      uuid.NewString(),
		JSONRPC: jsonRPCVersion,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build %s request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRelayUnreachable, method, err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRelayUnreachable, method, err)
	}

	var resp rpcResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %s returned status %d: %s", ErrRelayUnreachable, method, httpResp.StatusCode, respBody)
		}
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrRelayMalformed, method, err, respBody)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %w", method, resp.Error)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d: %s", ErrRelayUnreachable, method, httpResp.StatusCode, respBody)
	}
	return resp.Result, nil
}
