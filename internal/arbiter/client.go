package arbiter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
	"time"
)

const maxBodySize = 64 << 10

var (
	// ErrTimeout and ErrOffline are transient and may be retried.
	ErrTimeout = errors.New("arbitration request timed out")
	ErrOffline = errors.New("arbitration service unreachable")

	ErrMalformedResponse = errors.New("malformed arbitration response")
)

// StatusError is a non-success HTTP answer. Never retried.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return e.Message
}

// IsTransient reports whether err is worth another attempt.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrOffline)
}

// PlayRequest is the body of POST /jogar.
type PlayRequest struct {
	PlayerMove         int  `json:"player_move"`
	PreviousPlayerMove *int `json:"previous_player_move"`
}

// PlayResponse carries the raw tokens; callers classify them.
type PlayResponse struct {
	OpponentMove string `json:"opponent_move"`
	Verdict      string `json:"verdict"`
}

type PingResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message,omitempty"`
}

type AssetsResponse struct {
	Status  string   `json:"status"`
	Missing []string `json:"missing,omitempty"`
}

type errorBody struct {
	Error string `json:"error"`
}

// Client talks to the arbitration service.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			// per-attempt deadlines come from the caller's context
			Timeout: 30 * time.Second,
		},
	}
}

// WithToken returns a copy that authenticates as the given player.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.Token = token
	return &cp
}

// Play asks the service for the opponent move and the round verdict.
func (c *Client) Play(ctx context.Context, req PlayRequest) (*PlayResponse, error) {
	var out PlayResponse
	if err := c.do(ctx, http.MethodPost, "/jogar", req, &out); err != nil {
		return nil, err
	}
	if out.OpponentMove == "" || out.Verdict == "" {
		return nil, fmt.Errorf("%w: missing opponent_move or verdict", ErrMalformedResponse)
	}
	return &out, nil
}

// Ping is the liveness probe.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	var out PingResponse
	if err := c.do(ctx, http.MethodGet, "/ping", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckAssets asks whether the sound assets are present.
func (c *Client) CheckAssets(ctx context.Context) (*AssetsResponse, error) {
	var out AssetsResponse
	if err := c.do(ctx, http.MethodGet, "/check_files", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return classifyTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return classifyTransportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("arbitration failed (HTTP %d)", resp.StatusCode)
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			msg = eb.Error
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) ||
		errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %v", ErrOffline, err)
	}

	return fmt.Errorf("arbitration request failed: %w", err)
}
