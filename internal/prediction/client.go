// Package prediction performs the request/response exchange with the remote
// fake news classification service.
package prediction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/JaimeStill/veritas/internal/history"
	"github.com/JaimeStill/veritas/pkg/formatting"
)

const (
	predictPath        = "/predict"
	defaultMaxResponse = 1 << 20
)

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Label       *history.Label `json:"label"`
	Probability *float64       `json:"probability"`
	InputText   *string        `json:"input_text"`
}

// Client issues single, unretried prediction requests.
type Client struct {
	http        *http.Client
	baseURL     string
	userAgent   string
	maxResponse int64
	logger      *slog.Logger
}

// New creates a Client from cfg. Every exchange is bounded by cfg.Timeout.
func New(cfg *Config, logger *slog.Logger) *Client {
	maxResponse := int64(cfg.MaxResponseSize)
	if maxResponse <= 0 {
		maxResponse = defaultMaxResponse
	}

	return &Client{
		http:        &http.Client{Timeout: cfg.TimeoutDuration()},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		maxResponse: maxResponse,
		logger:      logger.With("system", "prediction"),
	}
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Predict submits text for classification. The result carries the service's
// fields verbatim. Any failure is returned as an *Error matching ErrTransport.
func (c *Client) Predict(ctx context.Context, text string) (history.AnalysisResult, error) {
	start := time.Now()

	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return history.AnalysisResult{}, &Error{Hint: HintMalformed, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(body))
	if err != nil {
		return history.AnalysisResult{}, &Error{Hint: HintUnreachable, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	data, err := c.do(req)
	if err != nil {
		c.logger.Warn("prediction failed", "error", err, "duration", time.Since(start))
		return history.AnalysisResult{}, err
	}

	result, err := c.decode(data)
	if err != nil {
		c.logger.Warn("prediction failed", "error", err, "duration", time.Since(start))
		return history.AnalysisResult{}, err
	}

	c.logger.Info(
		"prediction complete",
		"label", result.Label,
		"probability", result.Probability,
		"duration", time.Since(start),
	)
	return result, nil
}

// Health reports whether the service answers its liveness route.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return &Error{Hint: HintUnreachable, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	_, err = c.do(req)
	return err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{Hint: transportHint(err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxResponse+1))
	if err != nil {
		return nil, &Error{Hint: transportHint(err), StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{Hint: statusHint(resp.StatusCode), StatusCode: resp.StatusCode}
	}

	if int64(len(data)) > c.maxResponse {
		return nil, &Error{
			Hint:       HintMalformed,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response exceeds %s", formatting.FormatBytes(c.maxResponse, 0)),
		}
	}

	return data, nil
}

func (c *Client) decode(data []byte) (history.AnalysisResult, error) {
	var resp predictResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return history.AnalysisResult{}, &Error{Hint: HintMalformed, Err: err}
	}

	switch {
	case resp.Label == nil || resp.Probability == nil || resp.InputText == nil:
		return history.AnalysisResult{}, &Error{
			Hint: HintMalformed,
			Err:  errors.New("response missing label, probability, or input_text"),
		}
	case !resp.Label.Valid():
		return history.AnalysisResult{}, &Error{
			Hint: HintMalformed,
			Err:  fmt.Errorf("unknown label %q", *resp.Label),
		}
	case *resp.Probability < 0 || *resp.Probability > 1:
		return history.AnalysisResult{}, &Error{
			Hint: HintMalformed,
			Err:  fmt.Errorf("probability %v outside [0,1]", *resp.Probability),
		}
	}

	return history.AnalysisResult{
		Label:       *resp.Label,
		Probability: *resp.Probability,
		InputText:   *resp.InputText,
	}, nil
}

func transportHint(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return HintTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return HintTimeout
	}
	return HintUnreachable
}
