// Package evaluator talks to the speech scoring endpoint.
package evaluator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/verte-zerg/tuispeak/internal/logging"
	"github.com/verte-zerg/tuispeak/internal/model"
)

const (
	EvaluatePath = "/api/speech_evaluate"
	RecordsPath  = "/api/records"

	sessionHeader = "X-Session-ID"
)

// Client posts recordings for scoring.
type Client struct {
	http   *resty.Client
	logger logging.Logger
}

// RecordsQuery filters practice history.
type RecordsQuery struct {
	Limit int
	Topic string
	Since *time.Time
}

// New returns a client for the server at baseURL. A zero timeout leaves requests unbounded.
func New(baseURL string, timeout time.Duration, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	h := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	if timeout > 0 {
		h.SetTimeout(timeout)
	}
	return &Client{http: h, logger: logger}
}

// Evaluate sends one scoring request. Any decodable JSON answer is returned as-is, so a
// server-side failure surfaces as Success=false; transport and decode failures are errors.
func (c *Client) Evaluate(ctx context.Context, sessionID string, req model.EvaluateRequest) (model.ScoreResult, error) {
	r := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req)
	if sessionID != "" {
		r.SetHeader(sessionHeader, sessionID)
	}
	resp, err := r.Post(EvaluatePath)
	if err != nil {
		return model.ScoreResult{}, fmt.Errorf("failed to post recording: %w", err)
	}
	c.logger.Debugw("evaluation response", "session", sessionID, "status", resp.StatusCode(), "elapsed", resp.Time())

	var res model.ScoreResult
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return model.ScoreResult{}, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode(), err)
	}
	return res, nil
}

// Records fetches practice history, newest first.
func (c *Client) Records(ctx context.Context, q RecordsQuery) ([]model.PracticeRecord, error) {
	params := map[string]string{}
	if q.Limit > 0 {
		params["limit"] = strconv.Itoa(q.Limit)
	}
	if q.Topic != "" {
		params["topic"] = q.Topic
	}
	if q.Since != nil {
		params["since"] = q.Since.Format(time.RFC3339)
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get(RecordsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	var out model.RecordsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode records (status %d): %w", resp.StatusCode(), err)
	}
	if !out.Success {
		if out.Error == "" {
			out.Error = resp.Status()
		}
		return nil, fmt.Errorf("server refused records request: %s", out.Error)
	}
	return out.Records, nil
}
