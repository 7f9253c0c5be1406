// Package client talks to the DROE backend JSON API.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/droe-core/droe-view/internal/core/model"
	"github.com/droe-core/droe-view/internal/util"
)

const (
	cardsPath          = "/api/cards"
	timelineEventsPath = "/api/timeline/events"
	answerPath         = "/api/interview/answer"

	maxBodyBytes = 10 << 20

	// DefaultUserAgent identifies the client to the backend.
	DefaultUserAgent = "droe-view"
)

// Config configures a Client.
type Config struct {
	BaseURL   string
	Timeout   time.Duration // zero means no timeout
	UserAgent string
	// HTTPClient overrides the transport; its cookie jar is replaced when nil.
	HTTPClient *http.Client
}

// Client is a JSON API client. It keeps a cookie jar so that server-side
// session state (the interview position) follows subsequent requests.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	log        util.LoggerInterface
}

// New creates a client for the backend at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base url is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		userAgent:  userAgent,
		log:        util.Component("client"),
	}, nil
}

// URL resolves an application path against the base URL.
func (c *Client) URL(path string) string {
	return c.baseURL.String() + path
}

// Cards fetches the full card collection.
func (c *Client) Cards(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := c.getJSON(ctx, cardsPath, &cards); err != nil {
		return nil, err
	}
	return cards, nil
}

// TimelineEvents fetches the event summaries.
func (c *Client) TimelineEvents(ctx context.Context) ([]model.TimelineEvent, error) {
	var events []model.TimelineEvent
	if err := c.getJSON(ctx, timelineEventsPath, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EventDetail fetches the detail record for one event.
func (c *Client) EventDetail(ctx context.Context, event model.TimelineEvent) (model.EventDetail, error) {
	var detail model.EventDetail
	if err := c.getJSON(ctx, event.DetailPath(), &detail); err != nil {
		return model.EventDetail{}, err
	}
	return detail, nil
}

// SubmitAnswer posts an interview answer. A non-ok response is returned as
// *RejectedError carrying the server's message.
func (c *Client) SubmitAnswer(ctx context.Context, answer string) (model.AnswerResponse, error) {
	body, err := sonic.Marshal(model.AnswerRequest{Answer: answer})
	if err != nil {
		return model.AnswerResponse{}, fmt.Errorf("encode answer: %w", err)
	}

	status, data, err := c.do(ctx, http.MethodPost, answerPath, body)
	if err != nil {
		return model.AnswerResponse{}, err
	}

	var resp model.AnswerResponse
	if err := sonic.Unmarshal(data, &resp); err != nil {
		return model.AnswerResponse{}, fmt.Errorf("%w: POST %s: %v", ErrDecode, answerPath, err)
	}

	if !isOK(status) {
		return model.AnswerResponse{}, &RejectedError{Status: status, Message: resp.Error}
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	status, data, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	if !isOK(status) {
		return &StatusError{Method: http.MethodGet, Path: path, Status: status}
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrDecode, path, err)
	}
	return nil
}

// do performs one request and returns the status and the raw body.
func (c *Client) do(ctx context.Context, method, path string, body []byte) (int, []byte, error) {
	requestID := uuid.NewString()
	ctx = util.ContextWithRequestID(ctx, requestID)
	log := c.log.WithContext(ctx)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), reader)
	if err != nil {
		return 0, nil, fmt.Errorf("build request %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read %s %s: %w", method, path, err)
	}

	log.Debug("request finished",
		util.F("method", method),
		util.F("path", path),
		util.F("status", resp.StatusCode),
		util.F("duration", time.Since(start).String()),
	)
	return resp.StatusCode, data, nil
}

func isOK(status int) bool {
	return status >= 200 && status < 300
}
