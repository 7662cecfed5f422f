package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/brightpath/ldscreen/internal/history"
)

// Endpoint paths of the scoring service.
const (
	PathStartSession = "/start-session/"
	PathNextQuestion = "/get-next-question/"
	PathSubmitAnswer = "/submit-answer/"
	PathEndSession   = "/end-session/"
	PathDashboard    = "/get-dashboard-data/"
	PathHistory      = "/get-user-history/"
)

// Client talks to the scoring service with JSON over HTTP POST.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the service rooted at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP returns a client using hc for transport.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

func (c *Client) StartSession(ctx context.Context, ageGroup string) (Session, error) {
	var s Session
	err := c.post(ctx, PathStartSession, map[string]string{"age_group": ageGroup}, &s)
	s.AgeGroup = ageGroup
	return s, err
}

func (c *Client) NextQuestion(ctx context.Context, req NextQuestionRequest) (Question, error) {
	var q Question
	err := c.post(ctx, PathNextQuestion, req, &q)
	return q, err
}

func (c *Client) SubmitAnswer(ctx context.Context, a Answer) (Receipt, error) {
	var r Receipt
	err := c.post(ctx, PathSubmitAnswer, a, &r)
	return r, err
}

func (c *Client) EndSession(ctx context.Context, s Session) (AssessmentResult, error) {
	var r AssessmentResult
	err := c.post(ctx, PathEndSession, s, &r)
	return r, err
}

func (c *Client) Dashboard(ctx context.Context, s Session) (Dashboard, error) {
	var d Dashboard
	err := c.post(ctx, PathDashboard, s, &d)
	return d, err
}

func (c *Client) History(ctx context.Context, userID int64) ([]history.Entry, error) {
	var entries []history.Entry
	err := c.post(ctx, PathHistory, map[string]int64{"user_id": userID}, &entries)
	return entries, err
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return &TransportError{Endpoint: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Endpoint: path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil && eb.Error != "" {
			return &APIError{StatusCode: resp.StatusCode, Message: eb.Error}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &TransportError{Endpoint: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
