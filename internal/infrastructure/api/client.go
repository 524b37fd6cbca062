package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/prepdeck/prepdeck/internal/domain/entity"
	"github.com/prepdeck/prepdeck/internal/domain/repository"
)

// Error is a failed Interview Service call. Detail carries the service's
// human-readable message verbatim when the payload included one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("interview service returned status %d", e.StatusCode)
}

// Client talks JSON over HTTP to the Interview Service. It implements
// repository.InterviewGateway.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

var _ repository.InterviewGateway = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type authResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        entity.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, reg entity.Registration) (entity.AuthGrant, error) {
	var out authResponse
	if err := c.postJSON(ctx, "/api/register", "", reg, &out); err != nil {
		return entity.AuthGrant{}, err
	}
	return entity.AuthGrant{Token: out.AccessToken, User: out.User}, nil
}

func (c *Client) Login(ctx context.Context, creds entity.Credentials) (entity.AuthGrant, error) {
	var out authResponse
	if err := c.postJSON(ctx, "/api/login", "", creds, &out); err != nil {
		return entity.AuthGrant{}, err
	}
	return entity.AuthGrant{Token: out.AccessToken, User: out.User}, nil
}

// ValidateToken probes the history endpoint; any 2xx means the token is
// still accepted.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	return c.getJSON(ctx, "/api/interview-history", token, nil)
}

func (c *Client) UploadResume(ctx context.Context, token, filename string, content io.Reader) (entity.ResumeReceipt, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return entity.ResumeReceipt{}, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return entity.ResumeReceipt{}, fmt.Errorf("read resume file: %w", err)
	}
	if err := w.Close(); err != nil {
		return entity.ResumeReceipt{}, fmt.Errorf("finish multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-resume", &buf)
	if err != nil {
		return entity.ResumeReceipt{}, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	var out entity.ResumeReceipt
	if err := c.do(req, &out); err != nil {
		return entity.ResumeReceipt{}, err
	}
	return out, nil
}

func (c *Client) StartInterview(ctx context.Context, token string, setup entity.InterviewSetup) (*entity.Interview, error) {
	var out struct {
		InterviewID    string            `json:"interview_id"`
		Questions      []entity.Question `json:"questions"`
		TotalQuestions int               `json:"total_questions"`
	}
	if err := c.postJSON(ctx, "/api/start-interview", token, setup, &out); err != nil {
		return nil, err
	}
	return &entity.Interview{ID: out.InterviewID, Questions: out.Questions}, nil
}

func (c *Client) SubmitResponse(ctx context.Context, token, questionID, answer string) (entity.SubmissionResult, error) {
	body := map[string]string{
		"question_id": questionID,
		"answer":      answer,
	}
	var out entity.SubmissionResult
	if err := c.postJSON(ctx, "/api/submit-response", token, body, &out); err != nil {
		return entity.SubmissionResult{}, err
	}
	return out, nil
}

func (c *Client) History(ctx context.Context, token string) ([]entity.InterviewRecord, error) {
	var out struct {
		Interviews []entity.InterviewRecord `json:"interviews"`
	}
	if err := c.getJSON(ctx, "/api/interview-history", token, &out); err != nil {
		return nil, err
	}
	return out.Interviews, nil
}

func (c *Client) postJSON(ctx context.Context, path, token string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

// do sends the request, maps non-2xx responses to *Error (surfacing the
// service's "detail" field when present) and decodes success bodies into
// out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": req.Method,
			"url":    req.URL.String(),
		}).Error("interview service request failed")
		return err
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method":  req.Method,
		"url":     req.URL.String(),
		"status":  resp.StatusCode,
		"elapsed": time.Since(start).String(),
	}).Debug("interview service request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)); err == nil {
			if json.Unmarshal(body, &payload) == nil {
				apiErr.Detail = payload.Detail
			}
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
