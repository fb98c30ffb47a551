package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/logging"
	"github.com/GriffinCanCode/StudyPartner/client/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/id"
	"github.com/GriffinCanCode/StudyPartner/client/internal/shared/types"
)

// chatRequest is the POST /chat body
type chatRequest struct {
	Message     string          `json:"message"`
	FileContent *string         `json:"file_content"`
	History     []types.Message `json:"history"`
}

// chatResponse is the POST /chat success body
type chatResponse struct {
	Response string `json:"response"`
}

// uploadResponse is the POST /upload success body
type uploadResponse struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
	Status   string `json:"status"`
}

// Client talks to the agent backend with rate limiting and upload retry
type Client struct {
	resty   *resty.Client
	upload  *retryablehttp.Client
	baseURL string
	limiter *rate.Limiter
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewClient creates a backend client for the given base URL
func NewClient(baseURL string, timeout time.Duration, log *logging.Logger) *Client {
	// Retryable client drives uploads: re-uploading just replaces the
	// backend's single context slot, so retries are safe there.
	uploadClient := retryablehttp.NewClient()
	uploadClient.RetryMax = 2
	uploadClient.RetryWaitMin = 500 * time.Millisecond
	uploadClient.RetryWaitMax = 5 * time.Second
	uploadClient.HTTPClient.Timeout = timeout
	uploadClient.Logger = nil // Disable logging

	restyClient := resty.New()
	restyClient.
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "StudyPartner-Client/1.0").
		SetTransport(uploadClient.HTTPClient.Transport)

	return &Client{
		resty:   restyClient,
		upload:  uploadClient,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Inf, 0), // Unlimited by default
		log:     log.WithComponent("backend"),
	}
}

// WithMetrics adds metrics tracking to the client
func (c *Client) WithMetrics(metrics *monitoring.Metrics) *Client {
	c.metrics = metrics
	return c
}

// SetRateLimit configures request pacing (requests per second)
func (c *Client) SetRateLimit(rps float64) {
	if rps <= 0 {
		c.limiter = rate.NewLimiter(rate.Inf, 0)
	} else {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// Chat sends one message with the prior transcript and optional parsed
// file content, returning the assistant's reply. Not retried: a chat
// request is not idempotent.
func (c *Client) Chat(ctx context.Context, message string, fileContent *string, history []types.Message) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("chat request throttled: %w", err)
	}

	reqID := id.NewRequestID()
	start := time.Now()

	var result chatResponse
	resp, err := c.resty.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(chatRequest{Message: message, FileContent: fileContent, History: history}).
		SetResult(&result).
		Post("/chat")
	if err != nil {
		c.metrics.RecordChat("network_error", time.Since(start))
		c.log.Warn("Chat request failed",
			zap.String("request_id", reqID.String()),
			zap.Error(err))
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	if resp.IsError() {
		c.metrics.RecordChat("http_error", time.Since(start))
		c.log.Warn("Chat request rejected",
			zap.String("request_id", reqID.String()),
			zap.Int("status", resp.StatusCode()))
		return "", fmt.Errorf("chat request failed: status %d", resp.StatusCode())
	}

	c.metrics.RecordChat("success", time.Since(start))
	c.log.Debug("Chat response received",
		zap.String("request_id", reqID.String()),
		zap.Duration("elapsed", time.Since(start)))
	return result.Response, nil
}

// UploadDocument sends a file for parsing and returns the extracted
// content the backend will use as working context.
func (c *Client) UploadDocument(ctx context.Context, name string, data []byte) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("upload throttled: %w", err)
	}

	reqID := id.NewRequestID()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	header.Set("Content-Type", mimetype.Detect(data).String())
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload body: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, "POST", c.baseURL+"/upload", body.Bytes())
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.upload.Do(req)
	if err != nil {
		c.metrics.RecordUpload("network_error")
		c.log.Warn("Upload failed",
			zap.String("request_id", reqID.String()),
			zap.String("filename", name),
			zap.Error(err))
		return "", fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordUpload("http_error")
		c.log.Warn("Upload rejected",
			zap.String("request_id", reqID.String()),
			zap.String("filename", name),
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("upload failed: status %d", resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.metrics.RecordUpload("bad_response")
		return "", fmt.Errorf("upload response malformed: %w", err)
	}

	c.metrics.RecordUpload("success")
	c.log.Info("Document uploaded",
		zap.String("request_id", reqID.String()),
		zap.String("filename", name),
		zap.Int("content_bytes", len(result.Content)))
	return result.Content, nil
}

// ClearContext asks the backend to drop its attached-file slot.
// Best-effort: never retried, the caller logs and moves on.
func (c *Client) ClearContext(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("clear signal throttled: %w", err)
	}

	resp, err := c.resty.R().
		SetContext(ctx).
		Delete("/delete-file")
	if err != nil {
		c.metrics.RecordClear(true)
		return fmt.Errorf("clear signal failed: %w", err)
	}
	if resp.IsError() {
		c.metrics.RecordClear(true)
		return fmt.Errorf("clear signal failed: status %d", resp.StatusCode())
	}

	c.metrics.RecordClear(false)
	return nil
}
