package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

const RequestIDHeader = "X-Request-Id"

type Request struct {
	Method   string
	URL      string
	Username string
	Password string
	Body     *payload.Payload
}

// Executor sends one authenticated JSON request per call. It never retries.
type Executor struct {
	client    cardpointe.HTTPDoer
	logger    *slog.Logger
	userAgent string
}

func NewExecutor(client cardpointe.HTTPDoer, logger *slog.Logger, userAgent string) *Executor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{
		client:    client,
		logger:    logger,
		userAgent: userAgent,
	}
}

// HasBody reports whether requests with this method carry a JSON body.
func HasBody(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func (e *Executor) Execute(ctx context.Context, req Request) (*cardpointe.Response, error) {
	var bodyReader io.Reader
	if req.Body != nil && HasBody(req.Method) {
		jsonData, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	requestID := uuid.New().String()
	httpReq.SetBasicAuth(req.Username, req.Password)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)
	if e.userAgent != "" {
		httpReq.Header.Set("User-Agent", e.userAgent)
	}

	logger := e.logger.With(
		"request_id", requestID,
		"method", req.Method,
		"url", redact(req.URL),
	)

	start := time.Now()
	resp, err := e.client.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", "error", err, "duration", time.Since(start))
		return nil, &cardpointe.TransportError{Op: req.Method, URL: redact(req.URL), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.Warn("reading response failed", "error", err, "status", resp.StatusCode)
		return nil, &cardpointe.TransportError{Op: "read " + req.Method, URL: redact(req.URL), Err: err}
	}

	logger.Debug("request completed", "status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newAPIError(resp.StatusCode, raw)
		logger.Warn("api returned error status", "status", resp.StatusCode, "error", apiErr)
		return nil, apiErr
	}

	result, err := decode(raw)
	if err != nil {
		return nil, err
	}
	result.StatusCode = resp.StatusCode
	return result, nil
}

func newAPIError(status int, raw []byte) *cardpointe.APIError {
	apiErr := &cardpointe.APIError{
		StatusCode: status,
		Raw:        string(raw),
	}

	switch {
	case status >= 400 && status < 500:
		apiErr.Message = fmt.Sprintf("%d Client Error", status)
	case status >= 500 && status < 600:
		apiErr.Message = fmt.Sprintf("%d Server Error", status)
	default:
		apiErr.Message = fmt.Sprintf("%d Unexpected Status", status)
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Body = body
	}
	return apiErr
}

func decode(raw []byte) (*cardpointe.Response, error) {
	result := &cardpointe.Response{Raw: raw}
	if len(bytes.TrimSpace(raw)) == 0 {
		result.Body = map[string]any{}
		return result, nil
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w: %v", cardpointe.ErrInvalidResponse, err)
	}

	switch v := decoded.(type) {
	case map[string]any:
		result.Body = v
	case []any:
		items := make([]map[string]any, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("error decoding json response: %w: array item is %T", cardpointe.ErrInvalidResponse, item)
			}
			items = append(items, obj)
		}
		result.Items = items
		if len(items) == 1 {
			result.Body = items[0]
		}
	default:
		return nil, fmt.Errorf("error decoding json response: %w: top level value is %T", cardpointe.ErrInvalidResponse, decoded)
	}
	return result, nil
}

// redact drops any userinfo so credentials never reach the logs.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.User = nil
	return u.String()
}
