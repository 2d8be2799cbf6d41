// Package api is the HTTP gateway to the pre-registration backend.
//
// The Client keeps a cookie jar so the session and XSRF cookies survive
// across calls, mirrors the XSRF cookie into a request header, and retries
// requests rejected for a stale XSRF token from a budget shared by all
// requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ccj16/regdesk/internal/log"
	"github.com/ccj16/regdesk/internal/tracing"
)

const (
	DefaultTimeout   = 15 * time.Second
	RequestIDHeader  = "X-Request-ID"
	contentTypeJSON  = "application/json"
	contentTypeText  = "text/plain; charset=utf-8"
	tracerName       = "github.com/ccj16/regdesk/internal/api"
	maxResponseBytes = 4 << 20
)

var errInvalidXSRF = errors.New("invalid xsrf token")

// Config controls how the Client talks to the backend.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	XSRFRetryBudget int
	UserAgent       string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. A cookie jar is
// attached if the client has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTracer replaces the tracer used for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// WithRequestIDs overrides request id generation.
func WithRequestIDs(next func() string) Option {
	return func(c *Client) { c.requestID = next }
}

// Client issues requests against the backend.
type Client struct {
	base      *url.URL
	http      *http.Client
	budget    *retryBudget
	tracer    trace.Tracer
	userAgent string
	requestID func() string
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("api: base url is required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: parsing base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("api: unsupported scheme %q", base.Scheme)
	}
	if base.Path == "" {
		base.Path = "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		base:      base,
		budget:    newRetryBudget(cfg.XSRFRetryBudget),
		tracer:    otel.Tracer(tracerName),
		userAgent: cfg.UserAgent,
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{Timeout: timeout}
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("api: creating cookie jar: %w", err)
		}
		// The jar holds this client's session; never attach it to a shared client.
		hc := *c.http
		hc.Jar = jar
		c.http = &hc
	}

	return c, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// RetriesLeft reports the remaining shared XSRF retry budget.
func (c *Client) RetriesLeft() int {
	return c.budget.left()
}

// Request describes one backend call. Body is resent verbatim on retry.
type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Body        []byte
	ContentType string
}

// Response is a fully read backend response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Text returns the body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

// StatusError converts the response into a *StatusError for req.
func (r *Response) StatusError(req Request) *StatusError {
	return &StatusError{
		Method:     req.Method,
		Path:       req.Path,
		StatusCode: r.StatusCode,
		Body:       string(r.Body),
	}
}

// Do sends req. Any HTTP response is returned without error, whatever its
// status; only transport failures yield an error (*TransportError).
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	var resp *Response

	attempt := 0
	err := retry.Do(
		func() error {
			attempt++
			r, err := c.send(ctx, req, attempt)
			if err != nil {
				return err
			}
			resp = r
			if isInvalidXSRF(r.StatusCode, r.Body) {
				return errInvalidXSRF
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(2),
		retry.Delay(0),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Only the first rejection may be retried.
			return attempt == 1 && errors.Is(err, errInvalidXSRF) && c.budget.take()
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Warn(log.CatAPI, "retrying after xsrf rejection",
				"method", req.Method, "path", req.Path, "budget_left", c.budget.left())
			trace.SpanFromContext(ctx).AddEvent(tracing.EventXSRFRetry,
				trace.WithAttributes(attribute.String(tracing.AttrURLPath, req.Path)))
		}),
	)

	switch {
	case err == nil, errors.Is(err, errInvalidXSRF):
		// A rejection with no budget left is handed back as a normal 400.
		return resp, nil
	default:
		var te *TransportError
		if errors.As(err, &te) {
			return nil, te
		}
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
}

func (c *Client) send(ctx context.Context, req Request, attempt int) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "api."+req.Method+" "+req.Path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	requestID := c.requestID()
	span.SetAttributes(
		attribute.String(tracing.AttrHTTPMethod, req.Method),
		attribute.String(tracing.AttrURLPath, req.Path),
		attribute.String(tracing.AttrRequestID, requestID),
		attribute.Int(tracing.AttrAttempt, attempt),
	)

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		log.ErrorErr(log.CatAPI, "request failed", err,
			"method", req.Method, "path", req.Path, "request_id", requestID)
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading body")
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("reading body: %w", err)}
	}

	span.SetAttributes(
		attribute.Int(tracing.AttrHTTPStatusCode, httpResp.StatusCode),
		attribute.Int(tracing.AttrXSRFRetriesLeft, c.budget.left()),
	)
	if httpResp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(httpResp.StatusCode))
	}

	if httpResp.StatusCode == http.StatusOK && isAPIPath(req.Path) {
		c.budget.refill()
	}

	log.Debug(log.CatAPI, "request completed",
		"method", req.Method, "path", req.Path, "status", httpResp.StatusCode,
		"request_id", requestID, "attempt", attempt, "elapsed", time.Since(start).Round(time.Millisecond))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

// requestURL joins path onto the base. The result always has an absolute
// path so cookie jar lookups match the cookies the backend set.
func (c *Client) requestURL(path string) *url.URL {
	u := c.base.JoinPath(path)
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
		u.RawPath = ""
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	reqURL := c.requestURL(req.Path)
	if len(req.Query) > 0 {
		reqURL.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL.String(), body)
	if err != nil {
		return nil, err
	}

	if req.Body != nil {
		contentType := req.ContentType
		if contentType == "" {
			contentType = contentTypeJSON
		}
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	if token := c.xsrfToken(reqURL); token != "" {
		httpReq.Header.Set(XSRFHeaderName, token)
	}

	return httpReq, nil
}

// xsrfToken reads the current XSRF cookie for u from the jar.
func (c *Client) xsrfToken(u *url.URL) string {
	if c.http.Jar == nil {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(u) {
		if cookie.Name == XSRFCookieName {
			return cookie.Value
		}
	}
	return ""
}

// GetJSON fetches path and decodes a 200 response into T.
func GetJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T

	req := Request{Method: http.MethodGet, Path: path, Query: query}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if resp.StatusCode != http.StatusOK {
		return out, resp.StatusError(req)
	}

	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("decoding %s: %w", path, err)
	}
	return out, nil
}

// PostJSON encodes in as the body of a POST to path.
func (c *Client) PostJSON(ctx context.Context, path string, in any) (*Response, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", path, err)
	}
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, ContentType: contentTypeJSON})
}

// SendText issues method against path with a raw text body.
func (c *Client) SendText(ctx context.Context, method, path string, query url.Values, text string) (*Response, error) {
	return c.Do(ctx, Request{
		Method:      method,
		Path:        path,
		Query:       query,
		Body:        []byte(text),
		ContentType: contentTypeText,
	})
}
