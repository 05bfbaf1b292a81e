// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package gateway performs every authenticated call against the BlazeMeter REST
// API and shapes the raw response into an envelope.Result.
//
// The gateway owns the uniform contract all resource managers rely on:
//   - no credential: an error envelope, nothing is sent
//   - 401/403: an "Invalid credentials" envelope, never retried
//   - any other non-2xx or network fault: a TransportFailure error
//   - 2xx: result coerced to a list, formatter applied, total and has_more computed
//
// No request is ever retried here; POST and PATCH calls are not idempotent.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"bzm-mcp/cli/internal/credential"
	"bzm-mcp/cli/internal/envelope"
	"bzm-mcp/cli/internal/errors"
	"bzm-mcp/cli/internal/logging"
	"bzm-mcp/cli/internal/metrics"
)

// Messages placed in the envelope error slot.
const (
	NoCredentialMessage      = "No API token. Set BLAZEMETER_API_KEY env var."
	InvalidCredentialMessage = "Invalid credentials"
)

// DefaultLimit is the page size used when a list call does not specify one.
const DefaultLimit = 50

// Timeouts applied by NewHTTPClient and Do.
const (
	DialTimeout           = 15 * time.Second
	TLSHandshakeTimeout   = 15 * time.Second
	ResponseHeaderTimeout = 60 * time.Second
	DefaultRequestTimeout = 60 * time.Second
)

const errorSnippetLimit = 512

// Formatter turns raw platform records into normalized resource records.
type Formatter func(raw []any) []any

// Window is the requested page of a list call.
type Window struct {
	Limit  int
	Offset int
}

// File is a single multipart file part.
type File struct {
	FieldName   string
	FileName    string
	ContentType string
	Content     io.Reader
}

// Request describes one platform call. Path is relative to the base URL.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil. Ignored when File is set.
	Body any
	File *File
	// Window adds limit, skip and sort to the query and drives has_more.
	Window *Window
}

// Options configures a Gateway.
type Options struct {
	BaseURL    string
	Credential *credential.Credential
	UserAgent  string
	// RequestTimeout bounds calls whose context has no deadline.
	RequestTimeout time.Duration
	HTTPClient     *http.Client
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
}

// Gateway is safe for concurrent use.
type Gateway struct {
	baseURL   string
	cred      *credential.Credential
	userAgent string
	timeout   time.Duration
	client    *http.Client
	log       *zap.Logger
	metrics   *metrics.Metrics
}

// StatusError is the cause attached to a TransportFailure for non-2xx replies.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// UserAgent builds the client identifier sent with every request.
func UserAgent(version string) string {
	if version == "" {
		version = "dev"
	}
	return fmt.Sprintf("bzm-mcp/%s (go)", version)
}

// NewHTTPClient returns a client with bounded connect, TLS and read timeouts.
// Overall request time is bounded through the request context instead of
// http.Client.Timeout so long uploads can run under their own budget.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
		},
	}
}

// New creates a Gateway. A nil Credential is allowed; every call then fails
// fast with NoCredentialMessage.
func New(opts Options) *Gateway {
	g := &Gateway{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		cred:      opts.Credential,
		userAgent: opts.UserAgent,
		timeout:   opts.RequestTimeout,
		client:    opts.HTTPClient,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
	if g.userAgent == "" {
		g.userAgent = UserAgent("")
	}
	if g.timeout <= 0 {
		g.timeout = DefaultRequestTimeout
	}
	if g.client == nil {
		g.client = NewHTTPClient()
	}
	if g.log == nil {
		g.log = zap.NewNop()
	}
	return g
}

// HasCredential reports whether calls will be attempted at all.
func (g *Gateway) HasCredential() bool { return g.cred != nil }

// Do performs req and shapes the response. The returned error is always a
// *errors.E of kind TransportFailure; authentication problems are reported in
// the envelope instead.
func (g *Gateway) Do(ctx context.Context, req Request, format Formatter) (*envelope.Result, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if g.cred == nil {
		g.metrics.Count(method, metrics.OutcomeNoCredential)
		return envelope.Fail(NoCredentialMessage), nil
	}

	var window *Window
	if req.Window != nil {
		w := normalizeWindow(*req.Window)
		window = &w
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	httpReq, err := g.newRequest(ctx, method, req, window)
	if err != nil {
		return nil, errors.Wrap(errors.TransportFailure, fmt.Sprintf("%s %s", method, req.Path), err)
	}

	done := g.metrics.Begin(method)
	start := time.Now()
	resp, err := g.client.Do(httpReq)
	if err != nil {
		done(metrics.OutcomeNetworkError)
		g.log.Debug("platform request failed",
			zap.String("method", method),
			zap.String("path", req.Path),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.Mask(err.Error())))
		return nil, errors.Wrap(errors.TransportFailure, fmt.Sprintf("%s %s", method, req.Path), err)
	}
	defer resp.Body.Close()

	g.log.Debug("platform request",
		zap.String("method", method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		done(metrics.OutcomeInvalidCredential)
		_, _ = io.Copy(io.Discard, resp.Body)
		return envelope.Fail(InvalidCredentialMessage), nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		done(metrics.OutcomeHTTPError)
		b, _ := io.ReadAll(io.LimitReader(resp.Body, errorSnippetLimit))
		cause := &StatusError{StatusCode: resp.StatusCode, Body: logging.Mask(strings.TrimSpace(string(b)))}
		return nil, errors.Wrap(errors.TransportFailure, fmt.Sprintf("%s %s", method, req.Path), cause)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		done(metrics.OutcomeNetworkError)
		return nil, errors.Wrap(errors.TransportFailure, fmt.Sprintf("%s %s: read body", method, req.Path), err)
	}
	res, err := shape(body, window, format)
	if err != nil {
		done(metrics.OutcomeDecodeError)
		return nil, errors.Wrap(errors.TransportFailure, fmt.Sprintf("%s %s: decode body", method, req.Path), err)
	}
	done(metrics.OutcomeOK)
	return res, nil
}

func (g *Gateway) newRequest(ctx context.Context, method string, req Request, window *Window) (*http.Request, error) {
	u, err := url.Parse(g.baseURL + "/" + strings.TrimLeft(req.Path, "/"))
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	for k, vs := range req.Query {
		q[k] = append([]string(nil), vs...)
	}
	if window != nil {
		q.Set("limit", fmt.Sprint(window.Limit))
		q.Set("skip", fmt.Sprint(window.Offset))
		q.Set("sort[]", "-updated")
	}
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.File != nil:
		buf, ct, err := multipartBody(req.File)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, err
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", g.cred.BasicAuth())
	httpReq.Header.Set("User-Agent", g.userAgent)
	httpReq.Header.Set("Accept", "application/json")
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	return httpReq, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func multipartBody(f *File) (*bytes.Buffer, string, error) {
	field := f.FieldName
	if field == "" {
		field = "file"
	}
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(f.FileName)))
	h.Set("Content-Type", ct)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if f.Content != nil {
		if _, err := io.Copy(part, f.Content); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}

func normalizeWindow(w Window) Window {
	if w.Limit <= 0 {
		w.Limit = DefaultLimit
	}
	if w.Offset < 0 {
		w.Offset = 0
	}
	return w
}
