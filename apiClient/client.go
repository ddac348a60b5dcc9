package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/icholy/digest"
)

const (
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"
)

type Config struct {
	// Address is the base URL of the chronicle service. A bare host[:port]
	// is treated as plain http.
	Address  string
	Username string
	ApiKey   string

	// Timeout bounds a whole round trip at the transport level. Zero means none.
	Timeout time.Duration
	// Transport replaces http.DefaultTransport underneath digest auth.
	Transport http.RoundTripper
}

// Client issues typed requests against the chronicle REST API. It holds no
// state between calls: every read is a fresh snapshot of the server.
type Client struct {
	log    *slog.Logger
	config *Config

	baseURL    *url.URL
	httpClient *http.Client
}

func NewClient(log *slog.Logger, config *Config) (*Client, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Address == "" {
		return nil, errors.New("config address is empty")
	}
	if log == nil {
		log = slog.Default()
	}

	address := config.Address
	if !strings.Contains(address, "://") {
		address = "http://" + address
	}
	baseURL, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("fail to parse address %q: %w", config.Address, err)
	}

	cli := &http.Client{
		Timeout:   config.Timeout,
		Transport: config.Transport,
	}
	if config.Username != "" {
		cli.Transport = &digest.Transport{
			Username:  config.Username,
			Password:  config.ApiKey,
			Transport: config.Transport,
		}
	}

	return &Client{
		log:        log.With("svc", "apiClient"),
		config:     config,
		baseURL:    baseURL,
		httpClient: cli,
	}, nil
}

// BaseURL returns a copy of the resolved service address.
func (c *Client) BaseURL() *url.URL {
	u := *c.baseURL
	return &u
}

type RequestOption func(*request)

type request struct {
	method  string
	header  http.Header
	body    io.Reader
	query   url.Values
	editors []func(*http.Request)
	err     error
}

func WithMethod(method string) RequestOption {
	return func(r *request) {
		r.method = method
	}
}

// WithJSON marshals v as the request body.
func WithJSON(v any) RequestOption {
	return func(r *request) {
		data, err := json.Marshal(v)
		if err != nil {
			r.err = fmt.Errorf("fail to encode request body: %w", err)
			return
		}
		r.body = bytes.NewReader(data)
	}
}

func WithBody(body io.Reader) RequestOption {
	return func(r *request) {
		r.body = body
	}
}

// WithHeader sets a header on the request, replacing the default one of the
// same name.
func WithHeader(key, value string) RequestOption {
	return func(r *request) {
		r.header.Set(key, value)
	}
}

func WithQuery(query url.Values) RequestOption {
	return func(r *request) {
		for k, vs := range query {
			for _, v := range vs {
				r.query.Add(k, v)
			}
		}
	}
}

// WithRequestEditor hands the built request to fn right before it is sent.
func WithRequestEditor(fn func(*http.Request)) RequestOption {
	return func(r *request) {
		r.editors = append(r.editors, fn)
	}
}

// Dispatch sends exactly one request to path and maps the decoded outcome
// onto T. Error outcomes return *APIError, empty outcomes return the zero T.
// A Blob target receives the raw payload, NoContent discards it, anything
// else is decoded from JSON without further validation.
func Dispatch[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (T, error) {
	var out T

	res, err := c.do(ctx, path, opts...)
	if err != nil {
		return out, err
	}

	switch res.Kind {
	case KindError:
		return out, res.Err
	case KindEmpty:
		return out, nil
	}

	switch target := any(&out).(type) {
	case *NoContent:
		return out, nil
	case *Blob:
		*target = newBlob(res)
		return out, nil
	}

	if res.Kind == KindBinary {
		return out, fmt.Errorf("%w: %s", ErrUnexpectedBinary, res.ContentType)
	}

	if err := json.Unmarshal(res.Body, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("fail to decode %s response: %w", path, err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, path string, opts ...RequestOption) (*Result, error) {
	r := &request{
		method: http.MethodGet,
		header: http.Header{},
		query:  url.Values{},
	}
	r.header.Set(headerContentType, contentTypeJSON)
	for _, opt := range opts {
		opt(r)
	}
	if r.err != nil {
		return nil, r.err
	}

	u := c.baseURL.JoinPath(path)
	if len(r.query) > 0 {
		u.RawQuery = r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u.String(), r.body)
	if err != nil {
		return nil, fmt.Errorf("fail to create request: %w", err)
	}
	req.Header = r.header
	for _, edit := range r.editors {
		edit(req)
	}

	c.log.DebugContext(ctx, "Request", "method", r.method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fail to make request: %w", err)
	}
	defer resp.Body.Close()

	res, err := Decode(resp)
	if err != nil {
		return nil, err
	}

	c.log.DebugContext(ctx, "Resp", "method", r.method, "path", path,
		"code", resp.StatusCode, "content_type", res.ContentType, "kind", res.Kind.String())

	return res, nil
}
