// Package cnd is a client for the REST interface of a comit network daemon.
package cnd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// FieldResolver supplies the value of an action field. It reports false for
// fields it does not know how to fill, those are left out of the request.
type FieldResolver func(ctx context.Context, field Field) (string, bool, error)

// Response is the raw outcome of a submitted action.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the response body.
func (resp *Response) Decode(v interface{}) error {
	if len(resp.Body) == 0 {
		return fmt.Errorf("empty response body")
	}
	return json.Unmarshal(resp.Body, v)
}

type Client struct {
	url    *url.URL
	client *http.Client
	logger *zap.Logger
}

func NewClient(cndURL string, logger *zap.Logger) (*Client, error) {
	parsed, err := url.Parse(cndURL)
	if err != nil {
		return nil, fmt.Errorf("invalid cnd url %v: %w", cndURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid cnd url %v", cndURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:    parsed,
		client: &http.Client{Timeout: DefaultTimeout},
		logger: logger.With(zap.String("service", "cnd")),
	}, nil
}

func (c *Client) Info(ctx context.Context) (Info, error) {
	var info Info
	err := c.Fetch(ctx, "/", &info)
	return info, err
}

func (c *Client) PeerID(ctx context.Context) (string, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (c *Client) PeerListenAddresses(ctx context.Context) ([]string, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return nil, err
	}
	return info.ListenAddresses, nil
}

// PostSwap sends a new swap request and returns the location of the created
// swap.
func (c *Client) PostSwap(ctx context.Context, req SwapRequest) (string, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal swap request: %w", err)
	}
	resp, err := c.do(ctx, http.MethodPost, "swaps/rfc003", nil, data, "application/json")
	if err != nil {
		return "", err
	}
	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("cnd did not return the location of the new swap")
	}
	return location, nil
}

// Swaps returns the collection of all swaps known to the daemon.
func (c *Client) Swaps(ctx context.Context) (Entity, error) {
	var entity Entity
	err := c.Fetch(ctx, "swaps", &entity)
	return entity, err
}

// Fetch GETs the given path and decodes the response into v.
func (c *Client) Fetch(ctx context.Context, path string, v interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return err
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("failed to decode %v: %w", path, err)
	}
	return nil
}

// ExecuteAction resolves the fields of the action and submits it. GET actions
// carry their fields in the query, any other method sends them as a JSON body
// of the action's content type.
func (c *Client) ExecuteAction(ctx context.Context, action Action, resolve FieldResolver) (*Response, error) {
	values := map[string]string{}
	for _, field := range action.Fields {
		if resolve == nil {
			break
		}
		value, ok, err := resolve(ctx, field)
		if err != nil {
			return nil, err
		}
		if ok && value != "" {
			values[field.Name] = value
		}
	}

	method := strings.ToUpper(action.Method)
	if method == "" {
		method = http.MethodGet
	}
	c.logger.Debug("executing action", zap.String("name", action.Name), zap.String("method", method), zap.String("href", action.Href))

	if method == http.MethodGet {
		query := url.Values{}
		for name, value := range values {
			query.Set(name, value)
		}
		return c.do(ctx, method, action.Href, query, nil, "")
	}

	body, err := json.Marshal(values)
	if err != nil {
		return nil, err
	}
	contentType := action.Type
	if contentType == "" {
		contentType = "application/json"
	}
	return c.do(ctx, method, action.Href, nil, body, contentType)
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid path %v: %w", path, err)
	}
	target := c.url.ResolveReference(ref)
	if len(query) > 0 {
		values := target.Query()
		for key := range query {
			values.Set(key, query.Get(key))
		}
		target.RawQuery = values.Encode()
	}
	return target.String(), nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, contentType string) (*Response, error) {
	target, err := c.resolve(path, query)
	if err != nil {
		return nil, err
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.siren+json, application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading cnd reply: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, responseError(httpResp, data)
	}
	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       data,
	}, nil
}

// responseError turns an unsuccessful response into a *Problem when the daemon
// sent a problem document.
func responseError(resp *http.Response, body []byte) error {
	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType == MediaTypeProblem {
		problem := &Problem{}
		if err := json.Unmarshal(body, problem); err == nil {
			if problem.Status == 0 {
				problem.Status = resp.StatusCode
			}
			return problem
		}
	}
	if len(body) == 0 {
		return fmt.Errorf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return fmt.Errorf("%d %s: %s", resp.StatusCode, http.StatusText(resp.StatusCode), body)
}
