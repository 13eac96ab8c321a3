package taker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/catalogfi/comitkit/pkg/negotiation"
)

var ErrOrderNotFound = errors.New("maker has no such order")

// MakerClient talks to the order service of a maker.
type MakerClient interface {
	OrderByTradingPair(ctx context.Context, pair string) (negotiation.Order, error)
	ExecutionParams(ctx context.Context, orderID string) (negotiation.ExecutionParams, error)
	TakeOrder(ctx context.Context, orderID, swapID string) error
}

type makerClient struct {
	url    *url.URL
	client *http.Client
}

func NewMakerClient(makerURL string) (MakerClient, error) {
	u, err := url.Parse(makerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid maker url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid maker url %v", makerURL)
	}
	return &makerClient{
		url:    u,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (c *makerClient) OrderByTradingPair(ctx context.Context, pair string) (negotiation.Order, error) {
	var order negotiation.Order
	err := c.do(ctx, http.MethodGet, "orders/"+url.PathEscape(pair), nil, &order)
	return order, err
}

func (c *makerClient) ExecutionParams(ctx context.Context, orderID string) (negotiation.ExecutionParams, error) {
	var params negotiation.ExecutionParams
	err := c.do(ctx, http.MethodGet, "orders/"+url.PathEscape(orderID)+"/executionParams", nil, &params)
	return params, err
}

func (c *makerClient) TakeOrder(ctx context.Context, orderID, swapID string) error {
	body := map[string]string{"swapId": swapID}
	return c.do(ctx, http.MethodPost, "orders/"+url.PathEscape(orderID)+"/take", body, nil)
}

func (c *makerClient) do(ctx context.Context, method, path string, body, v interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	endpoint := c.url.JoinPath(strings.Split(path, "/")...)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("maker unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read maker response: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %v", ErrOrderNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("maker responded %v to %v: %s", resp.StatusCode, path, data)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode maker response: %w", err)
	}
	return nil
}
