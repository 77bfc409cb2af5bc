package gateway

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

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/pkg/circuitbreaker"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const maxErrorBody = 256

type Config struct {
	BaseURL string
	// Timeout bounds each HTTP call. Zero means no client-side limit; the caller's
	// context is then the only deadline.
	Timeout time.Duration
	Breaker circuitbreaker.Settings
}

// Client talks to the remote order gateway over HTTP/JSON. Every answer body is an
// envelope of the form {"result": ...}.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[*rawResponse]
	logger  *zap.Logger
}

type rawResponse struct {
	status int
	body   []byte
}

type envelope[T any] struct {
	Result T `json:"result"`
}

func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	base, err := url.Parse(strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid gateway base url %q", cfg.BaseURL)
	}

	breaker := cfg.Breaker
	if breaker.Name == "" {
		breaker.Name = "order-gateway"
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: circuitbreaker.New[*rawResponse](breaker, logger),
		logger:  logger,
	}, nil
}

// CreateOrder asks the gateway to open an order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	var order domain.Order
	if err := c.call(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// VerifyPayment asks the gateway to check a capture response against its order.
func (c *Client) VerifyPayment(ctx context.Context, attempt domain.PaymentAttempt) (domain.VerificationResult, error) {
	var result domain.VerificationResult
	if err := c.call(ctx, http.MethodPost, "/orders/verify", attempt, &result); err != nil {
		return domain.VerificationResult{}, fmt.Errorf("verify payment: %w", err)
	}
	return result, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	var order domain.Order
	if err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil, &order); err != nil {
		return domain.Order{}, fmt.Errorf("get order %s: %w", orderID, err)
	}
	return order, nil
}

func (c *Client) GetOrderPayments(ctx context.Context, orderID string) ([]domain.Payment, error) {
	var payments []domain.Payment
	if err := c.call(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/payments", nil, &payments); err != nil {
		return nil, fmt.Errorf("get order payments %s: %w", orderID, err)
	}
	return payments, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]domain.Order, error) {
	var orders []domain.Order
	if err := c.call(ctx, http.MethodGet, "/orders", nil, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (c *Client) GetProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.call(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, fmt.Errorf("get products: %w", err)
	}
	return products, nil
}

func (c *Client) GetProductBySlug(ctx context.Context, slug string) (domain.Product, error) {
	var product domain.Product
	if err := c.call(ctx, http.MethodGet, "/products/slug/"+url.PathEscape(slug), nil, &product); err != nil {
		return domain.Product{}, fmt.Errorf("get product %s: %w", slug, err)
	}
	return product, nil
}

func (c *Client) FilterProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.call(ctx, http.MethodPost, "/products/filter", filter, &products); err != nil {
		return nil, fmt.Errorf("filter products: %w", err)
	}
	return products, nil
}

func (c *Client) call(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	resp, err := c.breaker.Execute(func() (*rawResponse, error) {
		return c.do(ctx, method, path, payload)
	})
	if err != nil {
		if circuitbreaker.IsOpen(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return err
	}

	if resp.status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrNotFound, drainError(resp.body))
	}
	if resp.status >= 400 {
		return fmt.Errorf("%w %d: %s", ErrGatewayStatus, resp.status, drainError(resp.body))
	}

	env := envelope[json.RawMessage]{}
	if err := json.Unmarshal(resp.body, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(env.Result) == 0 || string(env.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// do performs one round trip. 5xx answers come back as errors so the breaker counts
// them; 4xx answers are the caller's problem and do not trip it.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) (*rawResponse, error) {
	endpoint := c.baseURL.JoinPath(path)

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		c.logger.Warn("gateway server error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w %d: %s", ErrGatewayStatus, resp.StatusCode, drainError(data))
	}
	return &rawResponse{status: resp.StatusCode, body: data}, nil
}

func drainError(body []byte) string {
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}
	return strings.TrimSpace(string(body))
}

// IsUnavailable reports whether err means the gateway could not be reached at all.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
