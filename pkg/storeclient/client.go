// Package storeclient is a plain-HTTP client for the product store API. It
// is the fetch-equivalent used by the client session state and tooling:
// short timeout, no retries, errors mapped to a small exported set.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	ErrNotFound     = errors.New("product not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("invalid request")
)

// Product is the API's product representation, snapshotted by callers at
// cart-add time and not re-validated afterwards.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
	Category    string  `json:"category"`
	Seller      string  `json:"seller,omitempty"`
}

// ProductInput carries the mutable fields for create and update calls.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Image       string  `json:"image,omitempty"`
}

// ListFilter narrows List results to exact field matches.
type ListFilter struct {
	Category string
	Seller   string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// ListProducts fetches all products matching filter.
func (c *Client) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	u := c.baseURL + "/api/getproduct"
	q := url.Values{}
	if filter.Category != "" {
		q.Set("category", filter.Category)
	}
	if filter.Seller != "" {
		q.Set("seller", filter.Seller)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	var products []Product
	if err := c.do(req, "", http.StatusOK, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct posts a new product; token is the bearer credential.
func (c *Client) CreateProduct(ctx context.Context, token string, input ProductInput) (*Product, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/postProduct", input)
	if err != nil {
		return nil, err
	}

	var created Product
	if err := c.do(req, token, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces the mutable fields of the product with the given id.
func (c *Client) UpdateProduct(ctx context.Context, token, id string, input ProductInput) (*Product, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, "/api/updateProduct/"+url.PathEscape(id), input)
	if err != nil {
		return nil, err
	}

	var updated Product
	if err := c.do(req, token, http.StatusOK, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct removes the product with the given id.
func (c *Client) DeleteProduct(ctx context.Context, token, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/deleteProduct/"+url.PathEscape(id), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, token, http.StatusNoContent, nil)
}

// Register creates a new account. Role may be empty; the API defaults it.
func (c *Client) Register(ctx context.Context, name, email, password, role string) error {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     role,
	})
	if err != nil {
		return err
	}
	return c.do(req, "", http.StatusCreated, nil)
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(req, "", http.StatusOK, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do executes the request, checks the expected status, and decodes the
// response into out when non-nil.
func (c *Client) do(req *http.Request, token string, wantStatus int, out any) error {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// apiError maps a non-success response to an exported error, wrapping the
// server's message from the {"error": "..."} envelope when present.
func (c *Client) apiError(resp *http.Response) error {
	var envelope struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&envelope)
	msg := envelope.Error
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrValidation, msg)
	default:
		return fmt.Errorf("api request failed with status %d: %s", resp.StatusCode, msg)
	}
}
