// Package client is a Go client for the sellsgoods REST API, together with
// the browsing state helpers a storefront needs: an infinite-scroll Feed, a
// debounced Searcher and a persistent shopping cart (subpackage cart).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.StatusCode == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken installs the bearer token used by authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*User, string, error) {
	var resp struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/api/users/login", nil,
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, "", err
	}
	c.token = resp.Token
	return resp.User, resp.Token, nil
}

func (c *Client) Register(ctx context.Context, name, phone, email, password string) (*User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/api/users", nil, map[string]string{
		"name": name, "phone": phone, "email": email, "password": password,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/category", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Filter narrows category browsing. Zero values mean "not filtered".
type Filter struct {
	Search     string
	Date       string // YYYY-MM-DD
	Conditions []string
}

func (f Filter) query(page, limit int) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	for _, cond := range f.Conditions {
		q.Add("condition", cond)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// ProductsByCategory fetches one page of the browse view. Category "All"
// disables category filtering.
func (c *Client) ProductsByCategory(ctx context.Context, category string, filter Filter, page, limit int) (*ProductPage, error) {
	path := "/api/products/getproductsbycategory/" + url.PathEscape(category)
	var result ProductPage
	if err := c.do(ctx, http.MethodGet, path, filter.query(page, limit), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]Product, error) {
	q := url.Values{}
	q.Set("query", query)
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/products/search", q, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GroupedProducts fetches the landing-page buckets.
func (c *Client) GroupedProducts(ctx context.Context) ([]CategoryGroup, error) {
	var groups []CategoryGroup
	if err := c.do(ctx, http.MethodGet, "/api/products/getproducts", nil, nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	var order Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) Orders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
