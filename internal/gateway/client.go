// Package gateway talks to the REST service that stores the planner's
// collections under /api/{Resource}.
package gateway

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"planner/internal/model"
)

// NewHTTPClient returns the transport shared by every collection client.
// insecureTLS accepts self-signed development certificates.
func NewHTTPClient(insecureTLS bool) *http.Client {
	if !insecureTLS {
		return &http.Client{}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in for local dev certificates
	return &http.Client{Transport: transport}
}

// Client is the request contract for one collection. Calls carry the caller's
// context and no timeout of their own.
type Client[T any] struct {
	baseURL string
	kind    model.Kind[T]
	http    *http.Client
}

func NewClient[T any](baseURL string, kind model.Kind[T], httpClient *http.Client) *Client[T] {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client[T]{baseURL: baseURL, kind: kind, http: httpClient}
}

func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	if err := c.do(ctx, "list", http.MethodGet, 0, nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (c *Client[T]) Get(ctx context.Context, id int) (T, error) {
	var item T
	if id <= 0 {
		return item, c.invalidID("get", id)
	}
	err := c.do(ctx, "get", http.MethodGet, id, nil, &item)
	return item, err
}

// Create posts the entity without its id and returns what the gateway stored.
// When the gateway answers without a body the sent entity comes back with id 0.
func (c *Client[T]) Create(ctx context.Context, item T) (T, error) {
	body, err := withoutID(item)
	if err != nil {
		var zero T
		return zero, &RemoteError{Op: "create", Resource: c.kind.Resource, Err: err}
	}
	created := item
	c.kind.SetID(&created, 0)
	if err := c.do(ctx, "create", http.MethodPost, 0, body, &created); err != nil {
		var zero T
		return zero, err
	}
	return created, nil
}

// Replace sends the complete entity.
func (c *Client[T]) Replace(ctx context.Context, id int, item T) error {
	if id <= 0 {
		return c.invalidID("replace", id)
	}
	c.kind.SetID(&item, id)
	body, err := json.Marshal(item)
	if err != nil {
		return &RemoteError{Op: "replace", Resource: c.kind.Resource, ID: id, Err: err}
	}
	return c.do(ctx, "replace", http.MethodPut, id, body, nil)
}

func (c *Client[T]) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return c.invalidID("delete", id)
	}
	return c.do(ctx, "delete", http.MethodDelete, id, nil, nil)
}

func (c *Client[T]) invalidID(op string, id int) error {
	return &RemoteError{Op: op, Resource: c.kind.Resource, Err: fmt.Errorf("%w: %d", ErrInvalidID, id)}
}

func (c *Client[T]) endpoint(id int) (string, error) {
	elems := []string{"api", c.kind.Resource}
	if id > 0 {
		elems = append(elems, strconv.Itoa(id))
	}
	return url.JoinPath(c.baseURL, elems...)
}

func (c *Client[T]) do(ctx context.Context, op, method string, id int, body []byte, out interface{}) error {
	fail := func(status int, err error) error {
		return &RemoteError{Op: op, Resource: c.kind.Resource, ID: id, Status: status, Err: err}
	}

	endpoint, err := c.endpoint(id)
	if err != nil {
		return fail(0, err)
	}
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(resp.StatusCode, nil)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decode body: %w", err))
	}
	return nil
}

func withoutID(item interface{}) ([]byte, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	delete(fields, "id")
	return json.Marshal(fields)
}
