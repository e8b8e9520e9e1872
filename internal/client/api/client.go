// Package api is the client side of the staffbook REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/staffbook/internal/common"
	"github.com/dmitrijs2005/staffbook/internal/netx"
)

type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with employee calls; "" sends none.
func (c *Client) SetToken(token string) {
	c.token = token
}

// PictureURL turns a stored picture reference into an absolute URL.
func (c *Client) PictureURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + ref
}

func (c *Client) Health(ctx context.Context) (*Health, error) {
	var h Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, "", &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (c *Client) Signup(ctx context.Context, username, email, password string) (*AuthResponse, error) {
	return c.auth(ctx, "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	return c.auth(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) auth(ctx context.Context, path string, payload map[string]string) (*AuthResponse, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var res AuthResponse
	if err := c.do(ctx, http.MethodPost, path, bytes.NewReader(b), "application/json", &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) ListEmployees(ctx context.Context) ([]Employee, error) {
	var list []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, "", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) SearchEmployees(ctx context.Context, department, position string) ([]Employee, error) {
	q := url.Values{}
	if department != "" {
		q.Set("department", department)
	}
	if position != "" {
		q.Set("position", position)
	}

	var list []Employee
	if err := c.do(ctx, http.MethodGet, "/employees/search?"+q.Encode(), nil, "", &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var e Employee
	if err := c.do(ctx, http.MethodGet, "/employees/"+url.PathEscape(id), nil, "", &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateEmployee(ctx context.Context, f EmployeeForm, pic *Upload) (*Employee, error) {
	return c.submitEmployee(ctx, http.MethodPost, "/employees", f, pic)
}

// UpdateEmployee replaces every field of the employee. A nil pic keeps the
// current picture.
func (c *Client) UpdateEmployee(ctx context.Context, id string, f EmployeeForm, pic *Upload) (*Employee, error) {
	return c.submitEmployee(ctx, http.MethodPut, "/employees/"+url.PathEscape(id), f, pic)
}

func (c *Client) DeleteEmployee(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/employees/"+url.PathEscape(id), nil, "", nil)
}

func (c *Client) submitEmployee(ctx context.Context, method, path string, f EmployeeForm, pic *Upload) (*Employee, error) {
	body, contentType, err := encodeForm(f, pic)
	if err != nil {
		return nil, err
	}

	var res struct {
		Employee Employee `json:"employee"`
	}
	if err := c.do(ctx, method, path, body, contentType, &res); err != nil {
		return nil, err
	}
	return &res.Employee, nil
}

func encodeForm(f EmployeeForm, pic *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, kv := range f.fields() {
		if kv[1] == "" {
			continue
		}
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}

	if pic != nil {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profilePicture"; filename=%q`, pic.Filename))
		if pic.ContentType != "" {
			h.Set("Content-Type", pic.ContentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, pic.Body); err != nil {
			return nil, "", fmt.Errorf("read picture: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() == nil && netx.IsUnreachable(err) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Message string       `json:"message"`
		Errors  []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Message = body.Message
		apiErr.Errors = body.Errors
	}
	return apiErr
}
