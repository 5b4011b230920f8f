package metagen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"

	"document-ingest/internal/domain"
)

// FormValue is a single field of a request body. Values with a Filename set
// are encoded as file parts, everything else as plain form fields.
type FormValue struct {
	Filename string
	Data     []byte
}

// FormParams maps form field names to values.
type FormParams map[string]FormValue

// Field builds a plain string form value.
func Field(value string) FormValue {
	return FormValue{Data: []byte(value)}
}

// File builds a file form value with the given filename.
func File(filename string, data []byte) FormValue {
	return FormValue{Filename: filename, Data: data}
}

// Client performs authenticated HTTP calls against the metadata service.
// It holds no mutable state and is safe to share across workers; retry
// decisions belong to the caller.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// NewClient creates a client from the service configuration.
func NewClient(config domain.Config) *Client {
	return &Client{
		baseURL:  config.GetMetagenBaseURL(),
		username: config.GetMetagenUsername(),
		password: config.GetMetagenPassword(),
		httpClient: &http.Client{
			Timeout: config.GetMetagenTimeout(),
		},
	}
}

// Post sends a multipart form to the given endpoint-relative path and returns
// the response body on success.
func (c *Client) Post(ctx context.Context, path string, params FormParams) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for name, value := range params {
		if value.Filename != "" {
			part, err := writer.CreateFormFile(name, value.Filename)
			if err != nil {
				return "", newError(ErrorKindInvalidResponse, fmt.Sprintf("failed to encode form field %s: %v", name, err), err)
			}
			if _, err := part.Write(value.Data); err != nil {
				return "", newError(ErrorKindInvalidResponse, fmt.Sprintf("failed to encode form field %s: %v", name, err), err)
			}
			continue
		}
		if err := writer.WriteField(name, string(value.Data)); err != nil {
			return "", newError(ErrorKindInvalidResponse, fmt.Sprintf("failed to encode form field %s: %v", name, err), err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", newError(ErrorKindInvalidResponse, fmt.Sprintf("failed to encode form body: %v", err), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return "", newError(ErrorKindConnection, fmt.Sprintf("invalid metadata service request: %v", err), err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.do(req)
}

// Get fetches the given endpoint-relative path and returns the response body
// on success.
func (c *Client) Get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", newError(ErrorKindConnection, fmt.Sprintf("invalid metadata service request: %v", err), err)
	}
	return c.do(req)
}

// Delete removes the resource at the given endpoint-relative path and returns
// the response body on success.
func (c *Client) Delete(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return "", newError(ErrorKindConnection, fmt.Sprintf("invalid metadata service request: %v", err), err)
	}
	return c.do(req)
}

// do executes one request and funnels every outcome through the shared
// classification policy.
func (c *Client) do(req *http.Request) (string, error) {
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", c.classifyTransportError(err)
	}

	return c.classifyResponse(req.Method, resp.StatusCode, string(body))
}

// classifyTransportError maps errors raised before a status line was read
// (or while reading the body) onto the timeout/connection variants.
func (c *Client) classifyTransportError(err error) *ServiceError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return newError(ErrorKindTimeout,
			fmt.Sprintf("metadata service request timed out after %s", c.httpClient.Timeout), err)
	}
	return newError(ErrorKindConnection,
		fmt.Sprintf("cannot connect to metadata service: %v", err), err)
}

// classifyResponse applies the response policy shared by all verbs. The API
// contract documents 200/201/202 as the only success codes; anything else in
// the 2xx range is an undocumented condition and is rejected. 403 and 404
// carry a specific meaning only on GET; on other verbs they fall through to
// the default branch.
func (c *Client) classifyResponse(method string, status int, body string) (string, error) {
	switch status {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted:
		return body, nil
	case http.StatusUnauthorized:
		return "", newError(ErrorKindAuthentication, "invalid metadata service credentials", nil)
	case http.StatusForbidden:
		if method == http.MethodGet {
			return "", newError(ErrorKindForbidden, "access to resource is forbidden", nil)
		}
	case http.StatusNotFound:
		if method == http.MethodGet {
			return "", newError(ErrorKindNotFound, "resource not found", nil)
		}
	}

	if status >= 500 && status <= 599 {
		return "", newError(ErrorKindServer, fmt.Sprintf("metadata service error: status %d", status), nil)
	}
	return "", newError(ErrorKindInvalidResponse, fmt.Sprintf("unexpected status code: %d", status), nil)
}
