package metagen

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// testConfig implements domain.Config for client tests.
type testConfig struct {
	baseURL string
	timeout time.Duration
	enabled bool
}

func (c *testConfig) GetServerPort() string            { return "8080" }
func (c *testConfig) GetLogLevel() string              { return "error" }
func (c *testConfig) GetSupabaseURL() string           { return "" }
func (c *testConfig) GetSupabaseKey() string           { return "" }
func (c *testConfig) GetStorageBucket() string         { return "documents" }
func (c *testConfig) GetMetagenBaseURL() string        { return c.baseURL }
func (c *testConfig) GetMetagenUsername() string       { return "service-user" }
func (c *testConfig) GetMetagenPassword() string       { return "service-pass" }
func (c *testConfig) GetMetagenTimeout() time.Duration { return c.timeout }
func (c *testConfig) IsMetagenEnabled() bool           { return c.enabled }

func newTestClient(baseURL string) *Client {
	return NewClient(&testConfig{baseURL: baseURL, timeout: 5 * time.Second, enabled: true})
}

func TestClientPostReturnsBodyVerbatim(t *testing.T) {
	const body = "<mods>generated</mods>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "service-user" || pass != "service-pass" {
			t.Errorf("expected basic auth credentials, got %s/%s", user, pass)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart form: %v", err)
		}
		if got := r.FormValue("title"); got != "A Title" {
			t.Errorf("expected title field A Title, got %q", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("expected file part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "doc.xml" {
				t.Errorf("expected filename doc.xml, got %s", header.Filename)
			}
		}
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	got, err := client.Post(context.Background(), "/g-1/d-1", FormParams{
		"title": Field("A Title"),
		"file":  File("doc.xml", []byte("<doc/>")),
	})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if got != body {
		t.Fatalf("expected body %q, got %q", body, got)
	}
}

func TestClientStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		method string
		status int
		kind   ErrorKind
	}{
		{"unauthorized post", http.MethodPost, http.StatusUnauthorized, ErrorKindAuthentication},
		{"unauthorized get", http.MethodGet, http.StatusUnauthorized, ErrorKindAuthentication},
		{"forbidden get", http.MethodGet, http.StatusForbidden, ErrorKindForbidden},
		{"not found get", http.MethodGet, http.StatusNotFound, ErrorKindNotFound},
		{"forbidden post falls through", http.MethodPost, http.StatusForbidden, ErrorKindInvalidResponse},
		{"not found delete falls through", http.MethodDelete, http.StatusNotFound, ErrorKindInvalidResponse},
		{"server error", http.MethodPost, http.StatusBadGateway, ErrorKindServer},
		{"undocumented 2xx", http.MethodPost, http.StatusNoContent, ErrorKindInvalidResponse},
		{"teapot", http.MethodGet, http.StatusTeapot, ErrorKindInvalidResponse},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			client := newTestClient(server.URL)
			var err error
			switch tc.method {
			case http.MethodPost:
				_, err = client.Post(context.Background(), "/p", FormParams{"title": Field("t")})
			case http.MethodGet:
				_, err = client.Get(context.Background(), "/p")
			case http.MethodDelete:
				_, err = client.Delete(context.Background(), "/p")
			}

			if err == nil {
				t.Fatalf("expected error for status %d", tc.status)
			}
			if !IsKind(err, tc.kind) {
				t.Fatalf("expected error kind %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestClientInvalidResponseIncludesStatusCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Get(context.Background(), "/p")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "418") {
		t.Fatalf("expected status code in message, got %q", err.Error())
	}
}

func TestClientConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens here anymore

	client := newTestClient(server.URL)

	if _, err := client.Post(context.Background(), "/p", FormParams{}); !IsKind(err, ErrorKindConnection) {
		t.Fatalf("expected connection error from post, got %v", err)
	}
	if _, err := client.Get(context.Background(), "/p"); !IsKind(err, ErrorKindConnection) {
		t.Fatalf("expected connection error from get, got %v", err)
	}
	if _, err := client.Delete(context.Background(), "/p"); !IsKind(err, ErrorKindConnection) {
		t.Fatalf("expected connection error from delete, got %v", err)
	}
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(&testConfig{baseURL: server.URL, timeout: 30 * time.Millisecond, enabled: true})
	_, err := client.Get(context.Background(), "/p")
	if !IsKind(err, ErrorKindTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if !strings.Contains(err.Error(), "timed out") {
		t.Fatalf("expected timeout message, got %q", err.Error())
	}
}

func TestClientSuccessCodes(t *testing.T) {
	for _, status := range []int{http.StatusOK, http.StatusCreated, http.StatusAccepted} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
			w.Write([]byte("ok"))
		}))

		client := newTestClient(server.URL)
		body, err := client.Get(context.Background(), "/p")
		server.Close()
		if err != nil {
			t.Fatalf("expected status %d to succeed, got %v", status, err)
		}
		if body != "ok" {
			t.Fatalf("expected body ok, got %q", body)
		}
	}
}
