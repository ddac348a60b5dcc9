package apiclient

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/require"
)

const testAddress = "http://chronicle.test"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestClient returns a client wired to its own mock transport.
func newTestClient(t *testing.T) (*Client, *httpmock.MockTransport) {
	t.Helper()

	c, err := NewClient(testLogger(), &Config{Address: testAddress})
	require.NoError(t, err)

	mt := httpmock.NewMockTransport()
	c.httpClient.Transport = mt
	return c, mt
}

func jsonResponder(status int, body string) httpmock.Responder {
	return httpmock.NewStringResponder(status, body).
		HeaderSet(http.Header{"Content-Type": {"application/json"}})
}

// captureBody records the decoded JSON request body before answering.
func captureBody(t *testing.T, into *map[string]any, status int, body string) httpmock.Responder {
	t.Helper()
	return func(req *http.Request) (*http.Response, error) {
		data, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		m := map[string]any{}
		require.NoError(t, json.Unmarshal(data, &m))
		*into = m
		return jsonResponder(status, body)(req)
	}
}

func endpoint(path string) string {
	return testAddress + path
}
