// Package testutil holds helpers shared by HTTP-level tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type TestServer struct {
	*httptest.Server
	t *testing.T
}

// NewTestServer starts handler and closes it when the test ends.
func NewTestServer(t *testing.T, handler http.Handler) *TestServer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return &TestServer{Server: server, t: t}
}

func (ts *TestServer) GET(path string) *http.Response {
	return ts.Do(http.MethodGet, path, nil)
}

func (ts *TestServer) POST(path string, body any) *http.Response {
	return ts.Do(http.MethodPost, path, body)
}

func (ts *TestServer) PUT(path string, body any) *http.Response {
	return ts.Do(http.MethodPut, path, body)
}

func (ts *TestServer) DELETE(path string) *http.Response {
	return ts.Do(http.MethodDelete, path, nil)
}

// Do sends body as JSON; a string body is sent verbatim.
func (ts *TestServer) Do(method, path string, body any) *http.Response {
	ts.t.Helper()
	var bodyReader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		bodyReader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(ts.t, err)
		bodyReader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, ts.URL+path, bodyReader)
	require.NoError(ts.t, err)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	require.NoError(ts.t, err)
	return resp
}

func AssertJSONResponse(t *testing.T, resp *http.Response, expectedStatus int, target any) {
	t.Helper()
	defer resp.Body.Close()
	require.Equal(t, expectedStatus, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "application/json")
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
}

func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()
	var errorResp map[string]string
	AssertJSONResponse(t, resp, expectedStatus, &errorResp)
	require.Equal(t, expectedMessage, errorResp["error"])
}
