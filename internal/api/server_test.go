package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathpop/internal/problembank"
)

func newTestServer(t *testing.T, opts Options) *httptest.Server {
	t.Helper()
	if opts.Bank == nil {
		opts.Bank = problembank.MustDefault()
	}
	srv := httptest.NewServer(NewServer(opts).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func postExpression(t *testing.T, url, body string) (int, expressionResponse) {
	t.Helper()
	resp, err := http.Post(url+"/api/expressions", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out expressionResponse
	if resp.StatusCode != http.StatusBadRequest {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, Options{})
	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExpression_OK(t *testing.T) {
	srv := newTestServer(t, Options{})

	status, out := postExpression(t, srv.URL, `{"expression":"{3/4} + 2^3"}`)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, out.Answer)
	assert.InDelta(t, 8.75, *out.Answer, 1e-9)
	assert.NotEmpty(t, out.Tokens)
	assert.NotEmpty(t, out.Canonical)
	assert.Contains(t, out.Rendered, "─")
	assert.Empty(t, out.Error)
}

func TestExpression_Failures(t *testing.T) {
	srv := newTestServer(t, Options{})

	tests := []struct {
		name     string
		body     string
		status   int
		errPart  string
		wantTree bool
	}{
		{"division by zero", `{"expression":"1 / 0"}`, http.StatusUnprocessableEntity, "division by zero", true},
		{"syntax", `{"expression":"3 +"}`, http.StatusUnprocessableEntity, "syntax error", false},
		{"empty", `{"expression":""}`, http.StatusBadRequest, "", false},
		{"unknown field", `{"expr":"1"}`, http.StatusBadRequest, "", false},
		{"not json", `3 + 4`, http.StatusBadRequest, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, out := postExpression(t, srv.URL, tt.body)
			assert.Equal(t, tt.status, status)
			if tt.errPart != "" {
				assert.Contains(t, out.Error, tt.errPart)
				assert.Nil(t, out.Answer)
			}
			assert.Equal(t, tt.wantTree, len(out.Tree) > 0)
		})
	}
}

func TestBankLevels(t *testing.T) {
	srv := newTestServer(t, Options{})

	resp, err := http.Get(srv.URL + "/api/bank/levels")
	require.NoError(t, err)
	defer resp.Body.Close()
	var levels []levelSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&levels))
	require.Len(t, levels, problembank.MaxLevel)
	assert.Equal(t, 1, levels[0].Level)
	assert.Positive(t, levels[0].Size)

	resp2, err := http.Get(srv.URL + "/api/bank/levels/3")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var items []problembank.Item
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&items))
	assert.Len(t, items, levels[2].Size)

	for _, bad := range []string{"0", "11", "x"} {
		resp, err := http.Get(srv.URL + "/api/bank/levels/" + bad)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, bad)
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServer(t, Options{AllowedOrigins: []string{"https://quiz.example"}})

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/expressions", nil)
	req.Header.Set("Origin", "https://quiz.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "https://quiz.example", resp.Header.Get("Access-Control-Allow-Origin"))
}
