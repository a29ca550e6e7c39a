package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	page := renderPage("arena.example.org", "http://feed.example.org:9090/")
	assert.Contains(t, page, "ssh -p 2222 arena.example.org")
	assert.Contains(t, page, `"http://feed.example.org:9090"`)
	assert.NotContains(t, page, "{{.")
}

func TestMux(t *testing.T) {
	srv := httptest.NewServer(newMux(renderPage("h", "")))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(res.Body)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "<canvas")

	res, err = http.Get(srv.URL + "/nope")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}
