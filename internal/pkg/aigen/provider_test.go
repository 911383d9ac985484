package aigen

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderGenerateSuccess(t *testing.T) {
	want := []byte("styled-jpeg-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/stylize", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "hanbok", req.Style)

		source, err := base64.StdEncoding.DecodeString(req.Image)
		require.NoError(t, err)
		assert.Equal(t, []byte("source-jpeg"), source)

		json.NewEncoder(w).Encode(generateReply{
			Image: base64.StdEncoding.EncodeToString(want),
		})
	}))
	defer server.Close()

	client := NewProviderClient(server.URL, "test-key")
	got, err := client.Generate(context.Background(), "hanbok", []byte("source-jpeg"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestProviderGenerateRejectedStyle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"error":"unknown style"}`))
	}))
	defer server.Close()

	client := NewProviderClient(server.URL, "test-key")
	_, err := client.Generate(context.Background(), "vaporwave", []byte("source-jpeg"))
	assert.ErrorIs(t, err, ErrUnsupportedStyle)
}

func TestProviderGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewProviderClient(server.URL, "test-key")
	_, err := client.Generate(context.Background(), "hanbok", []byte("source-jpeg"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsupportedStyle, "server errors stay retryable")
}

func TestProviderGenerateEmptyReply(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateReply{Image: ""})
	}))
	defer server.Close()

	client := NewProviderClient(server.URL, "test-key")
	_, err := client.Generate(context.Background(), "hanbok", []byte("source-jpeg"))
	assert.Error(t, err)
}
