package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key")
}

func TestGenerate_Success(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Eat "},{"text":"greens."}]}}]}`))
	})

	text, err := c.Generate(context.Background(), "models/gemini-2.0-flash", "what to eat for diabetes?", nil)
	require.NoError(t, err)
	assert.Equal(t, "Eat greens.", text)
	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "what to eat for diabetes?", gotBody.Contents[0].Parts[0].Text)
}

func TestGenerate_ImageAttachedAlongsidePrompt(t *testing.T) {
	var gotBody generateRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"250 kcal"}]}}]}`))
	})

	img := &Image{MIMEType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff}}
	text, err := c.Generate(context.Background(), "models/gemini-1.5-pro", "count the calories", img)
	require.NoError(t, err)
	assert.Equal(t, "250 kcal", text)

	require.Len(t, gotBody.Contents[0].Parts, 2)
	assert.Equal(t, "count the calories", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.Contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", gotBody.Contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, "/9j/", gotBody.Contents[0].Parts[1].InlineData.Data)
}

func TestGenerate_QuotaExhausted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := c.Generate(context.Background(), "models/gemini-2.0-flash", "hi", nil)
	require.ErrorIs(t, err, ErrQuotaExhausted)
}

func TestGenerate_InvalidArgument(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad image","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := c.Generate(context.Background(), "models/gemini-2.0-flash", "hi", nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerate_GenericAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":500,"message":"backend blew up","status":"INTERNAL"}}`))
	})

	_, err := c.Generate(context.Background(), "models/gemini-2.0-flash", "hi", nil)
	require.ErrorIs(t, err, ErrAPI)
	assert.NotErrorIs(t, err, ErrQuotaExhausted)
	assert.NotErrorIs(t, err, ErrInvalidArgument)
}

func TestGenerate_NonJSONErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>gateway timeout</html>"))
	})

	_, err := c.Generate(context.Background(), "models/gemini-2.0-flash", "hi", nil)
	require.ErrorIs(t, err, ErrAPI)
}

func TestGenerate_NoCandidatesYieldsEmptyText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	text, err := c.Generate(context.Background(), "models/gemini-2.0-flash", "hi", nil)
	require.NoError(t, err)
	assert.Empty(t, text)
}
