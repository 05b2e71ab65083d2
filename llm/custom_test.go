package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m4xw311/nexus/errors"
	"github.com/stretchr/testify/require"
)

func TestCustomRespond(t *testing.T) {
	var gotAuth string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &gotBody))
		_, _ = io.WriteString(w, `{"message":"hi"}`)
	}))
	defer srv.Close()

	text, err := NewCustomLLMClient(srv.URL, "tok", srv.Client(), nil).Respond(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, "hi", text)
	require.Equal(t, "Bearer tok", gotAuth)
	require.Equal(t, map[string]string{"message": "hello"}, gotBody)

	_, err = NewCustomLLMClient(srv.URL, "", srv.Client(), nil).Respond(context.Background(), "hello")
	require.NoError(t, err)
	require.Empty(t, gotAuth)
}

func TestCustomFieldPriority(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"content":"d","answer":"c","message":"b","response":"a"}`, "a"},
		{`{"content":"d","answer":"c","message":"b"}`, "b"},
		{`{"content":"d","answer":"c"}`, "c"},
		{`{"content":"d"}`, "d"},
		{`{"response":"","content":"d"}`, "d"},
		{`{"other":"x"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()
			text, err := NewCustomLLMClient(srv.URL, "", srv.Client(), nil).Respond(context.Background(), "q")
			require.NoError(t, err)
			require.Equal(t, tt.want, text)
		})
	}
}

func TestCustomErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	_, err := NewCustomLLMClient(srv.URL, "", srv.Client(), nil).Respond(context.Background(), "q")
	require.Equal(t, "Custom API error: 502", err.Error())
	require.Equal(t, errors.KindUpstream, errors.KindOf(err))

	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html>")
	}))
	defer bad.Close()
	_, err = NewCustomLLMClient(bad.URL, "", bad.Client(), nil).Respond(context.Background(), "q")
	require.Equal(t, errors.KindMalformedResponse, errors.KindOf(err))
}
