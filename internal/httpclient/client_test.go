package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	ierr "github.com/skeeterman/lawnbill/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestSendSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewDefaultClient()
	resp, err := client.Send(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(resp.Body))
}

func TestSendAppliesDeadlineWhenContextHasNone(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	orig := defaultSendTimeout
	defaultSendTimeout = 50 * time.Millisecond
	defer func() { defaultSendTimeout = orig }()

	client := NewDefaultClient()
	start := time.Now()
	_, err := client.Send(context.Background(), &Request{
		Method: http.MethodGet,
		URL:    srv.URL,
	})
	assert.Error(t, err)
	assert.True(t, ierr.IsGatewayTimeout(err))
	assert.Less(t, time.Since(start), time.Second, "deadline must cut the call short")
}

func TestSendKeepsCallerDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewDefaultClient()
	_, err := client.Send(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
	assert.NoError(t, err)
}
