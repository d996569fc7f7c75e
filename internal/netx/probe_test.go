package netx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProber_Online(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized) // still reachable
	}))
	t.Cleanup(srv.Close)

	p := NewProber(srv.URL)
	assert.True(t, p.Online(context.Background()))
}

func TestProber_Offline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	p := NewProber(srv.URL)
	assert.False(t, p.Online(context.Background()))
}

func TestProber_EmptyURL(t *testing.T) {
	p := NewProber("")
	assert.False(t, p.Online(context.Background()))
}
