package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCountry_PublicIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/json/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"status":"success","country":"United States"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	assert.Equal(t, "United States", c.Country(context.Background(), "8.8.8.8"))
}

func TestCountry_PrivateAddressesSkipLookup(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	for _, ip := range []string{"", "127.0.0.1", "10.0.0.4", "192.168.1.1", "::1", "garbage"} {
		assert.Equal(t, Unknown, c.Country(context.Background(), ip), ip)
	}
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCountry_FailuresAreUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	assert.Equal(t, Unknown, c.Country(context.Background(), "1.1.1.1"))

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	c = NewClient(slow.URL, 50*time.Millisecond)
	assert.Equal(t, Unknown, c.Country(context.Background(), "1.1.1.1"))
}
