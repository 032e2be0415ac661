package integration_test

import (
	"os"
	"sync"
	"testing"

	"outbound_backend/test/helpers"
)

var (
	globalTestServer *helpers.TestServer
	serverOnce       sync.Once
)

// GetTestServer returns the shared server, creating it on first use.
func GetTestServer(t *testing.T) *helpers.TestServer {
	serverOnce.Do(func() {
		globalTestServer = helpers.NewTestServer(t)
		globalTestServer.ClearTables(t)
	})
	if globalTestServer == nil {
		t.Skip("test server unavailable")
	}
	return globalTestServer
}

func TestMain(m *testing.M) {
	code := m.Run()
	if globalTestServer != nil {
		globalTestServer.Close()
	}
	os.Exit(code)
}
