package tlsutil

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeServerCA(t *testing.T, server *httptest.Server) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	data := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestNewHTTPClient(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"verifies by default", Options{}, true},
		{"skips verification", Options{InsecureSkipVerify: true}, false},
		{"trusts configured CA", Options{CACertPath: writeServerCA(t, server)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewHTTPClient(2*time.Second, tt.opts)
			require.NoError(t, err)

			resp, err := c.Get(server.URL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			resp.Body.Close()
		})
	}
}

func TestGetTLSConfigCAWinsOverInsecure(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	cfg, err := GetTLSConfig(Options{CACertPath: writeServerCA(t, server), InsecureSkipVerify: true})
	require.NoError(t, err)
	assert.False(t, cfg.InsecureSkipVerify)
	assert.NotNil(t, cfg.RootCAs)
}

func TestLoadCertPoolErrors(t *testing.T) {
	_, err := LoadCertPool(filepath.Join(t.TempDir(), "missing.pem"))
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.pem")
	require.NoError(t, os.WriteFile(empty, []byte("not a certificate"), 0644))
	_, err = LoadCertPool(empty)
	assert.Error(t, err)
}
