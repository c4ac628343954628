package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		raw          string
		wantHostPort string
		wantPath     string
		wantInsecure bool
		wantErr      bool
	}{
		{raw: "http://collector:4318", wantHostPort: "collector:4318", wantPath: "/v1/traces", wantInsecure: true},
		{raw: "https://otel.example.com/custom", wantHostPort: "otel.example.com", wantPath: "/custom"},
		{raw: "collector:4318", wantHostPort: "collector:4318", wantPath: "/v1/traces", wantInsecure: true},
		{raw: "grpc://collector:4317", wantErr: true},
		{raw: "collector:4318/v1/traces", wantErr: true},
		{raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			hostport, path, insecure, err := parseOTLPEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantHostPort, hostport)
			assert.Equal(t, tt.wantPath, path)
			assert.Equal(t, tt.wantInsecure, insecure)
		})
	}
}

func TestSetupTracing_DisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_TRACES_ENABLED", "")

	shutdown, err := SetupTracing(nil)
	require.NoError(t, err)
	assert.Nil(t, shutdown)
}
