package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAddr(t *testing.T) {
	assert.Equal(t, "0.0.0.0:8080", ListenAddr("", ""))
	assert.Equal(t, "0.0.0.0:9000", ListenAddr("", "9000"))
	assert.Equal(t, "127.0.0.1:8080", ListenAddr("127.0.0.1", ""))
}

func TestResolveAPIURL(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		override string
		origin   string
		want     string
		wantErr  bool
	}{
		{name: "development default", env: EnvDevelopment, want: "http://localhost:8080"},
		{name: "development override", env: EnvDevelopment, override: "http://10.0.0.2:8080", want: "http://10.0.0.2:8080"},
		{name: "production origin", env: EnvProduction, origin: "https://users.example.com", want: "https://users.example.com"},
		{name: "production override", env: EnvProduction, override: "https://api.example.com", origin: "https://users.example.com", want: "https://api.example.com"},
		{name: "production missing", env: EnvProduction, wantErr: true},
		{name: "staging origin", env: "staging", origin: "https://staging.example.com", want: "https://staging.example.com"},
		{name: "staging missing is not localhost", env: "staging", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveAPIURL(tt.env, tt.override, tt.origin)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "2s")
	t.Setenv("BAD_TIMEOUT", "soon")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, ,https://b.example.com ")

	assert.Equal(t, 2*time.Second, getdur("SHUTDOWN_TIMEOUT", time.Second))
	assert.Equal(t, time.Second, getdur("BAD_TIMEOUT", time.Second))
	assert.Equal(t, "fallback", getenv("UNSET_FOR_TEST", "fallback"))
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, getlist("CORS_ALLOWED_ORIGINS"))
	assert.Nil(t, getlist("UNSET_FOR_TEST"))
}
