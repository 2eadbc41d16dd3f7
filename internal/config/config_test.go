package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pfxcrack/internal/core/domain"
)

func TestLoad(t *testing.T) {
	skip := filepath.Join(t.TempDir(), "tried.txt")
	require.NoError(t, os.WriteFile(skip, []byte("a\n"), 0o600))

	tests := []struct {
		name    string
		set     map[string]any
		env     map[string]string
		wantErr domain.CrackingError
		check   func(t *testing.T, s *Settings)
	}{
		{
			name: "defaults",
			set:  map[string]any{KeyPFX: "bundle.p12"},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "alnum", s.Charset)
				assert.Equal(t, 1, s.MinLength)
				assert.Equal(t, 6, s.MaxLength)
				assert.Equal(t, domain.BackendSSLMate, s.BackendKind())
				assert.Equal(t, domain.FormatText, s.OutputFormat())
				assert.Equal(t, domain.CharsetAlnum, s.CrackingSettings().Charset)
			},
		},
		{
			name: "environment overrides",
			set:  map[string]any{KeyPFX: "bundle.p12"},
			env: map[string]string{
				"PFXCRACK_CHARSET":    "xyz",
				"PFXCRACK_MAX":        "3",
				"PFXCRACK_BATCH_SIZE": "64",
				"PFXCRACK_TIMEOUT":    "90s",
				"PFXCRACK_BACKEND":    "XCRYPTO",
			},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "xyz", s.CrackingSettings().Charset)
				assert.Equal(t, 3, s.MaxLength)
				assert.Equal(t, 64, s.BatchSize)
				assert.Equal(t, 90*time.Second, s.Timeout)
				assert.Equal(t, domain.BackendXCrypto, s.BackendKind())
			},
		},
		{
			name: "existing skip file",
			set:  map[string]any{KeyPFX: "bundle.p12", KeySkipFile: skip, KeyPrefilter: true},
			check: func(t *testing.T, s *Settings) {
				assert.True(t, s.CrackingSettings().Prefilter)
				assert.Equal(t, skip, s.SkipFile)
			},
		},
		{
			name: "long lengths left to the space size check",
			set:  map[string]any{KeyPFX: "bundle.p12", KeyCharset: "x", KeyMinLength: 1, KeyMaxLength: 100},
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, 100, s.CrackingSettings().MaxLength)
			},
		},
		{
			name:    "missing pfx",
			set:     map[string]any{},
			wantErr: domain.ErrInvalidSettings,
		},
		{
			name:    "empty charset",
			set:     map[string]any{KeyPFX: "bundle.p12", KeyCharset: ""},
			wantErr: domain.ErrEmptyCharset,
		},
		{
			name:    "inverted lengths",
			set:     map[string]any{KeyPFX: "bundle.p12", KeyMinLength: 5, KeyMaxLength: 2},
			wantErr: domain.ErrInvalidLength,
		},
		{
			name:    "unknown backend",
			set:     map[string]any{KeyPFX: "bundle.p12", KeyBackend: "openssl"},
			wantErr: domain.ErrInvalidSettings,
		},
		{
			name:    "missing skip file",
			set:     map[string]any{KeyPFX: "bundle.p12", KeySkipFile: "/nonexistent/tried.txt"},
			wantErr: domain.ErrInvalidSettings,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			v := NewViper()
			for k, val := range tt.set {
				v.Set(k, val)
			}

			s, err := Load(v)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.True(t, domain.IsSetupError(err))
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}
