package sheets

import (
	"testing"
	"time"

	"github.com/Veraticus/tally/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		wantErr error
		name    string
		config  Config
	}{
		{
			name: "valid oauth config",
			config: Config{
				ClientID: "client", ClientSecret: "secret", RefreshToken: "token",
				BatchSize: 100, RetryAttempts: 3, RetryDelay: time.Second,
			},
		},
		{
			name:   "valid service account config",
			config: Config{ServiceAccountPath: "/path/to/key.json", BatchSize: 100},
		},
		{
			name:    "missing auth",
			config:  Config{BatchSize: 100},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "partial oauth credentials",
			config:  Config{ClientID: "client", RefreshToken: "token", BatchSize: 100},
			wantErr: common.ErrMissingConfig,
		},
		{
			name: "multiple auth methods",
			config: Config{
				ClientID: "client", ClientSecret: "secret", RefreshToken: "token",
				ServiceAccountPath: "/path/to/key.json", BatchSize: 100,
			},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "invalid batch size",
			config:  Config{ServiceAccountPath: "/key.json"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "negative retries",
			config:  Config{ServiceAccountPath: "/key.json", BatchSize: 1, RetryAttempts: -1},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1000, cfg.BatchSize)
	assert.Equal(t, "Expense Ledger", cfg.SpreadsheetName)
	assert.True(t, cfg.EnableFormatting)
}
