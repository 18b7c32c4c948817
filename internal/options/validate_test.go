package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/oasmcp/oaserrors"
)

func TestValidateSingleInputSource(t *testing.T) {
	tests := []struct {
		name    string
		sources []bool
		wantErr string
	}{
		{name: "none", sources: []bool{false, false}, wantErr: "no source"},
		{name: "one", sources: []bool{false, true, false}},
		{name: "two", sources: []bool{true, true}, wantErr: "too many"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSingleInputSource("no source", "too many", tt.sources...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.ErrorIs(t, err, oaserrors.ErrConfig)
		})
	}
}

type testConfig struct {
	name  string
	count int
}

func TestApply(t *testing.T) {
	cfg := &testConfig{}
	err := Apply(cfg,
		func(c *testConfig) error { c.name = "a"; return nil },
		nil,
		func(c *testConfig) error { c.count = 3; return nil },
	)
	require.NoError(t, err)
	assert.Equal(t, "a", cfg.name)
	assert.Equal(t, 3, cfg.count)

	boom := errors.New("boom")
	err = Apply(cfg,
		func(c *testConfig) error { return boom },
		func(c *testConfig) error { c.count = 99; return nil },
	)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, cfg.count, "options after a failing option must not run")
}
