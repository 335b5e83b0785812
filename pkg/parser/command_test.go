package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSwapCommand(t *testing.T) {
	tests := []struct {
		command string
		want    SwapArgs
	}{
		{"swap 1 NEAR to USDC", SwapArgs{"1", "NEAR", "USDC"}},
		{"1.5 near to usdc", SwapArgs{"1.5", "NEAR", "USDC"}},
		{"100 USDC to NEAR", SwapArgs{"100", "USDC", "NEAR"}},
		{"  swap 0.25 NEAR to USDC  ", SwapArgs{"0.25", "NEAR", "USDC"}},
	}
	for _, tt := range tests {
		got, err := ParseSwapCommand(tt.command)
		require.NoError(t, err, "command %q", tt.command)
		assert.Equal(t, tt.want, *got, "command %q", tt.command)
	}
}

func TestParseSwapCommandRejectsMalformed(t *testing.T) {
	for _, command := range []string{
		"",
		"swap NEAR to USDC",
		"1 NEAR USDC",
		"swap -1 NEAR to USDC",
		"one NEAR to USDC",
	} {
		_, err := ParseSwapCommand(command)
		assert.Error(t, err, "command %q", command)
	}
}
