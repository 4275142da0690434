package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			name:  "with prefix",
			input: "0x1111111111111111111111111111111111111111",
			want:  "0x1111111111111111111111111111111111111111",
		},
		{
			name:  "without prefix",
			input: "AbCd111111111111111111111111111111111111",
			want:  "0xabcd111111111111111111111111111111111111",
		},
		{
			name:    "too short",
			input:   "0x1111",
			wantErr: true,
		},
		{
			name:    "not hex",
			input:   "0xzz11111111111111111111111111111111111111",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := ParseAddress(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, a.ToRaw())
		})
	}
}

func TestAddress_IsZero(t *testing.T) {
	require.True(t, Address{}.IsZero())
	require.False(t, MustParseAddress("0x1111111111111111111111111111111111111111").IsZero())
}

func TestAddress_JSON(t *testing.T) {
	a := MustParseAddress("0x1111111111111111111111111111111111111111")
	data, err := json.Marshal(a)
	require.NoError(t, err)
	require.Equal(t, `"0x1111111111111111111111111111111111111111"`, string(data))

	var decoded Address
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, a, decoded)
}
