package config

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultkeeper/multivault/pkg/core"
)

func TestLoad(t *testing.T) {
	t.Setenv("APPROVERS", "0x1111111111111111111111111111111111111111, 0x2222222222222222222222222222222222222222")
	t.Setenv("POOL_BALANCE", "2500")
	t.Setenv("SETTLEMENT_URL", "http://settlement.local")

	c := Load()
	require.Equal(t, 8081, c.API.Port)
	require.Equal(t, "INFO", c.App.LogLevel)
	require.Equal(t, 9010, c.App.MetricsPort)
	require.Equal(t, addressList{
		core.MustParseAddress("0x1111111111111111111111111111111111111111"),
		core.MustParseAddress("0x2222222222222222222222222222222222222222"),
	}, c.App.Approvers)
	require.Equal(t, "2500", c.App.PoolBalance.String())
	require.Equal(t, "http://settlement.local", c.App.SettlementURL)
	require.Equal(t, 60, c.App.ProposalRateLimit)
}

func TestLoad_badApprovers(t *testing.T) {
	t.Setenv("APPROVERS", "nonsense")
	require.Panics(t, func() {
		Load()
	})
}
