package natdump

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lirkwood/netdox-sub001/internal/config"
	"github.com/lirkwood/netdox-sub001/internal/netmodel"
	"github.com/lirkwood/netdox-sub001/internal/plugin"
)

func TestParse(t *testing.T) {
	pairs, err := Parse(`
# office firewall
192.168.0.10 -> 100.64.0.10
// legacy range
192.168.0.11->100.64.0.11
`)
	require.NoError(t, err)
	assert.Equal(t, []netmodel.NATPair{
		{Addr: "192.168.0.10", Alias: "100.64.0.10"},
		{Addr: "192.168.0.11", Alias: "100.64.0.11"},
	}, pairs)
}

func TestParseRejectsMalformedLines(t *testing.T) {
	_, err := Parse("192.168.0.10 100.64.0.10\n")
	assert.Error(t, err, "missing arrow")

	_, err = Parse("192.168.0.256 -> 100.64.0.10\n")
	assert.Error(t, err, "invalid address")
}

func TestPluginRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nat.dump")
	require.NoError(t, os.WriteFile(path, []byte("192.168.0.10 -> 100.64.0.10\n"), 0o644))

	p := &Plugin{Path: path}
	batch, err := p.Run(context.Background(), plugin.StageNAT, nil)
	require.NoError(t, err)
	require.Equal(t, 1, batch.Len())

	loc, err := netmodel.NewLocator(nil)
	require.NoError(t, err)
	net := netmodel.NewNetwork(config.NetworkPolicy{}, loc, nil)
	require.NoError(t, batch.Apply(net))

	inside, ok := net.IPs.Get("192.168.0.10")
	require.True(t, ok)
	assert.Equal(t, "100.64.0.10", inside.NAT)
}

func TestPluginRunMissingFile(t *testing.T) {
	p := &Plugin{Path: filepath.Join(t.TempDir(), "absent.dump")}
	_, err := p.Run(context.Background(), plugin.StageNAT, nil)
	assert.Error(t, err)
}
