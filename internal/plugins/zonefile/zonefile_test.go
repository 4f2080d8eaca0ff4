package zonefile

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

func TestParseBasicZone(t *testing.T) {
	z, err := ParseText("$ORIGIN example.com.\n$TTL 3600\n@ IN A 192.0.2.1\nwww IN CNAME app\n")
	require.NoError(t, err)
	assert.Equal(t, "example.com", z.Origin)
	assert.Equal(t, []Record{
		{Name: "example.com", Type: "A", Data: "192.0.2.1"},
		{Name: "www.example.com", Type: "CNAME", Data: "app.example.com"},
	}, z.Records)
}

func TestParseOwnerInheritance(t *testing.T) {
	z, err := ParseText(`
$ORIGIN example.com.
app  IN A 192.0.2.1
     IN A 192.0.2.2
`)
	require.NoError(t, err)
	require.Len(t, z.Records, 2)
	assert.Equal(t, "app.example.com", z.Records[0].Name)
	assert.Equal(t, "app.example.com", z.Records[1].Name)
}

func TestParseSkipsIrrelevantTypes(t *testing.T) {
	z, err := ParseText(`
$ORIGIN example.com.
@    IN SOA ns1.example.com. admin.example.com. ( 1 7200 3600 1209600 3600 )
@    IN NS  ns1.example.com.
@    IN MX  10 mail.example.com.
@    IN TXT "v=spf1 -all"
app  IN A   192.0.2.1
`)
	require.NoError(t, err)
	assert.Equal(t, []Record{{Name: "app.example.com", Type: "A", Data: "192.0.2.1"}}, z.Records)
}

func TestParseComments(t *testing.T) {
	z, err := ParseText("$ORIGIN example.com.\napp IN A 192.0.2.1 ; primary\n; whole-line comment\n")
	require.NoError(t, err)
	require.Len(t, z.Records, 1)
	assert.Equal(t, "192.0.2.1", z.Records[0].Data)
}

func TestParseReverseZone(t *testing.T) {
	z, err := ParseText(`
$ORIGIN 2.0.192.in-addr.arpa.
1 IN PTR app.example.com.
`)
	require.NoError(t, err)
	require.Len(t, z.Records, 1)
	assert.Equal(t, "1.2.0.192.in-addr.arpa", z.Records[0].Name)
	assert.Equal(t, "app.example.com", z.Records[0].Data)
}

func TestParseErrors(t *testing.T) {
	_, err := ParseText("app IN A 192.0.2.1\n")
	assert.Error(t, err, "record before $ORIGIN")

	_, err = ParseText("$ORIGIN example.com.\napp IN BOGUS data\n")
	assert.Error(t, err, "unknown type")

	_, err = ParseText("$ORIGIN example.com.\nIN A 192.0.2.1\n")
	assert.Error(t, err, "owner omitted on first record")
}

func TestAddrFromReverseName(t *testing.T) {
	addr, err := addrFromReverseName("4.3.2.1.in-addr.arpa")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3.4", addr)

	_, err = addrFromReverseName("3.2.1.in-addr.arpa")
	assert.Error(t, err, "partial reverse name")

	_, err = addrFromReverseName("app.example.com")
	assert.Error(t, err)
}

func TestPluginRun(t *testing.T) {
	dir := t.TempDir()
	forward := `$ORIGIN example.com.
app  IN A     192.168.0.5
www  IN CNAME app
`
	reverse := `$ORIGIN 0.168.192.in-addr.arpa.
5 IN PTR app.example.com.
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "example.com.zone"), []byte(forward), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reverse.zone"), []byte(reverse), 0o644))

	p := &Plugin{Dir: dir}
	batch, err := p.Run(context.Background(), plugin.StageDNS, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, batch.Len())

	loc, err := netmodel.NewLocator(nil)
	require.NoError(t, err)
	net := netmodel.NewNetwork(config.NetworkPolicy{}, loc, nil)
	require.NoError(t, batch.Apply(net))

	d, ok := net.Domains.Get("app.example.com")
	require.True(t, ok)
	assert.Equal(t, []string{"192.168.0.5"}, d.PrivateIPs())

	www, ok := net.Domains.Get("www.example.com")
	require.True(t, ok)
	assert.Equal(t, []string{"app.example.com"}, www.CNAMEs())

	ip, ok := net.IPs.Get("192.168.0.5")
	require.True(t, ok)
	assert.Equal(t, []string{"app.example.com"}, ip.PTR())
}

func TestPluginRunFailsOnBadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.zone"), []byte("no origin here\n"), 0o644))

	p := &Plugin{Dir: dir}
	_, err := p.Run(context.Background(), plugin.StageDNS, nil)
	assert.Error(t, err)
}
