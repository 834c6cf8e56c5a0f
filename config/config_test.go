package config

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/hubsync/go-hub/common/types"
)

const testConfig = `
[main]
data-folder = "/var/lib/hub"
nickname = "bee"

[sync]
interval = "45s"
hashes-per-fetch = 25

[client]
request-timeout = "3s"
streaming = false

[api]
listener = "127.0.0.1:9000"

[logging]
level = "debug"

[logging.modules]
sync = "warn"

[peers]
hub-a = "10.0.0.1:2283"
`

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/hub.toml", []byte(testConfig), 0o600))

	vip := viper.New()
	require.NoError(t, LoadConfig(fs, "/etc/hub.toml", vip))
	conf, err := Unmarshal(vip)
	require.NoError(t, err)

	require.Equal(t, "/var/lib/hub", conf.DataDir)
	require.Equal(t, "bee", conf.Nickname)
	require.Equal(t, 45*time.Second, conf.Sync.Interval)
	require.Equal(t, 25, conf.Sync.HashesPerFetch)
	// untouched values keep their defaults
	require.Equal(t, DefaultConfig().Sync.FetchBatchSize, conf.Sync.FetchBatchSize)
	require.Equal(t, 3*time.Second, conf.Client.RequestTimeout)
	require.False(t, conf.Client.Streaming)
	require.Equal(t, "127.0.0.1:9000", conf.API.Listener)
	require.Equal(t, "debug", conf.Logging.Level)
	require.Equal(t, "warn", conf.Logging.Modules["sync"])
	require.Equal(t, PeerAddresses{"hub-a": "10.0.0.1:2283"}, conf.Peers)
}

func TestLoadConfigMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, LoadConfig(fs, "", viper.New()))
	require.Error(t, LoadConfig(fs, "/nope.toml", viper.New()))
}

func TestPeersFromFlags(t *testing.T) {
	vip := viper.New()
	vip.Set("peers", "a@127.0.0.1:1, b@127.0.0.1:2")
	conf, err := Unmarshal(vip)
	require.NoError(t, err)
	require.Equal(t, PeerAddresses{"a": "127.0.0.1:1", "b": "127.0.0.1:2"}, conf.Peers)

	vip.Set("peers", []string{"c@127.0.0.1:3"})
	conf, err = Unmarshal(vip)
	require.NoError(t, err)
	require.Equal(t, PeerAddresses{"c": "127.0.0.1:3"}, conf.Peers)
}

func TestParsePeerAddresses(t *testing.T) {
	for _, tc := range []struct {
		desc    string
		entries []string
		want    PeerAddresses
		err     bool
	}{
		{desc: "empty", want: PeerAddresses{}},
		{desc: "skips blanks", entries: []string{" ", "a@h:1"}, want: PeerAddresses{types.PeerID("a"): "h:1"}},
		{desc: "missing separator", entries: []string{"h:1"}, err: true},
		{desc: "missing id", entries: []string{"@h:1"}, err: true},
		{desc: "conflict", entries: []string{"a@h:1", "a@h:2"}, err: true},
		{desc: "repeated", entries: []string{"a@h:1", "a@h:1"}, want: PeerAddresses{"a": "h:1"}},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := ParsePeerAddresses(tc.entries)
			if tc.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPeerAddressesFlag(t *testing.T) {
	var peers PeerAddresses
	require.NoError(t, peers.Set("b@h:2,a@h:1"))
	require.NoError(t, peers.Set("c@h:3"))
	require.Equal(t, "a@h:1,b@h:2,c@h:3", peers.String())
	require.Error(t, peers.Set("a@h:9"))
	require.Equal(t, "peers", peers.Type())
}
