package main

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"graphsync/internal/codec"
	"graphsync/internal/config"
)

// isolate keeps the config search away from the developer's files
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(config.EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
	return dir
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func decodeSnapshots(t *testing.T, doc string) []codec.Snapshot {
	t.Helper()
	var snaps []codec.Snapshot
	dec := yaml.NewDecoder(bytes.NewBufferString(doc))
	for {
		var s codec.Snapshot
		err := dec.Decode(&s)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		snaps = append(snaps, s)
	}
	return snaps
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func TestMirrorCommand(t *testing.T) {
	isolate(t)

	out := run(t, "mirror", "--nodes", "8", "--extra-edges", "3", "--rounds", "2", "--seed", "7")
	snaps := decodeSnapshots(t, out)
	require.Len(t, snaps, 2)
	source, replica := snaps[0], snaps[1]

	nodeKey := func(n codec.NodeState) string { return n.ID }
	edgeKey := func(e codec.EdgeState) string { return e.ID }
	assert.Len(t, source.Nodes, 8)
	assert.Equal(t, ids(source.Nodes, nodeKey), ids(replica.Nodes, nodeKey))
	assert.ElementsMatch(t, ids(source.Edges, edgeKey), ids(replica.Edges, edgeKey))
	assert.Equal(t, 2.0, replica.Step)

	for i := range source.Nodes {
		src, dst := source.Nodes[i], replica.Nodes[i]
		assert.Equal(t, src.Attributes["weight"], dst.Attributes["weight"], "node %s", src.ID)
		assert.Equal(t, true, dst.Attributes["ui.mirrored"], "replica marks %s", dst.ID)
		assert.Equal(t, true, src.Attributes["ui.mirrored"], "mark written back to %s", src.ID)
		assert.Equal(t, dst.Attributes["ui.rank"], src.Attributes["ui.rank"])
	}
}

func TestMirrorCommandJSON(t *testing.T) {
	isolate(t)

	out := run(t, "mirror", "--nodes", "3", "--rounds", "0", "--format", "json")
	assert.Contains(t, out, `"id": "n000"`)
}

func TestMirrorCommandRejectsFormat(t *testing.T) {
	isolate(t)

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"mirror", "--format", "xml"})
	assert.ErrorContains(t, cmd.Execute(), `unknown format "xml"`)
}

func TestMirrorCadenceFlag(t *testing.T) {
	tests := []struct {
		flag string
		want config.Cadence
	}{
		{"", config.CadenceBatch},
		{"realtime", config.CadenceRealtime},
		{"bogus", config.CadenceInteractive},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Cadence = config.CadenceBatch
			(&mirrorFlags{cadence: tt.flag}).apply(cfg)
			assert.Equal(t, tt.want, cfg.Cadence)
		})
	}

	isolate(t)
	out := run(t, "mirror", "--nodes", "4", "--rounds", "1", "--cadence", "realtime")
	assert.Len(t, decodeSnapshots(t, out), 2)
}

func TestConfigPaths(t *testing.T) {
	dir := isolate(t)
	explicit := filepath.Join(dir, "explicit")
	require.NoError(t, config.DefaultConfig().Save(filepath.Join(dir, config.ConfigFileName)))
	require.NoError(t, config.DefaultConfig().Save(filepath.Join(explicit, config.ConfigFileName)))
	t.Setenv(config.EnvConfigPath, explicit)

	out := run(t, "config", "--paths")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Regexp(t, `^env\s+in use\s+.*graphsync\.yaml$`, lines[0])
	assert.Regexp(t, `^cwd\s+shadowed\s+`, lines[1])
	assert.Regexp(t, `^xdg\s+missing\s+`, lines[2])
}

func TestConfigCommand(t *testing.T) {
	dir := isolate(t)

	out := run(t, "config")
	assert.Contains(t, out, "no config file found")
	assert.Contains(t, out, "Pipe to-source: suppression=direction attribute_only=true prefixes=ui.")

	path := filepath.Join(dir, "written.yaml")
	run(t, "config", "--write", path)

	out = run(t, "--config", path, "config", "--yaml")
	assert.Contains(t, out, "loaded from "+path)
	assert.Contains(t, out, "to_replica:")
}
