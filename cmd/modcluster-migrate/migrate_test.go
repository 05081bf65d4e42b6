package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const legacy = `<subsystem xmlns="urn:jboss:domain:modcluster:1.0">
    <mod-cluster-config domain="group1" proxy-list="10.0.0.1:6666">
        <dynamic-load-provider history="9" decay="2">
            <load-metric type="cpu" capacity="42"/>
        </dynamic-load-provider>
    </mod-cluster-config>
</subsystem>
`

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "standalone-modcluster.xml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestMigrateRewritesLegacyFile(t *testing.T) {
	path := writeFile(t, legacy)
	m := &migrator{backupExt: ".backup", indent: "    "}

	res, err := m.migrate(path)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, schema.Version1_0, res.From)
	assert.Equal(t, path+".backup", res.Backup)

	backup, err := os.ReadFile(res.Backup)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(backup))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := codec.ParseBytes(data)
	require.NoError(t, err)
	assert.Equal(t, codec.CurrentNamespace, doc.Namespace)
	assert.Contains(t, string(data), `load-balancing-group="group1"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestMigrateDryRunLeavesFile(t *testing.T) {
	path := writeFile(t, legacy)
	m := &migrator{dryRun: true, backupExt: ".backup"}

	res, err := m.migrate(path)
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Empty(t, res.Backup)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, legacy, string(data))
	assert.NoFileExists(t, path+".backup")
}

func TestMigrateSkipsCurrentFile(t *testing.T) {
	current := `<subsystem xmlns="urn:jboss:domain:modcluster:1.2"><mod-cluster-config connector="ajp"/></subsystem>`
	path := writeFile(t, current)

	res, err := (&migrator{backupExt: ".backup"}).migrate(path)
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.NoFileExists(t, path+".backup")
}

func TestMigrateReportsParseErrors(t *testing.T) {
	path := writeFile(t, `<subsystem xmlns="urn:jboss:domain:modcluster:9.9"/>`)

	_, err := (&migrator{}).migrate(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, codec.ErrUnknownNamespace)
}
