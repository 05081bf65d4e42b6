package watch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cuemby/modcluster/pkg/codec"
	"github.com/cuemby/modcluster/pkg/metrics"
	"github.com/cuemby/modcluster/pkg/schema"
	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const valid = `<subsystem xmlns="urn:jboss:domain:modcluster:1.1">
    <mod-cluster-config>
        <proxies balancer="b1"/>
    </mod-cluster-config>
</subsystem>
`

func TestShouldTrigger(t *testing.T) {
	path := filepath.Clean("/etc/modcluster/subsystem.xml")
	tests := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{name: "write", evt: fsnotify.Event{Name: path, Op: fsnotify.Write}, want: true},
		{name: "rename into place", evt: fsnotify.Event{Name: path, Op: fsnotify.Create}, want: true},
		{name: "removed", evt: fsnotify.Event{Name: path, Op: fsnotify.Remove}, want: true},
		{name: "chmod", evt: fsnotify.Event{Name: path, Op: fsnotify.Chmod}, want: false},
		{name: "sibling", evt: fsnotify.Event{Name: "/etc/modcluster/other.xml", Op: fsnotify.Write}, want: false},
		{name: "editor swap file", evt: fsnotify.Event{Name: "/etc/modcluster/.subsystem.xml.swp", Op: fsnotify.Write}, want: false},
		{name: "empty", evt: fsnotify.Event{Op: fsnotify.Write}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldTrigger(path, tt.evt))
		})
	}
}

func TestReloadReportsOutcome(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subsystem.xml")
	require.NoError(t, os.WriteFile(path, []byte(valid), 0o600))

	var got *codec.Document
	w := New(path, time.Millisecond, func(doc *codec.Document) { got = doc }, nil)

	success := metrics.ReloadsTotal.WithLabelValues(metrics.OutcomeSuccess)
	failure := metrics.ReloadsTotal.WithLabelValues(metrics.OutcomeError)
	okBefore, errBefore := testutil.ToFloat64(success), testutil.ToFloat64(failure)

	require.NoError(t, w.Reload())
	require.NotNil(t, got)
	assert.Equal(t, schema.Version1_1, got.Version)
	assert.Equal(t, okBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, "healthy", metrics.GetHealth().Components[metrics.ComponentConfig])

	require.NoError(t, os.WriteFile(path, []byte(`<subsystem xmlns="urn:jboss:domain:modcluster:1.1"><bogus/></subsystem>`), 0o600))
	err := w.Reload()
	assert.True(t, codec.IsKind(err, codec.UnexpectedElement))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(failure))
	assert.Equal(t, "not_ready", metrics.GetReadiness().Status)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "subsystem.xml")
	require.NoError(t, os.WriteFile(path, []byte(valid), 0o600))

	var (
		mu       sync.Mutex
		versions []schema.Version
	)
	w := New(path, 20*time.Millisecond, func(doc *codec.Document) {
		mu.Lock()
		defer mu.Unlock()
		versions = append(versions, doc.Version)
	}, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	upgraded := `<subsystem xmlns="urn:jboss:domain:modcluster:1.2"><mod-cluster-config connector="ajp"/></subsystem>`
	require.NoError(t, os.WriteFile(path, []byte(upgraded), 0o600))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(versions) >= 2 && versions[len(versions)-1] == schema.Version1_2
	}, 5*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, schema.Version1_1, versions[0])
	mu.Unlock()
}
