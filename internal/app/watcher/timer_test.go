package watcher

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type reloadRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *reloadRecorder) reload(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.paths = append(r.paths, path)
}

func (r *reloadRecorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.paths...)
}

func Test_ReloadTimer_CoalescesBurst(t *testing.T) {
	rec := &reloadRecorder{}

	timer := newReloadTimer(30*time.Millisecond, rec.reload)
	defer timer.Stop()

	timer.Reset("/etc/porter/porter.yaml")
	timer.Reset("/etc/porter/porter.yaml")
	timer.Reset("/srv/porter.yaml")

	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"/srv/porter.yaml"}, rec.snapshot())
}

func Test_ReloadTimer_RestartsQuietPeriod(t *testing.T) {
	rec := &reloadRecorder{}

	timer := newReloadTimer(50*time.Millisecond, rec.reload)
	defer timer.Stop()

	for i := 0; i < 5; i++ {
		timer.Reset("porter.yaml")
		time.Sleep(10 * time.Millisecond)
	}

	assert.Empty(t, rec.snapshot())
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	time.Sleep(80 * time.Millisecond)
	assert.Len(t, rec.snapshot(), 1)
}

func Test_ReloadTimer_FiresAgainAfterReload(t *testing.T) {
	rec := &reloadRecorder{}

	timer := newReloadTimer(10*time.Millisecond, rec.reload)
	defer timer.Stop()

	timer.Reset("porter.yaml")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, time.Second, 5*time.Millisecond)

	timer.Reset("porter.yaml")
	assert.Eventually(t, func() bool { return len(rec.snapshot()) == 2 }, time.Second, 5*time.Millisecond)
}

func Test_ReloadTimer_StopDropsPending(t *testing.T) {
	rec := &reloadRecorder{}

	timer := newReloadTimer(20*time.Millisecond, rec.reload)

	timer.Reset("porter.yaml")
	timer.Stop()
	timer.Reset("porter.yaml")

	time.Sleep(60 * time.Millisecond)

	assert.Empty(t, rec.snapshot())
}

func Test_ReloadTimer_StopWaitsForRunningReload(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	var finished bool

	timer := newReloadTimer(time.Millisecond, func(string) {
		close(started)
		<-release

		finished = true
	})

	timer.Reset("porter.yaml")
	<-started

	stopped := make(chan struct{})

	go func() {
		timer.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a reload was running")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	<-stopped

	assert.True(t, finished)
}
