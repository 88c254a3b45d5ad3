package watcher

import (
	"sync"
	"time"
)

// reloadTimer schedules one reload of the config file once its events settle.
// Stop cancels a pending reload and waits for a running one.
type reloadTimer struct {
	mu      sync.Mutex
	delay   time.Duration
	reload  func(path string)
	timer   *time.Timer
	path    string
	stopped bool
	running sync.WaitGroup
}

func newReloadTimer(delay time.Duration, reload func(path string)) *reloadTimer {
	return &reloadTimer{delay: delay, reload: reload}
}

// Reset remembers path as the file to load and restarts the quiet period
func (r *reloadTimer) Reset(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopped {
		return
	}

	r.path = path

	if r.timer == nil {
		r.timer = time.AfterFunc(r.delay, r.fire)
		return
	}

	r.timer.Reset(r.delay)
}

// Stop drops any pending reload and returns once no reload is running
func (r *reloadTimer) Stop() {
	r.mu.Lock()
	r.stopped = true

	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()

	r.running.Wait()
}

func (r *reloadTimer) fire() {
	r.mu.Lock()

	if r.stopped || r.path == "" {
		r.mu.Unlock()
		return
	}

	path := r.path
	r.path = ""
	r.running.Add(1)
	r.mu.Unlock()

	defer r.running.Done()

	r.reload(path)
}
