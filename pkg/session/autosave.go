package session

import (
	"context"
	"sync"
	"time"

	"github.com/chenBenjamin97/model-checker/pkg/utils"
)

//AutoSaver submits a session in the background on a fixed interval
type AutoSaver struct {
	session  *Session
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

//NewAutoSaver returns a stopped auto saver. A non positive interval means utils.AutoSaveInterval
func NewAutoSaver(s *Session, interval time.Duration) *AutoSaver {
	if interval <= 0 {
		interval = utils.AutoSaveInterval
	}
	return &AutoSaver{session: s, interval: interval}
}

//Start runs automatic submissions until ctx is cancelled or Stop is called
func (a *AutoSaver) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.cancel != nil {
		return ErrAlreadyActive
	}

	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.run(ctx, a.done)
	return nil
}

func (a *AutoSaver) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			//failures are reported through the session's notices
			if err := a.session.Submit(ctx, false); err != nil {
				a.session.log.Debugf("AutoSaver: %v", err)
			}
		}
	}
}

//Stop halts the auto saver and waits for an in flight submission to return
func (a *AutoSaver) Stop() {
	a.mu.Lock()
	cancel, done := a.cancel, a.done
	a.cancel, a.done = nil, nil
	a.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
