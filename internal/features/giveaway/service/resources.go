package service

import (
	"sync"

	"github.com/jonboulle/clockwork"
)

// Resources bundles everything a live giveaway holds open: the countdown
// timer, the status broadcast loop and the chat subscription. Release tears
// all of them down once; parts attached after Release are stopped immediately.
type Resources struct {
	once sync.Once

	mu          sync.Mutex
	released    bool
	countdown   clockwork.Timer
	stopStatus  func()
	unsubscribe func()
}

func (r *Resources) SetCountdown(t clockwork.Timer) {
	r.mu.Lock()
	if !r.released {
		r.countdown = t
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	t.Stop()
}

func (r *Resources) SetStatusStop(stop func()) {
	r.mu.Lock()
	if !r.released {
		r.stopStatus = stop
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	stop()
}

func (r *Resources) SetUnsubscribe(unsubscribe func()) {
	r.mu.Lock()
	if !r.released {
		r.unsubscribe = unsubscribe
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	unsubscribe()
}

// Release stops the countdown, the status loop and the chat listener.
// Safe to call any number of times, including after the countdown fired.
func (r *Resources) Release() {
	r.once.Do(func() {
		r.mu.Lock()
		r.released = true
		countdown, stopStatus, unsubscribe := r.countdown, r.stopStatus, r.unsubscribe
		r.countdown, r.stopStatus, r.unsubscribe = nil, nil, nil
		r.mu.Unlock()

		if countdown != nil {
			countdown.Stop()
		}
		if stopStatus != nil {
			stopStatus()
		}
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}
