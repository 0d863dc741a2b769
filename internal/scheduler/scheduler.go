package scheduler

import (
	"sync"
	"time"
)

// TurnScheduler owns one cancellable turn timer per room. Arming a room
// replaces its previous handle under a fresh generation, so a stale timeout
// can never double-advance a turn.
type TurnScheduler struct {
	mu      sync.Mutex
	timeout time.Duration
	onFire  func(roomID string)
	armed   map[string]*handle
	gen     uint64
}

type handle struct {
	timer *time.Timer
	gen   uint64
}

func New(timeout time.Duration) *TurnScheduler {
	return &TurnScheduler{
		timeout: timeout,
		armed:   make(map[string]*handle),
	}
}

// SetCallback installs the function invoked when a room's timer fires. Must
// be set before the first Arm.
func (that *TurnScheduler) SetCallback(onFire func(roomID string)) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.onFire = onFire
}

// Arm - (re)starts the room's turn timer. Any previously scheduled firing
// for the room is invalidated.
func (that *TurnScheduler) Arm(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if prev, ok := that.armed[roomID]; ok {
		prev.timer.Stop()
	}

	// Generations never repeat, so a firing that lost the Stop race can
	// never match a later handle.
	that.gen++
	gen := that.gen

	armed := &handle{gen: gen}
	armed.timer = time.AfterFunc(that.timeout, func() {
		that.fire(roomID, gen)
	})
	that.armed[roomID] = armed
}

// Cancel - stops and discards the room's timer, if any.
func (that *TurnScheduler) Cancel(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if armed, ok := that.armed[roomID]; ok {
		armed.timer.Stop()
		delete(that.armed, roomID)
	}
}

// fire runs on the timer goroutine; the generation check under the scheduler
// lock filters out firings that lost a race with Arm or Cancel.
func (that *TurnScheduler) fire(roomID string, gen uint64) {
	that.mu.Lock()

	armed, ok := that.armed[roomID]
	if !ok || armed.gen != gen {
		that.mu.Unlock()
		return
	}

	delete(that.armed, roomID)
	onFire := that.onFire
	that.mu.Unlock()

	if onFire != nil {
		onFire(roomID)
	}
}
