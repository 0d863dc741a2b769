package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fireRecorder struct {
	mu    sync.Mutex
	fired []string
}

func (that *fireRecorder) record(roomID string) {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.fired = append(that.fired, roomID)
}

func (that *fireRecorder) count() int {
	that.mu.Lock()
	defer that.mu.Unlock()
	return len(that.fired)
}

func TestTurnScheduler_Fires(t *testing.T) {
	recorder := &fireRecorder{}

	sched := New(30 * time.Millisecond)
	sched.SetCallback(recorder.record)

	// When: a room is armed and the window elapses
	sched.Arm("42")

	require.Eventually(t, func() bool {
		return recorder.count() == 1
	}, time.Second, 5*time.Millisecond)

	// Then: the one-shot handle is spent, no second firing follows
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, 1, recorder.count())
}

func TestTurnScheduler_ArmReplaces(t *testing.T) {
	recorder := &fireRecorder{}

	sched := New(40 * time.Millisecond)
	sched.SetCallback(recorder.record)

	// When: the room is rearmed halfway through the window, twice
	sched.Arm("42")
	time.Sleep(20 * time.Millisecond)
	sched.Arm("42")
	time.Sleep(20 * time.Millisecond)
	sched.Arm("42")

	// Then: only the last handle fires; replaced handles stay silent
	require.Eventually(t, func() bool {
		return recorder.count() >= 1
	}, time.Second, 5*time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, 1, recorder.count())
}

func TestTurnScheduler_Cancel(t *testing.T) {
	recorder := &fireRecorder{}

	sched := New(20 * time.Millisecond)
	sched.SetCallback(recorder.record)

	// When: the room is cancelled before the window elapses
	sched.Arm("42")
	sched.Cancel("42")

	// Then: nothing fires
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, 0, recorder.count())
}
