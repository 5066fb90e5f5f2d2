package danmaku

import "time"

// Clock reports the current time as an offset from an arbitrary origin.
type Clock interface {
	Now() time.Duration
}

// Handle cancels work started by a Scheduler.
type Handle interface {
	Cancel()
}

// Scheduler runs periodic work.
type Scheduler interface {
	// Every runs fn once per interval, starting one interval from now,
	// until the returned handle is cancelled.
	Every(interval time.Duration, fn func()) Handle
}

// Timer is the time source a Manager needs.
type Timer interface {
	Clock
	Scheduler
}

// job is one periodic task registered on a Timeline.
type job struct {
	interval  time.Duration
	next      time.Duration
	fn        func()
	cancelled bool
	tl        *Timeline
}

// Cancel stops the job. Cancelling twice is a no-op.
func (j *job) Cancel() {
	if j.cancelled {
		return
	}
	j.cancelled = true
	j.tl.remove(j)
}

// Timeline is a manually advanced clock and scheduler. The host calls
// Advance once per frame with the elapsed time; frame listeners run first,
// then every job that has come due. Everything happens on the caller's
// goroutine, so a Timeline must not be shared across goroutines.
type Timeline struct {
	now    time.Duration
	jobs   []*job
	frames []func(dt time.Duration)
}

// NewTimeline creates a Timeline at time zero.
func NewTimeline() *Timeline {
	return &Timeline{}
}

// Now returns the total time advanced so far.
func (t *Timeline) Now() time.Duration {
	return t.now
}

// Every schedules fn every interval. Non-positive intervals panic.
func (t *Timeline) Every(interval time.Duration, fn func()) Handle {
	if interval <= 0 {
		panic("danmaku: schedule interval must be positive")
	}
	j := &job{interval: interval, next: t.now + interval, fn: fn, tl: t}
	t.jobs = append(t.jobs, j)
	return j
}

// OnFrame registers fn to run at the start of every Advance, before due
// jobs. Surfaces use it to step their transitions.
func (t *Timeline) OnFrame(fn func(dt time.Duration)) {
	t.frames = append(t.frames, fn)
}

// Jobs returns the number of live periodic jobs.
func (t *Timeline) Jobs() int {
	return len(t.jobs)
}

// Advance moves time forward by dt. A job runs at most once per Advance;
// when a long frame skips several periods the next run is realigned to one
// interval after now.
func (t *Timeline) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	t.now += dt

	for _, fn := range t.frames {
		fn(dt)
	}

	due := make([]*job, 0, len(t.jobs))
	for _, j := range t.jobs {
		if j.next <= t.now {
			due = append(due, j)
		}
	}
	for _, j := range due {
		if j.cancelled {
			continue
		}
		j.next += j.interval
		if j.next <= t.now {
			j.next = t.now + j.interval
		}
		j.fn()
	}
}

func (t *Timeline) remove(j *job) {
	for i, other := range t.jobs {
		if other == j {
			t.jobs = append(t.jobs[:i], t.jobs[i+1:]...)
			return
		}
	}
}
