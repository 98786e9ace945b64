package runtime

import "time"

// LoopControl is an observable per-iteration handle bound by `as name`
// (spec §3 "LoopControl"). Every loop construct owns one; scripts may
// read its queries but only the evaluator mutates its counters.
type LoopControl struct {
	count           int
	finished        int
	remainingIgnore int
	ignored         int
	timeStart       time.Time
	timeEnd         time.Time
	hasEnded        bool
	lastCountTime   time.Time
	hasLastCount    bool
	running         bool
}

func NewLoopControl() *LoopControl {
	return &LoopControl{timeStart: time.Now(), running: true}
}

func (l *LoopControl) finish() {
	l.running = false
	l.timeEnd = time.Now()
	l.hasEnded = true
}

func (l *LoopControl) count_() {
	l.count++
	l.lastCountTime = time.Now()
	l.hasLastCount = true
}

func (l *LoopControl) countFinished() { l.finished++ }

func (l *LoopControl) ignore() { l.ignored++ }

// Count is the number of iterations entered.
func (l *LoopControl) Count() int { return l.count }

// Finished is the number of iterations that ran to completion.
func (l *LoopControl) Finished() int { return l.finished }

// Ignored is the number of iterations skipped via the remaining-ignore
// counter.
func (l *LoopControl) Ignored() int { return l.ignored }

// RemainingIgnore is how many further iterations will be skipped.
func (l *LoopControl) RemainingIgnore() int {
	r := l.remainingIgnore - l.ignored
	if r < 0 {
		return 0
	}
	return r
}

func (l *LoopControl) IgnoreNext(n int) { l.remainingIgnore += n }
func (l *LoopControl) ResetIgnore()     { l.remainingIgnore = l.ignored }

// ShouldSkip reports whether the current iteration should be skipped and,
// if so, records it as ignored.
func (l *LoopControl) ShouldSkip() bool {
	if l.RemainingIgnore() > 0 {
		l.ignore()
		return true
	}
	return false
}

// Begin is called once per iteration before the body runs.
func (l *LoopControl) Begin() { l.count_() }

// End is called once per iteration after the body completes normally.
func (l *LoopControl) End() { l.countFinished() }

// Finish marks the loop as terminated.
func (l *LoopControl) Finish() { l.finish() }

func (l *LoopControl) ElapsedTotal() time.Duration {
	if l.hasEnded {
		return l.timeEnd.Sub(l.timeStart)
	}
	return time.Since(l.timeStart)
}

func (l *LoopControl) AveragePerIteration() time.Duration {
	if l.count <= 0 {
		return 0
	}
	return l.ElapsedTotal() / time.Duration(l.count)
}

func (l *LoopControl) TimeOfLastIteration() time.Duration {
	if !l.hasLastCount {
		return 0
	}
	return l.lastCountTime.Sub(l.timeStart)
}

func (l *LoopControl) Running() bool { return l.running }

func (l *LoopControl) String() string {
	return "<LoopControl>"
}
