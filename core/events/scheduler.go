package events

import "time"

// KindSchedulerTick identifies a scheduler tick.
const KindSchedulerTick Kind = "scheduler.tick"

// SchedulerTick carries the time at which the tick was produced.
type SchedulerTick struct{ Base }

// Now is the tick time.
func (t SchedulerTick) Now() time.Time { return t.Timestamp() }

// NewSchedulerTick creates a tick for the given time.
func NewSchedulerTick(now time.Time) SchedulerTick {
	return SchedulerTick{Base: NewBaseAt(KindSchedulerTick, now)}
}
