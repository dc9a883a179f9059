package orchestration

import "time"

const (
	defaultSettleDelay  = 500 * time.Millisecond
	defaultTickInterval = 100 * time.Millisecond
	defaultLocale       = "en-IN"
)

type ControllerOption func(*Controller)

// WithSilenceDuration sets how long the transcript has to stay unchanged
// before the utterance is considered complete.
func WithSilenceDuration(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.detector = NewSilenceDetector(d)
		}
	}
}

// WithSettleDelay sets the pause between the end of speech and resumed
// listening.
func WithSettleDelay(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d >= 0 {
			c.settleDelay = d
		}
	}
}

func WithTickInterval(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.tickInterval = d
		}
	}
}

func WithLocale(locale string) ControllerOption {
	return func(c *Controller) {
		if locale != "" {
			c.locale = locale
		}
	}
}

func WithClock(clock Clock) ControllerOption {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func WithObserver(observer Observer) ControllerOption {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// withSpawn replaces how answer fetches are started, tests use it to run
// them step by step.
func withSpawn(spawn func(func())) ControllerOption {
	return func(c *Controller) {
		c.spawn = spawn
	}
}

// withDeviceCalls replaces how capture and playback calls are run, tests use
// it to run them inline.
func withDeviceCalls(run func(func())) ControllerOption {
	return func(c *Controller) {
		c.runDevice = run
	}
}
