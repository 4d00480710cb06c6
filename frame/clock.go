package frame

import "time"

// frameClock tracks elapsed time since the framework was created. The
// now function is swappable so tests can drive the clock.
type frameClock struct {
	start time.Time
	now   func() time.Time
}

func newFrameClock() *frameClock {
	return &frameClock{start: time.Now(), now: time.Now}
}

// seconds returns the elapsed time since start.
func (c *frameClock) seconds() float64 {
	return c.now().Sub(c.start).Seconds()
}
