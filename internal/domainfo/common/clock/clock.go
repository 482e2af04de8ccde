// Package clock abstracts time so TTL arithmetic can be tested
// deterministically.
package clock

import "time"

type Clock interface {
	Now() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (c RealClock) Now() time.Time {
	return time.Now()
}

// MockClock returns a fixed time that tests can advance manually.
type MockClock struct {
	CurrentTime time.Time
}

func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

func (c *MockClock) Advance(d time.Duration) {
	c.CurrentTime = c.CurrentTime.Add(d)
}
