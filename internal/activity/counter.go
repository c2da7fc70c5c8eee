// Package activity counts nested show calls that are waiting for a matching pop.
package activity

// Counter is never negative. It is not safe for concurrent use; the overlay
// only touches it from its scheduler.
type Counter struct {
	n int
}

func (c *Counter) Increment() {
	c.n++
}

// DecrementSaturating lowers the count by one. It reports true only when this
// call moved the count from one to zero; decrementing at zero does nothing.
func (c *Counter) DecrementSaturating() bool {
	if c.n == 0 {
		return false
	}
	c.n--
	return c.n == 0
}

func (c *Counter) IsZero() bool {
	return c.n == 0
}

func (c *Counter) Reset() {
	c.n = 0
}

func (c *Counter) Count() int {
	return c.n
}
