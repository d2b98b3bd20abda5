// Package candidate selects one of the dictionary entries of a token.
package candidate

// Cursor is an index into n candidates.
// It saturates at both ends and stays at 0 when there are no candidates.
type Cursor struct {
	index int
	n     int
}

func NewCursor(n int) *Cursor {
	c := &Cursor{}
	c.Reset(n)
	return c
}

func (c *Cursor) Index() int {
	return c.index
}

func (c *Cursor) Len() int {
	return c.n
}

func (c *Cursor) Next() int {
	if c.index < c.n-1 {
		c.index++
	}
	return c.index
}

func (c *Cursor) Previous() int {
	if 0 < c.index {
		c.index--
	}
	return c.index
}

// Reset moves back to the first of n candidates.
func (c *Cursor) Reset(n int) {
	c.n = max(n, 0)
	c.index = 0
}

// resize keeps the index within n candidates.
func (c *Cursor) resize(n int) {
	c.n = max(n, 0)
	c.index = max(min(c.index, c.n-1), 0)
}
