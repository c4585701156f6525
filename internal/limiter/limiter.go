// Package limiter cuts a record list down before it reaches the grid.
package limiter

import (
	"fmt"
)

// Config holds the record-limiting parameters.
type Config struct {
	Limit  int // Keep only this many records (0 = unlimited)
	Offset int // Skip the first N records (0 = no skip)
	Tail   int // Keep only the last N records (0 = disabled); mutually exclusive with Limit
}

// Validate checks for conflicting flag combinations:
//   - Limit and Tail are mutually exclusive
//   - Offset is ignored when Tail is set
//   - all values must be non-negative
func (c Config) Validate() error {
	if c.Limit < 0 {
		return fmt.Errorf("--limit must be non-negative, got %d", c.Limit)
	}
	if c.Offset < 0 {
		return fmt.Errorf("--offset must be non-negative, got %d", c.Offset)
	}
	if c.Tail < 0 {
		return fmt.Errorf("--tail must be non-negative, got %d", c.Tail)
	}
	if c.Limit > 0 && c.Tail > 0 {
		return fmt.Errorf("--limit and --tail are mutually exclusive")
	}
	return nil
}

// IsActive returns true if any limiting is configured.
func (c Config) IsActive() bool {
	return c.Limit > 0 || c.Offset > 0 || c.Tail > 0
}

// Bounds returns the half-open range of a list of length n that survives the
// limits.
func (c Config) Bounds(n int) (start, end int) {
	if c.Tail > 0 {
		return max(0, n-c.Tail), n
	}
	start = min(c.Offset, n)
	end = n
	if c.Limit > 0 {
		end = min(start+c.Limit, n)
	}
	return max(0, start), end
}

// Apply returns the records that survive the limits. The result shares the
// backing array of items.
func Apply[T any](c Config, items []T) []T {
	if !c.IsActive() {
		return items
	}
	start, end := c.Bounds(len(items))
	return items[start:end]
}

// Describe summarises the active limits for a status line, e.g.
// "offset 5, limit 10" or "last 20".
func (c Config) Describe() string {
	switch {
	case c.Tail > 0:
		return fmt.Sprintf("last %d", c.Tail)
	case c.Offset > 0 && c.Limit > 0:
		return fmt.Sprintf("offset %d, limit %d", c.Offset, c.Limit)
	case c.Offset > 0:
		return fmt.Sprintf("offset %d", c.Offset)
	case c.Limit > 0:
		return fmt.Sprintf("limit %d", c.Limit)
	}
	return ""
}
