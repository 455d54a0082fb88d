package physics

import "time"

// HistorySize is the number of drag samples kept for velocity estimation.
const HistorySize = 8

// Sample is one tracked drag position.
type Sample struct {
	Position float64
	At       time.Time
}

// History is a fixed-capacity circular buffer of drag samples.
// The oldest sample is overwritten once the buffer is full.
type History struct {
	buf  []Sample
	size int
	w    int // write position
	len  int // current fill level
}

// NewHistory creates a history holding at most size samples.
func NewHistory(size int) *History {
	if size < 1 {
		size = 1
	}
	return &History{
		buf:  make([]Sample, size),
		size: size,
	}
}

// Push appends a sample, evicting the oldest if full.
func (h *History) Push(s Sample) {
	h.buf[h.w] = s
	h.w = (h.w + 1) % h.size
	if h.len < h.size {
		h.len++
	}
}

// Len returns the number of stored samples.
func (h *History) Len() int { return h.len }

// Samples returns the stored samples, oldest first.
func (h *History) Samples() []Sample {
	if h.len == 0 {
		return nil
	}
	out := make([]Sample, h.len)
	start := (h.w - h.len + h.size) % h.size
	for i := range h.len {
		out[i] = h.buf[(start+i)%h.size]
	}
	return out
}

// Clear drops all samples.
func (h *History) Clear() {
	h.w = 0
	h.len = 0
}
