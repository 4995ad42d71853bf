package textline

import "sync"

// DefaultPoolSize bounds the free list of a pool made by NewPool(0).
const DefaultPoolSize = 3

// Pool recycles Lines across measurement calls. A nil Pool allocates.
type Pool struct {
	mu   sync.Mutex
	free []*Line
	max  int
}

func NewPool(size int) *Pool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &Pool{max: size}
}

// Acquire returns a Line that the caller must Set before use.
func (p *Pool) Acquire() *Line {
	if p == nil {
		return &Line{}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if n := len(p.free); n > 0 {
		l := p.free[n-1]
		p.free = p.free[:n-1]
		return l
	}
	return &Line{}
}

// Release drops l's references and keeps it if there is room.
func (p *Pool) Release(l *Line) {
	if p == nil || l == nil {
		return
	}
	l.reset()
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) < p.max {
		p.free = append(p.free, l)
	}
}

// Idle returns the number of pooled Lines.
func (p *Pool) Idle() int {
	if p == nil {
		return 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}
