package textline

import (
	"sync"
	"testing"

	"go.uber.org/goleak"

	"github.com/ByLCY/paralayout/direction"
)

func TestPoolReuse(t *testing.T) {
	p := NewPool(0)
	l := p.Acquire()
	l.Set(Params{Face: mono, Text: []rune("abc"), End: 3, Dir: direction.LTR, Dirs: direction.AllLeftToRight})
	p.Release(l)
	if p.Idle() != 1 {
		t.Fatalf("归还后空闲数期望 1，实际 %d", p.Idle())
	}
	if got := p.Acquire(); got != l || got.Len() != 0 {
		t.Fatalf("应复用已清空的 Line")
	}

	var nilPool *Pool
	nilPool.Release(nilPool.Acquire())
	if nilPool.Idle() != 0 {
		t.Fatalf("nil Pool 不应缓存")
	}
}

func TestPoolBounded(t *testing.T) {
	p := NewPool(2)
	lines := []*Line{p.Acquire(), p.Acquire(), p.Acquire()}
	for _, l := range lines {
		p.Release(l)
	}
	if p.Idle() != 2 {
		t.Fatalf("空闲数不应超过容量 2，实际 %d", p.Idle())
	}
}

func TestPoolRecycles(t *testing.T) {
	p := NewPool(1)
	a, b := p.Acquire(), p.Acquire()
	p.Release(a)
	p.Release(b)
	if got := p.Idle(); got != 1 {
		t.Fatalf("池容量为 1，实际空闲 %d", got)
	}
	if got := p.Acquire(); got != a {
		t.Fatalf("应复用先归还的 Line")
	}

	var nilPool *Pool
	if nilPool.Acquire() == nil {
		t.Fatalf("nil 池也应分配 Line")
	}
	nilPool.Release(a)
}

func TestPoolConcurrent(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := NewPool(DefaultPoolSize)
	text := []rune("hello world")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				l := p.Acquire()
				l.Set(Params{Face: mono, Text: text, End: len(text), Dir: direction.LTR, Dirs: direction.AllLeftToRight})
				if got := l.Measure(5, false); !near(got, 50) {
					t.Errorf("并发测量期望 50，实际 %g", got)
				}
				p.Release(l)
			}
		}()
	}
	wg.Wait()
	if p.Idle() > DefaultPoolSize {
		t.Fatalf("空闲数超出容量: %d", p.Idle())
	}
}
