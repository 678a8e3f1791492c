package memory

import "sync"

// Pool is a typed object pool. The submit path allocates orders from
// it; the cancel path recycles them once the book has forgotten the
// order, so a recycled object is never still referenced by a level or
// the registry.
type Pool[T any] struct {
	p *sync.Pool
}

func NewPool[T any](ctor func() *T) *Pool[T] {
	return &Pool[T]{
		p: &sync.Pool{
			New: func() any { return ctor() },
		},
	}
}

func (p *Pool[T]) Get() *T {
	return p.p.Get().(*T)
}

func (p *Pool[T]) Put(v *T) {
	p.p.Put(v)
}
