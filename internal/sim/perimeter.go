package sim

import "sync"

// Perimeter is the trigger volume around the level ground. It fires when a
// body crosses from inside the level to outside.
type Perimeter struct {
	mu   sync.Mutex
	subs map[int]func(string)
	next int
}

// Subscribe implements binding.BoundarySensor.
func (p *Perimeter) Subscribe(fn func(bodyID string)) (cancel func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs == nil {
		p.subs = make(map[int]func(string))
	}
	id := p.next
	p.next++
	p.subs[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}
}

// Subscribers returns the number of active subscriptions.
func (p *Perimeter) Subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}

// Enter notifies all subscribers that bodyID entered the trigger.
func (p *Perimeter) Enter(bodyID string) {
	p.mu.Lock()
	fns := make([]func(string), 0, len(p.subs))
	for _, fn := range p.subs {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(bodyID)
	}
}
