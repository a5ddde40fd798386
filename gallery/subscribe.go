package gallery

// Subscribe registers fn for every committed change and returns a function
// that removes it.
func (g *Gallery) Subscribe(fn Subscriber) (cancel func()) {
	g.subMu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = fn
	g.subMu.Unlock()

	return func() {
		g.subMu.Lock()
		delete(g.subs, id)
		g.subMu.Unlock()
	}
}

// enqueue numbers events and queues them for delivery. Callers hold g.mu, so
// the queue follows commit order.
func (g *Gallery) enqueue(events ...Event) {
	g.pubMu.Lock()
	for _, e := range events {
		g.seq++
		e.Seq = g.seq
		g.queue = append(g.queue, e)
	}
	g.pubMu.Unlock()
}

// deliver drains the queue without holding g.mu. Only one goroutine drains at
// a time; the others leave their events to it.
func (g *Gallery) deliver() {
	g.pubMu.Lock()
	if g.draining {
		g.pubMu.Unlock()
		return
	}
	g.draining = true

	for len(g.queue) > 0 {
		batch := g.queue
		g.queue = nil
		g.pubMu.Unlock()

		subs := g.subscribers()
		for _, e := range batch {
			for _, fn := range subs {
				fn(e)
			}
		}

		g.pubMu.Lock()
	}
	g.draining = false
	g.pubMu.Unlock()
}

func (g *Gallery) subscribers() []Subscriber {
	g.subMu.Lock()
	defer g.subMu.Unlock()

	subs := make([]Subscriber, 0, len(g.subs))
	for _, fn := range g.subs {
		subs = append(subs, fn)
	}
	return subs
}
