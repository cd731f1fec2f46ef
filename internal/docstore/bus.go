package docstore

import "sync"

type watcher struct {
	path   string
	signal chan struct{}
}

// bus fans change notifications out to watchers. A single goroutine owns the
// watcher set; signals are coalesced so a slow watcher sees one pending wake
// up regardless of how many writes happened.
type bus struct {
	subscribe   chan *watcher
	unsubscribe chan *watcher
	publish     chan string
	done        chan struct{}
	closeOnce   sync.Once
}

func newBus() *bus {
	b := &bus{
		subscribe:   make(chan *watcher),
		unsubscribe: make(chan *watcher),
		publish:     make(chan string, 64),
		done:        make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *bus) run() {
	watchers := make(map[*watcher]struct{})
	for {
		select {
		case <-b.done:
			return
		case w := <-b.subscribe:
			watchers[w] = struct{}{}
		case w := <-b.unsubscribe:
			delete(watchers, w)
		case changed := <-b.publish:
			for w := range watchers {
				if !related(w.path, changed) {
					continue
				}
				select {
				case w.signal <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (b *bus) watch(path string) *watcher {
	w := &watcher{path: path, signal: make(chan struct{}, 1)}
	select {
	case b.subscribe <- w:
	case <-b.done:
	}
	return w
}

func (b *bus) unwatch(w *watcher) {
	select {
	case b.unsubscribe <- w:
	case <-b.done:
	}
}

func (b *bus) notify(path string) {
	select {
	case b.publish <- path:
	case <-b.done:
	}
}

func (b *bus) close() {
	b.closeOnce.Do(func() { close(b.done) })
}
