// Package notify delivers style-state change events to observers.
//
// Paths are dot separated ("style.default", "items.<id>"). An observer
// subscribed to a path also receives changes below it, so subscribing to
// "items" reports every item change.
package notify

import (
	"strings"
	"sync"
)

// Kind is the kind of change.
type Kind int

const (
	// KindSet indicates a value was set or replaced.
	KindSet Kind = iota

	// KindDelete indicates a value was removed.
	KindDelete

	// KindReload indicates the whole state was replaced.
	KindReload
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindSet:
		return "set"
	case KindDelete:
		return "delete"
	case KindReload:
		return "reload"
	default:
		return "unknown"
	}
}

// Change describes one state change.
type Change struct {
	// Path is the changed path. Empty for reloads.
	Path string

	Kind Kind

	// Value is the new value; nil for deletes.
	Value any

	// Source names the component that made the change.
	Source string
}

// Observer receives changes.
type Observer func(Change)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes the observer. It is safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

type registration struct {
	path     string // empty for global observers
	observer Observer
}

// Notifier fans changes out to observers.
type Notifier struct {
	mu     sync.RWMutex
	subs   map[uint64]registration
	nextID uint64
	closed bool

	async  bool
	buffer chan Change
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync delivers changes from a background goroutine through a buffer
// of the given size. Notify blocks when the buffer is full.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Change, bufferSize)
		}
	}
}

// New creates a Notifier. Without options delivery is synchronous.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		subs: make(map[uint64]registration),
		done: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.run()
	}

	return n
}

// Subscribe registers an observer for every change.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	return n.add(registration{observer: observer})
}

// SubscribePath registers an observer for path and everything below it.
func (n *Notifier) SubscribePath(path string, observer Observer) *Subscription {
	return n.add(registration{path: path, observer: observer})
}

func (n *Notifier) add(reg registration) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.subs[id] = reg

	return &Subscription{id: id, notifier: n}
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, id)
}

// Notify delivers a change. It is a no-op after Close.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	closed := n.closed
	n.mu.RUnlock()
	if closed {
		return
	}

	if n.async {
		select {
		case n.buffer <- change:
		case <-n.done:
		}
		return
	}

	n.deliver(change)
}

// Set is shorthand for a KindSet change.
func (n *Notifier) Set(path string, value any, source string) {
	n.Notify(Change{Path: path, Kind: KindSet, Value: value, Source: source})
}

// Delete is shorthand for a KindDelete change.
func (n *Notifier) Delete(path, source string) {
	n.Notify(Change{Path: path, Kind: KindDelete, Source: source})
}

// Reload is shorthand for a KindReload change.
func (n *Notifier) Reload(source string) {
	n.Notify(Change{Kind: KindReload, Source: source})
}

// Close stops delivery. Buffered async changes are drained first.
// Close is idempotent.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

// deliver calls every matching observer outside the lock.
func (n *Notifier) deliver(change Change) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.subs))
	for _, reg := range n.subs {
		if matches(reg.path, change.Path) {
			observers = append(observers, reg.observer)
		}
	}
	n.mu.RUnlock()

	for _, obs := range observers {
		obs(change)
	}
}

func (n *Notifier) run() {
	defer n.wg.Done()

	for {
		select {
		case change := <-n.buffer:
			n.deliver(change)
		case <-n.done:
			for {
				select {
				case change := <-n.buffer:
					n.deliver(change)
				default:
					return
				}
			}
		}
	}
}

// matches reports whether a subscription on sub receives a change on path.
// Global subscriptions and reloads match everything.
func matches(sub, path string) bool {
	if sub == "" || path == "" || sub == path {
		return true
	}
	return strings.HasPrefix(path, sub) && path[len(sub)] == '.'
}

// Batch collects changes and delivers them together on Commit.
type Batch struct {
	notifier *Notifier
	mu       sync.Mutex
	changes  []Change
}

// NewBatch starts a batch.
func (n *Notifier) NewBatch() *Batch {
	return &Batch{notifier: n}
}

// Set adds a KindSet change.
func (b *Batch) Set(path string, value any, source string) {
	b.Add(Change{Path: path, Kind: KindSet, Value: value, Source: source})
}

// Add adds a change.
func (b *Batch) Add(change Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = append(b.changes, change)
}

// Len returns the number of pending changes.
func (b *Batch) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.changes)
}

// Commit delivers the pending changes in order and empties the batch.
func (b *Batch) Commit() {
	b.mu.Lock()
	changes := b.changes
	b.changes = nil
	b.mu.Unlock()

	for _, c := range changes {
		b.notifier.Notify(c)
	}
}

// Discard drops the pending changes.
func (b *Batch) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.changes = nil
}
