package broker

import (
	"sync"
)

// LocalBroker fans messages out in-process. It stands in for NATS when no
// server is configured, so a single instance still gets live updates.
type LocalBroker struct {
	mu     sync.RWMutex
	subs   []localSubscription
	closed bool
}

type localSubscription struct {
	subjects map[string]bool
	ch       chan Message
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{}
}

func (b *LocalBroker) Publish(subject string, data []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrNotConnected
	}
	for _, sub := range b.subs {
		if !sub.subjects[subject] {
			continue
		}
		select {
		case sub.ch <- Message{Subject: subject, Data: data}:
		default:
			// slow subscriber, drop
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(subjects []string) (<-chan Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrNotConnected
	}
	sub := localSubscription{subjects: make(map[string]bool), ch: make(chan Message, 256)}
	for _, s := range subjects {
		sub.subjects[s] = true
	}
	b.subs = append(b.subs, sub)
	return sub.ch, nil
}

func (b *LocalBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
}

func (b *LocalBroker) Health() error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrNotConnected
	}
	return nil
}
