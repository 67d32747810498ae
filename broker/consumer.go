package broker

import (
	"log"
	"sync"

	"github.com/nats-io/nats.go"
)

// Subscriber delivers messages published on the given subjects.
type Subscriber interface {
	Subscribe(subjects []string) (<-chan Message, error)
	Close()
}

type Consumer struct {
	conn *nats.Conn
	subs []*nats.Subscription
	done chan struct{}
	once sync.Once
}

func NewConsumer(url string) (*Consumer, error) {
	nc, err := Connect(url, "dailyglow-consumer")
	if err != nil {
		return nil, err
	}
	return &Consumer{conn: nc, done: make(chan struct{})}, nil
}

func (c *Consumer) Subscribe(subjects []string) (<-chan Message, error) {
	natsMessages := make(chan *nats.Msg, 256)
	for _, subject := range subjects {
		sub, err := c.conn.ChanSubscribe(subject, natsMessages)
		if err != nil {
			return nil, err
		}
		c.subs = append(c.subs, sub)
	}
	log.Printf("NATS consumer subscribed to %v", subjects)

	out := make(chan Message, 256)
	go func() {
		defer close(out)
		for {
			select {
			case <-c.done:
				return
			case msg := <-natsMessages:
				select {
				case out <- Message{Subject: msg.Subject, Data: msg.Data}:
				case <-c.done:
					return
				}
			}
		}
	}()

	return out, nil
}

func (c *Consumer) Close() {
	c.once.Do(func() {
		close(c.done)
		for _, sub := range c.subs {
			if err := sub.Unsubscribe(); err != nil {
				log.Printf("Failed to unsubscribe from %s: %v", sub.Subject, err)
			}
		}
		c.conn.Close()
	})
}
