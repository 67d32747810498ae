package broker

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

var ErrNotConnected = errors.New("broker not connected")

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(subject string, data []byte) error
	Close()
}

// Message is a payload received from a subject.
type Message struct {
	Subject string
	Data    []byte
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url, name string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Printf("NATS reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return nc, nil
}

type Producer struct {
	conn *nats.Conn
}

func NewProducer(url string) (*Producer, error) {
	nc, err := Connect(url, "dailyglow-producer")
	if err != nil {
		return nil, err
	}
	log.Printf("NATS producer connected to %s", nc.ConnectedUrl())
	return &Producer{conn: nc}, nil
}

func (p *Producer) Publish(subject string, data []byte) error {
	if p == nil || p.conn == nil || p.conn.IsClosed() {
		return ErrNotConnected
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

func (p *Producer) Close() {
	if p == nil || p.conn == nil {
		return
	}
	if err := p.conn.Drain(); err != nil {
		log.Printf("Failed to drain NATS producer: %v", err)
		p.conn.Close()
	}
}

// Health reports ErrNotConnected while the connection is down.
func (p *Producer) Health() error {
	if p == nil || p.conn == nil || !p.conn.IsConnected() {
		return ErrNotConnected
	}
	return nil
}
