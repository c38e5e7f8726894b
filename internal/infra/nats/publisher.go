package nats

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"resident-lockdown/internal/domain"
)

// Publisher mirrors broadcast events onto NATS as <subject>.<eventType> so that dashboards and
// recorders can follow a game without holding a websocket. Player-targeted events stay private.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// Connect dials the server at url and keeps reconnecting for the life of the process.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("resident-lockdown"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Printf("nats disconnected: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return NewPublisher(conn, subject), nil
}

func NewPublisher(conn *nats.Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Broadcast hands the event to the client's outbound buffer; it does not wait for the server.
func (p *Publisher) Broadcast(ev domain.Event) {
	data, err := domain.Encode(ev)
	if err != nil {
		log.Printf("encode %s for nats: %v", ev.EventType(), err)
		return
	}
	if err := p.conn.Publish(p.subject+"."+ev.EventType(), data); err != nil {
		log.Printf("publish %s: %v", ev.EventType(), err)
	}
}

func (p *Publisher) SendTo(string, domain.Event) {}

// Close flushes pending messages and closes the connection.
func (p *Publisher) Close() error {
	return p.conn.Drain()
}
