package bus

import (
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
)

// NatsBus publishes engine notifications over NATS so companion
// processes (widgets, sync daemons) can react without polling.
type NatsBus struct {
	conn *nats.Conn
}

// NatsConfig holds NATS connection settings.
type NatsConfig struct {
	URL     string        // NATS server URL (e.g., "nats://localhost:4222")
	Timeout time.Duration // Connection timeout
}

// NewNatsBus connects to NATS with unlimited reconnects.
func NewNatsBus(cfg NatsConfig) (*NatsBus, error) {
	if cfg.URL == "" {
		cfg.URL = nats.DefaultURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	nc, err := nats.Connect(cfg.URL,
		nats.Timeout(cfg.Timeout),
		nats.ReconnectWait(1*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			if err != nil {
				log.Printf("NATS disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	log.Printf("Connected to NATS at %s", cfg.URL)
	return &NatsBus{conn: nc}, nil
}

// Publish sends the payload on the subject.
func (b *NatsBus) Publish(subject string, payload []byte) error {
	return b.conn.Publish(subject, payload)
}

// Close flushes and drops the connection.
func (b *NatsBus) Close() {
	if b.conn != nil {
		b.conn.Flush()
		b.conn.Close()
	}
}
