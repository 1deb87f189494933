package notify

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nats-io/nats.go"
	"go.trai.ch/bsp/internal/core/domain"
	"go.trai.ch/bsp/internal/core/ports"
	"go.trai.ch/zerr"
)

// DefaultSubjectPrefix is prepended to the notification method to form the NATS subject.
const DefaultSubjectPrefix = "bsp"

var _ ports.Notifier = (*NATS)(nil)

// Publisher publishes a message on a subject. *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Envelope is the JSON-RPC notification published for each event.
type Envelope struct {
	JSONRPC string              `json:"jsonrpc"`
	Method  string              `json:"method"`
	Params  domain.Notification `json:"params"`
}

// NATS implements ports.Notifier by publishing JSON envelopes to NATS.
// The subject is the prefix followed by the method with slashes turned into dots,
// e.g. "bsp.build.taskStart".
type NATS struct {
	pub    Publisher
	prefix string
	conn   *nats.Conn
}

// NewNATS creates a notifier publishing through pub.
func NewNATS(pub Publisher, prefix string) *NATS {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATS{pub: pub, prefix: prefix}
}

// DialNATS connects to the NATS server at url and returns a notifier owning the connection.
func DialNATS(url, prefix string) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Name("bsp"))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to connect to NATS"), "url", url)
	}
	n := NewNATS(conn, prefix)
	n.conn = conn
	return n, nil
}

// Subject returns the subject notifications with the given method are published on.
func (n *NATS) Subject(method string) string {
	return n.prefix + "." + strings.ReplaceAll(method, "/", ".")
}

// Notify publishes the notification.
func (n *NATS) Notify(_ context.Context, note domain.Notification) error {
	subject := n.Subject(note.Method())
	data, err := json.Marshal(Envelope{JSONRPC: "2.0", Method: note.Method(), Params: note})
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to marshal notification"), "method", note.Method())
	}
	if err := n.pub.Publish(subject, data); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to publish notification"), "subject", subject)
	}
	return nil
}

// Close flushes pending messages and closes a connection opened by DialNATS.
func (n *NATS) Close() error {
	if n.conn == nil {
		return nil
	}
	err := n.conn.Flush()
	n.conn.Close()
	if err != nil {
		return zerr.Wrap(err, "failed to flush NATS connection")
	}
	return nil
}
