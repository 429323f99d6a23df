package bus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

// Invitation lifecycle subjects.
const (
	SubjectCreated      = "invitations.created"
	SubjectRsvp         = "invitations.rsvp"
	SubjectUpdated      = "invitations.updated"
	SubjectDeleted      = "invitations.deleted"
	SubjectBulkImported = "invitations.bulk_imported"
)

// Bus wraps a core NATS connection for publishing lifecycle events. Delivery is
// fire-and-forget; nothing in the app consumes these subjects.
type Bus struct {
	conn *nats.Conn
}

// New connects to the NATS endpoint at url.
func New(url string, opts ...nats.Option) (*Bus, error) {
	opts = append([]nats.Option{
		nats.Name("invitacion-api"),
		nats.Timeout(5 * time.Second),
		nats.MaxReconnects(-1),
	}, opts...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, err
	}
	return &Bus{conn: nc}, nil
}

// Close drains and shuts down the connection.
func (b *Bus) Close() {
	if b == nil || b.conn == nil {
		return
	}
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
	}
}

// Connected reports whether the underlying connection is up.
func (b *Bus) Connected() bool {
	return b != nil && b.conn != nil && b.conn.IsConnected()
}

// Publish encodes v as JSON and publishes it to subj.
func (b *Bus) Publish(ctx context.Context, subj string, v any) error {
	if b == nil || b.conn == nil {
		return errors.New("nil bus")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.conn.Publish(subj, data)
}

// Emit publishes and logs failures instead of returning them.
func (b *Bus) Emit(ctx context.Context, subj string, v any) {
	if err := b.Publish(ctx, subj, v); err != nil {
		log.Warn().Err(err).Str("subject", subj).Msg("event publish failed")
	}
}
