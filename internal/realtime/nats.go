package realtime

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// MessageProjectGenerated is the envelope type pushed to clients
const MessageProjectGenerated = "project.generated"

// NATSBridge subscribes to NATS subjects and pushes messages into the Hub.
type NATSBridge struct {
	conn     *nats.Conn
	hub      *Hub
	tenantID string
	logger   zerolog.Logger
}

func NewNATSBridge(natsURL, tenantID string, hub *Hub, logger zerolog.Logger) (*NATSBridge, error) {
	nc, err := nats.Connect(natsURL, nats.Name("blockgen-realtime"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBridge{conn: nc, hub: hub, tenantID: tenantID, logger: logger}, nil
}

// Subject is the wildcard subject of every generation event of the tenant
func (b *NATSBridge) Subject() string {
	return fmt.Sprintf("tenant.%s.project.*.generated", b.tenantID)
}

// Subscribe listens for generation events on tenant.<tenantID>.project.*.generated
func (b *NATSBridge) Subscribe() error {
	subject := b.Subject()
	if _, err := b.conn.Subscribe(subject, b.handle); err != nil {
		return fmt.Errorf("nats subscribe %q: %w", subject, err)
	}

	b.logger.Info().Str("subject", subject).Msg("NATS bridge subscribed")
	return nil
}

func (b *NATSBridge) handle(msg *nats.Msg) {
	projectID, err := parseProjectIDFromSubject(msg.Subject)
	if err != nil {
		b.logger.Warn().Err(err).Str("subject", msg.Subject).Msg("Bad generation subject")
		return
	}

	data, err := envelope(projectID, msg.Data)
	if err != nil {
		b.logger.Warn().Err(err).Uint("projectId", projectID).Msg("Dropping generation event")
		return
	}

	b.hub.Publish(projectID, data)
}

// Close drains the NATS connection.
func (b *NATSBridge) Close() {
	if err := b.conn.Drain(); err != nil {
		b.logger.Warn().Err(err).Msg("NATS drain failed")
	}
}

// envelope wraps the raw event payload in the outgoing message
func envelope(projectID uint, payload []byte) ([]byte, error) {
	if !json.Valid(payload) {
		return nil, fmt.Errorf("payload is not JSON")
	}
	return json.Marshal(outgoingMsg{
		Type:      MessageProjectGenerated,
		ProjectID: projectID,
		Payload:   json.RawMessage(payload),
	})
}

// parseProjectIDFromSubject extracts projectID from "tenant.<tid>.project.<projectID>.generated"
func parseProjectIDFromSubject(subject string) (uint, error) {
	parts := strings.Split(subject, ".")
	if len(parts) != 5 || parts[2] != "project" || parts[4] != "generated" {
		return 0, fmt.Errorf("expected tenant.<tid>.project.<id>.generated, got %q", subject)
	}
	id, err := strconv.ParseUint(parts[3], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid project id %q: %w", parts[3], err)
	}
	return uint(id), nil
}
