package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName          = "DISCOVERY"
	SubjectPattern      = "discovery.>"
	SubjectMatchCreated = "discovery.match.created"
)

// MatchCreatedEvent is the JSON payload published on SubjectMatchCreated.
type MatchCreatedEvent struct {
	MatchID   int64     `json:"match_id"`
	User1ID   int64     `json:"user1_id"`
	User2ID   int64     `json:"user2_id"`
	MatchedAt time.Time `json:"matched_at"`
}

// NatsMatchPublisher publishes match events to a JetStream stream so other
// services (chat, push) can react to them.
type NatsMatchPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNatsMatchPublisher connects and makes sure the stream exists.
func NewNatsMatchPublisher(ctx context.Context, url string) (*NatsMatchPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("kiekky-discovery"))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage,
		Replicas: 1,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsMatchPublisher{nc: nc, js: js}, nil
}

func (p *NatsMatchPublisher) NotifyMatch(ctx context.Context, m *Match) error {
	data, err := json.Marshal(MatchCreatedEvent{
		MatchID:   m.ID,
		User1ID:   m.User1ID,
		User2ID:   m.User2ID,
		MatchedAt: m.MatchedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, SubjectMatchCreated, data, jetstream.WithMsgID(fmt.Sprintf("match-%d-%d", m.User1ID, m.User2ID))); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

func (p *NatsMatchPublisher) Close() {
	p.nc.Close()
}
