package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"gharbazaar/internal/domain/listing"
)

// Notifier emits listing lifecycle events for the external notification
// fan-out. Delivery problems are logged, never surfaced: a broker outage
// must not fail the request that triggered the event.
type Notifier struct {
	producer *Producer
	topic    string
	logger   *slog.Logger
}

func NewNotifier(producer *Producer, topic string, logger *slog.Logger) *Notifier {
	return &Notifier{producer: producer, topic: topic, logger: logger}
}

type listingEvent struct {
	Event     string    `json:"event"`
	ListingID string    `json:"listing_id"`
	OwnerID   string    `json:"owner_id"`
	Type      string    `json:"listing_type"`
	City      string    `json:"city"`
	Score     int       `json:"listing_score"`
	Grade     string    `json:"listing_grade"`
	At        time.Time `json:"at"`
}

func (n *Notifier) ListingPublished(ctx context.Context, l *listing.Listing) {
	n.emit(ctx, "listing.published", l)
}

func (n *Notifier) ListingRejected(ctx context.Context, l *listing.Listing) {
	n.emit(ctx, "listing.rejected", l)
}

func (n *Notifier) ListingBlocked(ctx context.Context, l *listing.Listing) {
	n.emit(ctx, "listing.blocked", l)
}

func (n *Notifier) emit(ctx context.Context, event string, l *listing.Listing) {
	if n == nil || n.producer == nil {
		return
	}
	payload, err := json.Marshal(listingEvent{
		Event:     event,
		ListingID: string(l.ID),
		OwnerID:   string(l.Owner),
		Type:      string(l.Type),
		City:      l.Location.City,
		Score:     l.Score,
		Grade:     string(l.Grade),
		At:        time.Now().UTC(),
	})
	if err != nil {
		return
	}
	headers := map[string]string{"event": event}
	if err := n.producer.Publish(n.topic, string(l.ID), payload, headers); err != nil && n.logger != nil {
		n.logger.Warn("listing event publish failed", "event", event, "listing_id", l.ID, "error", err)
	}
}
