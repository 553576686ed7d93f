package goposthog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/mapleleads/directory-web/tlmt"
)

type service struct {
	client     posthog.Client
	distinctID string
}

// New creates a PostHog-backed telemetry service. Events are keyed by a
// random per-process distinct id, never by user identity.
func New(apiKey, endpoint string) (tlmt.Telemetry, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		return nil, fmt.Errorf("failed to create posthog client: %w", err)
	}

	return &service{
		client:     client,
		distinctID: uuid.NewString(),
	}, nil
}

func (s *service) Send(_ context.Context, event tlmt.Event) error {
	props := posthog.NewProperties()
	for k, v := range event.Properties {
		props.Set(k, v)
	}

	return s.client.Enqueue(posthog.Capture{
		DistinctId: s.distinctID,
		Event:      event.Name,
		Properties: props,
	})
}

func (s *service) Close() error {
	return s.client.Close()
}
