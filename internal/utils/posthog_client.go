// posthog_client.go wraps the posthog client so callers need not care
// whether analytics are configured.
package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// AnalyticsEvent is one tracked API use. DistinctID is the caller's user ID
// or a shared anonymous ID.
type AnalyticsEvent struct {
	DistinctID string
	Name       string
	Properties map[string]any
}

// PosthogClientWrapper sends analytics events; a zero value drops them.
type PosthogClientWrapper struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializePosthogClient connects to endpoint when apiKey is set. Any
// failure leaves analytics disabled rather than stopping the server.
func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("Posthog API key is empty, analytics disabled")
		return &PosthogClientWrapper{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to initialize posthog client", slog.String("endpoint", endpoint), slog.String("error", err.Error()))
		return &PosthogClientWrapper{}
	}
	logger.Info("Posthog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{posthogClient: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.posthogClient != nil
}

// Capture queues ev for asynchronous delivery.
func (w *PosthogClientWrapper) Capture(ev AnalyticsEvent) {
	if !w.IsInitialized() {
		return
	}
	err := w.posthogClient.Enqueue(posthog.Capture{
		DistinctId: ev.DistinctID,
		Event:      ev.Name,
		Properties: ev.Properties,
	})
	if err != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", ev.Name), slog.String("error", err.Error()))
		return
	}
	w.logger.Debug("Analytics event queued", slog.String("event", ev.Name), slog.String("distinct_id", ev.DistinctID))
}

// Close flushes pending events.
func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.posthogClient.Close(); err != nil {
		w.logger.Warn("Failed to flush analytics events", slog.String("error", err.Error()))
	}
}
