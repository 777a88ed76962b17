package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/redis/go-redis/v9"

	owguides "github.com/creamtown0420/ow-guides"
)

// SignalService fans catalog and session events out over redis pub/sub,
// feeding the realtime websocket endpoint.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event owguides.Event) {
	if s.rdb == nil {
		return
	}

	jsonstr, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to marshal event",
			slog.String("error", err.Error()),
			slog.String("module", "signal"),
		)
		return
	}

	if err := s.rdb.Publish(ctx, owguides.EventChannel, jsonstr).Err(); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			slog.String("error", err.Error()),
			slog.String("module", "signal"),
		)
	}
}

// Realtime pumps published events to output until ctx ends or input
// closes. Slices received on input replace the active event-type filter;
// an empty filter forwards everything. Realtime owns output and closes
// it on return, so the caller must never close it.
func (s *SignalService) Realtime(ctx context.Context, input chan []string, output chan owguides.Event) {
	defer close(output)

	if s.rdb == nil {
		<-ctx.Done()
		return
	}

	sub := s.rdb.Subscribe(ctx, owguides.EventChannel)
	defer sub.Close()
	messages := sub.Channel()

	filter := map[string]bool{}

	for {
		select {
		case <-ctx.Done():
			return
		case types, ok := <-input:
			if !ok {
				return
			}
			filter = map[string]bool{}
			for _, t := range types {
				filter[t] = true
			}
		case msg, ok := <-messages:
			if !ok {
				return
			}
			var event owguides.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.ErrorContext(ctx, "Failed to decode event",
					slog.String("error", err.Error()),
					slog.String("module", "signal"),
				)
				continue
			}
			if len(filter) > 0 && !filter[event.Type] {
				continue
			}
			select {
			case output <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}
