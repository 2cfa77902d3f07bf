package kafka

import (
	"context"
	"encoding/json"

	skafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/shipment-tracker/internal/repository"
)

// LogStatusEvents writes every status event to the log for downstream
// notification tooling. Undecodable messages are logged and committed so
// they do not block the partition.
func LogStatusEvents(logger *zap.Logger) Handler {
	return func(ctx context.Context, msg skafka.Message) error {
		var ev repository.StatusChangedEvent
		if err := json.Unmarshal(msg.Value, &ev); err != nil {
			logger.Error("malformed status event",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
			return nil
		}

		logger.Info("shipment status changed",
			zap.String("tracking_number", ev.TrackingNumber),
			zap.String("old_status", ev.OldStatus),
			zap.String("new_status", ev.NewStatus),
			zap.String("location", ev.Location),
			zap.Time("changed_at", ev.ChangedAt),
			zap.Int64("offset", msg.Offset))
		return nil
	}
}
