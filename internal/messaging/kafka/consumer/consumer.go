package consumer

import (
	"context"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var (
	retryBackoff    = time.Second
	maxRetryBackoff = 30 * time.Second
)

// MessageReader is the part of *kafkago.Reader the consumers need.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeUserOrphaned feeds user_orphaned events to the reconciler until ctx
// is done. Offsets are committed in order, so a message the reconciler
// cannot finish is retried in place and blocks the ones behind it.
func ConsumeUserOrphaned(
	ctx context.Context,
	reader MessageReader,
	reconciler *OrphanReconciler,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.user_orphaned")
	log.Info("user orphaned consumer started")

	fetchBackoff := retryBackoff
	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("user orphaned consumer stopped")
				return
			}
			log.Error("fetch user orphaned message failed", zap.Error(err), zap.Duration("backoff", fetchBackoff))
			if !sleep(ctx, fetchBackoff) {
				log.Info("user orphaned consumer stopped")
				return
			}
			fetchBackoff = nextBackoff(fetchBackoff)
			continue
		}
		fetchBackoff = retryBackoff

		backoff := retryBackoff
		for !reconciler.Handle(ctx, msg) {
			log.Warn("user orphaned message will be retried",
				zap.Int64("offset", msg.Offset),
				zap.Duration("backoff", backoff),
			)
			if !sleep(ctx, backoff) {
				log.Info("user orphaned consumer stopped")
				return
			}
			backoff = nextBackoff(backoff)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit user orphaned message failed", zap.Int64("offset", msg.Offset), zap.Error(err))
		}
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxRetryBackoff {
		return maxRetryBackoff
	}
	return d
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
