package consumer

import (
	"context"
	"encoding/json"

	"go-garage/internal/events"
	"go-garage/internal/garageauth"
	"go-garage/internal/user"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrphanReconciler removes user rows left behind by a provisioning attempt
// whose compensating delete failed.
type OrphanReconciler struct {
	users  user.Repository
	auths  garageauth.Repository
	logger *zap.Logger
}

func NewOrphanReconciler(users user.Repository, auths garageauth.Repository, logger *zap.Logger) *OrphanReconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrphanReconciler{
		users:  users,
		auths:  auths,
		logger: logger.Named("kafka.consumer.orphan_reconciler"),
	}
}

// Handle reports whether msg can be committed. Storage failures return false
// so the event is retried.
func (r *OrphanReconciler) Handle(ctx context.Context, msg kafkago.Message) bool {
	var event events.UserOrphanedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		r.logger.Error("decode user_orphaned event failed", zap.Error(err))
		return true
	}

	log := r.logger.With(
		zap.String("request_id", event.RequestID),
		zap.String("user_uid", event.UserUID),
		zap.String("login_id", event.LoginID),
	)

	userUID, err := uuid.Parse(event.UserUID)
	if err != nil {
		log.Error("user_orphaned event has invalid user uid", zap.Error(err))
		return true
	}

	// mapping sudah ada, user tidak yatim lagi
	linked, err := r.auths.ExistsForUser(ctx, userUID)
	if err != nil {
		log.Error("check auth mapping failed", zap.Error(err))
		return false
	}
	if linked {
		log.Info("user has an auth mapping, skipping reconcile")
		return true
	}

	if err := r.users.Delete(ctx, userUID); err != nil {
		log.Error("delete orphaned user failed", zap.Error(err))
		return false
	}

	log.Info("orphaned user removed")
	return true
}
