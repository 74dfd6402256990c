package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dipxssi/synergysphere/logging"
	"github.com/Dipxssi/synergysphere/models"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService writes in-app notifications. Delivery is best-effort:
// project and task mutations call Notify after their own write has succeeded,
// and a failing notification store must never fail the mutation, so writes go
// through a circuit breaker and errors end up in the log only.
type NotificationService struct {
	store   NotificationStore
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationService(store NotificationStore, breaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{store: store, breaker: breaker}
}

// Notify persists the notification if it can. It never returns an error.
func (ns *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if ns == nil || ns.store == nil {
		return
	}
	if n.Recipient.IsZero() || n.Type == "" || n.Title == "" || n.Message == "" {
		logging.Logger.Warnf("Event ID: NOTIFICATION_SKIPPED, Description: Dropping notification with missing fields (type=%s)", n.Type)
		return
	}
	n.ID = primitive.NewObjectID()
	n.IsRead = false
	n.CreatedAt = time.Now().UTC()

	write := func() (interface{}, error) {
		return nil, ns.store.Insert(ctx, &n)
	}

	var err error
	if ns.breaker != nil {
		_, err = ns.breaker.Execute(write)
	} else {
		_, err = write()
	}
	if err != nil {
		logging.Logger.Warnf("Event ID: NOTIFICATION_WRITE_FAILED, Description: Failed to store %s notification for %s: %v", n.Type, n.Recipient.Hex(), err)
	}
}

func (ns *NotificationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	notifications, err := ns.store.FindByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// MarkRead flags one of the user's notifications as read. Scoping by
// recipient keeps users from touching each other's notifications.
func (ns *NotificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	err := ns.store.MarkRead(ctx, id, userID, time.Now().UTC())
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("notification not found: %w", ErrNotFound)
	}
	return err
}
