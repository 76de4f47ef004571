// Package notification delivers settlement events to administrators.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	"pixpay/internal/models"
	"pixpay/internal/repositories"

	"github.com/shopspring/decimal"
)

// Event is something administrators are told about.
type Event struct {
	Type  string
	Title string
	Body  string
	Data  map[string]interface{}
}

func DepositConfirmed(paymentID string, userID uint, amount decimal.Decimal, currency string) Event {
	return Event{
		Type:  models.NotificationTypeDepositConfirmed,
		Title: "Deposit confirmed",
		Body:  fmt.Sprintf("User %d deposited %s %s", userID, amount.StringFixed(2), currency),
		Data: map[string]interface{}{
			"payment_id": paymentID,
			"user_id":    userID,
			"amount":     amount.StringFixed(2),
		},
	}
}

// Pusher sends a push message to one device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

type Service struct {
	users         repositories.UserRepository
	notifications repositories.NotificationRepository
	pusher        Pusher
}

// NewService creates the dispatcher. pusher may be nil.
func NewService(store repositories.Store, pusher Pusher) *Service {
	if store == nil {
		panic("store is required")
	}
	return &Service{
		users:         store.Users(),
		notifications: store.Notifications(),
		pusher:        pusher,
	}
}

// NotifyAdmins stores one inbox row per admin and pushes to admins with a
// device token. A failed row does not stop the others; the failures are
// returned joined.
func (s *Service) NotifyAdmins(ctx context.Context, ev Event) error {
	admins, err := s.users.ListAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	data := make(map[string]string, len(ev.Data))
	for k, v := range ev.Data {
		data[k] = fmt.Sprint(v)
	}

	var errs []error
	for _, admin := range admins {
		if err := s.notifications.Create(ctx, &models.Notification{
			UserID: admin.ID,
			Type:   ev.Type,
			Title:  ev.Title,
			Body:   ev.Body,
			Data:   models.NewJSON(ev.Data),
		}); err != nil {
			log.Printf("[notification] inbox row for admin %d failed: %v", admin.ID, err)
			errs = append(errs, fmt.Errorf("admin %d: %w", admin.ID, err))
		}

		if s.pusher == nil || admin.FCMToken == "" {
			continue
		}
		if err := s.pusher.Send(ctx, admin.FCMToken, ev.Title, ev.Body, data); err != nil {
			log.Printf("[notification] push to admin %d failed: %v", admin.ID, err)
		}
	}
	return errors.Join(errs...)
}
