package service

import (
	"context"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

// notificationTexts maps an event kind to the user-facing title and
// message template shown in-app and in email.
var notificationTexts = map[string][2]string{
	"HANDOVER_CONFIRMED":         {"Handover Confirmed", "The other party confirmed the handover. Confirm on your side to activate the rental."},
	"RENTAL_ACTIVATED":           {"Rental Active", "Both parties confirmed the handover. The rental is now active."},
	"DISPUTE_OPENED":             {"Dispute Opened", "A dispute was opened on one of your rentals."},
	"DISPUTE_RESOLVED":           {"Dispute Resolved", "A moderator resolved the dispute on one of your rentals."},
	"DEPOSIT_HELD":               {"Deposit Held", "Your security deposit has been placed on hold."},
	"DEPOSIT_RELEASED":           {"Deposit Released", "Your security deposit has been released to your wallet."},
	"DEPOSIT_PARTIALLY_RELEASED": {"Deposit Partially Released", "Part of your security deposit has been released to your wallet."},
	"AWAITING_HANDOVER":          {"Payment Received", "Payment was captured. The rental is ready for handover."},
	"PAYMENT_FAILED":             {"Payment Failed", "The payment for your rental could not be captured. The rental was cancelled."},
	"RENTAL_OVERDUE":             {"Rental Overdue", "Your rental is past its agreed end date. Please arrange the return."},
	"FUNDS_AVAILABLE":            {"Funds Available", "Pending funds in your wallet are now available."},
}

const dispatchTimeout = 10 * time.Second

// notifier is the fire-and-forget dispatcher behind every state
// transition: in-app row, email, push. At most one attempt per channel;
// a channel failure is logged and never reaches the caller, and delivery
// runs off the caller's goroutine so latency cannot delay the response.
type notifier struct {
	noteRepo repository.NotificationRepository
	userRepo repository.UserRepository
	email    EmailSender
	push     PushSender
}

func NewNotifier(noteRepo repository.NotificationRepository, userRepo repository.UserRepository, email EmailSender, push PushSender) Notifier {
	return &notifier{noteRepo: noteRepo, userRepo: userRepo, email: email, push: push}
}

func (n *notifier) Dispatch(userID int32, eventKind string, payload map[string]string) {
	go n.deliver(userID, eventKind, payload)
}

func (n *notifier) deliver(userID int32, eventKind string, payload map[string]string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Notification dispatch panicked", "userID", userID, "eventKind", eventKind, "panic", r)
		}
	}()

	// Detached from the request context: the caller's response must not
	// wait on this, and its cancellation must not abort delivery.
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	title, message := eventKind, ""
	if texts, ok := notificationTexts[eventKind]; ok {
		title, message = texts[0], texts[1]
	}

	attrs := map[string]string{"type": eventKind}
	for k, v := range payload {
		attrs[k] = v
	}

	note := &domain.Notification{
		UserID:     userID,
		Title:      title,
		Message:    message,
		Attributes: attrs,
	}
	if err := n.noteRepo.Create(ctx, note); err != nil {
		logger.Error("Failed to store notification", "userID", userID, "eventKind", eventKind, "error", err)
	}

	user, err := n.userRepo.GetByID(ctx, userID)
	if err != nil {
		logger.Error("Failed to load user for notification delivery", "userID", userID, "error", err)
		return
	}

	if n.email != nil && user.Email != "" {
		logger.ExternalServiceCall("email", "send", "userID", userID, "eventKind", eventKind)
		err := n.email.Send(ctx, user.Email, user.Name, title, message)
		logger.ExternalServiceResult("email", "send", err, "userID", userID)
	}

	if n.push != nil && user.DeviceToken != "" {
		logger.ExternalServiceCall("push", "send", "userID", userID, "eventKind", eventKind)
		err := n.push.Send(ctx, user.DeviceToken, title, message, attrs)
		logger.ExternalServiceResult("push", "send", err, "userID", userID)
	}
}
