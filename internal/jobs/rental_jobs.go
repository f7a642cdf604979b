package jobs

import (
	"context"
	"fmt"
	"time"

	"renthub-backend/internal/logger"
)

// SendOverdueReminders reminds both parties of active rentals past their
// agreed end date. The rental itself stays ACTIVE; only a dispute or
// dual-confirmed return moves it on.
func (jr *JobRunner) SendOverdueReminders() {
	jr.runWithRecovery("SendOverdueReminders", func() {
		ctx := context.Background()

		overdue, err := jr.store.ListOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to list overdue rentals", "error", err)
			return
		}

		logger.Info("Found overdue rentals", "count", len(overdue))

		for _, rental := range overdue {
			dueDate := rental.RequestedEnd
			if rental.ConfirmedEnd != nil {
				dueDate = *rental.ConfirmedEnd
			}
			payload := map[string]string{
				"rental_id": fmt.Sprintf("%d", rental.ID),
				"due_date":  dueDate.Format("2006-01-02"),
			}
			jr.notifier.Dispatch(rental.RenterID, "RENTAL_OVERDUE", payload)
			jr.notifier.Dispatch(rental.OwnerID, "RENTAL_OVERDUE", payload)

			logger.Debug("Sent overdue reminder",
				"rental_id", rental.ID,
				"renter_id", rental.RenterID,
				"owner_id", rental.OwnerID,
				"due_date", dueDate.Format("2006-01-02"))
		}
	})
}
