package jobs

import (
	"context"
	"time"

	"renthub-backend/internal/logger"
)

// ReleaseClearedFunds advances rental income past the clearing period
// from PENDING to AVAILABLE and tells each affected user.
func (jr *JobRunner) ReleaseClearedFunds() {
	jr.runWithRecovery("ReleaseClearedFunds", func() {
		ctx := context.Background()

		cutoff := time.Now().AddDate(0, 0, -jr.config.Ledger.ClearingPeriodDays)
		userIDs, err := jr.store.ReleasePending(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to release cleared funds", "error", err)
			return
		}

		logger.Info("Released cleared funds", "entries", len(userIDs), "cutoff", cutoff)

		seen := make(map[int32]bool)
		for _, userID := range userIDs {
			if seen[userID] {
				continue
			}
			seen[userID] = true
			jr.notifier.Dispatch(userID, "FUNDS_AVAILABLE", map[string]string{
				"cleared_before": cutoff.Format("2006-01-02"),
			})
		}
	})
}
