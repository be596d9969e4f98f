package main

import (
	"fmt"
	"strconv"

	"dinemap/internal/apperr"
	"dinemap/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reviewName     string
	reviewRating   int
	reviewComments string
	reviewOffline  bool
)

// reviewCmd submits a review, queuing it for replay when the API is
// unreachable.
var reviewCmd = &cobra.Command{
	Use:   "review [restaurant-id]",
	Short: "Submit a review for a restaurant",
	Long: `Submits a review. If the API cannot be reached the review is parked in
the durable offline queue and replayed by 'dinemap sync' or the sync
watcher once connectivity returns.`,
	Args: cobra.ExactArgs(1),
	RunE: runReview,
}

func init() {
	reviewCmd.Flags().StringVar(&reviewName, "name", "", "reviewer name (required)")
	reviewCmd.Flags().IntVar(&reviewRating, "rating", 0, "rating 1-5 (required)")
	reviewCmd.Flags().StringVar(&reviewComments, "comments", "", "review text (required)")
	reviewCmd.Flags().BoolVar(&reviewOffline, "offline", false, "queue without attempting submission")
	_ = reviewCmd.MarkFlagRequired("name")
	_ = reviewCmd.MarkFlagRequired("rating")
	_ = reviewCmd.MarkFlagRequired("comments")
}

func runReview(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid restaurant id %q", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	review := model.PendingReview{
		Name:         reviewName,
		Rating:       reviewRating,
		Comments:     reviewComments,
		RestaurantID: id,
		CreatedAt:    model.Now(),
	}
	if err := review.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	if !reviewOffline {
		created, err := a.reconciler.SubmitReview(ctx, review)
		if err == nil {
			cmd.Printf("Review submitted (id %d)\n", created.ID)
			return nil
		}
		// Only connectivity-shaped failures fall through to the queue;
		// a rejection the server actually made should surface.
		if !apperr.IsKind(err, apperr.KindTransport) {
			return err
		}
		logger.Info("api unreachable, queuing review", zap.Error(err))
	}

	if err := a.queue.Enqueue(ctx, review); err != nil {
		return err
	}
	pending, err := a.queue.Pending(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Offline: review queued for replay (%d pending)\n", len(pending))
	return nil
}
