package main

import (
	"fmt"
	"strconv"
	"strings"

	"dinemap/internal/apperr"
	"dinemap/internal/model"
	"dinemap/internal/reconcile"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var showPretty bool

// showCmd prints one restaurant's details and reviews.
var showCmd = &cobra.Command{
	Use:   "show [restaurant-id]",
	Short: "Show a restaurant's details and reviews",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showPretty, "pretty", false, "render with styled markdown")
}

func runShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid restaurant id %q", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	restaurant, err := a.reconciler.Restaurant(ctx, id)
	if err != nil {
		return err
	}

	// Missing reviews should not hide the restaurant itself.
	reviews, err := a.reconciler.ReviewsForRestaurant(ctx, id)
	if err != nil && !apperr.IsKind(err, apperr.KindExhaustedFallback) {
		return err
	}

	md := renderRestaurantMarkdown(restaurant, reviews)
	if showPretty {
		rendered, err := glamour.Render(md, "auto")
		if err == nil {
			cmd.Print(rendered)
			return nil
		}
	}
	cmd.Print(md)
	return nil
}

func renderRestaurantMarkdown(r model.Restaurant, reviews []model.Review) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", r.Name)
	if r.IsFavorite {
		sb.WriteString("Favorite ★\n\n")
	}
	fmt.Fprintf(&sb, "- **Cuisine**: %s\n", r.CuisineType)
	fmt.Fprintf(&sb, "- **Neighborhood**: %s\n", r.Neighborhood)
	if r.Address != "" {
		fmt.Fprintf(&sb, "- **Address**: %s\n", r.Address)
	}
	fmt.Fprintf(&sb, "- **Page**: %s\n", reconcile.PageURL(r))
	fmt.Fprintf(&sb, "- **Image**: %s\n", reconcile.ImageURL(r, ""))

	if len(r.OperatingHours) > 0 {
		sb.WriteString("\n## Hours\n\n")
		for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"} {
			if hours, ok := r.OperatingHours[day]; ok {
				fmt.Fprintf(&sb, "- %s: %s\n", day, hours)
			}
		}
	}

	sb.WriteString("\n## Reviews\n\n")
	if len(reviews) == 0 {
		sb.WriteString("No reviews yet.\n")
	}
	for _, rv := range reviews {
		fmt.Fprintf(&sb, "### %s — %d/5\n\n", rv.Name, rv.Rating)
		if !rv.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, "_%s_\n\n", rv.CreatedAt.Format("January 2, 2006"))
		}
		fmt.Fprintf(&sb, "%s\n\n", rv.Comments)
	}
	return sb.String()
}
