package main

import (
	"strconv"

	"dinemap/cmd/dinemap/ui"
	"dinemap/internal/reconcile"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	browseCuisine      string
	browseNeighborhood string
	browseInteractive  bool
)

// browseCmd lists restaurants, optionally filtered by cuisine and
// neighborhood.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse restaurants by cuisine and neighborhood",
	Long: `Lists restaurants from the directory, network-first with local fallback.

Examples:
  dinemap browse
  dinemap browse --cuisine Pizza
  dinemap browse --neighborhood Brooklyn --cuisine all
  dinemap browse -i    # interactive browser`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().StringVar(&browseCuisine, "cuisine", reconcile.Wildcard, "filter by cuisine type")
	browseCmd.Flags().StringVar(&browseNeighborhood, "neighborhood", reconcile.Wildcard, "filter by neighborhood")
	browseCmd.Flags().BoolVarP(&browseInteractive, "interactive", "i", false, "open the interactive browser")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	restaurants, err := a.reconciler.Restaurants(ctx)
	if err != nil {
		return err
	}

	state := reconcile.NewState()
	state.Cuisine = browseCuisine
	state.Neighborhood = browseNeighborhood
	state.SetRestaurants(restaurants)

	if browseInteractive {
		model := ui.NewBrowseModel(state, a.reconciler)
		_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
		return err
	}

	logger.Debug("browse", zap.Int("total", len(restaurants)),
		zap.String("cuisine", state.Cuisine),
		zap.String("neighborhood", state.Neighborhood))

	table := ui.NewTable("Restaurants", []string{"ID", "Name", "Cuisine", "Neighborhood", "Fav"})
	for _, r := range state.Filtered() {
		fav := ""
		if r.IsFavorite {
			fav = "*"
		}
		table.AddRow(strconv.Itoa(r.ID), r.Name, r.CuisineType, r.Neighborhood, fav)
	}
	cmd.Println(table.View())
	return nil
}
