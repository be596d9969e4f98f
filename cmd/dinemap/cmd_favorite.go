package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var favoriteRemove bool

// favoriteCmd marks or unmarks a restaurant as a favorite. The updated
// server record force-overwrites the local copy.
var favoriteCmd = &cobra.Command{
	Use:   "favorite [restaurant-id]",
	Short: "Mark a restaurant as a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavorite,
}

func init() {
	favoriteCmd.Flags().BoolVar(&favoriteRemove, "remove", false, "remove the favorite mark instead")
}

func runFavorite(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid restaurant id %q", args[0])
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	restaurant, err := a.reconciler.ToggleFavorite(cmd.Context(), id, !favoriteRemove)
	if err != nil {
		return err
	}

	logger.Info("favorite updated",
		zap.Int("restaurant", restaurant.ID),
		zap.Bool("favorite", bool(restaurant.IsFavorite)))
	if restaurant.IsFavorite {
		cmd.Printf("%s is now a favorite\n", restaurant.Name)
	} else {
		cmd.Printf("%s is no longer a favorite\n", restaurant.Name)
	}
	return nil
}
