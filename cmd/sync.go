package cmd

import (
	"fmt"

	"vinyl-scout/feature/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var syncAll bool

// syncCmd runs a blocking full refresh of one list (or both with --all).
var syncCmd = &cobra.Command{
	Use:   "sync [collection|wantlist]",
	Short: "Synchronize the local library with the remote catalog",
	Long: `Walks the remote listing page by page and ingests every release into
the local store. Entries removed remotely are pruned after a complete run.

Examples:
  # Sync the collection
  vinyl-scout sync collection

  # Sync both lists
  vinyl-scout sync --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var lists []library.ListType
		switch {
		case syncAll:
			lists = []library.ListType{library.ListCollection, library.ListWantlist}
		case len(args) == 1:
			list := library.ListType(args[0])
			if !list.Valid() {
				return fmt.Errorf("unknown list type %q", args[0])
			}
			lists = []library.ListType{list}
		default:
			return fmt.Errorf("specify a list to sync or pass --all")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		for _, list := range lists {
			if err := a.library.Refresh(cmd.Context(), list); err != nil {
				return fmt.Errorf("syncing %s: %w", list, err)
			}
			state := a.library.States()[list]
			a.logger.Info("List synchronized",
				zap.String("list", string(list)),
				zap.Int("pages", state.PagesLoaded),
				zap.Int("items", state.ItemsLoaded),
			)
		}
		return nil
	},
}

func init() {
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Sync both the collection and the wantlist")
	RootCmd.AddCommand(syncCmd)
}
