package cmd

import (
	"fmt"
	"strconv"

	"vinyl-scout/feature/library"

	"github.com/spf13/cobra"
)

// statusCmd prints the membership status of one release.
var statusCmd = &cobra.Command{
	Use:   "status <releaseID>",
	Short: "Show whether a release is in your collection or wantlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		releaseID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid release id %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		status, err := a.library.Status(cmd.Context(), releaseID)
		if err != nil {
			return err
		}

		fmt.Printf("release %d: collection=%v wantlist=%v\n",
			releaseID, status.IsInCollection, status.IsInWantlist)
		return nil
	},
}

// addCmd optimistically adds a release to one list.
var addCmd = &cobra.Command{
	Use:   "add <collection|wantlist> <releaseID>",
	Short: "Add a release to your collection or wantlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, releaseID, err := parseListArgs(args)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		// Pull the release metadata so the local entry renders offline.
		entry := library.Entry{ReleaseID: releaseID}
		if release, err := a.search.Release(cmd.Context(), releaseID); err == nil {
			entry.Title = release.Title
			entry.Year = release.Year
			entry.ThumbURL = release.Thumb
			if len(release.Artists) > 0 {
				entry.Artist = release.Artists[0].Name
			}
			if len(release.Labels) > 0 {
				entry.Label = release.Labels[0].Name
				entry.CatalogNumber = release.Labels[0].CatalogNumber
			}
		}

		if err := a.library.Add(cmd.Context(), list, entry); err != nil {
			return err
		}
		fmt.Printf("added release %d to %s\n", releaseID, list)
		return nil
	},
}

// removeCmd optimistically removes a release from one list.
var removeCmd = &cobra.Command{
	Use:   "remove <collection|wantlist> <releaseID>",
	Short: "Remove a release from your collection or wantlist",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		list, releaseID, err := parseListArgs(args)
		if err != nil {
			return err
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.library.Remove(cmd.Context(), list, releaseID); err != nil {
			return err
		}
		fmt.Printf("removed release %d from %s\n", releaseID, list)
		return nil
	},
}

// listCmd prints the locally persisted entries of one list.
var listCmd = &cobra.Command{
	Use:   "list <collection|wantlist>",
	Short: "List the locally persisted entries of one list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		list := library.ListType(args[0])
		if !list.Valid() {
			return fmt.Errorf("unknown list type %q", args[0])
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		entries, err := a.library.Entries(list)
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Printf("%s is empty; run 'vinyl-scout sync %s' first\n", list, list)
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%8d  %-30s  %-40s  %d\n", e.ReleaseID, truncate(e.Artist, 30), truncate(e.Title, 40), e.Year)
		}
		return nil
	},
}

func parseListArgs(args []string) (library.ListType, int64, error) {
	list := library.ListType(args[0])
	if !list.Valid() {
		return "", 0, fmt.Errorf("unknown list type %q", args[0])
	}
	releaseID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid release id %q", args[1])
	}
	return list, releaseID, nil
}

func init() {
	RootCmd.AddCommand(statusCmd)
	RootCmd.AddCommand(addCmd)
	RootCmd.AddCommand(removeCmd)
	RootCmd.AddCommand(listCmd)
}
