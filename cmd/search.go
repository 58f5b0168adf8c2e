package cmd

import (
	"fmt"
	"strings"

	"vinyl-scout/core/match"

	"github.com/spf13/cobra"
)

var (
	matchArtist string
	matchAlbum  string
	matchLabel  string
	matchCatNo  string
	matchYear   string
)

// searchCmd runs a free-text catalog search from the terminal.
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the remote catalog",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		results, err := a.search.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		if len(results.Results) == 0 {
			fmt.Println("No results.")
			return nil
		}
		for _, r := range results.Results {
			fmt.Printf("%8d  %-60s  %4s  %s\n", r.ID, truncate(r.Title, 60), r.Year, r.CatalogNumber)
		}
		return nil
	},
}

// matchCmd ranks catalog candidates against sleeve fields given as flags.
var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank catalog candidates against extracted sleeve fields",
	Long: `Scores every catalog candidate against the given fields and prints
them best first.

Examples:
  vinyl-scout match --artist "Miles Davis" --album "Kind of Blue"
  vinyl-scout match --catno "CL 1355"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		results, err := a.search.Match(cmd.Context(), match.Fields{
			Artist:        matchArtist,
			Album:         matchAlbum,
			Label:         matchLabel,
			CatalogNumber: matchCatNo,
			Year:          matchYear,
		})
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No candidates.")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%.3f  %8d  %-60s  %4s  %s\n", r.Score, r.ID, truncate(r.Title, 60), r.Year, r.CatalogNumber)
		}
		return nil
	},
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func init() {
	matchCmd.Flags().StringVar(&matchArtist, "artist", "", "Extracted artist name")
	matchCmd.Flags().StringVar(&matchAlbum, "album", "", "Extracted album title")
	matchCmd.Flags().StringVar(&matchLabel, "label", "", "Extracted record label")
	matchCmd.Flags().StringVar(&matchCatNo, "catno", "", "Extracted catalog number")
	matchCmd.Flags().StringVar(&matchYear, "year", "", "Extracted release year")

	RootCmd.AddCommand(searchCmd)
	RootCmd.AddCommand(matchCmd)
}
