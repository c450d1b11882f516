package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"leadhub-engine/internal/domain"
	"leadhub-engine/internal/match"
)

var (
	matchFile string
	matchJSON bool
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a buyer requirement against stored listings",
	Long: `Reads a buyer requirement as JSON (the same body POST /match-properties
takes) from --file, or stdin when the file is "-", and prints the matching
listings newest first.

With the sqlite driver the data directory lock is taken, so run it while
no server is using the same directory. The postgres driver reads without
the lock. The memory driver starts empty and always prints no matches.`,
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringVarP(&matchFile, "file", "f", "-", "requirement JSON file, - for stdin")
	matchCmd.Flags().BoolVar(&matchJSON, "json", false, "print the API response envelope instead of a table")
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	var in io.Reader = cmd.InOrStdin()
	if matchFile != "-" {
		f, err := os.Open(matchFile)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	var req domain.BuyerRequirement
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return fmt.Errorf("decode requirement: %w", err)
	}

	a, err := bootstrap(cmd.Context(), lockSQLite)
	if err != nil {
		return err
	}
	defer a.close()

	matches, err := match.NewEngine(a.source, a.log.Named("match")).Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	return printMatches(cmd.OutOrStdout(), matches, matchJSON)
}

func printMatches(w io.Writer, matches []domain.Listing, asJSON bool) error {
	if asJSON {
		if matches == nil {
			matches = []domain.Listing{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"success": true, "matches": matches, "count": len(matches)})
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMIRATE\tAREA\tPURPOSE\tBEDS\tSALE PRICE\tRENT\tCREATED")
	for _, l := range matches {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Emirate, l.AreaCommunity, l.Purpose, l.Bedrooms, l.SalePrice, l.AskingRent,
			l.CreatedAt.Format("2006-01-02 15:04"))
	}
	fmt.Fprintf(tw, "\n%d match(es)\n", len(matches))
	return tw.Flush()
}
