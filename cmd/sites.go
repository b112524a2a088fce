package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xvierd/detox-cli/internal/services"
)

// sitesCmd represents the sites command
var sitesCmd = &cobra.Command{
	Use:   "sites [query]",
	Short: "List blocked sites",
	Long:  `List the configured blocked sites in host-file order, or fuzzy-filter them by query.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		matches := services.NewSiteService(appSettings.BlockedDomains).Search(query)

		if jsonOutput {
			domains := make([]string, len(matches))
			for i, m := range matches {
				domains[i] = m.Domain
			}
			return writeJSON(cmd.OutOrStdout(), domains)
		}
		printSites(cmd.OutOrStdout(), matches, query)
		return nil
	},
}

func printSites(w io.Writer, matches []services.SiteMatch, query string) {
	if len(matches) == 0 {
		if query == "" {
			fmt.Fprintln(w, "No sites configured.")
		} else {
			fmt.Fprintf(w, "No sites match %q.\n", query)
		}
		return
	}
	for _, m := range matches {
		fmt.Fprintf(w, "%3d  %s\n", m.Position+1, highlight(m.Domain, m.MatchedIndexes))
	}
}

// highlight wraps matched bytes in brackets.
func highlight(s string, indexes []int) string {
	if len(indexes) == 0 {
		return s
	}
	matched := make(map[int]bool, len(indexes))
	for _, i := range indexes {
		matched[i] = true
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if matched[i] {
			b.WriteByte('[')
			b.WriteByte(s[i])
			b.WriteByte(']')
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
