package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/folio/internal/cli"
	"github.com/cloo-solutions/folio/internal/config"
	"github.com/cloo-solutions/folio/internal/pagination"
	"github.com/cloo-solutions/folio/internal/service"
)

var errNoAnalytics = errors.New("no analytics store configured (set FOLIO_DATABASE_URL or FOLIO_ANALYTICS_SQLITE_PATH)")

// QueriesCmd returns the queries command, which lists logged visitor queries.
func QueriesCmd() *cobra.Command {
	var (
		limit      int
		cursor     string
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "queries",
		Short: "List logged visitor queries",
		Long:  "Lists answered queries from the analytics store, newest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			backend, err := cli.OpenAnalytics(cmd.Context(), cfg, nil, false)
			if err != nil {
				return err
			}
			defer backend.Close()

			if backend.Reader == nil {
				return errNoAnalytics
			}
			return listQueries(cmd.Context(), cmd.OutOrStdout(), backend.Reader, cursor, limit, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", pagination.DefaultLimit, "Maximum number of queries")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous output")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the page as JSON")

	return cmd
}

func listQueries(ctx context.Context, w io.Writer, reader service.QueryLogReader, token string, limit int, outputJSON bool) error {
	cursor, err := pagination.DecodeCursor(token)
	if err != nil {
		return err
	}

	page, err := reader.ListQueries(ctx, cursor, limit)
	if err != nil {
		return fmt.Errorf("failed to list queries: %w", err)
	}

	if outputJSON {
		out, err := json.MarshalIndent(page, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode queries: %w", err)
		}
		fmt.Fprintln(w, string(out))
		return nil
	}

	if len(page.Items) == 0 {
		fmt.Fprintln(w, "No queries logged.")
		return nil
	}

	for _, e := range page.Items {
		source := string(e.Source)
		if e.Provider != "" {
			source += "/" + e.Provider
		}
		fmt.Fprintf(w, "%s  %-22s %-10s %5dms  %q\n",
			e.CreatedAt.UTC().Format(time.DateTime), source, e.Lens, e.DurationMs, e.Query)

		ids := make([]string, 0, len(e.Modals))
		for _, m := range e.Modals {
			ids = append(ids, m.ID)
		}
		if len(ids) > 0 {
			fmt.Fprintf(w, "    cards: %s\n", strings.Join(ids, ", "))
		}
	}

	if page.HasMore {
		fmt.Fprintf(w, "\nMore results: --cursor %s\n", page.Cursor)
	}
	return nil
}
