package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/folio/internal/api/handlers"
	"github.com/cloo-solutions/folio/internal/config"
	"github.com/cloo-solutions/folio/internal/corpus"
)

var corpusKinds = []string{"experiences", "projects", "education"}

// corpusListing is the whole corpus, shaped like the /corpus responses.
type corpusListing struct {
	handlers.ExperiencesResponse
	handlers.ProjectsResponse
	handlers.EducationResponse
}

// CorpusCmd creates the corpus command.
func CorpusCmd() *cobra.Command {
	var outputJSON bool

	cmd := &cobra.Command{
		Use:       "corpus [experiences|projects|education]",
		Short:     "List corpus records",
		Long:      "Lists the records questions are answered from, locally or from --api-url.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: corpusKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := corpusKinds
			if len(args) == 1 {
				kinds = args
			}

			var (
				listing *corpusListing
				err     error
			)
			if url := RemoteURL(cmd); url != "" {
				listing, err = remoteListing(cmd.Context(), NewAPIClient(url), kinds)
			} else {
				listing, err = localListing()
			}
			if err != nil {
				return err
			}
			return printCorpus(cmd.OutOrStdout(), listing, kinds, outputJSON)
		},
	}

	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print records as JSON")
	cmd.Flags().String("api-url", "", "Server URL (default: local corpus)")

	return cmd
}

func localListing() (*corpusListing, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := corpus.Load(cfg.CorpusPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	return listingFromStore(store), nil
}

func listingFromStore(store *corpus.Store) *corpusListing {
	l := &corpusListing{}
	l.Experiences = store.Experiences()
	l.Projects = store.Projects()
	l.Education = store.Education()
	return l
}

func remoteListing(ctx context.Context, api *APIClient, kinds []string) (*corpusListing, error) {
	l := &corpusListing{}
	for _, kind := range kinds {
		var out any
		switch kind {
		case "experiences":
			out = &l.ExperiencesResponse
		case "projects":
			out = &l.ProjectsResponse
		case "education":
			out = &l.EducationResponse
		}
		if err := api.Corpus(ctx, kind, out); err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", kind, err)
		}
	}
	return l, nil
}

func printCorpus(w io.Writer, l *corpusListing, kinds []string, outputJSON bool) error {
	if outputJSON {
		selected := make(map[string]any, len(kinds))
		for _, kind := range kinds {
			switch kind {
			case "experiences":
				selected[kind] = l.Experiences
			case "projects":
				selected[kind] = l.Projects
			case "education":
				selected[kind] = l.Education
			}
		}
		output, err := json.MarshalIndent(selected, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode corpus: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	for i, kind := range kinds {
		if i > 0 {
			fmt.Fprintln(w)
		}
		switch kind {
		case "experiences":
			fmt.Fprintf(w, "Experiences (%d):\n", len(l.Experiences))
			for _, e := range l.Experiences {
				fmt.Fprintf(w, "  %-24s %s, %s\n", e.ID, e.Role, e.Company)
			}
		case "projects":
			fmt.Fprintf(w, "Projects (%d):\n", len(l.Projects))
			for _, p := range l.Projects {
				fmt.Fprintf(w, "  %-24s %s\n", p.ID, p.Title)
			}
		case "education":
			fmt.Fprintf(w, "Education (%d):\n", len(l.Education))
			for _, e := range l.Education {
				fmt.Fprintf(w, "  %-24s %s, %s\n", e.ID, e.Degree, e.Institution)
			}
		}
	}
	return nil
}
