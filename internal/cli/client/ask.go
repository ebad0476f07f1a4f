package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloo-solutions/folio/internal/cli"
	"github.com/cloo-solutions/folio/internal/config"
	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/logger"
	"github.com/cloo-solutions/folio/internal/service"
)

const explainTop = 5

// Answerer answers a visitor question with cards.
type Answerer interface {
	Answer(ctx context.Context, q domain.Query) ([]domain.Modal, error)
}

type localAnswerer struct {
	chat *service.ChatService
}

func (a localAnswerer) Answer(ctx context.Context, q domain.Query) ([]domain.Modal, error) {
	resp, err := a.chat.Chat(ctx, q)
	if err != nil {
		return nil, err
	}
	return resp.Modals, nil
}

type remoteAnswerer struct {
	api *APIClient
}

func (a remoteAnswerer) Answer(ctx context.Context, q domain.Query) ([]domain.Modal, error) {
	return a.api.Chat(ctx, q.Message, q.Lens, q.History)
}

type askOptions struct {
	lens       *lensFlag
	history    []string
	explain    bool
	noDelegate bool
	verbose    bool
	outputJSON bool
}

// AskCmd creates the ask command.
func AskCmd() *cobra.Command {
	opts := askOptions{lens: newLensFlag()}

	cmd := &cobra.Command{
		Use:   "ask <message>",
		Short: "Ask the portfolio a question",
		Long: `Answers a question with portfolio cards. Runs against the local corpus
unless --api-url or FOLIO_API_URL points at a running server.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, " ")
			q, err := domain.NewQuery(message, opts.history, string(opts.lens.lens))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if url := RemoteURL(cmd); url != "" {
				if opts.explain {
					return errors.New("--explain only works against the local corpus")
				}
				return runAsk(cmd.Context(), out, remoteAnswerer{api: NewAPIClient(url)}, q, opts.outputJSON)
			}

			chat, err := localChat(cmd.Context(), opts)
			if err != nil {
				return err
			}
			if opts.explain {
				printRanking(out, chat.Assembler().Rank(q.Message), explainTop)
				fmt.Fprintln(out)
			}
			return runAsk(cmd.Context(), out, localAnswerer{chat: chat}, q, opts.outputJSON)
		},
	}

	cmd.Flags().Var(opts.lens, "lens", lensUsage())
	cmd.Flags().StringArrayVar(&opts.history, "history", nil, "Earlier message in the conversation (repeatable)")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "Print the heuristic ranking before the answer")
	cmd.Flags().BoolVar(&opts.noDelegate, "no-delegate", false, "Skip the generative delegate")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log delegate calls")
	cmd.Flags().BoolVar(&opts.outputJSON, "json", false, "Print cards as JSON")
	cmd.Flags().String("api-url", "", "Server URL (default: local corpus)")

	return cmd
}

func localChat(ctx context.Context, opts askOptions) (*service.ChatService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log := zap.NewNop()
	if opts.verbose {
		if log, err = logger.New(false, true); err != nil {
			return nil, err
		}
	}

	rt, err := cli.NewRuntime(ctx, cfg, log, !opts.noDelegate)
	if err != nil {
		return nil, err
	}
	return rt.ChatService(nil), nil
}

func runAsk(ctx context.Context, w io.Writer, answerer Answerer, q domain.Query, outputJSON bool) error {
	modals, err := answerer.Answer(ctx, q)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if outputJSON {
		if modals == nil {
			modals = []domain.Modal{}
		}
		output, err := json.MarshalIndent(map[string][]domain.Modal{"modals": modals}, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode cards: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	printModals(w, modals)
	return nil
}
