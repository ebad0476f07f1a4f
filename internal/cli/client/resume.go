package client

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// ResumeDownloadCmd creates the resume download command.
func ResumeDownloadCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the resume PDF from a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := RemoteURL(cmd)
			if url == "" {
				return fmt.Errorf("server URL required: pass --api-url or set %s", envAPIURL)
			}
			return downloadResume(cmd.Context(), cmd.OutOrStdout(), NewAPIClient(url), output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "resume.pdf", "File to write")
	cmd.Flags().String("api-url", "", "Server URL")

	return cmd
}

func downloadResume(ctx context.Context, w io.Writer, api *APIClient, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), ".resume-*.pdf")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	n, err := api.DownloadResume(ctx, f, nil)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(w, "Saved %s (%d bytes)\n", path, n)
	return nil
}
