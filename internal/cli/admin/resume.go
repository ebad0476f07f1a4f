package admin

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloo-solutions/folio/internal/cli"
	"github.com/cloo-solutions/folio/internal/config"
)

const pdfMagic = "%PDF-"

// ResumeUploader stores the resume PDF.
type ResumeUploader interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, body io.ReadSeeker, size int64) error
	Key() string
}

// ResumeCmd returns the resume command group for the hosted PDF.
func ResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Manage the hosted resume PDF",
	}
	cmd.AddCommand(resumeUploadCmd(), resumeURLCmd())
	return cmd
}

func resumeUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload the resume PDF served at /resume.pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadS3Config()
			if err != nil {
				return err
			}
			store, err := cli.NewResumeStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to create resume store: %w", err)
			}
			return uploadResume(cmd.Context(), cmd.OutOrStdout(), store, args[0])
		},
	}
}

func resumeURLCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print a short-lived download URL for the resume PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadS3Config()
			if err != nil {
				return err
			}
			store, err := cli.NewResumeStore(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("failed to create resume store: %w", err)
			}
			url, err := store.DownloadURL(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}

func loadS3Config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.HasS3() {
		return nil, fmt.Errorf("resume storage not configured: FOLIO_S3_BUCKET required")
	}
	return cfg, nil
}

func uploadResume(ctx context.Context, w io.Writer, store ResumeUploader, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}

	head := make([]byte, len(pdfMagic))
	if _, err := io.ReadFull(f, head); err != nil || !strings.HasPrefix(string(head), pdfMagic) {
		return fmt.Errorf("%s is not a PDF", path)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to rewind %s: %w", path, err)
	}

	if err := store.EnsureBucket(ctx); err != nil {
		return err
	}
	if err := store.Upload(ctx, f, info.Size()); err != nil {
		return err
	}

	fmt.Fprintf(w, "Uploaded %s (%d bytes) as %s\n", path, info.Size(), store.Key())
	return nil
}
