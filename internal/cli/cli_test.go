package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloo-solutions/folio/internal/config"
	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/service"
)

func testRoot() *cobra.Command {
	root := &cobra.Command{Use: "foliod"}
	AddHelpJSONFlag(root)

	ask := &cobra.Command{Use: "ask <message>", Short: "Ask a question", Aliases: []string{"q"}}
	ask.Flags().String("lens", "none", "Audience lens")
	ask.Flags().Bool("explain", false, "Show ranking")

	resume := &cobra.Command{Use: "resume", Short: "Manage the resume PDF"}
	upload := &cobra.Command{Use: "upload <file>", Short: "Upload the PDF"}
	resume.AddCommand(upload)

	root.AddCommand(ask, resume)
	return root
}

func TestGenerateSchema(t *testing.T) {
	schema := GenerateSchema(testRoot())

	assert.Equal(t, "foliod", schema.Name)
	require.Len(t, schema.Subcommands, 2)

	var ask CommandSchema
	for _, sub := range schema.Subcommands {
		if sub.Name == "ask" {
			ask = sub
		}
	}
	assert.Equal(t, "Ask a question", ask.Description)

	names := make([]string, 0, len(ask.Flags))
	for _, f := range ask.Flags {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"lens", "explain"}, names)
}

func TestWriteSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSchema(&buf, testRoot()))

	var decoded CommandSchema
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "foliod", decoded.Name)
}

func TestHelpJSONTarget(t *testing.T) {
	root := testRoot()

	tests := []struct {
		name     string
		args     []string
		want     string
		wantHelp bool
	}{
		{"no flag", []string{"ask", "hello"}, "", false},
		{"root", []string{"--help-json"}, "foliod", true},
		{"subcommand", []string{"ask", "--help-json"}, "ask", true},
		{"alias", []string{"q", "--help-json"}, "ask", true},
		{"nested", []string{"resume", "upload", "--help-json"}, "upload", true},
		{"unknown falls back to parent", []string{"resume", "nope", "--help-json"}, "resume", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok := HelpJSONTarget(root, tt.args)
			assert.Equal(t, tt.wantHelp, ok)
			if tt.wantHelp {
				require.NotNil(t, cmd)
				assert.Equal(t, tt.want, cmd.Name())
			}
		})
	}
}

func testConfig() *config.Config {
	return &config.Config{
		ResumeLink:       "/resume.pdf",
		ResponseCap:      4,
		PreferProjects:   true,
		DelegateProvider: config.ProviderNone,
		DelegateTimeout:  time.Second,
		ResumeTimeout:    time.Second,
	}
}

func TestNewRuntime_NoDelegate(t *testing.T) {
	rt, err := NewRuntime(context.Background(), testConfig(), nil, true)
	require.NoError(t, err)

	assert.Nil(t, rt.Delegate)
	assert.Equal(t, config.ProviderNone, rt.DelegateName())
	assert.NotEmpty(t, rt.Corpus.Experiences())

	resp, err := rt.ChatService(nil).Chat(context.Background(), domain.Query{Message: "backend work", Lens: domain.LensNone})
	require.NoError(t, err)
	assert.Equal(t, service.SourceHeuristic, resp.Source)
	require.NotEmpty(t, resp.Modals)
	assert.Equal(t, domain.ModalTypeSummary, resp.Modals[0].Type)

	resume := rt.ResumeService().Generate(context.Background(), []string{"backend roles"})
	assert.Len(t, resume.Sections, 4)
	assert.Contains(t, resume.Summary, "backend roles")
}

func TestNewRuntime_MissingCorpus(t *testing.T) {
	cfg := testConfig()
	cfg.CorpusPath = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := NewRuntime(context.Background(), cfg, nil, false)
	assert.Error(t, err)
}

func TestNewDelegate(t *testing.T) {
	t.Run("openrouter", func(t *testing.T) {
		cfg := testConfig()
		cfg.DelegateProvider = config.ProviderAuto
		cfg.OpenRouterAPIKey = "sk-test"
		cfg.OpenRouterModel = "openai/gpt-4o-mini"

		d, err := NewDelegate(context.Background(), cfg, nil)
		require.NoError(t, err)
		require.NotNil(t, d)
		assert.Equal(t, "openrouter", d.Provider())
		assert.Equal(t, "openai/gpt-4o-mini", d.Model())

		_, ok := d.(service.ResumeDelegate)
		assert.True(t, ok, "delegate also writes tailored resumes")
	})

	t.Run("none", func(t *testing.T) {
		d, err := NewDelegate(context.Background(), testConfig(), nil)
		require.NoError(t, err)
		assert.Nil(t, d)
	})
}

func TestOpenAnalytics(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		b, err := OpenAnalytics(context.Background(), testConfig(), nil, false)
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, AnalyticsNone, b.Name)
		assert.Nil(t, b.Sink)
		assert.Nil(t, b.Reader)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := testConfig()
		cfg.AnalyticsSQLitePath = filepath.Join(t.TempDir(), "analytics.db")

		b, err := OpenAnalytics(context.Background(), cfg, nil, false)
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, AnalyticsSQLite, b.Name)
		require.NotNil(t, b.Sink)

		entry := service.AnalyticsEntry{
			ID:        "q-1",
			Query:     "hello",
			Lens:      domain.LensNone,
			Source:    service.SourceHeuristic,
			CreatedAt: time.Now().UTC(),
		}
		require.NoError(t, b.Sink.RecordQuery(context.Background(), entry))

		page, err := b.Reader.ListQueries(context.Background(), nil, 10)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "q-1", page.Items[0].ID)
	})
}
