package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/cloo-solutions/folio/internal/domain"
	"github.com/cloo-solutions/folio/internal/ranking"
	"github.com/cloo-solutions/folio/internal/service"
)

const bodyPreview = 160

func printModals(w io.Writer, modals []domain.Modal) {
	if len(modals) == 0 {
		fmt.Fprintln(w, "No cards returned.")
		return
	}

	for i, m := range modals {
		title := m.Title
		if title == "" {
			title = string(m.Type)
		}
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, m.Type, title)

		if sub := subtitle(m); sub != "" {
			fmt.Fprintf(w, "   %s\n", sub)
		}
		if body := truncate(m.Body.Join(" "), bodyPreview); body != "" {
			fmt.Fprintf(w, "   %s\n", body)
		}
		if len(m.Technologies) > 0 {
			fmt.Fprintf(w, "   Tech: %s\n", strings.Join(m.Technologies, ", "))
		}
		if m.LinkHref != "" {
			fmt.Fprintf(w, "   Link: %s\n", m.LinkHref)
		}
		if m.Reasoning != "" {
			fmt.Fprintf(w, "   Why: %s\n", m.Reasoning)
		}
		fmt.Fprintf(w, "   ID: %s\n", m.ID)
		if i < len(modals)-1 {
			fmt.Fprintln(w)
		}
	}
}

func subtitle(m domain.Modal) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{m.Role, m.Company, m.Date} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printRanking shows how the heuristic scored each record for a message.
func printRanking(w io.Writer, r service.Ranking, top int) {
	fmt.Fprintf(w, "Tokens: %s\n", strings.Join(r.Tokens, " "))

	printScores(w, "Experiences", r.Experiences, top, func(e domain.Experience) string {
		return e.ID + " (" + e.Company + ")"
	})
	printScores(w, "Projects", r.Projects, top, func(p domain.Project) string {
		return p.ID + " (" + p.Title + ")"
	})
	printScores(w, "Education", r.Education, top, func(e domain.Education) string {
		return e.ID + " (" + e.Institution + ")"
	})
}

func printScores[T any](w io.Writer, heading string, scored []ranking.Scored[T], top int, label func(T) string) {
	fmt.Fprintf(w, "%s:\n", heading)
	if len(scored) == 0 {
		fmt.Fprintln(w, "  (no matches)")
		return
	}
	for i, s := range scored {
		if i == top {
			fmt.Fprintf(w, "  ... %d more\n", len(scored)-top)
			break
		}
		fmt.Fprintf(w, "  %3d  %s\n", s.Score, label(s.Item))
	}
}
