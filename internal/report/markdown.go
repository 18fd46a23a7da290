package report

import (
	"fmt"
	"strings"

	"github.com/sadopc/workpulse/internal/model"
)

const emptySection = "_Nothing to report._"

// Markdown renders the same sections as View, as a plain hierarchical
// document for export.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("# Status Report\n\n")
	if line := r.byline(); line != "" {
		b.WriteString(line + "\n\n")
	}
	fmt.Fprintf(&b, "Period: %s to %s\n", longDate(r.Options.From), longDate(r.Options.To))

	for _, sec := range r.View() {
		fmt.Fprintf(&b, "\n## %s\n\n", sec.Title)
		if sec.Empty() {
			b.WriteString(emptySection + "\n")
			continue
		}
		for i, g := range sec.Groups {
			if len(g.Items) == 0 {
				continue
			}
			if g.Heading != "" {
				if i > 0 {
					b.WriteString("\n")
				}
				fmt.Fprintf(&b, "### %s\n\n", g.Heading)
			}
			for _, it := range g.Items {
				b.WriteString(itemLine(it) + "\n")
			}
		}
	}
	return b.String()
}

func itemLine(it Item) string {
	if it.Detail == "" {
		return "- " + it.Text
	}
	return fmt.Sprintf("- %s (%s)", it.Text, it.Detail)
}

func (r *Report) byline() string {
	var parts []string
	if r.Author.Name != "" {
		name := "**" + r.Author.Name + "**"
		if r.Author.Title != "" {
			name += ", " + r.Author.Title
		}
		parts = append(parts, name)
	}
	if r.Author.Boss != "" {
		parts = append(parts, "Prepared for "+r.Author.Boss)
	}
	return strings.Join(parts, "  \n")
}

func longDate(d string) string {
	t, err := model.ParseDate(d)
	if err != nil {
		return d
	}
	return t.Format("Jan 2, 2006")
}
