package pipeline

import (
	"fmt"
	"strings"

	"github.com/DIZ-admin/meeting-minutes-generator-v2/internal/domain/entities"
)

// RenderMarkdown renders the protocol as a human-readable markdown
// document.
func RenderMarkdown(p *entities.Protocol) string {
	var b strings.Builder

	title := p.Metadata.Title
	if title == "" {
		title = "Meeting Protocol"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if p.Metadata.Date != "" {
		fmt.Fprintf(&b, "**Date:** %s  \n", p.Metadata.Date)
	}
	if p.Metadata.Location != "" {
		fmt.Fprintf(&b, "**Location:** %s  \n", p.Metadata.Location)
	}
	if p.Metadata.Organizer != "" {
		fmt.Fprintf(&b, "**Organizer:** %s  \n", p.Metadata.Organizer)
	}
	b.WriteString("\n")

	if len(p.Participants) > 0 {
		b.WriteString("## Participants\n\n")
		for _, part := range p.Participants {
			line := "- " + part.Name
			if part.Role != "" {
				line += " (" + part.Role + ")"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(p.AgendaItems) > 0 {
		b.WriteString("## Agenda\n\n")
		for i, item := range p.AgendaItems {
			fmt.Fprintf(&b, "%d. %s", i+1, item.Title)
			if item.Duration != "" {
				fmt.Fprintf(&b, " (%s)", item.Duration)
			}
			b.WriteString("\n")
			if item.Notes != "" {
				fmt.Fprintf(&b, "   %s\n", item.Notes)
			}
		}
		b.WriteString("\n")
	}

	if p.Summary != "" {
		b.WriteString("## Summary\n\n")
		b.WriteString(p.Summary)
		b.WriteString("\n\n")
	}

	if len(p.Decisions) > 0 {
		b.WriteString("## Decisions\n\n")
		for _, d := range p.Decisions {
			b.WriteString("- " + d.Text)
			if d.Context != "" {
				b.WriteString(" _(" + d.Context + ")_")
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(p.ActionItems) > 0 {
		b.WriteString("## Action Items\n\n")
		b.WriteString("| Task | Assignee | Due |\n")
		b.WriteString("|------|----------|-----|\n")
		for _, a := range p.ActionItems {
			assignee := a.Assignee
			if assignee == "" {
				assignee = "-"
			}
			due := a.DueDate
			if due == "" {
				due = "-"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", a.Text, assignee, due)
		}
		b.WriteString("\n")
	}

	if p.Error != "" {
		b.WriteString("> **Note:** " + p.Error + "\n")
	}

	return b.String()
}
