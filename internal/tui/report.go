package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/amishk599/jobwatch/internal/model"
)

var (
	reportTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")).
				Padding(1, 0, 1, 0)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	newCellStyle = cellStyle.
			Foreground(lipgloss.Color("42")) // green

	seenCellStyle = cellStyle.
			Foreground(lipgloss.Color("240")) // dim gray

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// Status labels shown in the report.
const (
	StatusNew  = "new"
	StatusSeen = "notified"
)

// RenderPostings formats today's postings with their ids and whether each was
// already notified. ids and seen are indexed like postings.
func RenderPostings(siteName string, postings []model.Posting, ids []model.JobID, seen []bool) string {
	var b strings.Builder
	b.WriteString(reportTitleStyle.Render(fmt.Sprintf("%s: %d posting(s) today", siteName, len(postings))))
	b.WriteString("\n")

	if len(postings) == 0 {
		b.WriteString(hintStyle.Render("Nothing posted today yet."))
		b.WriteString("\n")
		return b.String()
	}

	rows := make([][]string, len(postings))
	newCount := 0
	for i, p := range postings {
		status := StatusSeen
		if !seen[i] {
			status = StatusNew
			newCount++
		}
		rows[i] = []string{string(ids[i]), status, p.Title, p.URL}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "STATUS", "TITLE", "URL").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCellStyle
			}
			if col == 1 {
				if rows[row][1] == StatusNew {
					return newCellStyle
				}
				return seenCellStyle
			}
			return cellStyle
		})

	b.WriteString(t.String())
	b.WriteString("\n")
	b.WriteString(hintStyle.Render(fmt.Sprintf("%d new, %d already notified", newCount, len(postings)-newCount)))
	b.WriteString("\n")
	return b.String()
}

// RenderIDs formats the stored notified ids, oldest first.
func RenderIDs(path string, ids []model.JobID) string {
	var b strings.Builder
	b.WriteString(reportTitleStyle.Render(fmt.Sprintf("%d notified id(s) in %s", len(ids), path)))
	b.WriteString("\n")
	for _, id := range ids {
		b.WriteString(cellStyle.Render(string(id)))
		b.WriteString("\n")
	}
	return b.String()
}
