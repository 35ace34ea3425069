package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/pkg/enums"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true).Width(18)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#3FB950"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#E5A50A"))
	dangerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
)

func renderTable(w io.Writer, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(none)"))
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

type field struct {
	label string
	value string
}

func renderFields(w io.Writer, title string, fields []field) {
	lines := []string{titleStyle.Render(title)}
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		lines = append(lines, labelStyle.Render(f.label)+f.value)
	}
	fmt.Fprintln(w, lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, okStyle.Render(fmt.Sprintf(format, args...)))
}

// levelStyle colors alert levels and order statuses by severity.
func levelStyle(value string) string {
	switch value {
	case string(enums.AlertLevelOutOfStock), string(enums.RestockUrgencyCritical), string(enums.RestockOrderStatusCancelled):
		return dangerStyle.Render(value)
	case string(enums.AlertLevelCriticalLow), string(enums.RestockUrgencyHigh), string(enums.RestockOrderStatusDraft):
		return warnStyle.Render(value)
	case string(enums.RestockOrderStatusFulfilled), string(enums.AlertStatusResolved):
		return okStyle.Render(value)
	}
	return value
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Local().Format(time.DateTime)
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
