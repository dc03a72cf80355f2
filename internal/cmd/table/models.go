// Package table provides common table formatting utilities for CLI commands.
package table

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/bangmap/pkg/bangs"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// MaxCellWidth bounds URL and tag cells.
const MaxCellWidth = 80

var columns = []string{"rank", "tier", "trigger", "name", "status"}

var wideColumns = []string{"triggers", "tags", "url"}

// BangsToTableData converts a record set to table format. The wide form adds
// every trigger, the tags and the URL template.
func BangsToTableData(set bangs.Set, wide bool) Data {
	names := columns
	if wide {
		names = append(append([]string{}, columns...), wideColumns...)
	}

	caser := cases.Title(language.English)
	headers := make([]string, len(names))
	for i, n := range names {
		headers[i] = caser.String(n)
	}

	alignment := []Align{AlignRight, AlignRight, AlignLeft, AlignLeft, AlignLeft}
	if wide {
		alignment = append(alignment, AlignLeft, AlignLeft, AlignLeft)
	}

	rows := make([][]string, 0, len(set))
	for _, b := range set {
		row := []string{
			strconv.Itoa(b.Rank),
			strconv.Itoa(b.DDGR),
			b.Trigger(),
			b.Name,
			FormatStatus(b),
		}
		if wide {
			row = append(row,
				strings.Join(b.Code, " "),
				Truncate(strings.Join(b.Tags, " "), MaxCellWidth),
				Truncate(b.URLs.S, MaxCellWidth),
			)
		}
		rows = append(rows, row)
	}

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: alignment,
	}
}

// FormatStatus renders the probe status of b, or "-" when it was never probed.
func FormatStatus(b bangs.Bang) string {
	if !b.Probed() {
		return "-"
	}
	if b.StatusText == "" {
		return strconv.Itoa(*b.Status)
	}
	return strconv.Itoa(*b.Status) + " " + b.StatusText
}

// Truncate shortens s to at most width characters, marking the cut with "...".
func Truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
