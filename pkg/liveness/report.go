package liveness

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/bangmap/pkg/bangs"
	"github.com/agentstation/bangmap/pkg/constants"
)

// Reporter renders the liveness report.
type Reporter struct {
	term string
}

// NewReporter creates a reporter that shows URLs resolved with term.
func NewReporter(term string) *Reporter {
	if term == "" {
		term = constants.ProbeTerm
	}
	return &Reporter{term: term}
}

// Write renders the report of set to w: one section per class in
// ReportOrder, each listing the triggers, rank, name, resolved URL and status
// of its bangs.
func (r *Reporter) Write(w io.Writer, set bangs.Set) error {
	groups := Group(set)
	doc := md.NewMarkdown(w)

	for _, class := range ReportOrder {
		doc.H1(string(class)).PlainText("")
		for i, b := range groups[class] {
			if i > 0 {
				doc.PlainText("")
			}
			r.entry(doc, b)
		}
		doc.PlainText("")
	}

	return doc.Build()
}

// Render returns the report of set as a string.
func (r *Reporter) Render(set bangs.Set) (string, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, set); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Reporter) entry(doc *md.Markdown, b bangs.Bang) {
	doc.PlainText(strings.Join(b.Code, " "))
	doc.BulletList(
		fmt.Sprintf("{%d} %s", b.Rank, md.Link(b.Name, b.ResolvedURL(r.term))),
		fmt.Sprintf("status: %s (%s)", formatStatus(b.Status), b.StatusText),
	)
}

func formatStatus(status *int) string {
	if status == nil {
		return "undefined"
	}
	return strconv.Itoa(*status)
}
