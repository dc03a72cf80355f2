package output

import (
	"io"

	"github.com/agentstation/bangmap/internal/cmd/table"
	"github.com/agentstation/bangmap/pkg/bangs"
)

// FormatBangs writes set to w in the given format. Table formats render the
// summary columns; structured formats render the full records.
func FormatBangs(w io.Writer, set bangs.Set, format Format) error {
	formatter := NewFormatter(format)

	var data any
	if format.IsTable() {
		data = table.BangsToTableData(set, format == FormatWide)
	} else {
		data = set
	}

	return formatter.Format(w, data)
}
