package profiling

import (
	"strconv"
	"strings"
)

// Report column widths. Values wider than their column are truncated from
// the left so that the tail of long names and paths stays visible.
const (
	rankColWidth  = 4
	nameColWidth  = 28
	callsColWidth = 10
	timeColWidth  = 14
	siteColWidth  = 32
)

var reportHeader = [5]string{"#", "function", "calls", "elapsed", "defined at"}

var reportColWidths = [5]int{
	rankColWidth, nameColWidth, callsColWidth, timeColWidth, siteColWidth,
}

// Report ranks the records with Query and renders them as a fixed-width
// table with a border row, a header row, one row per record, and a closing
// border row.
func (p *Profiler) Report(key SortKey, limit int) string {
	var sb strings.Builder

	sb.WriteString(reportBorder())
	sb.WriteString(reportRow(reportHeader))
	sb.WriteString(reportBorder())

	ranking := p.Query(key, limit)
	rank := 0

	for {
		entry, ok := ranking.Next()
		if !ok {
			break
		}

		rank++
		sb.WriteString(reportRow([5]string{
			strconv.Itoa(rank),
			entry.DisplayName,
			strconv.FormatUint(entry.CallCount, 10),
			entry.Elapsed.String(),
			entry.DefSite,
		}))
	}

	sb.WriteString(reportBorder())

	return sb.String()
}

func reportBorder() string {
	var sb strings.Builder

	for _, width := range reportColWidths {
		sb.WriteString("+")
		sb.WriteString(strings.Repeat("-", width+2))
	}
	sb.WriteString("+\n")

	return sb.String()
}

func reportRow(cells [5]string) string {
	var sb strings.Builder

	for i, cell := range cells {
		sb.WriteString("| ")
		sb.WriteString(fitCell(cell, reportColWidths[i]))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")

	return sb.String()
}

// fitCell forces a value into a fixed width: long values keep their trailing
// characters, short values are right-padded with spaces.
func fitCell(value string, width int) string {
	if len(value) > width {
		return value[len(value)-width:]
	}

	return value + strings.Repeat(" ", width-len(value))
}
