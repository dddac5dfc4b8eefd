// Package render produces the printable tee-time sheet from the read-only
// assignment view: one table per date, slots in tee-off order, occupants
// with team and gender markers.
package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/whalechillz/go-singsing-sub000/internal/domain/model"
)

const sheetStyle = `
body { font-family: 'Malgun Gothic', sans-serif; margin: 24px; }
h1 { font-size: 20px; }
h2 { font-size: 16px; margin-top: 28px; border-bottom: 2px solid #333; padding-bottom: 4px; }
table { border-collapse: collapse; width: 100%; margin-top: 8px; }
th, td { border: 1px solid #999; padding: 4px 8px; font-size: 12px; text-align: left; }
th { background: #eee; }
td.count { text-align: center; white-space: nowrap; }
tr.full td { background: #f7f7f7; }
`

// TeeSheetHTML renders the full printable document for a tour.
func TeeSheetHTML(tourName string, days []model.DayView) string {
	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\">")
	sb.WriteString("<title>")
	sb.WriteString(html.EscapeString(tourName))
	sb.WriteString(" tee times</title><style>")
	sb.WriteString(sheetStyle)
	sb.WriteString("</style></head><body>\n")
	fmt.Fprintf(&sb, "<h1>%s &mdash; Tee Times</h1>\n", html.EscapeString(tourName))

	if len(days) == 0 {
		sb.WriteString("<p>No tee times scheduled.</p>")
	}
	for _, day := range days {
		writeDay(&sb, day)
	}

	sb.WriteString("</body></html>\n")
	return sb.String()
}

func writeDay(sb *strings.Builder, day model.DayView) {
	fmt.Fprintf(sb, "<h2>%s</h2>\n", html.EscapeString(day.Date))
	sb.WriteString(`<table>
<thead><tr><th>Tee-off</th><th>Course</th><th>Players</th><th>Occupancy</th></tr></thead>
<tbody>`)
	if len(day.Slots) == 0 {
		sb.WriteString(`<tr><td colspan="4">No slots on this date.</td></tr>`)
	}
	for _, sv := range day.Slots {
		rowClass := ""
		if sv.Remaining() == 0 {
			rowClass = ` class="full"`
		}
		fmt.Fprintf(sb, "<tr%s><td>%s</td><td>%s</td><td>%s</td><td class=\"count\">%d / %d</td></tr>\n",
			rowClass,
			html.EscapeString(sv.Slot.Teeoff),
			html.EscapeString(sv.Slot.Course),
			occupantCell(sv.Occupants),
			sv.Occupancy, sv.Slot.Capacity,
		)
	}
	sb.WriteString("</tbody></table>\n")
}

func occupantCell(occupants []model.Occupant) string {
	if len(occupants) == 0 {
		return "&mdash;"
	}
	parts := make([]string, 0, len(occupants))
	for _, o := range occupants {
		label := html.EscapeString(o.Name)
		if o.Team != "" {
			label += " (" + html.EscapeString(o.Team) + ")"
		}
		if o.Gender != "" {
			label += " " + html.EscapeString(o.Gender)
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, ", ")
}
