package ui

import (
	"fmt"

	"github.com/idilsaglam/cardtodo/internal/model"
)

// EmptyText is shown in place of an empty list.
const EmptyText = "🌸 No Todos Yet. Add Something Cool!"

// Summary is the header line with live counts.
func Summary(records []model.Record) string {
	t := Current()
	d, p := model.Stats(records)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Header.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(records),
	)
}

// ListingLines renders the static (non-interactive) listing: header,
// progress bar, then the records flat or grouped by pending/done.
func ListingLines(records []model.Record, group bool) []string {
	t := Current()
	d, p := model.Stats(records)

	lines := []string{
		Summary(records),
		t.Muted.Render(ProgressBar(d, d+p, 28)),
		"",
	}
	if group {
		lines = append(lines, groupLines(records)...)
	} else {
		lines = append(lines, flatLines(records)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Sam\" 30`"))
	return lines
}

func flatLines(records []model.Record) []string {
	t := Current()
	if len(records) == 0 {
		return []string{t.Empty.Render(EmptyText)}
	}
	out := make([]string, 0, len(records))
	for i, r := range records {
		out = append(out, recordLine(t, i, r))
	}
	return out
}

func recordLine(t Theme, i int, r model.Record) string {
	idx := fmt.Sprintf("%2d.", i+1)
	box, boxStyle := t.BoxUnchecked, t.Muted
	name, badge := truncate(r.Name, 60), t.Badge.Render(r.Age+" yrs")
	if r.Completed {
		box, boxStyle = t.BoxChecked, t.Success
		name = t.Done.Render(name)
		badge = t.BadgeDone.Render(r.Age + " yrs")
	}
	return fmt.Sprintf("%s %s %s  %s  %s",
		t.Muted.Render(idx), boxStyle.Render(box), name, badge, t.Muted.Render(r.ID))
}

// groupLines keeps the overall numbering so indexes match `todo done <n>`.
func groupLines(records []model.Record) []string {
	t := Current()
	var pend, done []string
	for i, r := range records {
		if r.Completed {
			done = append(done, recordLine(t, i, r))
		} else {
			pend = append(pend, recordLine(t, i, r))
		}
	}
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, pend...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, done...)
	}
	return lines
}
