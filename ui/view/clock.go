package view

import (
	"fmt"
	"time"

	"github.com/soocke/arcap-go/ui/theme"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// ClockPanel shows the running recording time and the total recorded.
type ClockPanel interface {
	SetClock(elapsed, total time.Duration)
}

type clock struct {
	elapsedLbl *LabelWidget
	totalLbl   *LabelWidget
	last       [2]int
}

// NewClockPanel grids two labels at (row, col) and (row, col+1).
func NewClockPanel(row, col int) ClockPanel {
	c := &clock{
		elapsedLbl: Label(Width(14), Background(theme.ColorBg), Foreground(theme.ColorText)),
		totalLbl:   Label(Width(14), Background(theme.ColorBg), Foreground(theme.ColorTextMuted)),
		last:       [2]int{-1, -1},
	}
	Grid(c.elapsedLbl, Row(row), Column(col), Sticky("w"), Padx("0.2m"))
	Grid(c.totalLbl, Row(row), Column(col+1), Sticky("w"), Padx("0.2m"))
	c.SetClock(0, 0)
	return c
}

func formatDuration(d time.Duration) string {
	seconds := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// SetClock reconfigures the labels only when the displayed second changes.
func (c *clock) SetClock(elapsed, total time.Duration) {
	if c == nil || c.elapsedLbl == nil {
		return
	}
	e, t := int(elapsed.Seconds()), int(total.Seconds())
	if c.last[0] != e {
		c.elapsedLbl.Configure(Txt("REC " + formatDuration(elapsed)))
	}
	if c.last[1] != t {
		c.totalLbl.Configure(Txt("Total " + formatDuration(total)))
	}
	c.last = [2]int{e, t}
}
