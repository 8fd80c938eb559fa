package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"timeslider/timerange"
)

// Cell is what one strip column shows.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellOutside
	CellAnimation
	CellSelected
)

// Glyph returns the rune a cell is drawn with.
func (c Cell) Glyph() rune {
	switch c {
	case CellSelected:
		return '█'
	case CellAnimation:
		return '▓'
	case CellOutside:
		return '░'
	default:
		return '·'
	}
}

// StripStyles are the styles RenderStrip paints with.
type StripStyles struct {
	Empty     lipgloss.Style
	Outside   lipgloss.Style
	Animation lipgloss.Style
	Selected  lipgloss.Style
	Label     lipgloss.Style
}

func (s StripStyles) forCell(c Cell) lipgloss.Style {
	switch c {
	case CellSelected:
		return s.Selected
	case CellAnimation:
		return s.Animation
	case CellOutside:
		return s.Outside
	default:
		return s.Empty
	}
}

// columnBounds returns the instants column col of a width-wide strip covers.
func columnBounds(view timerange.Range, width, col int) (time.Time, time.Time) {
	from := view.Start.Add(time.Duration(int64(view.Duration) * int64(col) / int64(width)))
	to := view.Start.Add(time.Duration(int64(view.Duration) * int64(col+1) / int64(width)))
	return from, to
}

func overlaps(from, to time.Time, r timerange.Range) bool {
	return from.Before(r.End()) && to.After(r.Start)
}

// StripCells classifies every column of a width-wide strip over the view
// window. The selection wins over the animation window, which wins over the
// area outside a clamping boundary.
func StripCells(st timerange.State, width int) []Cell {
	if width <= 0 || !st.Initialized() {
		return nil
	}
	cells := make([]Cell, width)
	clamp := st.Boundary.ClampRange()
	for col := range cells {
		from, to := columnBounds(st.View, width, col)
		switch {
		case overlaps(from, to, st.Selected):
			cells[col] = CellSelected
		case st.Mode == timerange.ModeAnimation && overlaps(from, to, st.Animation.Range):
			cells[col] = CellAnimation
		case clamp != nil && (!to.After(clamp.Start) || !from.Before(clamp.End())):
			cells[col] = CellOutside
		}
	}
	return cells
}

// StripTimeAt maps a strip column back to the instant its cell starts at.
// Columns outside the strip are clamped to its edges.
func StripTimeAt(view timerange.Range, width, col int) time.Time {
	if width <= 0 {
		return view.Start
	}
	if col < 0 {
		col = 0
	}
	if col >= width {
		col = width - 1
	}
	from, _ := columnBounds(view, width, col)
	return from
}

const labelLayout = "15:04"

var labelSteps = []time.Duration{
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	2 * time.Hour,
	3 * time.Hour,
	6 * time.Hour,
	12 * time.Hour,
	24 * time.Hour,
}

// labelStep picks the shortest step whose labels do not collide.
func labelStep(view time.Duration, width int) time.Duration {
	room := time.Duration(int64(view) * int64(len(labelLayout)+1) / int64(width))
	for _, step := range labelSteps {
		if step >= room {
			return step
		}
	}
	return labelSteps[len(labelSteps)-1]
}

// StripLabels returns a width-wide row of HH:MM tick labels for the view,
// aligned to the label step in loc.
func StripLabels(view timerange.Range, loc *time.Location, width int) string {
	if width <= 0 || view.Duration <= 0 {
		return ""
	}
	row := []rune(strings.Repeat(" ", width))
	step := labelStep(view.Duration, width)

	local := view.Start.In(loc)
	y, m, d := local.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, loc)
	k := (local.Sub(midnight) + step - 1) / step
	next := 0
	for t := midnight.Add(k * step); t.Before(view.End()); t = t.Add(step) {
		col := int(int64(t.Sub(view.Start)) * int64(width) / int64(view.Duration))
		label := t.In(loc).Format(labelLayout)
		if col < next || col+len(label) > width {
			continue
		}
		copy(row[col:], []rune(label))
		next = col + len(label) + 1
	}
	return string(row)
}

// RenderStrip renders the tick labels above height rows of strip cells.
func RenderStrip(st timerange.State, loc *time.Location, width, height int, styles StripStyles) string {
	cells := StripCells(st, width)
	if cells == nil {
		return ""
	}
	if height < 1 {
		height = 1
	}

	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		for j < len(cells) && cells[j] == cells[i] {
			j++
		}
		b.WriteString(styles.forCell(cells[i]).Render(strings.Repeat(string(cells[i].Glyph()), j-i)))
		i = j
	}
	row := b.String()

	lines := []string{styles.Label.Render(StripLabels(st.View, loc, width))}
	for i := 0; i < height; i++ {
		lines = append(lines, row)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
