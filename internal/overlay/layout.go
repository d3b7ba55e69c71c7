package overlay

import (
	"math"

	"vision-overlay/internal/domain/entity"
)

// PlacedBox рамка детекции в координатах холста вместе с подписью.
type PlacedBox struct {
	Detection entity.Detection
	Rect      entity.BBox
	Label     string
	LabelX    float64
	LabelY    float64
}

// LegendRow строка легенды и положение её базовой линии.
type LegendRow struct {
	Text string
	X    float64
	Y    float64
}

// LegendPanel непрозрачная плашка с подсчётом по классам.
type LegendPanel struct {
	X, Y, W, H float64
	Rows       []LegendRow
}

// Layout полная геометрия одного рендера.
type Layout struct {
	Transform Transform
	Style     Style
	Boxes     []PlacedBox
	Legend    LegendPanel
}

// Plan раскладывает детекции и легенду. Функция чистая: рисование не выполняется,
// измеритель нужен только для ширины легенды.
func Plan(m TextMeasurer, t Transform, style Style, detections []entity.Detection) Layout {
	boxes := make([]PlacedBox, 0, len(detections))
	for _, d := range detections {
		rect := t.Box(d.BBox)
		boxes = append(boxes, PlacedBox{
			Detection: d,
			Rect:      rect,
			Label:     d.Label(),
			LabelX:    rect.X1() + style.LabelInsetX,
			LabelY:    rect.Y1() - style.LabelGapY,
		})
	}

	return Layout{
		Transform: t,
		Style:     style,
		Boxes:     boxes,
		Legend:    planLegend(m, style, entity.NewClassHistogram(detections)),
	}
}

func planLegend(m TextMeasurer, style Style, hist *entity.ClassHistogram) LegendPanel {
	lines := hist.Lines()

	widest := 0.0
	for _, line := range lines {
		w, _ := m.MeasureText(line, style.FontSize)
		widest = math.Max(widest, w)
	}

	panel := LegendPanel{
		X: style.LegendMargin,
		Y: style.LegendMargin,
		W: math.Max(style.LegendMinWidth, widest+2*style.LegendPadding),
		H: float64(len(lines))*style.LegendLineHeight + 2*style.LegendPadding,
	}

	panel.Rows = make([]LegendRow, 0, len(lines))
	for i, line := range lines {
		panel.Rows = append(panel.Rows, LegendRow{
			Text: line,
			X:    panel.X + style.LegendPadding,
			Y:    panel.Y + style.LegendPadding + style.FontSize + float64(i)*style.LegendLineHeight,
		})
	}
	return panel
}

// Paint рисует разложенную геометрию на поверхность.
func (l Layout) Paint(s Surface) {
	st := l.Style
	for _, b := range l.Boxes {
		s.StrokeRect(b.Rect.X1(), b.Rect.Y1(), b.Rect.Width(), b.Rect.Height(), st.LineWidth, st.BoxColor)
		s.FillText(b.Label, b.LabelX, b.LabelY, st.FontSize, st.LabelColor)
	}

	lg := l.Legend
	s.FillRect(lg.X, lg.Y, lg.W, lg.H, st.LegendFill)
	for _, row := range lg.Rows {
		s.FillText(row.Text, row.X, row.Y, st.FontSize, st.LegendInk)
	}
}
