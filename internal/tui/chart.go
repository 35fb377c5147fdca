package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/naveenspark/legends/internal/catalog"
	"github.com/naveenspark/legends/pkg/domain"
)

const (
	chartGridLines = 5
	chartBarWidth  = 3
	chartBarGap    = 2
	chartAxisWidth = 6
)

// chartScale is the top of the y axis: the largest count plus 10%.
func chartScale(series []domain.MonthlyCount) float64 {
	return float64(catalog.Max(series)) * 1.1
}

// gridLabels returns the y axis labels from top to bottom.
func gridLabels(scale float64) []int {
	labels := make([]int, 0, chartGridLines+1)
	for i := 0; i <= chartGridLines; i++ {
		labels = append(labels, int(math.Round(scale-scale/chartGridLines*float64(i))))
	}
	return labels
}

// barRows is how many rows of a height-row plot a count fills.
func barRows(count int, scale float64, height int) int {
	if scale <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / scale * float64(height)))
}

// renderChart draws the monthly series as vertical bars over height rows.
func renderChart(series []domain.MonthlyCount, height int) string {
	if len(series) == 0 {
		return dimStyle.Render("  No data")
	}
	height -= height % chartGridLines
	if height < chartGridLines {
		height = chartGridLines
	}
	scale := chartScale(series)
	labels := gridLabels(scale)

	rows := make([]int, len(series))
	for i, c := range series {
		rows[i] = barRows(c.Count, scale, height)
	}

	var b strings.Builder
	bar := barStyle.Render(strings.Repeat("█", chartBarWidth))
	blank := strings.Repeat(" ", chartBarWidth)
	gap := strings.Repeat(" ", chartBarGap)

	for r := 0; r < height; r++ {
		axis := strings.Repeat(" ", chartAxisWidth-1) + "│"
		if (r*chartGridLines)%height == 0 {
			axis = fmt.Sprintf("%*d┤", chartAxisWidth-1, labels[r*chartGridLines/height])
		}
		b.WriteString(metaStyle.Render(axis))
		level := height - r
		for i := range series {
			b.WriteString(gap[:1])
			if rows[i] >= level {
				b.WriteString(bar)
			} else {
				b.WriteString(blank)
			}
			b.WriteString(gap[1:])
		}
		b.WriteString("\n")
	}

	width := len(series) * (chartBarWidth + chartBarGap)
	b.WriteString(metaStyle.Render(fmt.Sprintf("%*d└%s", chartAxisWidth-1, labels[chartGridLines], strings.Repeat("─", width))))
	b.WriteString("\n")

	months := strings.Repeat(" ", chartAxisWidth)
	counts := strings.Repeat(" ", chartAxisWidth)
	for _, c := range series {
		months += " " + fmt.Sprintf("%-*s", chartBarWidth+chartBarGap-1, c.Month)
		counts += " " + fmt.Sprintf("%-*d", chartBarWidth+chartBarGap-1, c.Count)
	}
	b.WriteString(dimStyle.Render(months) + "\n")
	b.WriteString(metaStyle.Render(counts))
	return b.String()
}
