package output

import (
	"fmt"
	"strings"
)

// DefaultBarWidth is the width of a meter in cells.
const DefaultBarWidth = 20

// Bar renders value out of total as a fixed-width meter with a percentage,
// e.g. "██████░░░░ 60%".
func Bar(value, total int64, width int) string {
	if width <= 0 {
		width = DefaultBarWidth
	}

	var ratio float64
	if total > 0 {
		ratio = float64(value) / float64(total)
	}
	ratio = max(0, min(ratio, 1))

	filled := int(float64(width)*ratio + 0.5)
	return fmt.Sprintf("%s%s %3.0f%%",
		strings.Repeat("█", filled),
		strings.Repeat("░", width-filled),
		ratio*100,
	)
}

// Money formats whole currency units with thousands separators, e.g. "$1,250".
func Money(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String()
}
