package invoice

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatNaira renders an amount like "₦12,500" with kobo shown only when
// present ("₦12,500.50").
func FormatNaira(amount float64) string {
	kobo := int64(math.Round(amount * 100))
	neg := kobo < 0
	if neg {
		kobo = -kobo
	}
	whole, frac := kobo/100, kobo%100

	s := strconv.FormatInt(whole, 10)

	var b strings.Builder
	b.Grow(len(s) + len(s)/3 + 6)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₦")

	// insert separators from the left
	rem := len(s) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(s[:rem])
	for i := rem; i < len(s); i += 3 {
		b.WriteByte(',')
		b.WriteString(s[i : i+3])
	}

	if frac != 0 {
		fmt.Fprintf(&b, ".%02d", frac)
	}
	return b.String()
}
