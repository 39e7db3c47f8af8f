package capescout

import "strconv"

// FormatPrice formats a price in Rands with thousand separators,
// e.g. 7500000 → "R7,500,000". A nil price formats as "POA"
// (price on application).
func FormatPrice(price *int) string {
	if price == nil {
		return "POA"
	}

	s := strconv.Itoa(*price)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	var out []byte
	for i, d := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}

	if neg {
		return "-R" + string(out)
	}
	return "R" + string(out)
}
