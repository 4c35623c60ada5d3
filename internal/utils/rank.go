package utils

import (
	"math"
	"strconv"
)

// CreateRankList returns ranks 1..count for items that are already sorted
// best first. Ranks saturate at math.MaxUint16.
func CreateRankList(count int) []uint16 {
	if count <= 0 {
		return []uint16{}
	}
	ranks := make([]uint16, count)
	for i := range ranks {
		ranks[i] = uint16(min(i+1, math.MaxUint16))
	}
	return ranks
}

// FormatWithCommas renders n with thousands separators, e.g. 1234567 -> "1,234,567".
func FormatWithCommas(n int) string {
	digits := strconv.Itoa(n)
	sign := ""
	if n < 0 {
		sign, digits = "-", digits[1:]
	}

	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	out := make([]byte, 0, len(digits)+len(digits)/3)
	out = append(out, digits[:lead]...)
	for i := lead; i < len(digits); i += 3 {
		out = append(out, ',')
		out = append(out, digits[i:i+3]...)
	}
	return sign + string(out)
}
