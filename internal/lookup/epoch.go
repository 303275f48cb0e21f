package lookup

import (
	"strconv"
	"strings"
)

// NormalizeEpoch parses a catalog epoch. Catalogs such as GCVS list epochs
// as JD-2400000; an integer part of exactly five digits is taken to be such
// a truncated Julian date and gets its "24" prefix back.
func NormalizeEpoch(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	intPart, _, _ := strings.Cut(s, ".")
	if len(intPart) == 5 && isDigits(intPart) {
		s = "24" + s
	}
	return strconv.ParseFloat(s, 64)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
