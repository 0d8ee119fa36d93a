package engine

import (
	"math"
	"strconv"
	"strings"
)

// roundFloat rounds v to the given number of decimal places.
func roundFloat(v float64, decimals int) float64 {
	if decimals <= 0 {
		return math.Round(v)
	}

	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}

// roundInt rounds half away from zero and converts to int.
func roundInt(v float64) int {
	return int(math.Round(v))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// percentOf returns part/whole*100, or fallback when whole is zero.
func percentOf(part, whole, fallback float64) float64 {
	if whole == 0 {
		return fallback
	}
	return part / whole * 100
}

// parseLooseFloat accepts the numeric spellings users type into spreadsheets.
func parseLooseFloat(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, false
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || !isFinite(f) {
		return 0, false
	}
	return f, true
}
