package domain

import (
	"math"
	"strings"
)

// epsilon nudges values such as 1.005 that sit just below a half cent in
// binary so they round up.
const epsilon = 0x1p-52

// NormalizeCurrency upper-cases a currency code and accepts it only if it is
// exactly three letters.
func NormalizeCurrency(currency string) (string, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(currency))
	if len(normalized) != 3 {
		return "", false
	}
	for _, r := range normalized {
		if r < 'A' || r > 'Z' {
			return "", false
		}
	}
	return normalized, true
}

// RoundToCents rounds half-up to two decimal places.
func RoundToCents(v float64) float64 {
	return math.Floor((v+epsilon)*100+0.5) / 100
}

func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// MonetaryValue returns the rounded amount and currency only when both are
// usable. Values too large to scale to cents are treated as absent.
func MonetaryValue(value *float64, currency string) (float64, string, bool) {
	if value == nil || !IsFinite(*value) {
		return 0, "", false
	}
	code, ok := NormalizeCurrency(currency)
	if !ok {
		return 0, "", false
	}
	amount := RoundToCents(*value)
	if !IsFinite(amount) {
		return 0, "", false
	}
	return amount, code, true
}
