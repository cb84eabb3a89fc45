package common

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Signal display categories.
const (
	SignalBullish = "bullish"
	SignalBearish = "bearish"
	SignalNeutral = "neutral"
)

var numberPrinter = message.NewPrinter(language.English)

// FormatNumber inserts thousands separators into the shortest decimal
// representation of n. FormatNumber(1234567) is "1,234,567".
func FormatNumber(n float64) string {
	if n == 0 {
		n = 0 // drop the sign of negative zero
	}
	return groupThousands(strconv.FormatFloat(n, 'f', -1, 64))
}

// FormatFixed formats n with exactly digits decimals, then inserts
// thousands separators into the integer part.
func FormatFixed(n float64, digits int) string {
	return groupThousands(strconv.FormatFloat(n, 'f', digits, 64))
}

// FormatMoney formats n as a dollar amount with two decimals.
func FormatMoney(n float64) string {
	if n < 0 {
		return "-$" + FormatFixed(-n, 2)
	}
	return "$" + FormatFixed(n, 2)
}

// FormatPercentage rounds an already-scaled percentage to one decimal place
// and appends a percent sign. Halves round up, so -0.04 renders as "-0.0%".
func FormatPercentage(n float64) string {
	return strconv.FormatFloat(roundHalfUp(n*10)/10, 'f', 1, 64) + "%"
}

// SignalClass maps a trading signal to its display category. Unrecognized
// signals map to the empty string.
func SignalClass(signal string) string {
	switch strings.ToUpper(signal) {
	case "BULLISH", "BUY", "COVER":
		return SignalBullish
	case "BEARISH", "SELL", "SHORT":
		return SignalBearish
	case "NEUTRAL", "HOLD":
		return SignalNeutral
	}
	return ""
}

// roundHalfUp rounds to the nearest integer with ties toward positive
// infinity. Results in [-0.5, 0) keep a negative zero.
func roundHalfUp(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r := math.Floor(x + 0.5)
	if r == 0 && math.Signbit(x) {
		return math.Copysign(0, -1)
	}
	return r
}

// groupThousands inserts commas into the integer part of a plain decimal string.
func groupThousands(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	if v, err := strconv.ParseInt(intPart, 10, 64); err == nil {
		return sign + numberPrinter.Sprintf("%d", v) + frac
	}

	// Beyond int64: group by hand.
	var parts []string
	for len(intPart) > 3 {
		parts = append([]string{intPart[len(intPart)-3:]}, parts...)
		intPart = intPart[:len(intPart)-3]
	}
	parts = append([]string{intPart}, parts...)
	return sign + strings.Join(parts, ",") + frac
}
