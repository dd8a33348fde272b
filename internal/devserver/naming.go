package devserver

import (
	"path/filepath"
	"strings"
	"unicode"
)

const (
	maxCleanName    = 50
	generatedDir    = "src/strategies/generated"
	unknownStrategy = "Unknown Strategy"
)

// CleanName reduces a strategy name to its lookup key: every character that
// is not an ASCII letter or digit is removed and the rest is lower-cased.
func CleanName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// strategyKey is the clean name truncated the way generated files are named.
func strategyKey(name string) string {
	key := CleanName(name)
	if len(key) > maxCleanName {
		key = key[:maxCleanName]
	}
	return key
}

// StrategyNameFromFile derives a human strategy name from an uploaded file
// name: "time_series-momentum.pdf" becomes "Time Series Momentum".
func StrategyNameFromFile(filename string) string {
	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r >= unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r))
	})
	if len(words) == 0 {
		return unknownStrategy
	}
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// generatedPath is where the backend reports the strategy was written.
func generatedPath(name string) string {
	return generatedDir + "/" + strategyKey(name) + ".py"
}
