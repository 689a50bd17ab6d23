// Package metrics derives cost, labour, risk and compliance figures from a
// maintenance schedule. Everything here is pure.
package metrics

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultMultiplier applies to intervals no rule recognises: once a year.
const DefaultMultiplier = 1.0

type frequencyRule struct {
	pattern *regexp.Regexp
	perYear func(n float64) float64
}

// Ordered: numeric "every N unit" forms first, then keywords. Keywords that
// contain a shorter one come first: fortnightly forms before "weekly" and
// semi-annual forms before "annual".
var numericRules = []frequencyRule{
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*month(?:s|ly)?\b`), func(n float64) float64 { return 12 / n }},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*(?:years?|yrs?)\b`), func(n float64) float64 { return 1 / n }},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*yearly\b`), func(n float64) float64 { return 1 / n }},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*week(?:s|ly)?\b`), func(n float64) float64 { return 52 / n }},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*-?\s*days?\b`), func(n float64) float64 { return 365 / n }},
}

var numberWords = regexp.MustCompile(`\b(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b`)

var numberWordValues = map[string]string{
	"one": "1", "two": "2", "three": "3", "four": "4", "five": "5", "six": "6",
	"seven": "7", "eight": "8", "nine": "9", "ten": "10", "eleven": "11", "twelve": "12",
}

var keywordRules = []struct {
	keywords []string
	perYear  float64
}{
	{[]string{"fortnightly", "biweekly", "bi-weekly", "every other week"}, 26},
	{[]string{"weekly", "every week"}, 52},
	{[]string{"monthly", "every month"}, 12},
	{[]string{"quarterly"}, 4},
	{[]string{"semi-annual", "semiannual", "bi-annual", "biannual", "twice a year", "twice yearly"}, 2},
	{[]string{"annual", "yearly", "once a year", "every year"}, 1},
	{[]string{"daily", "every day"}, 365},
}

// FrequencyMultiplier estimates how many times a year an interval like
// "Every 6 months" or "Quarterly" occurs. Unrecognised text counts as once
// a year.
func FrequencyMultiplier(interval string) float64 {
	text := strings.ToLower(strings.TrimSpace(interval))
	if text == "" {
		return DefaultMultiplier
	}

	text = numberWords.ReplaceAllStringFunc(text, func(w string) string { return numberWordValues[w] })

	for _, rule := range numericRules {
		m := rule.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		n, err := strconv.ParseFloat(m[1], 64)
		if err != nil || n <= 0 {
			continue
		}
		return rule.perYear(n)
	}

	for _, rule := range keywordRules {
		for _, k := range rule.keywords {
			if strings.Contains(text, k) {
				return rule.perYear
			}
		}
	}
	return DefaultMultiplier
}
