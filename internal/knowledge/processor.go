package knowledge

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ContentProcessor cleans retrieved snippets before they go into a prompt.
type ContentProcessor struct {
	multiWhitespace *regexp.Regexp
	htmlTags        *regexp.Regexp
	markdownMarks   *regexp.Regexp
	sentenceEnd     *regexp.Regexp
	regulationRefs  []*regexp.Regexp
}

func NewContentProcessor() *ContentProcessor {
	return &ContentProcessor{
		multiWhitespace: regexp.MustCompile(`[ \t]+`),
		htmlTags:        regexp.MustCompile(`<[^>]*>`),
		markdownMarks:   regexp.MustCompile(`(\*\*|__|` + "```" + `)`),
		sentenceEnd:     regexp.MustCompile(`[.!?]\s`),
		regulationRefs: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bBS\s?7671(?::\d{4})?(?:\+A\d:\d{4})?`),
			regexp.MustCompile(`(?i)\bReg(?:ulation)?\.?\s+\d{3}(?:\.\d+){1,3}`),
			regexp.MustCompile(`(?i)\bBS\s?EN\s?\d{4,5}(?:-\d+)*`),
			regexp.MustCompile(`(?i)\bBS\s?(?:5266|5839)(?:-\d+)?`),
			regexp.MustCompile(`(?i)\bElectricity at Work Regulations(?: 1989)?`),
			regexp.MustCompile(`(?i)\bGN3\b|\bGuidance Note 3\b`),
		},
	}
}

// CleanContent removes markup and normalises whitespace, allowing at most
// one blank line between paragraphs.
func (cp *ContentProcessor) CleanContent(content string) string {
	content = cp.htmlTags.ReplaceAllString(content, "")
	content = cp.markdownMarks.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "\r\n", "\n")

	lines := strings.Split(content, "\n")
	var cleaned []string
	emptyLines := 0

	for _, line := range lines {
		line = strings.TrimSpace(cp.multiWhitespace.ReplaceAllString(line, " "))
		if line == "" {
			emptyLines++
			if emptyLines <= 1 {
				cleaned = append(cleaned, "")
			}
		} else {
			emptyLines = 0
			cleaned = append(cleaned, line)
		}
	}

	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

// Truncate shortens text to at most maxLen bytes, cutting at the last
// sentence end when one falls in the back half and marking other cuts
// with "...".
func (cp *ContentProcessor) Truncate(text string, maxLen int) string {
	if len(text) <= maxLen {
		return text
	}
	if maxLen <= len(ellipsis) {
		return ""
	}

	cut := text[:runeBoundary(text, maxLen)]
	locs := cp.sentenceEnd.FindAllStringIndex(cut, -1)
	if len(locs) > 0 {
		last := locs[len(locs)-1][0] + 1
		if last >= len(cut)/2 {
			return strings.TrimSpace(cut[:last])
		}
	}

	cut = text[:runeBoundary(text, maxLen-len(ellipsis))]
	return strings.TrimSpace(cut) + ellipsis
}

const ellipsis = "..."

// runeBoundary moves end back until text[:end] does not split a rune.
func runeBoundary(text string, end int) int {
	for end > 0 && end < len(text) && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}

// ExtractRegulationRefs finds standard and regulation citations in content.
func (cp *ContentProcessor) ExtractRegulationRefs(content string) []string {
	var refs []string
	for _, pattern := range cp.regulationRefs {
		for _, match := range pattern.FindAllString(content, -1) {
			refs = append(refs, strings.TrimSpace(match))
		}
	}
	return cp.removeDuplicates(refs)
}

// removeDuplicates removes duplicate strings from a slice, ignoring case
func (cp *ContentProcessor) removeDuplicates(items []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, item := range items {
		key := strings.ToLower(item)
		if !seen[key] {
			seen[key] = true
			result = append(result, item)
		}
	}

	return result
}
