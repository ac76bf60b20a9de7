package recommend

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minLineLength           = 15
	minRecommendationLength = 30
	leadingMarkers          = "1234567890.-•* "
)

var (
	listPrefixes = []string{"1.", "2.", "3.", "4.", "5.", "6.", "-", "•", "*"}

	imperativeVerbs = []string{
		"reduce", "increase", "allocate", "consider", "adjust", "review",
		"create", "establish", "set", "implement", "focus", "prioritize",
	}

	fillerPrefixes = []string{"here", "based on"}
)

var (
	unopenedTitleRe = regexp.MustCompile(`^([^*]+)\*\*\s+`)
	boldStarRe      = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicStarRe    = regexp.MustCompile(`\*([^*]+?)\*`)
	boldUnderRe     = regexp.MustCompile(`__(.*?)__`)
	italicUnderRe   = regexp.MustCompile(`_([^_]+?)_`)
	codeRe          = regexp.MustCompile("`(.*?)`")
	danglingTitleRe = regexp.MustCompile(`^([A-Z][^*]*?)\*\*\s*`)
	strongOpenRe    = regexp.MustCompile(`<strong>\s*`)
	strongCloseRe   = regexp.MustCompile(`\s*</strong>`)
	emOpenRe        = regexp.MustCompile(`<em>\s*`)
	emCloseRe       = regexp.MustCompile(`\s*</em>`)
	leadingTitleRe  = regexp.MustCompile(`^([A-Z][a-z]*(?:\s+[A-Z][a-z]*)*)\s+`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// ParseResponse splits generated text into recommendations. A line opening
// with a list marker or an imperative verb starts a new item; other lines
// continue the current one. Headings, short fragments and filler are
// dropped, and markdown emphasis becomes <strong>, <em> and <code> tags.
func ParseResponse(text string) []string {
	var (
		items   []string
		current string
	)

	for _, raw := range strings.Split(strings.TrimSpace(text), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || isHeading(line) {
			continue
		}

		if startsItem(line) {
			if current != "" {
				items = append(items, strings.TrimSpace(current))
			}
			current = line
			continue
		}
		current += " " + line
	}
	if current != "" {
		items = append(items, strings.TrimSpace(current))
	}

	recs := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(strings.TrimLeft(item, leadingMarkers))
		if utf8.RuneCountInString(item) <= minRecommendationLength || isFiller(item) {
			continue
		}
		recs = append(recs, finishFormatting(convertMarkup(item)))
	}
	return recs
}

func isHeading(line string) bool {
	return utf8.RuneCountInString(line) < minLineLength ||
		isUpperText(line) ||
		strings.HasSuffix(line, ":")
}

// isUpperText reports whether line has letters and all of them are upper case.
func isUpperText(line string) bool {
	cased := false
	for _, r := range line {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

func startsItem(line string) bool {
	for _, p := range listPrefixes {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	lower := strings.ToLower(line)
	for _, v := range imperativeVerbs {
		if strings.HasPrefix(lower, v) {
			return true
		}
	}
	return false
}

func isFiller(item string) bool {
	lower := strings.ToLower(item)
	for _, p := range fillerPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// convertMarkup rewrites markdown emphasis as HTML. Bold runs are converted
// before italics, and any asterisk left afterwards is unpaired and removed.
func convertMarkup(text string) string {
	// "Title** rest" is a bold title whose opening marker was stripped.
	text = unopenedTitleRe.ReplaceAllString(text, "**${1}** ")
	text = boldStarRe.ReplaceAllString(text, "<strong>${1}</strong>")
	text = italicStarRe.ReplaceAllString(text, "<em>${1}</em>")
	text = boldUnderRe.ReplaceAllString(text, "<strong>${1}</strong>")
	text = italicUnderRe.ReplaceAllString(text, "<em>${1}</em>")
	text = codeRe.ReplaceAllString(text, "<code>${1}</code>")
	text = danglingTitleRe.ReplaceAllString(text, "<strong>${1}</strong> ")
	text = strings.ReplaceAll(text, "*", "")

	text = strongOpenRe.ReplaceAllString(text, "<strong>")
	text = strongCloseRe.ReplaceAllString(text, "</strong>")
	text = emOpenRe.ReplaceAllString(text, "<em>")
	text = emCloseRe.ReplaceAllString(text, "</em>")

	return strings.TrimSpace(text)
}

// finishFormatting bolds a leading two to four word Title Case phrase,
// collapses whitespace and ends the text with a period.
func finishFormatting(text string) string {
	if !strings.HasPrefix(text, "<strong>") {
		if m := leadingTitleRe.FindStringSubmatch(text); m != nil {
			title := m[1]
			if words := len(strings.Fields(title)); words >= 2 && words <= 4 {
				text = "<strong>" + title + "</strong> " + strings.TrimSpace(text[len(title):])
			}
		}
	}

	text = strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if text != "" && !strings.HasSuffix(text, ".") {
		text += "."
	}
	return text
}
