package regionfeed

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/couchcryptid/weather-alerts-service/internal/domain"
)

var (
	// eventPhraseRe captures the event list from the canonical title grammar
	// "<severity> warning of <events> affecting <region>".
	eventPhraseRe = regexp.MustCompile(`(?i)(?:red|amber|yellow)\s+warning\s+of\s+(.+?)\s+affecting\b`)

	// validityRe matches the primary validity window
	// "valid from HHMM Dow DD Mon to HHMM Dow DD Mon". The feed omits years.
	validityRe = regexp.MustCompile(`(?i)valid\s+from\s+(\d{4})\s+[A-Za-z]{3}\s+(\d{1,2})\s+([A-Za-z]{3})\s+to\s+(\d{4})\s+[A-Za-z]{3}\s+(\d{1,2})\s+([A-Za-z]{3})`)

	// isoDateRe is the fallback when the validity phrase is absent: bare ISO
	// calendar dates scanned from the description.
	isoDateRe = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
)

// connectorWords are stripped from titles that do not match the canonical
// grammar before the residue becomes an event label.
var connectorWords = map[string]struct{}{
	"red": {}, "amber": {}, "yellow": {}, "warning": {}, "warnings": {},
	"of": {}, "affecting": {}, "for": {}, "the": {}, "updated": {}, "issued": {},
}

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseFeed parses the raw feed text into alerts. Items that cannot be
// parsed are counted and skipped; only a body that is not recognizable as a
// feed at all returns an error. An item-less feed yields an empty slice —
// the provider's "no current warnings" signal.
func ParseFeed(text string) ([]domain.Alert, int, error) {
	lower := strings.ToLower(text)
	if !strings.Contains(lower, "<item") {
		if strings.Contains(lower, "<rss") || strings.Contains(lower, "<channel") {
			return []domain.Alert{}, 0, nil
		}
		return nil, 0, fmt.Errorf("%w: no feed structure found", domain.ErrParseFailure)
	}

	now := domain.Now()
	alerts := []domain.Alert{}
	skipped := 0
	for _, item := range splitItems(text, lower) {
		alert, ok := parseItem(item, now)
		if !ok {
			skipped++
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, skipped, nil
}

// splitItems extracts the raw text between item delimiters. lower is a
// pre-lowered copy of text used for case-insensitive scanning.
func splitItems(text, lower string) []string {
	var items []string
	pos := 0
	for {
		open := strings.Index(lower[pos:], "<item")
		if open < 0 {
			break
		}
		open += pos
		bodyStart := strings.Index(lower[open:], ">")
		if bodyStart < 0 {
			break
		}
		bodyStart += open + 1
		closeTag := strings.Index(lower[bodyStart:], "</item")
		if closeTag < 0 {
			break
		}
		items = append(items, text[bodyStart:bodyStart+closeTag])
		pos = bodyStart + closeTag + 1
	}
	return items
}

// parseItem turns one item block into an alert. Returns false for items
// lacking a resolvable start date — they are discarded, not errors.
func parseItem(item string, now time.Time) (domain.Alert, bool) {
	title := extractTag(item, "title")
	description := extractTag(item, "description")
	if title == "" && description == "" {
		return domain.Alert{}, false
	}

	start, end, ok := parseValidityWindow(description, now)
	if !ok {
		return domain.Alert{}, false
	}

	return domain.NewAlert(
		eventLabel(title),
		title,
		description,
		titleSeverity(title),
		start, end,
		domain.SourceRegionFeed,
	), true
}

// extractTag pulls the text content of the first <tag> element, unwrapping
// CDATA and entity escapes. Returns "" when the tag is absent.
func extractTag(item, tag string) string {
	lower := strings.ToLower(item)
	open := strings.Index(lower, "<"+tag)
	if open < 0 {
		return ""
	}
	bodyStart := strings.Index(lower[open:], ">")
	if bodyStart < 0 {
		return ""
	}
	bodyStart += open + 1
	closeTag := strings.Index(lower[bodyStart:], "</"+tag)
	if closeTag < 0 {
		return ""
	}
	content := item[bodyStart : bodyStart+closeTag]
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "<![CDATA[")
	content = strings.TrimSuffix(content, "]]>")
	return strings.TrimSpace(html.UnescapeString(content))
}

// titleSeverity classifies an item title by its literal severity phrases.
// Unphrased titles default to Yellow, the lowest tier.
func titleSeverity(title string) domain.Severity {
	t := strings.ToLower(title)
	switch {
	case strings.Contains(t, "red warning") || strings.Contains(t, "extreme"):
		return domain.SeverityRed
	case strings.Contains(t, "amber warning") || strings.Contains(t, "severe"):
		return domain.SeverityAmber
	default:
		return domain.SeverityYellow
	}
}

// eventLabel derives the event label from a title. The canonical grammar
// yields the event list ("snow, ice" → "Snow, Ice Warning"); otherwise the
// residue after stripping severity and connector words is used, falling back
// to the generic label when too short to mean anything.
func eventLabel(title string) string {
	if m := eventPhraseRe.FindStringSubmatch(title); m != nil {
		return titleCase(m[1]) + " Warning"
	}

	var residue []string
	for _, word := range strings.Fields(title) {
		key := strings.ToLower(strings.Trim(word, ",.;:"))
		if _, ok := connectorWords[key]; ok {
			continue
		}
		residue = append(residue, word)
	}
	joined := strings.Join(residue, " ")
	if len(joined) < 3 {
		return "Weather Warning"
	}
	return titleCase(joined) + " Warning"
}

// titleCase capitalizes the first letter of each whitespace-separated token,
// preserving punctuation such as the commas in event lists.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// parseValidityWindow resolves the item's validity from the description:
// first the "valid from ... to ..." phrase, then bare ISO dates. Returns
// false when no start is resolvable.
func parseValidityWindow(description string, now time.Time) (time.Time, time.Time, bool) {
	if m := validityRe.FindStringSubmatch(description); m != nil {
		start, okS := buildTime(m[1], m[2], m[3], now)
		end, okE := buildTime(m[4], m[5], m[6], now)
		if okS {
			if !okE {
				end = start
			}
			// A window parsed across New Year can land its end a year early.
			if end.Before(start) {
				end = end.AddDate(1, 0, 0)
			}
			return start, end, true
		}
	}

	dates := isoDateRe.FindAllString(description, 2)
	if len(dates) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation("2006-01-02", dates[0], time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end := start
	if len(dates) > 1 {
		if e, err2 := time.ParseInLocation("2006-01-02", dates[1], time.Local); err2 == nil {
			end = e
		}
	}
	return start, end, true
}

// buildTime combines an HHMM string with a day and month name, inferring the
// year: warnings are near-term, so a month/day already past rolls to next
// year.
func buildTime(hhmm, dayStr, monStr string, now time.Time) (time.Time, bool) {
	month, ok := months[strings.ToLower(monStr)]
	if !ok {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	hour, errH := strconv.Atoi(hhmm[:2])
	minute, errM := strconv.Atoi(hhmm[2:])
	if errH != nil || errM != nil || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(now.Year(), month, day, hour, minute, 0, 0, time.Local)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if t.Before(today) {
		t = t.AddDate(1, 0, 0)
	}
	return t, true
}
