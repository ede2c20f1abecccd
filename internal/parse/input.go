package parse

import (
	"regexp"
	"strconv"
	"strings"

	"brewery-catalog/internal/model"
)

var sortRe = regexp.MustCompile(`(?i)^\s*(?:name\s*:\s*)?(asc|desc)\s*$`)

// Page converts a raw page value into a page number. Anything that is not a
// positive integer becomes 1.
func Page(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Sort accepts "asc", "desc" or the wire form "name:desc". Unknown values sort
// ascending.
func Sort(raw string) model.SortDirection {
	m := sortRe.FindStringSubmatch(raw)
	if m == nil {
		return model.SortAsc
	}
	if strings.EqualFold(m[1], string(model.SortDesc)) {
		return model.SortDesc
	}
	return model.SortAsc
}

// Search trims leading and trailing whitespace, full-width spaces included.
// Whitespace inside the text is sent upstream as typed.
func Search(raw string) string {
	return strings.TrimSpace(raw)
}
