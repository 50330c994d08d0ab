package nlu

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/foodbook/orderbot/internal/agent/catalog"
	"github.com/foodbook/orderbot/internal/agent/model"
)

var quantityRe = regexp.MustCompile(`\d+`)

// Normalize lower-cases s and drops everything but letters, digits and spaces.
func Normalize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ', unicode.IsLetter(r), unicode.IsDigit(r):
			return unicode.ToLower(r)
		default:
			return -1
		}
	}, s)
}

// Extract finds the menu items mentioned in utterance.
//
// When a category is mentioned but no item name appears anywhere in the
// utterance, extraction stops and reports that category as ambiguous.
// Otherwise every item whose normalized name appears as a whole word is
// matched once (duplicate names across categories count once), all with the
// same quantity: the first integer in the utterance, or 1.
func Extract(utterance string, menu catalog.Menu) model.Extraction {
	text := Normalize(utterance)

	names := make([]string, len(menu))
	for i, it := range menu {
		names[i] = Normalize(it.Name)
	}

	if cat := bareCategory(text, menu.Categories(), names); cat != "" {
		return model.Extraction{AmbiguousCategory: cat}
	}

	qty := Quantity(text)
	var (
		items []model.OrderLineItem
		total int
		added = make(map[string]struct{})
	)
	for i, it := range menu {
		name := names[i]
		if name == "" {
			continue
		}
		if _, dup := added[name]; dup {
			continue
		}
		if !containsWord(text, name) {
			continue
		}
		li := model.NewLineItem(it, qty)
		items = append(items, li)
		total += li.LineTotal
		added[name] = struct{}{}
	}
	return model.Extraction{Items: items, Total: total}
}

// bareCategory returns the first category present in text when no item name
// is present at all.
func bareCategory(text string, categories, names []string) string {
	for _, cat := range categories {
		c := Normalize(cat)
		if c == "" || !strings.Contains(text, c) {
			continue
		}
		mentioned := false
		for _, n := range names {
			if n != "" && strings.Contains(text, n) {
				mentioned = true
				break
			}
		}
		if !mentioned {
			return cat
		}
	}
	return ""
}

// Quantity returns the first integer literal in text, or 1 when there is
// none or it falls outside 1..model.MaxQuantity.
func Quantity(text string) int {
	m := quantityRe.FindString(text)
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > model.MaxQuantity {
		return 1
	}
	return n
}

// containsWord reports whether word occurs in text with no letter, digit or
// underscore directly before or after it.
func containsWord(text, word string) bool {
	for off := 0; off <= len(text)-len(word); {
		i := strings.Index(text[off:], word)
		if i < 0 {
			return false
		}
		start := off + i
		end := start + len(word)
		if !isWordRune(lastRune(text[:start])) && !isWordRune(firstRune(text[end:])) {
			return true
		}
		off = start + 1
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func firstRune(s string) rune {
	if s == "" {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	if s == "" {
		return -1
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}
