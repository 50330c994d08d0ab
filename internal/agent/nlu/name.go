// Package nlu holds the rule-based understanding used by the order bot:
// name cleaning, intent classification and order extraction.
package nlu

import (
	"regexp"
	"strings"

	"github.com/foodbook/orderbot/internal/agent/catalog"
)

var (
	introPrefixRe = regexp.MustCompile(`(?i)^(my name is|i am|i'm|this is|its|it's)\s+`)
	fillerWordsRe = regexp.MustCompile(`(?i)\b(here|speaking|on the line)\b`)
	nicknameRe    = regexp.MustCompile(`['"]([^'"]+)['"]`)
	punctuationRe = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	whitespaceRe  = regexp.MustCompile(`\s+`)
)

// CleanName turns a free-text self-introduction into a display name.
// "I'm JOHN here" becomes "John"; a quoted nickname replaces everything else,
// so "this is Ali 'Big A'" becomes "Big A". The result may be empty.
func CleanName(raw string) string {
	s := strings.TrimSpace(raw)
	s = introPrefixRe.ReplaceAllString(s, "")
	s = fillerWordsRe.ReplaceAllString(s, "")
	if m := nicknameRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	s = punctuationRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
	return catalog.Title(s)
}
