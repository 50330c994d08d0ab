package nlu

import (
	"strings"

	"github.com/foodbook/orderbot/internal/agent/catalog"
	"github.com/foodbook/orderbot/internal/agent/model"
)

var (
	menuTriggers     = []string{"show", "what", "any", "do you have", "available"}
	farewellKeywords = []string{"no", "no more", "done", "that's all", "nothing else", "finish"}
)

const statusPhrase = "my orders"

// Classify decides what the utterance is asking for. Rules are applied in a
// fixed order and the first that matches wins, even if a later one would too:
//
//  1. no name captured yet: the whole utterance is an introduction
//  2. contains "menu": menu, filtered by the first category mentioned
//  3. mentions a category and a menu trigger word: that category's menu
//  4. is exactly a category name: that category's menu
//  5. mentions menu items: order
//  6. is "my orders": status
//  7. contains a farewell keyword: farewell
//  8. otherwise fallback, or a clarifying question when step 5 found a bare
//     category mention
//
// Matching is plain substring matching, so "no thanks but what about fries"
// is a farewell (when fries is not on the menu).
func Classify(hasName bool, utterance string, menu catalog.Menu) model.Classification {
	if !hasName {
		return model.Classification{Intent: model.IntentIntroduce}
	}

	lower := strings.ToLower(strings.TrimSpace(utterance))
	categories := menu.Categories()

	if strings.Contains(lower, "menu") {
		c := model.Classification{Intent: model.IntentMenu}
		for _, cat := range categories {
			if strings.Contains(lower, cat) {
				c.Category = cat
				break
			}
		}
		return c
	}

	for _, cat := range categories {
		if strings.Contains(lower, cat) && containsAny(lower, menuTriggers) {
			return model.Classification{Intent: model.IntentMenu, Category: cat}
		}
	}

	for _, cat := range categories {
		if lower == cat {
			return model.Classification{Intent: model.IntentMenu, Category: cat}
		}
	}

	ext := Extract(utterance, menu)
	if len(ext.Items) > 0 {
		return model.Classification{Intent: model.IntentOrder, Order: ext}
	}

	if collapse(Normalize(lower)) == statusPhrase {
		return model.Classification{Intent: model.IntentStatus}
	}

	if containsAny(lettersOnly(lower), farewellKeywords) {
		return model.Classification{Intent: model.IntentFarewell}
	}

	if ext.AmbiguousCategory != "" {
		return model.Classification{Intent: model.IntentClarify, Category: ext.AmbiguousCategory, Order: ext}
	}
	return model.Classification{Intent: model.IntentFallback}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// lettersOnly keeps ASCII letters and spaces, then trims.
func lettersOnly(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return r
		}
		return -1
	}, s))
}
