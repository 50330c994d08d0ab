package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/foodbook/orderbot/internal/agent/model"
)

// Menu is the available catalog for one session. It is read-only once loaded.
type Menu []model.MenuItem

// Categories returns the distinct categories, case-folded, in first-seen order.
func (m Menu) Categories() []string {
	seen := make(map[string]struct{}, len(m))
	out := make([]string, 0, 8)
	for _, it := range m {
		c := strings.ToLower(it.Category)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// InCategory returns the items whose category matches case-insensitively.
func (m Menu) InCategory(category string) Menu {
	var out Menu
	for _, it := range m {
		if strings.EqualFold(it.Category, category) {
			out = append(out, it)
		}
	}
	return out
}

// FormatMenu renders the menu, optionally filtered by category, as a two-column
// table with one row per distinct item name (first-seen price wins).
// found is false when a category was given and nothing matched; the returned
// text then says so.
func (m Menu) FormatMenu(category string) (text string, found bool) {
	items := m
	header := "📋 Here’s our full menu:\n\n"
	if category != "" {
		items = m.InCategory(category)
		if len(items) == 0 {
			return fmt.Sprintf("❌ Sorry, no items found in %s category.", category), false
		}
		header = fmt.Sprintf("📋 Here’s our %s menu:\n\n", Title(category))
	}
	return header + items.Table(), true
}

// Table renders the deduplicated name/price table.
func (m Menu) Table() string {
	var b strings.Builder
	b.WriteString("| Item Name | Price (Rs) |\n")
	b.WriteString("|-----------|------------|\n")
	seen := make(map[string]struct{}, len(m))
	for _, it := range m {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		fmt.Fprintf(&b, "| %s | %d |\n", it.Name, it.Price)
	}
	return b.String()
}

// Title capitalises each word and lower-cases the rest.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
