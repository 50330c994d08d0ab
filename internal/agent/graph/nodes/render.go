package nodes

import (
	"fmt"
	"strings"

	"github.com/foodbook/orderbot/internal/agent/catalog"
	"github.com/foodbook/orderbot/internal/agent/model"
)

// FallbackUnavailableReply is sent when the language model cannot answer in time.
const FallbackUnavailableReply = "🙂 I’m here to help with your order! Ask for our menu (e.g. 'Pizza menu') or tell me what you’d like to eat."

// WelcomeReply opens every session.
func WelcomeReply(businessName string) string {
	return fmt.Sprintf("👋 Welcome to %s! I’m your restaurant manager today. May I know your name?", businessName)
}

func renderNameAck(name string, menu catalog.Menu) string {
	examples := []string{"'Pizza menu'", "'Burger menu'"}
	if cats := menu.Categories(); len(cats) > 0 {
		examples = examples[:0]
		for _, c := range cats[:min(2, len(cats))] {
			examples = append(examples, fmt.Sprintf("'%s menu'", catalog.Title(c)))
		}
	}
	return fmt.Sprintf("Pleasure to meet you, %s! 🙏 You can ask for our menu anytime (e.g. %s).", name, strings.Join(examples, ", "))
}

func renderNameRetry() string {
	return "Sorry, I didn’t catch your name. 🙏 Could you tell me what I should call you?"
}

func renderOrder(name string, order model.Order, grandTotal int, firstOrder bool, stationReport string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ %s, I’ve placed your order:\n", name)
	for _, it := range order.Items {
		fmt.Fprintf(&b, "- %d × %s — Rs %d each → Rs %d\n", it.Quantity, it.ItemName, it.UnitPrice, it.LineTotal)
	}
	fmt.Fprintf(&b, "\n💰 This order total: Rs %d\n", order.Total)
	fmt.Fprintf(&b, "🧾 Grand total so far: Rs %d\n\n", grandTotal)
	if firstOrder {
		fmt.Fprintf(&b, "👨‍💼 Manager: Great choice, %s! Let me assign this to the right kitchen.\n\n", name)
	}
	b.WriteString(stationReport)
	fmt.Fprintf(&b, "\n\nWould you like to add anything else, %s? 🍕🥤🍔", name)
	return b.String()
}

func renderStatus(s *model.Session) string {
	if len(s.Orders) == 0 {
		return fmt.Sprintf("%s, you have no orders yet.", s.DisplayName)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📦 %s, here are your orders so far:\n", s.DisplayName)
	for i, o := range s.ListOrders() {
		fmt.Fprintf(&b, "%d. Total: Rs %d (Chef: %s)\n", i, o.Total, o.StationAssignment)
		for _, it := range o.Items {
			fmt.Fprintf(&b, "   - %d × %s → Rs %d\n", it.Quantity, it.ItemName, it.LineTotal)
		}
	}
	return b.String()
}

func renderFarewell(name string, grandTotal int) string {
	return fmt.Sprintf("🙏 Thank you, %s! Your order has been confirmed.\n"+
		"🧾 Final total: Rs %d\n"+
		"👨‍🍳 Our chefs are preparing your meal and will notify you once it’s ready. 🍴\n"+
		"Have a wonderful day! 🌟", name, grandTotal)
}

func renderClarify(name, category string, menu catalog.Menu) string {
	items := menu.InCategory(category)
	if len(items) == 0 {
		return fmt.Sprintf("🤔 %s, which item would you like? Ask for our menu to see everything we have.", name)
	}
	return fmt.Sprintf("🤔 %s, which %s would you like? Please name the item:\n\n%s", name, catalog.Title(category), items.Table())
}
