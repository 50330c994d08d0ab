package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/foodbook/orderbot/internal/agent/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		utterance string
		intent    model.Intent
		category  string
	}{
		{"full menu", "Show me the menu", model.IntentMenu, ""},
		{"category menu", "bbq menu please", model.IntentMenu, "bbq"},
		{"menu rule shadows order", "is coke on the menu", model.IntentMenu, ""},
		{"trigger phrase", "what cold drink do you have", model.IntentMenu, "cold drink"},
		{"exact category", "  Burger ", model.IntentMenu, "burger"},
		{"category without trigger orders", "2 zinger burger", model.IntentOrder, ""},
		{"order", "2 pizza and a coke", model.IntentOrder, ""},
		{"status", "My Orders!", model.IntentStatus, ""},
		{"farewell", "No, that's all thanks!", model.IntentFarewell, ""},
		{"farewell coarse match", "no thanks but what about fries", model.IntentFarewell, ""},
		{"done", "I'm done", model.IntentFarewell, ""},
		{"fallback", "tell me a joke", model.IntentFallback, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(true, tt.utterance, testMenu)
			assert.Equal(t, tt.intent, got.Intent)
			assert.Equal(t, tt.category, got.Category)
		})
	}
}

func TestClassify_IntroductionFirst(t *testing.T) {
	got := Classify(false, "menu", testMenu)
	assert.Equal(t, model.IntentIntroduce, got.Intent)
}

func TestClassify_OrderCarriesExtraction(t *testing.T) {
	got := Classify(true, "2 pizza and a coke", testMenu)
	assert.Equal(t, model.IntentOrder, got.Intent)
	assert.Len(t, got.Order.Items, 2)
	assert.Equal(t, 1200, got.Order.Total)
}

func TestClassify_BareCategoryAsksToClarify(t *testing.T) {
	got := Classify(true, "I want pizza", pizzaMenu)
	assert.Equal(t, model.IntentClarify, got.Intent)
	assert.Equal(t, "pizza", got.Category)
}

func TestClassify_FarewellShadowsClarify(t *testing.T) {
	got := Classify(true, "no pizza, I'm done", pizzaMenu)
	assert.Equal(t, model.IntentFarewell, got.Intent)
}
