package graph

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodbook/orderbot/internal/agent/graph/nodes"
	"github.com/foodbook/orderbot/internal/agent/model"
	"github.com/foodbook/orderbot/internal/agent/repo"
	"github.com/foodbook/orderbot/internal/agent/routing"
)

type fakeChatModel struct {
	reply string
	err   error
	usage *schema.TokenUsage
	calls int
	last  []*schema.Message
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...einomodel.Option) (*schema.Message, error) {
	f.calls++
	f.last = input
	if f.err != nil {
		return nil, f.err
	}
	msg := schema.AssistantMessage(f.reply, nil)
	if f.usage != nil {
		msg.ResponseMeta = &schema.ResponseMeta{Usage: f.usage}
	}
	return msg, nil
}

func (f *fakeChatModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
	// status and err, when set, are what every Notify call returns.
	status int
	err    error
}

func (n *recordingNotifier) Notify(_ context.Context, msg model.Notification) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	if n.err != nil {
		return 0, n.err
	}
	if n.status != 0 {
		return n.status, nil
	}
	return http.StatusOK, nil
}

func (n *recordingNotifier) kinds() []model.NotificationKind {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]model.NotificationKind, len(n.sent))
	for i, s := range n.sent {
		out[i] = s.Kind
	}
	return out
}

type failingRepo struct{ model.SessionRepository }

func (failingRepo) Save(context.Context, *model.Session) error { return errors.New("disk full") }

var testMenu = []model.MenuItem{
	{Name: "Fajita Pizza", Category: "Pizza", Price: 1200, Available: true},
	{Name: "Tikka Pizza", Category: "Pizza", Price: 1100, Available: true},
	{Name: "Coke", Category: "Cold Drink", Price: 100, Available: true},
}

type harness struct {
	runner   Runner
	sessions *repo.MemorySessionRepository
	notifier *recordingNotifier
	chat     *fakeChatModel
	session  *model.Session
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		sessions: repo.NewMemorySessionRepository(time.Hour),
		notifier: &recordingNotifier{},
		chat:     &fakeChatModel{reply: "Our pizzas are great! Ask for the pizza menu."},
	}
	r, err := BuildConversationGraph(context.Background(), Config{
		Sessions: h.sessions,
		Router:   routing.NewRouter(h.notifier, routing.NewStationTable(nil, ""), time.Second),
		Fallback: h.chat,
		Model:    model.FallbackModelConfig{Model: "gemini-2.5-flash-lite", Timeout: time.Second},
		Prompt:   model.PromptConfig{BusinessType: "restaurant", BusinessName: "FoodBot"},
		Now:      func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	h.runner = r
	h.session = model.NewSession("s1", testMenu, time.Date(2025, 1, 1, 11, 0, 0, 0, time.UTC))
	return h
}

func (h *harness) say(t *testing.T, utterance string) string {
	t.Helper()
	reply, err := h.runner.Invoke(context.Background(), h.session, utterance)
	require.NoError(t, err)
	return reply
}

func TestBuildConversationGraph_Validates(t *testing.T) {
	_, err := BuildConversationGraph(context.Background(), Config{})
	assert.Error(t, err)

	_, err = BuildConversationGraph(context.Background(), Config{Sessions: repo.NewMemorySessionRepository(0)})
	assert.Error(t, err)
}

func TestConversation_FullFlow(t *testing.T) {
	h := newHarness(t)

	reply := h.say(t, "I'm JOHN here")
	assert.Equal(t, "Pleasure to meet you, John! 🙏 You can ask for our menu anytime (e.g. 'Pizza menu', 'Cold Drink menu').", reply)
	assert.True(t, h.session.HasName())

	stored, err := h.sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "John", stored.DisplayName)

	reply = h.say(t, "show me the menu")
	assert.Contains(t, reply, "📋 Here’s our full menu:")
	assert.Contains(t, reply, "| Tikka Pizza | 1100 |")

	reply = h.say(t, "what pizza do you have")
	assert.Contains(t, reply, "📋 Here’s our Pizza menu:")
	assert.NotContains(t, reply, "Coke")

	reply = h.say(t, "2 fajita pizza and a coke")
	assert.Contains(t, reply, "✅ John, I’ve placed your order:\n- 2 × Fajita Pizza — Rs 1200 each → Rs 2400\n- 2 × Coke — Rs 100 each → Rs 200\n")
	assert.Contains(t, reply, "💰 This order total: Rs 2600\n🧾 Grand total so far: Rs 2600\n\n")
	assert.Contains(t, reply, "👨‍💼 Manager: Great choice, John!")
	assert.Contains(t, reply, "✅ Pizza Specialist: Order received! Preparing Fajita Pizza.")
	assert.Contains(t, reply, "✅ Dessert Bar Chef: Order received! Preparing Coke.")
	assert.Contains(t, reply, "Would you like to add anything else, John? 🍕🥤🍔")
	assert.Equal(t, []model.NotificationKind{model.NotifyOrder, model.NotifyOrder}, h.notifier.kinds())

	reply = h.say(t, "1 tikka pizza")
	assert.Contains(t, reply, "🧾 Grand total so far: Rs 3700")
	assert.NotContains(t, reply, "Manager:")

	reply = h.say(t, "My Orders!")
	assert.Equal(t, "📦 John, here are your orders so far:\n"+
		"1. Total: Rs 2600 (Chef: Multiple)\n"+
		"   - 2 × Fajita Pizza → Rs 2400\n"+
		"   - 2 × Coke → Rs 200\n"+
		"2. Total: Rs 1100 (Chef: Multiple)\n"+
		"   - 1 × Tikka Pizza → Rs 1100\n", reply)

	reply = h.say(t, "No, that's all thanks!")
	assert.Contains(t, reply, "🙏 Thank you, John! Your order has been confirmed.\n🧾 Final total: Rs 3700\n")

	kinds := h.notifier.kinds()
	assert.Equal(t, model.NotifyFarewell, kinds[len(kinds)-1])

	stored, err = h.sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Len(t, stored.Orders, 2)
	assert.Equal(t, 3700, stored.GrandTotal())
}

func TestConversation_EmptyNameAsksAgain(t *testing.T) {
	h := newHarness(t)

	reply := h.say(t, "!!!")
	assert.Contains(t, reply, "didn’t catch your name")
	assert.False(t, h.session.HasName())

	reply = h.say(t, "this is Ali 'Big A'")
	assert.Contains(t, reply, "Pleasure to meet you, Big A!")
}

func TestConversation_NoOrdersYet(t *testing.T) {
	h := newHarness(t)
	h.say(t, "Sara")
	assert.Equal(t, "Sara, you have no orders yet.", h.say(t, "my orders"))
}

func TestConversation_BareCategoryAsksToClarify(t *testing.T) {
	h := newHarness(t)
	h.say(t, "Sara")

	reply := h.say(t, "i'd like some pizza")
	assert.Contains(t, reply, "which Pizza would you like?")
	assert.Contains(t, reply, "| Fajita Pizza | 1200 |")
	assert.Empty(t, h.session.Orders)
	assert.Zero(t, h.chat.calls)
}

func TestConversation_UnknownCategoryMenu(t *testing.T) {
	h := newHarness(t)
	h.say(t, "Sara")

	// "menu" wins, no category matches, so the full menu is shown
	assert.Contains(t, h.say(t, "sushi menu please"), "📋 Here’s our full menu:")
}

func TestConversation_Fallback(t *testing.T) {
	h := newHarness(t)
	h.chat.usage = &schema.TokenUsage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150}
	h.say(t, "Sara")

	reply := h.say(t, "tell me a joke")
	assert.Equal(t, "Our pizzas are great! Ask for the pizza menu.", reply)
	require.Equal(t, 1, h.chat.calls)
	require.Len(t, h.chat.last, 2)
	assert.Contains(t, h.chat.last[1].Content, "The customer Sara just said: tell me a joke.")
	assert.Contains(t, h.chat.last[1].Content, "(pizza, cold drink)")

	require.Len(t, h.notifier.sent, 1)
	body, ok := h.notifier.sent[0].Body.(model.ExchangePayload)
	require.True(t, ok)
	assert.Equal(t, model.NotifyFallback, body.Type)
	assert.Equal(t, "Sara", body.UserName)
	assert.Equal(t, "tell me a joke", body.Message)
	assert.Equal(t, reply, body.BotReply)
}

func TestConversation_FallbackFailureIsCanned(t *testing.T) {
	h := newHarness(t)
	h.chat.err = errors.New("quota exceeded")
	h.say(t, "Sara")

	assert.Equal(t, nodes.FallbackUnavailableReply, h.say(t, "tell me a joke"))
}

func TestConversation_SaveFailureFailsTurn(t *testing.T) {
	r, err := BuildConversationGraph(context.Background(), Config{
		Sessions: failingRepo{},
		Router:   routing.NewRouter(nil, routing.NewStationTable(nil, ""), 0),
	})
	require.NoError(t, err)

	s := model.NewSession("s2", testMenu, time.Now())
	_, err = r.Invoke(context.Background(), s, "John")
	assert.ErrorContains(t, err, "disk full")
}

func TestConversation_RejectedStationStillRecordsOrder(t *testing.T) {
	h := newHarness(t)
	h.notifier.status = http.StatusBadGateway
	h.say(t, "Sara")

	reply := h.say(t, "2 coke")
	assert.Contains(t, reply, "💰 This order total: Rs 200")
	assert.Contains(t, reply, "⚠️ Kitchen channel returned 502 for Dessert Bar Chef")
	assert.NotContains(t, reply, "Order received!")

	stored, err := h.sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored.Orders, 1)
	assert.Equal(t, 200, stored.GrandTotal())
}

func TestConversation_UnreachableStationStillRecordsOrder(t *testing.T) {
	h := newHarness(t)
	h.notifier.err = errors.New("connection refused")
	h.say(t, "Sara")

	reply := h.say(t, "1 tikka pizza and a coke")
	assert.Contains(t, reply, "⚠️ Could not send to Pizza Specialist: connection refused")
	assert.Contains(t, reply, "⚠️ Could not send to Dessert Bar Chef: connection refused")

	stored, err := h.sessions.Load(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, stored.Orders, 1)
	assert.Equal(t, 1200, stored.GrandTotal())
}

func TestConversation_OrderSaveFailureNotifiesNoStation(t *testing.T) {
	notifier := &recordingNotifier{}
	r, err := BuildConversationGraph(context.Background(), Config{
		Sessions: failingRepo{},
		Router:   routing.NewRouter(notifier, routing.NewStationTable(nil, ""), time.Second),
	})
	require.NoError(t, err)

	s := model.NewSession("s3", testMenu, time.Now())
	require.True(t, s.SetName("Sara"))

	_, err = r.Invoke(context.Background(), s, "2 coke")
	assert.ErrorContains(t, err, "disk full")
	assert.Empty(t, notifier.kinds())
	assert.Empty(t, s.Orders)
}
