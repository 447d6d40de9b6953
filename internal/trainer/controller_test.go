package trainer

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/example/verbbot/internal/selector"
	"github.com/example/verbbot/internal/state"
	"github.com/example/verbbot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	verbGo   = &models.Verb{Infinitive: "go", PastForms: []string{"went"}, ParticipleForms: []string{"gone"}, Translation: "идти", Tier: 1}
	verbSee  = &models.Verb{Infinitive: "see", PastForms: []string{"saw"}, ParticipleForms: []string{"seen"}, Translation: "видеть", Tier: 1}
	verbTake = &models.Verb{Infinitive: "take", PastForms: []string{"took"}, ParticipleForms: []string{"taken"}, Translation: "брать", Tier: 2}
)

const userID int64 = 100

type fakeSource []*models.Verb

func (f fakeSource) ByTier(tier int) []*models.Verb {
	var out []*models.Verb
	for _, v := range f {
		if v.Tier <= tier {
			out = append(out, v)
		}
	}
	return out
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingStore struct {
	*state.MemoryStore
	failPut bool
}

func (s *failingStore) Put(ctx context.Context, u *state.User) error {
	if s.failPut {
		return errors.New("disk full")
	}
	return s.MemoryStore.Put(ctx, u)
}

func newController(t *testing.T, store state.Store, verbs ...*models.Verb) (*Controller, *clock) {
	t.Helper()
	if len(verbs) == 0 {
		verbs = []*models.Verb{verbGo, verbSee, verbTake}
	}
	clk := &clock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	sel := selector.NewWithSource(fakeSource(verbs), rand.NewSource(7))
	ctrl := New(store, sel, log.New(io.Discard, "", 0), Options{
		Now:      clk.Now,
		NewRunID: func() string { return "run-1" },
	})
	return ctrl, clk
}

func loadUser(t *testing.T, store state.Store) *state.User {
	t.Helper()
	u, err := store.Get(context.Background(), userID)
	require.NoError(t, err)
	return u
}

func formsAnswer(v *models.Verb) string {
	return v.PastForms[0] + " " + v.ParticipleForms[0]
}

func TestIdleAnswerPromptsForMode(t *testing.T) {
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleTextAnswer(context.Background(), userID, "went gone")

	assert.Equal(t, readyText, reply.Text)
	assert.Equal(t, mainMenuControls, reply.Controls)
	u := loadUser(t, store)
	assert.Equal(t, models.ModeIdle, u.Session.Mode())
	assert.Equal(t, 0, u.Progress.Correct+u.Progress.Wrong)
}

func TestFormsAnswers(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleMenuAction(ctx, userID, ActionTrainForms)
	assert.Contains(t, reply.Text, "Verb Forms Training")
	assert.Equal(t, nextControls(ActionFormsNext), reply.Controls)

	verb := loadUser(t, store).Session.ActiveVerb()
	require.NotNil(t, verb)

	reply = ctrl.HandleTextAnswer(ctx, userID, formsAnswer(verb))
	assert.Contains(t, reply.Text, "✅ Correct!")

	reply = ctrl.HandleTextAnswer(ctx, userID, "nope")
	assert.Contains(t, reply.Text, "❌ Wrong.")

	u := loadUser(t, store)
	assert.Equal(t, 1, u.Progress.Correct)
	assert.Equal(t, 1, u.Progress.Wrong)
	assert.Equal(t, 1, u.Progress.BestStreak)
	require.Equal(t, 1, u.Ledger.Len())
	head, _ := u.Ledger.PeekHead()
	assert.Equal(t, models.ModeForms, head.Mode)
	assert.Same(t, verb, head.Verb)

	// The same verb stays until Next
	assert.Same(t, verb, u.Session.ActiveVerb())
	ctrl.HandleMenuAction(ctx, userID, ActionFormsNext)
	assert.NotSame(t, verb, loadUser(t, store).Session.ActiveVerb())
}

func TestTranslationMistakeIsRecordedOnce(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store, verbGo)

	ctrl.HandleMenuAction(ctx, userID, ActionTrainTranslation)
	ctrl.HandleTextAnswer(ctx, userID, "видеть")
	reply := ctrl.HandleTextAnswer(ctx, userID, "")

	assert.Contains(t, reply.Text, "Correct: go — идти")
	u := loadUser(t, store)
	assert.Equal(t, 2, u.Progress.Wrong)
	assert.Equal(t, 1, u.Ledger.Len())
}

func TestRepeatRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	u := state.NewUser(userID, clk.Now())
	u.Ledger = state.NewLedger(
		state.MistakeEntry{Verb: verbGo, Mode: models.ModeForms},
		state.MistakeEntry{Verb: verbSee, Mode: models.ModeTranslation},
	)
	require.NoError(t, store.Put(ctx, u))

	reply := ctrl.HandleMenuAction(ctx, userID, ActionRepeatErrors)
	assert.Contains(t, reply.Text, "Mistake review — Verb Forms")
	assert.Contains(t, reply.Text, "*go*")

	// Wrong answer sends go to the back and asks see
	reply = ctrl.HandleTextAnswer(ctx, userID, "goed goed")
	assert.Contains(t, reply.Text, "❌ Wrong.")
	assert.Contains(t, reply.Text, "Mistake review — Translation")
	u = loadUser(t, store)
	entries := u.Ledger.Entries()
	require.Len(t, entries, 2)
	assert.Same(t, verbSee, entries[0].Verb)
	assert.Same(t, verbGo, entries[1].Verb)

	reply = ctrl.HandleTextAnswer(ctx, userID, "видеть")
	assert.Contains(t, reply.Text, "✅ Correct!")
	assert.Equal(t, 1, loadUser(t, store).Ledger.Len())

	reply = ctrl.HandleTextAnswer(ctx, userID, "went gone")
	assert.Contains(t, reply.Text, allClearText)
	assert.Equal(t, mainMenuControls, reply.Controls)

	u = loadUser(t, store)
	assert.True(t, u.Ledger.IsEmpty())
	assert.Equal(t, models.ModeIdle, u.Session.Mode())
	assert.Equal(t, 2, u.Progress.Correct)
	assert.Equal(t, 1, u.Progress.Wrong)
}

func TestRepeatNextSkipsToNextMistake(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	u := state.NewUser(userID, clk.Now())
	u.Ledger = state.NewLedger(
		state.MistakeEntry{Verb: verbGo, Mode: models.ModeForms},
		state.MistakeEntry{Verb: verbSee, Mode: models.ModeTranslation},
	)
	require.NoError(t, store.Put(ctx, u))

	ctrl.HandleMenuAction(ctx, userID, ActionRepeatErrors)
	reply := ctrl.HandleMenuAction(ctx, userID, ActionRepeatNext)

	assert.Contains(t, reply.Text, "*see*")
	assert.Equal(t, nextControls(ActionRepeatNext), reply.Controls)
	u = loadUser(t, store)
	assert.Same(t, verbSee, u.Session.ActiveVerb())
	entries := u.Ledger.Entries()
	require.Len(t, entries, 2)
	assert.Same(t, verbGo, entries[1].Verb)
	assert.Equal(t, 0, u.Progress.Correct+u.Progress.Wrong)

	reply = ctrl.HandleMenuAction(ctx, userID, ActionRepeatNext)
	assert.Contains(t, reply.Text, "*go*")
}

func TestRepeatWithEmptyLedger(t *testing.T) {
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleMenuAction(context.Background(), userID, ActionRepeatErrors)

	assert.Equal(t, noMistakesText, reply.Text)
	assert.Equal(t, models.ModeIdle, loadUser(t, store).Session.Mode())
}

func TestSpeedRound(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	reply := ctrl.HandleMenuAction(ctx, userID, ActionSpeed)
	assert.Contains(t, reply.Text, "Speed Mode — 60 seconds!")
	assert.Equal(t, speedControls, reply.Controls)

	round := loadUser(t, store).Session.(*state.Speed)
	assert.Equal(t, "run-1", round.RunID)
	assert.Equal(t, clk.Now().Add(DefaultSpeedDuration), round.Deadline)

	clk.Advance(5 * time.Second)
	reply = ctrl.HandleTextAnswer(ctx, userID, formsAnswer(round.Verb))
	assert.Contains(t, reply.Text, "✅ Correct!")
	assert.Contains(t, reply.Text, "Left: 55 sec")
	assert.Contains(t, reply.Text, "Correct: 1 / 1")

	round = loadUser(t, store).Session.(*state.Speed)
	missed := round.Verb
	reply = ctrl.HandleTextAnswer(ctx, userID, "x y")
	assert.Contains(t, reply.Text, "Correct: 1 / 2")

	// Blank input re-prompts without counting
	reply = ctrl.HandleTextAnswer(ctx, userID, " , ")
	assert.Contains(t, reply.Text, "Correct: 1 / 2")

	round = loadUser(t, store).Session.(*state.Speed)
	assert.Equal(t, []*models.Verb{missed}, round.Missed)

	// Progress counters are not touched by speed answers
	u := loadUser(t, store)
	assert.Equal(t, 0, u.Progress.Correct+u.Progress.Wrong)
	assert.Equal(t, clk.Now(), u.Progress.LastActivity)
}

func TestSpeedTimeout(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionSpeed)
	round := loadUser(t, store).Session.(*state.Speed)
	ctrl.HandleTextAnswer(ctx, userID, "x y")

	clk.Advance(61 * time.Second)
	reply := ctrl.HandleTextAnswer(ctx, userID, formsAnswer(round.Verb))

	assert.Contains(t, reply.Text, "⏰ *Time is up!*")
	assert.Contains(t, reply.Text, "Correct answers: 0\nTotal questions: 1")
	assert.Contains(t, reply.Text, "• *"+round.Verb.Infinitive+"* — ")
	assert.Equal(t, mainMenuControls, reply.Controls)
	assert.Equal(t, models.ModeIdle, loadUser(t, store).Session.Mode())
}

func TestSpeedTimeoutWithoutMistakes(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionSpeed)
	clk.Advance(DefaultSpeedDuration)

	reply := ctrl.HandleTextAnswer(ctx, userID, "went gone")
	assert.Contains(t, reply.Text, noSpeedMissText)
	assert.Contains(t, reply.Text, "Total questions: 0")
}

func TestSpeedStop(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleMenuAction(ctx, userID, ActionSpeedStop)
	assert.Equal(t, chooseModeText, reply.Text)

	ctrl.HandleMenuAction(ctx, userID, ActionSpeed)
	ctrl.HandleTextAnswer(ctx, userID, "x y")
	reply = ctrl.HandleMenuAction(ctx, userID, ActionSpeedStop)

	assert.Equal(t, "⏹ Speed Mode stopped.\n\nCorrect answers: 0\nTotal questions: 1", reply.Text)
	assert.True(t, reply.Edit)
	assert.Equal(t, models.ModeIdle, loadUser(t, store).Session.Mode())
}

func TestMixAlternates(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	submode := func() models.Mode {
		mix, ok := loadUser(t, store).Session.(state.Mix)
		require.True(t, ok)
		return mix.Submode
	}

	ctrl.HandleMenuAction(ctx, userID, ActionMix)
	first := submode()
	require.True(t, first.IsDrill())

	ctrl.HandleMenuAction(ctx, userID, ActionMixNext)
	second := submode()
	assert.Equal(t, first.Opposite(), second)

	// Alternation survives a trip through the menu
	ctrl.HandleMenuAction(ctx, userID, ActionBackToMenu)
	ctrl.HandleMenuAction(ctx, userID, ActionMix)
	assert.Equal(t, second.Opposite(), submode())
}

func TestMixMistakeKeepsSubmodeRule(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionMix)
	mix := loadUser(t, store).Session.(state.Mix)

	ctrl.HandleTextAnswer(ctx, userID, "zzz")

	head, ok := loadUser(t, store).Ledger.PeekHead()
	require.True(t, ok)
	assert.Equal(t, mix.Submode, head.Mode)
}

func TestInvalidSessionIsReset(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	u := state.NewUser(userID, clk.Now())
	u.Session = state.Forms{}
	require.NoError(t, store.Put(ctx, u))

	reply := ctrl.HandleTextAnswer(ctx, userID, "went gone")

	assert.Equal(t, readyText, reply.Text)
	assert.Equal(t, models.ModeIdle, loadUser(t, store).Session.Mode())
}

func TestLevelChangeKeepsSessionAndPool(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionTrainForms)
	before := loadUser(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionLevel2)

	after := loadUser(t, store)
	assert.Equal(t, 2, after.Settings.Tier)
	assert.Equal(t, models.ModeForms, after.Session.Mode())
	assert.Same(t, before.Session.ActiveVerb(), after.Session.ActiveVerb())
	assert.Equal(t, before.Pool.Tier, after.Pool.Tier)

	// Next keeps serving the old pool, a menu start rebuilds it
	ctrl.HandleMenuAction(ctx, userID, ActionFormsNext)
	assert.Equal(t, 1, loadUser(t, store).Pool.Tier)
	ctrl.HandleMenuAction(ctx, userID, ActionTrainForms)
	assert.Equal(t, 2, loadUser(t, store).Pool.Tier)
}

func TestSettingsActions(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleMenuAction(ctx, userID, ActionSettings)
	assert.Contains(t, reply.Text, "Daily reminder: OFF")
	assert.Equal(t, settingsControls, reply.Controls)

	reply = ctrl.HandleMenuAction(ctx, userID, ActionToggleDaily)
	assert.Contains(t, reply.Text, "Daily reminder: ON")
	assert.True(t, reply.DailyReminder)

	reply = ctrl.HandleMenuAction(ctx, userID, ActionToggleDailyMain)
	assert.Equal(t, chooseModeText, reply.Text)
	assert.False(t, reply.DailyReminder)

	settings, err := ctrl.SettingsSnapshot(ctx, userID)
	require.NoError(t, err)
	assert.False(t, settings.DailyReminder)
}

func TestCommands(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleCommand(ctx, userID, CommandStart)
	assert.Contains(t, reply.Text, "Welcome!")

	reply = ctrl.HandleCommand(ctx, userID, CommandDailyOn)
	assert.Contains(t, reply.Text, "24 hours")
	reply = ctrl.HandleCommand(ctx, userID, CommandDailyOn)
	assert.Equal(t, dailyAlreadyOn, reply.Text)

	reply = ctrl.HandleCommand(ctx, userID, CommandDailyOff)
	assert.Equal(t, dailyOffText, reply.Text)
	assert.False(t, loadUser(t, store).Settings.DailyReminder)

	reply = ctrl.HandleCommand(ctx, userID, CommandStats)
	assert.Contains(t, reply.Text, "Errors saved: 0")

	reply = ctrl.HandleCommand(ctx, userID, CommandHelp)
	assert.Contains(t, reply.Text, "Past Simple vs Present Perfect")

	reply = ctrl.HandleCommand(ctx, userID, Command("unknown"))
	assert.Equal(t, chooseModeText, reply.Text)
}

func TestUnknownActionShowsMenu(t *testing.T) {
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	reply := ctrl.HandleMenuAction(context.Background(), userID, Action("bogus"))

	assert.Equal(t, chooseModeText, reply.Text)
	assert.Equal(t, mainMenuControls, reply.Controls)
}

func TestFailedSaveLeavesRecord(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{MemoryStore: state.NewMemoryStore()}
	ctrl, _ := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionTrainForms)
	verb := loadUser(t, store).Session.ActiveVerb()

	store.failPut = true
	reply := ctrl.HandleTextAnswer(ctx, userID, "wrong answer")
	assert.Equal(t, fallbackText, reply.Text)

	u := loadUser(t, store)
	assert.Equal(t, 0, u.Progress.Wrong)
	assert.True(t, u.Ledger.IsEmpty())
	assert.Same(t, verb, u.Session.ActiveVerb())
}

func TestEmptyTierFallsBack(t *testing.T) {
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store, verbTake)

	reply := ctrl.HandleMenuAction(context.Background(), userID, ActionTrainForms)

	assert.Equal(t, fallbackText, reply.Text)
	_, err := store.Get(context.Background(), userID)
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestConcurrentAnswersAreSerialized(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, _ := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionTrainForms)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctrl.HandleTextAnswer(ctx, userID, "wrong answer")
		}()
	}
	wg.Wait()

	stats, err := ctrl.StatsSnapshot(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.Progress.Wrong)
	assert.Equal(t, 1, stats.Mistakes)
}

func TestReminderCandidates(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)
	start := clk.Now()

	put := func(id int64, daily bool, lastAnswer, reminded time.Time) {
		u := state.NewUser(id, start)
		u.Settings.DailyReminder = daily
		u.Progress.LastActivity = lastAnswer
		u.LastReminded = reminded
		require.NoError(t, store.Put(ctx, u))
	}

	put(1, true, time.Time{}, time.Time{})             // never answered
	put(2, true, start.Add(2*time.Hour), time.Time{})  // answered recently
	put(3, false, time.Time{}, time.Time{})            // reminders off
	put(4, true, time.Time{}, start.Add(20*time.Hour)) // reminded recently
	put(5, true, start.Add(-time.Hour), start.Add(-2*time.Hour))

	clk.Advance(25 * time.Hour)

	due, err := ctrl.ReminderCandidates(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 5}, due)

	require.NoError(t, ctrl.MarkReminded(ctx, 1))
	due, err = ctrl.ReminderCandidates(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, due)

	inactive, err := ctrl.IsInactiveFor(ctx, 2, 24*time.Hour)
	require.NoError(t, err)
	assert.False(t, inactive)
	inactive, err = ctrl.IsInactiveFor(ctx, 1, 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, inactive)

	reply := ctrl.ReminderReply()
	assert.Contains(t, reply.Text, "You haven’t trained for 24 hours!")
}

func TestSweepExpiredSpeed(t *testing.T) {
	ctx := context.Background()
	store := state.NewMemoryStore()
	ctrl, clk := newController(t, store)

	ctrl.HandleMenuAction(ctx, userID, ActionSpeed)
	ctrl.HandleMenuAction(ctx, userID+1, ActionTrainForms)

	clk.Advance(DefaultSpeedDuration + 10*time.Second)
	swept, err := ctrl.SweepExpiredSpeed(ctx, 30*time.Second)
	require.NoError(t, err)
	assert.Empty(t, swept)

	clk.Advance(time.Minute)
	swept, err = ctrl.SweepExpiredSpeed(ctx, 30*time.Second)
	require.NoError(t, err)
	require.Len(t, swept, 1)
	assert.Equal(t, userID, swept[0].UserID)
	assert.Contains(t, swept[0].Reply.Text, "Time is up!")

	assert.Equal(t, models.ModeIdle, loadUser(t, store).Session.Mode())
}
