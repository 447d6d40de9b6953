package trainer

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/verbbot/internal/state"
	"github.com/example/verbbot/pkg/models"
)

const (
	chooseModeText  = "Choose a training mode 👇"
	readyText       = "Ready to practise? Choose a training mode 👇"
	fallbackText    = "⚠️ Something went wrong. Please try again."
	noMistakesText  = "🎉 You don’t have any saved mistakes!"
	allClearText    = "🎉 Great job! You have no more mistakes left."
	dailyAlreadyOn  = "Daily reminder is already ON."
	dailyOffText    = "❌ Daily reminder is now OFF."
	noSpeedMissText = "No mistakes — great job!"
)

const welcomeText = "👋 *Welcome!*\n\n" +
	"This bot helps you practise English irregular verbs.\n\n" +
	"*Training modes:*\n" +
	"- Forms — practise V1, V2, V3.\n" +
	"- Translation — translate verbs.\n" +
	"- Mix — both forms and translation.\n" +
	"- Speed mode — answer as many as possible.\n" +
	"- Repeat mistakes — verbs you answered incorrectly.\n\n" +
	"Ready to practise? Choose a training mode! 👇"

const helpText = "*Past Simple vs Present Perfect*\n\n" +
	"*Past Simple* — действие завершено в прошлом, время указано или понятно из контекста.\n" +
	"Примеры:\n" +
	"- I visited London last year.\n" +
	"- She finished the project yesterday.\n\n" +
	"Сигнальные слова:\n" +
	"yesterday, last week, in 2010, two days ago, when I was a child\n\n" +
	"*Present Perfect* — действие связано с настоящим, важен результат или опыт.\n" +
	"Примеры:\n" +
	"- I have visited London many times.\n" +
	"- She has just finished the project.\n\n" +
	"Сигнальные слова:\n" +
	"already, just, yet, ever, never, recently, lately, so far\n\n" +
	"*Главное различие:*\n" +
	"Past Simple — важно, когда произошло действие.\n" +
	"Present Perfect — важно, что результат актуален сейчас.\n\n" +
	"*Помни:*\n" +
	"В Past Simple используется *2-я форма глагола* (went, saw, did).\n" +
	"В Present Perfect — *3-я форма* (gone, seen, done).\n\n" +
	"Всё обучение в приложении построено на том, чтобы ты уверенно различал и использовал эти формы."

func formsPrompt(title string, verb *models.Verb, example bool) string {
	text := fmt.Sprintf("%s\n\nInfinitive: *%s*\nTranslation: *%s*\n\nType the 2nd and 3rd verb forms.",
		title, verb.Infinitive, verb.Translation)
	if example {
		text += "\nExample: *went gone*"
	}
	return text
}

func translationPrompt(title string, verb *models.Verb) string {
	return fmt.Sprintf("%s\n\nTranslate:\n\n*%s*", title, verb.Infinitive)
}

// drillPrompt renders the question for a Forms, Translation or Mix session
func drillPrompt(s state.Session) string {
	switch v := s.(type) {
	case state.Forms:
		return formsPrompt("📘 *Verb Forms Training*", v.Verb, true)
	case state.Translation:
		return translationPrompt("🌐 *Translation Training*", v.Verb)
	case state.Mix:
		if v.Submode == models.ModeTranslation {
			return translationPrompt("🎲 *Mix Mode — Translation*", v.Verb)
		}
		return formsPrompt("🎲 *Mix Mode — Verb Forms*", v.Verb, false)
	}
	return chooseModeText
}

func repeatPrompt(s state.Repeat) string {
	if s.Rule == models.ModeTranslation {
		return fmt.Sprintf("🔁 *Mistake review — Translation*\n\nInfinitive: *%s*\n\nType the translation:", s.Verb.Infinitive)
	}
	return formsPrompt("🔁 *Mistake review — Verb Forms*", s.Verb, false)
}

func speedStartPrompt(s *state.Speed, duration time.Duration) string {
	return formsPrompt(fmt.Sprintf("⚡ *Speed Mode — %d seconds!*", int(duration/time.Second)), s.Verb, false)
}

func speedPrompt(s *state.Speed, now time.Time) string {
	return fmt.Sprintf("⚡ *Speed Mode*\nLeft: %d sec\nCorrect: %d / %d\n\nInfinitive: *%s*\nTranslation: *%s*\n\nType the 2nd and 3rd verb forms.",
		s.Remaining(now), s.Correct, s.Total, s.Verb.Infinitive, s.Verb.Translation)
}

func verdictText(mode models.Mode, correct bool, canonical string) string {
	if correct {
		return "✅ Correct!\n\n" + canonical
	}
	if mode == models.ModeTranslation {
		return "❌ Wrong!\n\nCorrect: " + canonical
	}
	return "❌ Wrong.\n\nCorrect forms:\n" + canonical
}

func speedTimeoutText(s *state.Speed) string {
	missed := noSpeedMissText
	if len(s.Missed) > 0 {
		lines := make([]string, 0, len(s.Missed))
		for _, v := range s.Missed {
			lines = append(lines, fmt.Sprintf("• *%s* — %s, %s (%s)", v.Infinitive, v.PastText(), v.ParticipleText(), v.Translation))
		}
		missed = strings.Join(lines, "\n")
	}
	return fmt.Sprintf("⏰ *Time is up!*\n\nCorrect answers: %d\nTotal questions: %d\n\n❗ *Mistakes to review:*\n%s",
		s.Correct, s.Total, missed)
}

func speedStopText(s *state.Speed) string {
	return fmt.Sprintf("⏹ Speed Mode stopped.\n\nCorrect answers: %d\nTotal questions: %d", s.Correct, s.Total)
}

func statsText(p models.Progress, mistakes int) string {
	return fmt.Sprintf("📊 *Your Stats:*\n\nCorrect: %d\nWrong: %d\nBest streak: %d\nErrors saved: %d",
		p.Correct, p.Wrong, p.BestStreak, mistakes)
}

func settingsText(s models.Settings) string {
	return fmt.Sprintf("⚙️ *Settings*\n\nDifficulty level: %d\nDaily reminder: %s\n\nChoose an option:",
		s.Tier, onOff(s.DailyReminder))
}

func dailyOnText(threshold time.Duration) string {
	return fmt.Sprintf("✅ Daily reminder is now ON.\nYou will get a notification if you don’t train for %s.", span(threshold))
}

func reminderText(threshold time.Duration) string {
	return fmt.Sprintf("⏰ You haven’t trained for %s! Time to practice irregular verbs. 💪", span(threshold))
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

// span renders a reminder threshold as whole hours when it has no remainder
func span(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	}
	return d.String()
}
