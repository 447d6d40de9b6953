package bot

import (
	"github.com/example/verbbot/internal/trainer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

var actionLabels = map[trainer.Action]string{
	trainer.ActionTrainForms:       "📘 Verb Forms",
	trainer.ActionTrainTranslation: "🌐 Translation",
	trainer.ActionMix:              "🎲 Mix",
	trainer.ActionSpeed:            "⚡ Speed",
	trainer.ActionRepeatErrors:     "🔁 Repeat Mistakes",
	trainer.ActionStats:            "📊 My Stats",
	trainer.ActionSettings:         "⚙️ Settings",
	trainer.ActionHelp:             "ℹ️ Help",
	trainer.ActionFormsNext:        "▶️ Next",
	trainer.ActionTranslationNext:  "▶️ Next",
	trainer.ActionMixNext:          "▶️ Next",
	trainer.ActionRepeatNext:       "▶️ Next",
	trainer.ActionSpeedStop:        "⏹ Stop",
	trainer.ActionBackToMenu:       "⬅️ Back to Menu",
	trainer.ActionLevel1:           "1️⃣ Easy",
	trainer.ActionLevel2:           "2️⃣ Medium",
	trainer.ActionLevel3:           "3️⃣ Hard",
}

// label returns the button text for an action
func label(action trainer.Action, dailyReminder bool) string {
	if action == trainer.ActionToggleDaily || action == trainer.ActionToggleDailyMain {
		if dailyReminder {
			return "🔔 Daily reminder: ON"
		}
		return "🔕 Daily reminder: OFF"
	}
	if text, ok := actionLabels[action]; ok {
		return text
	}
	return string(action)
}

// menuButtons lays out the reply's controls as labelled buttons
func menuButtons(reply trainer.Reply) [][]MenuButton {
	rows := make([][]MenuButton, 0, len(reply.Controls))
	for _, controls := range reply.Controls {
		row := make([]MenuButton, 0, len(controls))
		for _, action := range controls {
			row = append(row, MenuButton{
				Text:         label(action, reply.DailyReminder),
				CallbackData: string(action),
			})
		}
		rows = append(rows, row)
	}
	return rows
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

func keyboardFor(reply trainer.Reply) tgbotapi.InlineKeyboardMarkup {
	return createKeyboard(menuButtons(reply))
}
