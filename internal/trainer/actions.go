package trainer

// Action is a control token sent back by a button
type Action string

// Main menu
const (
	ActionTrainForms       Action = "menu_train_forms"
	ActionTrainTranslation Action = "menu_train_translation"
	ActionMix              Action = "menu_mix"
	ActionSpeed            Action = "menu_speed"
	ActionRepeatErrors     Action = "menu_repeat_errors"
	ActionStats            Action = "menu_stats"
	ActionSettings         Action = "menu_settings"
	ActionToggleDailyMain  Action = "toggle_daily_main"
	ActionHelp             Action = "menu_help"
)

// In-mode controls
const (
	ActionFormsNext       Action = "forms_next"
	ActionTranslationNext Action = "translation_next"
	ActionMixNext         Action = "mix_next"
	ActionRepeatNext      Action = "repeat_next"
	ActionSpeedStop       Action = "speed_stop"
	ActionBackToMenu      Action = "back_main_menu"
)

// Settings
const (
	ActionLevel1      Action = "level_1"
	ActionLevel2      Action = "level_2"
	ActionLevel3      Action = "level_3"
	ActionToggleDaily Action = "toggle_daily"
)

// Command is a slash command without the leading slash
type Command string

const (
	CommandStart    Command = "start"
	CommandHelp     Command = "help"
	CommandStats    Command = "stats"
	CommandMenu     Command = "menu"
	CommandDailyOn  Command = "daily_on"
	CommandDailyOff Command = "daily_off"
)

var (
	mainMenuControls = [][]Action{
		{ActionTrainForms, ActionTrainTranslation},
		{ActionMix, ActionSpeed},
		{ActionRepeatErrors},
		{ActionStats, ActionSettings},
		{ActionToggleDailyMain},
		{ActionHelp},
	}
	settingsControls = [][]Action{
		{ActionLevel1, ActionLevel2, ActionLevel3},
		{ActionToggleDaily},
		{ActionBackToMenu},
	}
	speedControls = [][]Action{
		{ActionSpeedStop},
		{ActionBackToMenu},
	}
)

// nextControls returns the Next and Back rows for a drill
func nextControls(next Action) [][]Action {
	return [][]Action{
		{next},
		{ActionBackToMenu},
	}
}

// levelOf returns the tier named by a level action, or 0
func levelOf(a Action) int {
	switch a {
	case ActionLevel1:
		return 1
	case ActionLevel2:
		return 2
	case ActionLevel3:
		return 3
	}
	return 0
}
