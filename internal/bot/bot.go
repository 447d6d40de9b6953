package bot

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/example/verbbot/internal/trainer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// api is the part of tgbotapi.BotAPI the bot uses
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Trainer turns user input into replies
type Trainer interface {
	HandleMenuAction(ctx context.Context, userID int64, action trainer.Action) trainer.Reply
	HandleCommand(ctx context.Context, userID int64, cmd trainer.Command) trainer.Reply
	HandleTextAnswer(ctx context.Context, userID int64, text string) trainer.Reply
}

// Bot represents the Telegram bot application
type Bot struct {
	api     api
	trainer Trainer
	config  Config
	logger  *log.Logger

	inflight sync.WaitGroup
	mu       sync.Mutex
	queues   map[int64][]tgbotapi.Update // Pending updates per user with a running worker
}

// New connects to Telegram with the given token
func New(token string, tr Trainer, config Config, logger *log.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	botAPI.Debug = config.Debug
	logger.Printf("authorized on account %s", botAPI.Self.UserName)

	return newBot(botAPI, tr, config, logger), nil
}

func newBot(client api, tr Trainer, config Config, logger *log.Logger) *Bot {
	return &Bot{
		api:     client,
		trainer: tr,
		config:  config,
		logger:  logger,
		queues:  make(map[int64][]tgbotapi.Update),
	}
}

// Start polls for updates until ctx is cancelled or the update channel
// closes. Users are served concurrently, each user's updates in arrival order.
func (b *Bot) Start(ctx context.Context) error {
	b.registerCommands()

	// Let in-flight requests finish after shutdown starts
	handlerCtx := context.WithoutCancel(ctx)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.inflight.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.inflight.Wait()
				return nil
			}
			b.dispatch(handlerCtx, update)
		}
	}
}

// dispatch queues the update for its user and starts a worker when none runs
func (b *Bot) dispatch(ctx context.Context, update tgbotapi.Update) {
	userID := senderID(update)

	b.mu.Lock()
	pending, running := b.queues[userID]
	b.queues[userID] = append(pending, update)
	b.mu.Unlock()
	if running {
		return
	}

	b.inflight.Add(1)
	go b.drain(ctx, userID)
}

// drain handles the user's queued updates one by one until the queue is empty
func (b *Bot) drain(ctx context.Context, userID int64) {
	defer b.inflight.Done()

	for {
		b.mu.Lock()
		pending := b.queues[userID]
		if len(pending) == 0 {
			delete(b.queues, userID)
			b.mu.Unlock()
			return
		}
		update := pending[0]
		b.queues[userID] = pending[1:]
		b.mu.Unlock()

		b.handleUpdate(ctx, update)
	}
}

func senderID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}

// Notify implements scheduler.Notifier. In private chats the chat id is the user id.
func (b *Bot) Notify(userID int64, reply trainer.Reply) error {
	if err := b.sendReply(userID, reply); err != nil {
		return fmt.Errorf("notify user %d: %w", userID, err)
	}
	return nil
}

func (b *Bot) registerCommands() {
	commands := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: string(trainer.CommandStart), Description: "Start and show the menu"},
		tgbotapi.BotCommand{Command: string(trainer.CommandMenu), Description: "Choose a training mode"},
		tgbotapi.BotCommand{Command: string(trainer.CommandStats), Description: "Show your stats"},
		tgbotapi.BotCommand{Command: string(trainer.CommandHelp), Description: "Past Simple vs Present Perfect"},
		tgbotapi.BotCommand{Command: string(trainer.CommandDailyOn), Description: "Turn the daily reminder on"},
		tgbotapi.BotCommand{Command: string(trainer.CommandDailyOff), Description: "Turn the daily reminder off"},
	)
	if _, err := b.api.Request(commands); err != nil {
		b.logger.Printf("register commands: %v", err)
	}
}
