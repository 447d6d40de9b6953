package bot

import (
	"context"
	"strings"

	"github.com/example/verbbot/internal/trainer"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleUpdate handles incoming updates from Telegram
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil || message.Chat == nil {
		return
	}

	var reply trainer.Reply
	switch {
	case message.IsCommand():
		reply = b.trainer.HandleCommand(ctx, message.From.ID, trainer.Command(message.Command()))
	case message.Text != "":
		reply = b.trainer.HandleTextAnswer(ctx, message.From.ID, message.Text)
	default:
		// Stickers, photos and the like
		return
	}

	if err := b.sendReply(message.Chat.ID, reply); err != nil {
		b.logger.Printf("send reply to chat %d: %v", message.Chat.ID, err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	if callback.From == nil {
		return
	}

	// Always answer the callback query to remove the loading state
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Printf("answer callback %s: %v", callback.ID, err)
	}

	reply := b.trainer.HandleMenuAction(ctx, callback.From.ID, trainer.Action(callback.Data))

	chatID := callback.From.ID
	if callback.Message != nil && callback.Message.Chat != nil {
		chatID = callback.Message.Chat.ID
		if reply.Edit {
			if err := b.editReply(chatID, callback.Message.MessageID, reply); err != nil {
				b.logger.Printf("edit message in chat %d: %v", chatID, err)
			}
			return
		}
	}

	if err := b.sendReply(chatID, reply); err != nil {
		b.logger.Printf("send reply to chat %d: %v", chatID, err)
	}
}

// sendReply sends a new message. A Markdown reply Telegram cannot parse is
// sent again as plain text.
func (b *Bot) sendReply(chatID int64, reply trainer.Reply) error {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if len(reply.Controls) > 0 {
		msg.ReplyMarkup = keyboardFor(reply)
	}
	if reply.Markdown {
		msg.ParseMode = tgbotapi.ModeMarkdown
	}

	_, err := b.api.Send(msg)
	if err != nil && reply.Markdown {
		b.logger.Printf("markdown message to chat %d failed, sending plain text: %v", chatID, err)
		msg.ParseMode = ""
		_, err = b.api.Send(msg)
	}
	return err
}

// editReply replaces the text and keyboard of the message a button was on,
// and falls back to a new message when the edit fails.
func (b *Bot) editReply(chatID int64, messageID int, reply trainer.Reply) error {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, reply.Text, keyboardFor(reply))
	if reply.Markdown {
		edit.ParseMode = tgbotapi.ModeMarkdown
	}

	_, err := b.api.Request(edit)
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		return nil
	}

	b.logger.Printf("edit message %d in chat %d failed, sending new one: %v", messageID, chatID, err)
	return b.sendReply(chatID, reply)
}
