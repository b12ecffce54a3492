package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/QuickWebMaster/mediva-bot/internal/dialogue"
	"github.com/QuickWebMaster/mediva-bot/internal/models"
)

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	b.log.Debugw("получено сообщение", "chat_id", message.Chat.ID, "text", message.Text)

	b.dispatcher.Enqueue(dialogue.Inbound{
		ChatID: message.Chat.ID,
		Text:   message.Text,
	})
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	// Отвечаем на callback, чтобы убрать "часики" на кнопке
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Debugw("ошибка ответа на callback", "error", err)
	}

	if callback.Message == nil {
		return
	}

	b.dispatcher.Enqueue(dialogue.Inbound{
		ChatID:       callback.Message.Chat.ID,
		CallbackData: callback.Data,
	})
}

func (b *Bot) handleChatMemberUpdate(update *tgbotapi.ChatMemberUpdated) {
	chatID := update.Chat.ID
	newStatus := update.NewChatMember.Status
	oldStatus := update.OldChatMember.Status

	b.log.Infow("изменение статуса бота в чате", "chat_id", chatID, "old", oldStatus, "new", newStatus)

	// Если бота заблокировали, очищаем сессию чата
	if newStatus == "kicked" {
		if err := b.store.Delete(context.Background(), chatID); err != nil {
			b.log.Errorw("ошибка удаления сессии", "chat_id", chatID, "error", err)
		}
	}

	if oldStatus == "kicked" && newStatus == "member" {
		b.SendReply(chatID, dialogue.Reply{Text: "👋 Спасибо, что разблокировали меня! Используйте /start для начала работы."})
	}
}

// SendReply отправляет ответ диалога, при необходимости с кнопками выбора языка
func (b *Bot) SendReply(chatID int64, reply dialogue.Reply) {
	msg := tgbotapi.NewMessage(chatID, reply.Text)
	if reply.LanguageKeyboard {
		msg.ReplyMarkup = languageKeyboard()
	}

	if _, err := b.api.Send(msg); err != nil {
		if strings.Contains(err.Error(), "bot was blocked by the user") {
			b.log.Infow("пользователь заблокировал бота", "chat_id", chatID)
			if err := b.store.Delete(context.Background(), chatID); err != nil {
				b.log.Errorw("ошибка удаления сессии", "chat_id", chatID, "error", err)
			}
		} else if strings.Contains(err.Error(), "chat not found") {
			b.log.Warnw("чат не найден", "chat_id", chatID)
		} else {
			b.log.Errorw("ошибка отправки сообщения", "chat_id", chatID, "error", err)
		}
	}
}

// Send доставляет текст напоминания. Реализует reminder.Sender.
func (b *Bot) Send(chatID int64, text string) {
	b.SendReply(chatID, dialogue.Reply{Text: text})
}

func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	keyboard := tgbotapi.NewInlineKeyboardMarkup()
	for _, lang := range []models.Language{models.LangRU, models.LangUZ, models.LangEN} {
		row := tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(models.LanguageNames[lang], "lang_"+string(lang)),
		)
		keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, row)
	}
	return keyboard
}
