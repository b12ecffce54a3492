// Package dialogue машина состояний диалога: выбор языка, поиск по
// прайс-листу, генеративный ответ и ветка записи на прием.
package dialogue

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/QuickWebMaster/mediva-bot/internal/appointment"
	"github.com/QuickWebMaster/mediva-bot/internal/catalog"
	"github.com/QuickWebMaster/mediva-bot/internal/i18n"
	"github.com/QuickWebMaster/mediva-bot/internal/models"
	"github.com/QuickWebMaster/mediva-bot/internal/session"
)

// Inbound входящее событие чата
type Inbound struct {
	ChatID       int64
	Text         string
	CallbackData string
}

// Reply исходящий ответ. LanguageKeyboard помечает сообщение,
// к которому транспорт прикрепляет кнопки выбора языка.
type Reply struct {
	Text             string
	LanguageKeyboard bool
}

// Completer генеративный ответ на вопрос без совпадения в прайс-листе
type Completer interface {
	Complete(ctx context.Context, systemContext []string, userText string, language models.Language) (string, error)
}

// Booker конвейер записи на прием
type Booker interface {
	Book(ctx context.Context, req appointment.Request, chatID int64, lang models.Language) (string, bool)
}

type Manager struct {
	catalog   *catalog.Catalog
	store     session.Store
	completer Completer
	booking   Booker
	aiTimeout time.Duration
	log       *zap.SugaredLogger
}

func NewManager(cat *catalog.Catalog, store session.Store, completer Completer, booking Booker, aiTimeout time.Duration, log *zap.SugaredLogger) *Manager {
	return &Manager{
		catalog:   cat,
		store:     store,
		completer: completer,
		booking:   booking,
		aiTimeout: aiTimeout,
		log:       log,
	}
}

// Handle обрабатывает одно входящее событие и возвращает ответы.
// Вызовы для одного чата сериализуются диспетчером.
func (m *Manager) Handle(ctx context.Context, in Inbound) []Reply {
	sess, err := m.store.Get(ctx, in.ChatID)
	if err != nil {
		m.log.Errorw("ошибка получения сессии", "chat_id", in.ChatID, "error", err)
		return []Reply{{Text: i18n.T(models.DefaultLanguage, i18n.KeyAIUnavailable)}}
	}

	var replies []Reply
	switch {
	case in.CallbackData != "":
		replies = m.handleCallback(sess, in.CallbackData)
	case strings.HasPrefix(strings.TrimSpace(in.Text), "/"):
		replies = m.handleCommand(sess, strings.TrimSpace(in.Text))
	default:
		replies = m.handleText(ctx, sess, strings.TrimSpace(in.Text))
	}

	if err := m.store.Upsert(ctx, sess); err != nil {
		m.log.Errorw("ошибка сохранения сессии", "chat_id", in.ChatID, "error", err)
	}

	return replies
}

func (m *Manager) handleCallback(sess *models.Session, data string) []Reply {
	if !strings.HasPrefix(data, "lang_") {
		return nil
	}
	lang := models.Language(strings.TrimPrefix(data, "lang_"))
	if !lang.Valid() {
		return nil
	}

	sess.Language = lang
	if sess.State == models.StateAwaitingLanguage {
		sess.State = models.StateReady
	}
	return []Reply{{Text: i18n.T(lang, i18n.KeyLanguageSet)}}
}

func (m *Manager) handleCommand(sess *models.Session, command string) []Reply {
	switch command {
	case "/start":
		sess.Language = models.DefaultLanguage
		sess.State = models.StateAwaitingLanguage
		sess.PriceQuoted = false
		sess.PendingFields = make(map[string]string)
		return []Reply{{Text: i18n.T(models.DefaultLanguage, i18n.KeyChooseLanguage), LanguageKeyboard: true}}
	case "/book":
		if sess.State == models.StateAwaitingLanguage {
			return []Reply{{Text: i18n.T(models.DefaultLanguage, i18n.KeyChooseLanguage), LanguageKeyboard: true}}
		}
		sess.State = models.StateAwaitingConfirm
		sess.PriceQuoted = false
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyAskConfirm)}}
	default:
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyHelp)}}
	}
}

func (m *Manager) handleText(ctx context.Context, sess *models.Session, text string) []Reply {
	if text == "" {
		return nil
	}

	switch sess.State {
	case models.StateAwaitingLanguage:
		// До выбора языка отвечаем на языке по умолчанию, состояние не меняется
		return []Reply{{Text: i18n.T(models.DefaultLanguage, i18n.KeyChooseLanguage), LanguageKeyboard: true}}
	case models.StateReady:
		return m.handleReady(ctx, sess, text)
	case models.StateAwaitingConfirm:
		return m.handleConfirm(sess, text)
	case models.StateAwaitingDetails:
		return m.handleDetails(ctx, sess, text)
	default:
		m.log.Errorw("сессия в неизвестном состоянии", "chat_id", sess.ChatID, "state", sess.State)
		sess.State = models.StateReady
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyHelp)}}
	}
}

func (m *Manager) handleReady(ctx context.Context, sess *models.Session, text string) []Reply {
	kind, entries := m.classify(sess, text)

	switch kind {
	case QueryBooking:
		sess.State = models.StateAwaitingConfirm
		sess.PriceQuoted = false
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyAskConfirm)}}

	case QueryPrice:
		lines := make([]string, 0, len(entries))
		for _, e := range entries {
			lines = append(lines, e.Label+": "+e.Price)
		}
		sess.PriceQuoted = true
		return []Reply{{Text: strings.Join(lines, "\n")}}

	default:
		sess.PriceQuoted = false
		return m.completeWithAI(ctx, sess, text)
	}
}

func (m *Manager) completeWithAI(ctx context.Context, sess *models.Session, text string) []Reply {
	aiCtx, cancel := context.WithTimeout(ctx, m.aiTimeout)
	defer cancel()

	answer, err := m.completer.Complete(aiCtx, m.systemContext(), text, sess.Language)
	if err != nil {
		m.log.Errorw("ошибка генеративного ответа", "chat_id", sess.ChatID, "error", err)
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyAIUnavailable)}}
	}
	return []Reply{{Text: answer}}
}

func (m *Manager) handleConfirm(sess *models.Session, text string) []Reply {
	if !i18n.Affirmative(sess.Language, text) {
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyConfirmAgain)}}
	}
	sess.State = models.StateAwaitingDetails
	return []Reply{{Text: i18n.T(sess.Language, i18n.KeyAskDetails)}}
}

func (m *Manager) handleDetails(ctx context.Context, sess *models.Session, text string) []Reply {
	req, err := appointment.ParseDetails(text)
	if err != nil {
		// Неверный формат: переспрашиваем, состояние не меняется
		m.log.Debugw("данные записи не разобраны", "chat_id", sess.ChatID, "error", err)
		return []Reply{{Text: i18n.T(sess.Language, i18n.KeyDetailsFormat)}}
	}

	sess.PendingFields["full_name"] = req.FullName
	sess.PendingFields["date_of_birth"] = req.DateOfBirth.Format("2006-01-02")
	sess.PendingFields["preferred_time"] = req.PreferredTime.Format("2006-01-02 15:04")

	reply, ok := m.booking.Book(ctx, req, sess.ChatID, sess.Language)
	if !ok {
		m.log.Warnw("заявка не отправлена", "chat_id", sess.ChatID)
	}

	sess.State = models.StateReady
	sess.PendingFields = make(map[string]string)
	return []Reply{{Text: reply}}
}

// systemContext фоновые сведения для генеративного ответа
func (m *Manager) systemContext() []string {
	ctx := []string{
		"Ты — вежливый ассистент клиники Mediva. Отвечай коротко и по делу.",
		"Не называй цены, которых нет в прайс-листе.",
		"Прайс-лист клиники:",
	}
	return append(ctx, m.catalog.Lines()...)
}
