package bot

import (
	"go.uber.org/zap"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/QuickWebMaster/mediva-bot/internal/dialogue"
	"github.com/QuickWebMaster/mediva-bot/internal/session"
)

// Bot транспорт Telegram: читает обновления длинным опросом и передает
// их диспетчеру диалогов. Также доставляет ответы и напоминания.
type Bot struct {
	api        *tgbotapi.BotAPI
	store      session.Store
	dispatcher *dialogue.Dispatcher
	log        *zap.SugaredLogger
}

func New(token string, store session.Store, log *zap.SugaredLogger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:   api,
		store: store,
		log:   log,
	}, nil
}

// AttachDispatcher связывает бота с диспетчером. Вызывается после
// создания диспетчера: тому нужен бот как отправитель ответов.
func (b *Bot) AttachDispatcher(d *dialogue.Dispatcher) {
	b.dispatcher = d
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	// Очередность внутри чата обеспечивает диспетчер, поэтому обновления
	// отдаются ему прямо из цикла чтения, без горутины на обновление.
	for update := range updates {
		switch {
		case update.Message != nil:
			b.handleMessage(update.Message)
		case update.CallbackQuery != nil:
			b.handleCallbackQuery(update.CallbackQuery)
		case update.MyChatMember != nil:
			b.handleChatMemberUpdate(update.MyChatMember)
		}
	}
}

func (b *Bot) Stop() {
	b.api.StopReceivingUpdates()
}
