package i18n

import (
	"fmt"
	"strings"
	"time"

	"github.com/QuickWebMaster/mediva-bot/internal/models"
)

// Ключи сообщений
const (
	KeyChooseLanguage = "choose_language"
	KeyLanguageSet    = "language_set"
	KeyHelp           = "help"
	KeyAskConfirm     = "ask_confirm"
	KeyConfirmAgain   = "confirm_again"
	KeyAskDetails     = "ask_details"
	KeyDetailsFormat  = "details_format"
	KeyBookingFailed  = "booking_failed"
	KeyAIUnavailable  = "ai_unavailable"
)

var texts = map[string]map[models.Language]string{
	KeyChooseLanguage: {
		models.LangRU: "Выберите язык обслуживания:",
		models.LangUZ: "Xizmat tilini tanlang:",
		models.LangEN: "Please choose a language:",
	},
	KeyLanguageSet: {
		models.LangRU: "Язык установлен. Напишите название услуги, чтобы узнать цену, или задайте вопрос. Для записи на прием отправьте /book.",
		models.LangUZ: "Til tanlandi. Narxni bilish uchun xizmat nomini yozing yoki savol bering. Qabulga yozilish uchun /book yuboring.",
		models.LangEN: "Language set. Send a service name to get its price, or ask a question. Send /book to make an appointment.",
	},
	KeyHelp: {
		models.LangRU: "Я помощник клиники Mediva.\n\n/start — выбрать язык заново\n/book — записаться на прием\n/help — эта справка\n\nНапишите название услуги, чтобы узнать цену.",
		models.LangUZ: "Men Mediva klinikasi yordamchisiman.\n\n/start — tilni qayta tanlash\n/book — qabulga yozilish\n/help — ushbu ma'lumot\n\nNarxni bilish uchun xizmat nomini yozing.",
		models.LangEN: "I am the Mediva clinic assistant.\n\n/start — choose language again\n/book — make an appointment\n/help — this message\n\nSend a service name to get its price.",
	},
	KeyAskConfirm: {
		models.LangRU: "Записать вас на прием? Ответьте «да», чтобы продолжить.",
		models.LangUZ: "Sizni qabulga yozib qo'yaymi? Davom etish uchun «ha» deb javob bering.",
		models.LangEN: "Would you like to book an appointment? Reply \"yes\" to continue.",
	},
	KeyConfirmAgain: {
		models.LangRU: "Не понял ответ. Если хотите записаться на прием, ответьте «да».",
		models.LangUZ: "Javob tushunarsiz. Qabulga yozilmoqchi bo'lsangiz, «ha» deb javob bering.",
		models.LangEN: "I didn't understand. If you want to book an appointment, reply \"yes\".",
	},
	KeyAskDetails: {
		models.LangRU: "Отправьте данные одним сообщением через запятую:\nФИО, дата рождения, желаемое время\n\nНапример: Иванов Иван, 1990-05-02, 2024-06-01 10:00",
		models.LangUZ: "Ma'lumotlarni bitta xabarda vergul bilan yuboring:\nF.I.Sh., tug'ilgan sana, qulay vaqt\n\nMasalan: Ivanov Ivan, 1990-05-02, 2024-06-01 10:00",
		models.LangEN: "Send your details in one message, separated by commas:\nfull name, date of birth, preferred time\n\nFor example: Ivanov Ivan, 1990-05-02, 2024-06-01 10:00",
	},
	KeyDetailsFormat: {
		models.LangRU: "Нужно ровно три поля через запятую: ФИО, дата рождения (ГГГГ-ММ-ДД), желаемое время (ГГГГ-ММ-ДД ЧЧ:ММ). Попробуйте еще раз.",
		models.LangUZ: "Vergul bilan ajratilgan uchta maydon kerak: F.I.Sh., tug'ilgan sana (YYYY-MM-DD), qulay vaqt (YYYY-MM-DD HH:MM). Qaytadan urinib ko'ring.",
		models.LangEN: "Exactly three comma-separated fields are required: full name, date of birth (YYYY-MM-DD), preferred time (YYYY-MM-DD HH:MM). Please try again.",
	},
	KeyBookingFailed: {
		models.LangRU: "Не удалось отправить заявку. Пожалуйста, попробуйте позже.",
		models.LangUZ: "Arizani yuborib bo'lmadi. Iltimos, keyinroq urinib ko'ring.",
		models.LangEN: "Could not submit your request. Please try again later.",
	},
	KeyAIUnavailable: {
		models.LangRU: "Извините, сейчас не могу ответить. Попробуйте позже или позвоните в клинику.",
		models.LangUZ: "Kechirasiz, hozir javob bera olmayman. Keyinroq urinib ko'ring yoki klinikaga qo'ng'iroq qiling.",
		models.LangEN: "Sorry, I cannot answer right now. Please try again later or call the clinic.",
	},
}

// T возвращает текст сообщения на языке пользователя.
// Неизвестный язык откатывается на русский.
func T(lang models.Language, key string) string {
	byLang, ok := texts[key]
	if !ok {
		return key
	}
	if text, ok := byLang[lang]; ok {
		return text
	}
	return byLang[models.DefaultLanguage]
}

// BookingConfirmed текст подтверждения записи с датой визита и телефоном клиники
func BookingConfirmed(lang models.Language, at time.Time, phone string) string {
	when := at.Format("02.01.2006 15:04")
	switch lang {
	case models.LangUZ:
		return fmt.Sprintf("✅ Siz qabulga yozildingiz: %s.\nSavollar bo'lsa, qo'ng'iroq qiling: %s", when, phone)
	case models.LangEN:
		return fmt.Sprintf("✅ Your appointment is booked for %s.\nIf you have questions, call us: %s", when, phone)
	default:
		return fmt.Sprintf("✅ Вы записаны на прием: %s.\nЕсли появятся вопросы, звоните: %s", when, phone)
	}
}

// ReminderText текст напоминания за час до визита
func ReminderText(lang models.Language, at time.Time) string {
	when := at.Format("02.01.2006 15:04")
	switch lang {
	case models.LangUZ:
		return fmt.Sprintf("⏰ Eslatma: bugun %s da qabulga yozilgansiz.", when)
	case models.LangEN:
		return fmt.Sprintf("⏰ Reminder: you have an appointment at %s.", when)
	default:
		return fmt.Sprintf("⏰ Напоминание: вы записаны на прием %s.", when)
	}
}

// affirmations токены согласия по языкам
var affirmations = map[models.Language][]string{
	models.LangRU: {"да", "ага", "давайте", "хочу", "конечно"},
	models.LangUZ: {"ha", "xa", "mayli", "albatta"},
	models.LangEN: {"yes", "yeah", "sure", "ok", "okay"},
}

// Affirmative сообщает, является ли текст согласием на языке пользователя.
// Русские токены принимаются всегда: язык по умолчанию.
func Affirmative(lang models.Language, text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.Trim(t, "!.,)")
	for _, token := range affirmations[lang] {
		if t == token {
			return true
		}
	}
	if lang != models.DefaultLanguage {
		for _, token := range affirmations[models.DefaultLanguage] {
			if t == token {
				return true
			}
		}
	}
	return false
}

// LanguageDirective инструкция модели, на каком языке отвечать
func LanguageDirective(lang models.Language) string {
	switch lang {
	case models.LangUZ:
		return "Отвечай на узбекском языке."
	case models.LangEN:
		return "Answer in English."
	default:
		return "Отвечай на русском языке."
	}
}
