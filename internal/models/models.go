package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Language код языка общения с пользователем
type Language string

const (
	LangRU Language = "ru"
	LangUZ Language = "uz"
	LangEN Language = "en"
)

// DefaultLanguage используется до явного выбора языка пользователем
const DefaultLanguage = LangRU

// Valid сообщает, поддерживается ли язык ботом
func (l Language) Valid() bool {
	return l == LangRU || l == LangUZ || l == LangEN
}

// DialogueStates этапы диалога
const (
	StateAwaitingLanguage = iota
	StateReady
	StateAwaitingConfirm
	StateAwaitingDetails
)

// Session представляет сессию диалога с одним чатом
type Session struct {
	ChatID        int64             `bson:"chat_id" json:"chat_id"`
	Language      Language          `bson:"language" json:"language"`
	State         int               `bson:"state" json:"state"`
	PriceQuoted   bool              `bson:"price_quoted" json:"price_quoted"`
	PendingFields map[string]string `bson:"pending_fields" json:"pending_fields"`
	UpdatedAt     time.Time         `bson:"updated_at" json:"updated_at"`
}

// NewSession создает сессию с начальными значениями для чата
func NewSession(chatID int64) *Session {
	return &Session{
		ChatID:        chatID,
		Language:      DefaultLanguage,
		State:         StateAwaitingLanguage,
		PendingFields: make(map[string]string),
		UpdatedAt:     time.Now(),
	}
}

// Appointment представляет заявку на прием, отправленную в CRM
type Appointment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ChatID        int64              `bson:"chat_id" json:"chat_id"`
	FullName      string             `bson:"full_name" json:"full_name"`
	DateOfBirth   time.Time          `bson:"date_of_birth" json:"date_of_birth"`
	PreferredTime time.Time          `bson:"preferred_time" json:"preferred_time"`
	Platform      string             `bson:"platform" json:"platform"`
	Status        string             `bson:"status" json:"status"` // "submitted", "failed"
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// LanguageNames подписи кнопок выбора языка
var LanguageNames = map[Language]string{
	LangRU: "Русский",
	LangUZ: "Oʻzbekcha",
	LangEN: "English",
}
