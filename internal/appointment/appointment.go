// Package appointment конвейер записи на прием: проверка собранных
// полей, отправка заявки в CRM и планирование напоминания.
package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/QuickWebMaster/mediva-bot/internal/crm"
	"github.com/QuickWebMaster/mediva-bot/internal/i18n"
	"github.com/QuickWebMaster/mediva-bot/internal/models"
	"github.com/QuickWebMaster/mediva-bot/internal/reminder"
)

const (
	// Platform метка источника заявки в CRM
	Platform = "telegram"

	dobLayout  = "2006-01-02"
	timeLayout = "2006-01-02 15:04"

	// Напоминание отправляется за час до визита
	reminderLead = time.Hour
)

// Request проверенные поля заявки
type Request struct {
	FullName      string
	DateOfBirth   time.Time
	PreferredTime time.Time
}

// ValidationError некорректный ввод пользователя. Никогда не показывается
// как есть: диалог переспрашивает формат.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "appointment: " + e.Reason
}

// ParseDetails разбирает сообщение с данными записи. Требуется ровно три
// непустых поля через запятую: ФИО, дата рождения, желаемое время.
func ParseDetails(text string) (Request, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 3 {
		return Request{}, &ValidationError{Reason: fmt.Sprintf("ожидалось 3 поля, получено %d", len(parts))}
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
		if parts[i] == "" {
			return Request{}, &ValidationError{Reason: "пустое поле в данных записи"}
		}
	}

	dob, err := time.Parse(dobLayout, parts[1])
	if err != nil {
		return Request{}, &ValidationError{Reason: "дата рождения не разобрана: " + parts[1]}
	}

	preferred, err := time.ParseInLocation(timeLayout, parts[2], time.Local)
	if err != nil {
		return Request{}, &ValidationError{Reason: "время визита не разобрано: " + parts[2]}
	}

	return Request{
		FullName:      parts[0],
		DateOfBirth:   dob,
		PreferredTime: preferred,
	}, nil
}

// Submitter отправка заявки в CRM
type Submitter interface {
	Submit(ctx context.Context, record crm.Record) (bool, error)
}

// Scheduler планирование напоминания
type Scheduler interface {
	Schedule(job reminder.Job) string
}

// RecordStore сохранение заявки в базе. Может отсутствовать,
// если бот работает без MongoDB.
type RecordStore interface {
	SaveAppointment(ctx context.Context, appointment *models.Appointment) error
}

// Pipeline принимает проверенную заявку, отправляет ее в CRM и при успехе
// планирует напоминание. Одна заявка — одна попытка отправки, без повторов.
type Pipeline struct {
	submitter   Submitter
	scheduler   Scheduler
	store       RecordStore
	clinicPhone string
	log         *zap.SugaredLogger
}

func NewPipeline(submitter Submitter, scheduler Scheduler, store RecordStore, clinicPhone string, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		submitter:   submitter,
		scheduler:   scheduler,
		store:       store,
		clinicPhone: clinicPhone,
		log:         log,
	}
}

// Book отправляет заявку и возвращает текст ответа пользователю.
// ok=false означает, что CRM недоступна или отклонила заявку;
// напоминание в этом случае не планируется.
func (p *Pipeline) Book(ctx context.Context, req Request, chatID int64, lang models.Language) (string, bool) {
	record := crm.Record{
		FullName:      req.FullName,
		DateOfBirth:   req.DateOfBirth.Format(dobLayout),
		PreferredTime: req.PreferredTime.Format(timeLayout),
		Platform:      Platform,
	}

	ok, err := p.submitter.Submit(ctx, record)
	if err != nil {
		p.log.Errorw("ошибка отправки заявки в CRM", "chat_id", chatID, "error", err)
		ok = false
	}

	status := "submitted"
	if !ok {
		status = "failed"
	}
	p.persist(ctx, req, chatID, status)

	if !ok {
		return i18n.T(lang, i18n.KeyBookingFailed), false
	}

	p.scheduler.Schedule(reminder.Job{
		ChatID:  chatID,
		FireAt:  req.PreferredTime.Add(-reminderLead),
		Message: i18n.ReminderText(lang, req.PreferredTime),
	})

	return i18n.BookingConfirmed(lang, req.PreferredTime, p.clinicPhone), true
}

func (p *Pipeline) persist(ctx context.Context, req Request, chatID int64, status string) {
	if p.store == nil {
		return
	}
	appointment := &models.Appointment{
		ChatID:        chatID,
		FullName:      req.FullName,
		DateOfBirth:   req.DateOfBirth,
		PreferredTime: req.PreferredTime,
		Platform:      Platform,
		Status:        status,
	}
	if err := p.store.SaveAppointment(ctx, appointment); err != nil {
		p.log.Errorw("не удалось сохранить заявку", "chat_id", chatID, "error", err)
	}
}
