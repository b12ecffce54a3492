package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/QuickWebMaster/mediva-bot/internal/crm"
	"github.com/QuickWebMaster/mediva-bot/internal/i18n"
	"github.com/QuickWebMaster/mediva-bot/internal/models"
	"github.com/QuickWebMaster/mediva-bot/internal/reminder"
)

func TestParseDetails(t *testing.T) {
	req, err := ParseDetails("Ivanov Ivan, 1990-05-02, 2024-06-01 10:00")
	require.NoError(t, err)
	require.Equal(t, "Ivanov Ivan", req.FullName)
	require.Equal(t, time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC), req.DateOfBirth)
	require.Equal(t, time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local), req.PreferredTime)
}

func TestParseDetailsWrongFieldCount(t *testing.T) {
	_, err := ParseDetails("Ivanov Ivan, 1990-05-02")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = ParseDetails("a, b, c, d")
	require.ErrorAs(t, err, &vErr)
}

func TestParseDetailsEmptyField(t *testing.T) {
	_, err := ParseDetails("Ivanov Ivan, , 2024-06-01 10:00")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestParseDetailsBadDates(t *testing.T) {
	var vErr *ValidationError

	_, err := ParseDetails("Ivanov Ivan, 02.05.1990, 2024-06-01 10:00")
	require.ErrorAs(t, err, &vErr)

	_, err = ParseDetails("Ivanov Ivan, 1990-05-02, завтра утром")
	require.ErrorAs(t, err, &vErr)
}

type stubSubmitter struct {
	ok     bool
	err    error
	record crm.Record
	calls  int
}

func (s *stubSubmitter) Submit(ctx context.Context, record crm.Record) (bool, error) {
	s.calls++
	s.record = record
	return s.ok, s.err
}

type stubScheduler struct {
	jobs []reminder.Job
}

func (s *stubScheduler) Schedule(job reminder.Job) string {
	s.jobs = append(s.jobs, job)
	return "job-1"
}

type stubRecordStore struct {
	saved []*models.Appointment
}

func (s *stubRecordStore) SaveAppointment(ctx context.Context, appointment *models.Appointment) error {
	s.saved = append(s.saved, appointment)
	return nil
}

func testRequest() Request {
	return Request{
		FullName:      "Ivanov Ivan",
		DateOfBirth:   time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC),
		PreferredTime: time.Date(2024, 6, 1, 10, 0, 0, 0, time.Local),
	}
}

func TestBookSuccess(t *testing.T) {
	submitter := &stubSubmitter{ok: true}
	scheduler := &stubScheduler{}
	store := &stubRecordStore{}
	p := NewPipeline(submitter, scheduler, store, "+998 71 200-00-00", zap.NewNop().Sugar())

	reply, ok := p.Book(context.Background(), testRequest(), 42, models.LangRU)
	require.True(t, ok)
	require.Contains(t, reply, "01.06.2024 10:00")
	require.Contains(t, reply, "+998 71 200-00-00")

	require.Equal(t, 1, submitter.calls)
	require.Equal(t, crm.Record{
		FullName:      "Ivanov Ivan",
		DateOfBirth:   "1990-05-02",
		PreferredTime: "2024-06-01 10:00",
		Platform:      "telegram",
	}, submitter.record)

	// Напоминание за час до визита
	require.Len(t, scheduler.jobs, 1)
	require.Equal(t, int64(42), scheduler.jobs[0].ChatID)
	require.Equal(t, time.Date(2024, 6, 1, 9, 0, 0, 0, time.Local), scheduler.jobs[0].FireAt)
	require.NotEmpty(t, scheduler.jobs[0].Message)

	require.Len(t, store.saved, 1)
	require.Equal(t, "submitted", store.saved[0].Status)
}

func TestBookCRMRejection(t *testing.T) {
	submitter := &stubSubmitter{ok: false}
	scheduler := &stubScheduler{}
	store := &stubRecordStore{}
	p := NewPipeline(submitter, scheduler, store, "+998 71 200-00-00", zap.NewNop().Sugar())

	reply, ok := p.Book(context.Background(), testRequest(), 42, models.LangRU)
	require.False(t, ok)
	require.Equal(t, i18n.T(models.LangRU, i18n.KeyBookingFailed), reply)
	require.Empty(t, scheduler.jobs)

	require.Len(t, store.saved, 1)
	require.Equal(t, "failed", store.saved[0].Status)
}

func TestBookCRMError(t *testing.T) {
	submitter := &stubSubmitter{err: errors.New("connection refused")}
	scheduler := &stubScheduler{}
	p := NewPipeline(submitter, scheduler, nil, "+998 71 200-00-00", zap.NewNop().Sugar())

	reply, ok := p.Book(context.Background(), testRequest(), 42, models.LangEN)
	require.False(t, ok)
	require.Equal(t, i18n.T(models.LangEN, i18n.KeyBookingFailed), reply)
	require.Empty(t, scheduler.jobs)
	// Одна заявка — одна попытка, без повторов
	require.Equal(t, 1, submitter.calls)
}

func TestBookWithoutRecordStore(t *testing.T) {
	submitter := &stubSubmitter{ok: true}
	scheduler := &stubScheduler{}
	p := NewPipeline(submitter, scheduler, nil, "+998 71 200-00-00", zap.NewNop().Sugar())

	_, ok := p.Book(context.Background(), testRequest(), 42, models.LangRU)
	require.True(t, ok)
	require.Len(t, scheduler.jobs, 1)
}
