package dialogue

import (
	"github.com/QuickWebMaster/mediva-bot/internal/catalog"
	"github.com/QuickWebMaster/mediva-bot/internal/i18n"
	"github.com/QuickWebMaster/mediva-bot/internal/models"
)

// QueryKind класс свободного текста в состоянии StateReady
type QueryKind int

const (
	// QueryGeneral вопрос без совпадения в прайс-листе, уходит в генеративный ответ
	QueryGeneral QueryKind = iota
	// QueryPrice запрос цены, найдены позиции прайс-листа
	QueryPrice
	// QueryBooking явное намерение записаться на прием
	QueryBooking
)

// classify определяет класс запроса до диспетчеризации. Согласие сразу
// после показанных цен трактуется как намерение записаться.
func (m *Manager) classify(sess *models.Session, text string) (QueryKind, []catalog.Entry) {
	if sess.PriceQuoted && i18n.Affirmative(sess.Language, text) {
		return QueryBooking, nil
	}
	if entries := m.catalog.Match(text); len(entries) > 0 {
		return QueryPrice, entries
	}
	return QueryGeneral, nil
}
