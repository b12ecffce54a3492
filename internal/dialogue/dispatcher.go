package dialogue

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Replier доставляет готовый ответ в чат. Реализуется транспортом.
type Replier interface {
	SendReply(chatID int64, reply Reply)
}

// Dispatcher сериализует обработку сообщений внутри одного чата:
// на чат заводится одна очередь и один воркер, сообщения обрабатываются
// в порядке поступления. Разные чаты обрабатываются параллельно.
type Dispatcher struct {
	manager *Manager
	replier Replier
	log     *zap.SugaredLogger

	mu      sync.Mutex
	queues  map[int64]chan Inbound
	stopped bool
	wg      sync.WaitGroup
}

const queueSize = 32

func NewDispatcher(manager *Manager, replier Replier, log *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		manager: manager,
		replier: replier,
		log:     log,
		queues:  make(map[int64]chan Inbound),
	}
}

// Enqueue ставит событие в очередь его чата, при необходимости запуская
// воркер. Вызывается из одного цикла чтения обновлений, поэтому порядок
// внутри чата совпадает с порядком поступления. Постановка никогда не
// блокируется: при переполненной очереди сообщение отбрасывается, иначе
// один заваленный чат остановил бы чтение обновлений для всех остальных.
func (d *Dispatcher) Enqueue(in Inbound) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	ch, ok := d.queues[in.ChatID]
	if !ok {
		ch = make(chan Inbound, queueSize)
		d.queues[in.ChatID] = ch
		d.wg.Add(1)
		go d.worker(ch)
	}

	// Отправка под мьютексом: Stop закрывает очереди под тем же мьютексом,
	// поэтому отправка в закрытый канал невозможна.
	select {
	case ch <- in:
	default:
		d.log.Warnw("очередь чата переполнена, сообщение отброшено", "chat_id", in.ChatID)
	}
}

func (d *Dispatcher) worker(ch chan Inbound) {
	defer d.wg.Done()
	for in := range ch {
		d.handleOne(in)
	}
}

func (d *Dispatcher) handleOne(in Inbound) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Errorw("паника в обработке сообщения", "chat_id", in.ChatID, "panic", r)
		}
	}()

	replies := d.manager.Handle(context.Background(), in)
	for _, reply := range replies {
		d.replier.SendReply(in.ChatID, reply)
	}
}

// Stop закрывает очереди и дожидается завершения обработки.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.queues {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
