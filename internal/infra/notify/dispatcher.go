package notify

import (
	"context"
	"sync"
	"time"
)

// Dispatcher доставляет уведомления в фоне
// Enqueue никогда не блокирует вызывающего: при переполненной очереди сообщение отбрасывается.
// Ошибки доставки только логируются и считаются в метриках
type Dispatcher struct {
	sender      Sender
	queue       chan Message
	sendTimeout time.Duration
	log         Logger
	recorder    Recorder

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher создает диспетчер и запускает workers обработчиков
// recorder может быть nil
func NewDispatcher(sender Sender, queueSize, workers int, sendTimeout time.Duration, log Logger, recorder Recorder) *Dispatcher {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}

	d := &Dispatcher{
		sender:      sender,
		queue:       make(chan Message, queueSize),
		sendTimeout: sendTimeout,
		log:         log,
		recorder:    recorder,
	}

	d.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go d.work()
	}

	return d
}

// Enqueue ставит уведомление в очередь, false если оно отброшено
func (d *Dispatcher) Enqueue(msg Message) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.log.Warn("Dispatcher.Enqueue: dispatcher closed, dropping %s notification for booking_id=%d",
			msg.Kind, msg.Event.BookingID)
		d.record(ResultDropped)
		return false
	}

	select {
	case d.queue <- msg:
		return true
	default:
		d.log.Warn("Dispatcher.Enqueue: queue full, dropping %s notification for booking_id=%d",
			msg.Kind, msg.Event.BookingID)
		d.record(ResultDropped)
		return false
	}
}

// Close прекращает прием и дожидается отправки уже поставленных уведомлений
// Возвращает ctx.Err(), если очередь не успела опустеть
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()

	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			d.log.Error("Dispatcher: %s sender panicked on %s notification for booking_id=%d: %v",
				d.sender.Name(), msg.Kind, msg.Event.BookingID, p)
			d.record(ResultFailed)
		}
	}()

	if err := d.sender.Send(ctx, msg); err != nil {
		d.log.Error("Dispatcher: failed to send %s notification for booking_id=%d via %s: %v",
			msg.Kind, msg.Event.BookingID, d.sender.Name(), err)
		d.record(ResultFailed)
		return
	}

	d.log.Info("Dispatcher: %s notification for booking_id=%d sent via %s",
		msg.Kind, msg.Event.BookingID, d.sender.Name())
	d.record(ResultSent)
}

func (d *Dispatcher) record(result string) {
	if d.recorder != nil {
		d.recorder.IncNotification(d.sender.Name(), result)
	}
}
