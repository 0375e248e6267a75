package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

const (
	DefaultBuffer  = 256
	DefaultTimeout = 5 * time.Second
)

// Resultados reportados al Recorder.
const (
	ResultDelivered = "delivered"
	ResultFailed    = "failed"
	ResultDropped   = "dropped"
)

var _ ports.Notifier = (*Dispatcher)(nil)

// Recorder recibe el resultado de cada entrega (métricas).
type Recorder interface {
	Notification(result string)
}

// Dispatcher entrega notificaciones en segundo plano: Notify encola sin bloquear y un
// worker las persiste con un timeout propio, desligado de la petición que las originó.
// Si la cola está llena la notificación se descarta y se registra en el log.
type Dispatcher struct {
	repo     repository.NotificationRepository
	log      zerolog.Logger
	recorder Recorder
	timeout  time.Duration

	queue  chan entity.Notification
	mu     sync.RWMutex
	closed bool
	once   sync.Once
	wg     sync.WaitGroup
}

// NewDispatcher construye el dispatcher. buffer y timeout <= 0 usan los valores por defecto.
func NewDispatcher(repo repository.NotificationRepository, log zerolog.Logger, recorder Recorder, buffer int, timeout time.Duration) *Dispatcher {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		repo:     repo,
		log:      log,
		recorder: recorder,
		timeout:  timeout,
		queue:    make(chan entity.Notification, buffer),
	}
}

// Start lanza el worker. Llamadas repetidas no tienen efecto.
func (d *Dispatcher) Start() {
	d.once.Do(func() {
		d.wg.Add(1)
		go d.run()
	})
}

// Stop cierra la cola y espera a que se vacíe o a que ctx venza.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
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
		return fmt.Errorf("notify stop: %w", ctx.Err())
	}
}

// Notify encola la notificación. Nunca bloquea ni devuelve error.
func (d *Dispatcher) Notify(_ context.Context, n entity.Notification) {
	if n.TargetUserID == "" {
		return
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(n, "dispatcher detenido")
		return
	}
	select {
	case d.queue <- n:
	default:
		d.drop(n, "cola llena")
	}
}

func (d *Dispatcher) drop(n entity.Notification, reason string) {
	d.record(ResultDropped)
	d.log.Warn().
		Str("notification_type", n.Type).
		Str("target_user_id", n.TargetUserID).
		Str("reason", reason).
		Msg("notificación descartada")
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for n := range d.queue {
		d.deliver(n)
	}
}

func (d *Dispatcher) deliver(n entity.Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := d.repo.Create(ctx, &n); err != nil {
		d.record(ResultFailed)
		d.log.Error().Err(err).
			Str("notification_id", n.ID).
			Str("target_user_id", n.TargetUserID).
			Msg("no se pudo entregar la notificación")
		return
	}
	d.record(ResultDelivered)
}

func (d *Dispatcher) record(result string) {
	if d.recorder != nil {
		d.recorder.Notification(result)
	}
}
