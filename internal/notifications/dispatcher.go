package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/angelmondragon/pharmops-backend/internal/purchases"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/metrics"
	"github.com/angelmondragon/pharmops-backend/pkg/telegram"
)

const (
	defaultTimeout = 10 * time.Second

	kindAnnounce = "announce"
	kindRefresh  = "refresh"
)

// Messenger delivers chat messages. *telegram.Client implements it.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, buttons []telegram.Button) (int, error)
	Edit(ctx context.Context, chatID int64, messageID int, text string, buttons []telegram.Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Store is the slice of the purchases repository the dispatcher needs.
type Store interface {
	Get(ctx context.Context, id string) (*purchases.Purchase, error)
	SetNotificationRef(ctx context.Context, id string, ref purchases.MessageRef) error
}

type DispatcherParams struct {
	Messenger Messenger
	Store     Store
	ChatID    int64
	Locale    enums.Locale
	Location  *time.Location
	Timeout   time.Duration
	Logger    *logger.Logger
	Metrics   *metrics.NotificationMetrics
}

// Dispatcher keeps one chat message per purchase in sync with its status.
// Deliveries run in the background and never fail the caller.
type Dispatcher struct {
	messenger Messenger
	store     Store
	chatID    int64
	locale    enums.Locale
	loc       *time.Location
	timeout   time.Duration
	logg      *logger.Logger
	metrics   *metrics.NotificationMetrics

	locks *purchases.KeyedMutex
	wg    sync.WaitGroup
}

func NewDispatcher(params DispatcherParams) (*Dispatcher, error) {
	if params.Messenger == nil {
		return nil, errors.New("messenger required")
	}
	if params.Store == nil {
		return nil, errors.New("purchase store required")
	}
	d := &Dispatcher{
		messenger: params.Messenger,
		store:     params.Store,
		chatID:    params.ChatID,
		locale:    params.Locale,
		loc:       params.Location,
		timeout:   params.Timeout,
		logg:      params.Logger,
		metrics:   params.Metrics,
		locks:     purchases.NewKeyedMutex(),
	}
	if d.timeout <= 0 {
		d.timeout = defaultTimeout
	}
	if d.logg == nil {
		d.logg = logger.Nop()
	}
	if d.loc == nil {
		d.loc = time.UTC
	}
	if !d.locale.IsValid() {
		d.locale = enums.LocaleRU
	}
	return d, nil
}

// Announce posts the message for a newly created purchase.
func (d *Dispatcher) Announce(ctx context.Context, p purchases.Purchase) {
	d.dispatch(ctx, kindAnnounce, p)
}

// Refresh edits the purchase message after a status change. A purchase whose
// announcement never landed gets a fresh message instead.
func (d *Dispatcher) Refresh(ctx context.Context, p purchases.Purchase) {
	d.dispatch(ctx, kindRefresh, p)
}

// Wait blocks until in-flight deliveries finish or ctx ends.
func (d *Dispatcher) Wait(ctx context.Context) error {
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

func (d *Dispatcher) dispatch(ctx context.Context, kind string, p purchases.Purchase) {
	if d.chatID == 0 {
		return
	}
	ctx = d.logg.WithFields(d.logg.WithPurchaseID(context.WithoutCancel(ctx), p.ID), map[string]any{
		"notification": kind,
	})

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		ctx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()

		start := time.Now()
		err := d.sync(ctx, p)
		d.metrics.Observe(kind, time.Since(start), err)
		if err != nil {
			d.logg.Error(ctx, "purchase notification failed", err)
			return
		}
		d.logg.Debug(ctx, "purchase notification delivered")
	}()
}

// sync renders the latest stored state so that out-of-order deliveries for
// the same purchase converge on the current status.
func (d *Dispatcher) sync(ctx context.Context, fallback purchases.Purchase) error {
	unlock, err := d.locks.Lock(ctx, fallback.ID)
	if err != nil {
		return err
	}
	defer unlock()

	p := &fallback
	if latest, err := d.store.Get(ctx, fallback.ID); err == nil {
		p = latest
	} else {
		d.logg.Warn(d.logg.WithField(ctx, "error", err.Error()), "rendering purchase from caller snapshot")
	}

	msg := Render(*p, d.locale, d.loc)
	buttons := toButtons(msg.Button)

	if ref := p.Notification; ref != nil {
		return d.messenger.Edit(ctx, ref.ChatID, ref.MessageID, msg.Text, buttons)
	}

	messageID, err := d.messenger.Send(ctx, d.chatID, msg.Text, buttons)
	if err != nil {
		return err
	}
	if messageID == 0 {
		return nil
	}
	return d.store.SetNotificationRef(ctx, p.ID, purchases.MessageRef{ChatID: d.chatID, MessageID: messageID})
}

func toButtons(b *Button) []telegram.Button {
	if b == nil {
		return nil
	}
	return []telegram.Button{{Text: b.Label, Data: b.CallbackData()}}
}
