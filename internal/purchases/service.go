package purchases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pharmops-backend/pkg/db"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pharmops-backend/pkg/errors"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/metrics"
	"github.com/angelmondragon/pharmops-backend/pkg/pagination"
)

const idPrefix = "purchase"

// Rejection reasons carried in the error details of a rejected action.
const (
	ReasonNotFound     = "not_found"
	ReasonInvalidEvent = "invalid_event"
	ReasonUnknownEvent = "unknown_event"
	ReasonStale        = "stale_status"
)

// Rejection describes why an event was not applied.
type Rejection struct {
	Reason string               `json:"reason"`
	Status enums.PurchaseStatus `json:"status,omitempty"`
}

// Notifier publishes purchase state to the chat. Implementations run in the
// background and never fail the caller.
type Notifier interface {
	Announce(ctx context.Context, p Purchase)
	Refresh(ctx context.Context, p Purchase)
}

// CallbackAnswerer acknowledges a button press.
type CallbackAnswerer interface {
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Callback is an inline button press.
type Callback struct {
	ID   string
	Data string
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*Purchase, error)
	ApplyEvent(ctx context.Context, purchaseID string, event enums.PurchaseEvent) (*Purchase, error)
	HandleCallback(ctx context.Context, cb Callback) (*Purchase, error)
	List(ctx context.Context, params ListParams) (*ListResult, error)
	Get(ctx context.Context, purchaseID string) (*Purchase, error)
}

type ServiceParams struct {
	Repo     Repository
	Locker   Locker
	Notifier Notifier
	Answerer CallbackAnswerer
	Metrics  *metrics.PurchaseMetrics
	Logger   *logger.Logger
	Locale   enums.Locale
	Clock    func() time.Time
	NewID    func(time.Time) string
}

type service struct {
	repo     Repository
	locker   Locker
	notifier Notifier
	answerer CallbackAnswerer
	metrics  *metrics.PurchaseMetrics
	logg     *logger.Logger
	locale   enums.Locale
	now      func() time.Time
	newID    func(time.Time) string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, errors.New("purchases repository required")
	}
	s := &service{
		repo:     params.Repo,
		locker:   params.Locker,
		notifier: params.Notifier,
		answerer: params.Answerer,
		metrics:  params.Metrics,
		logg:     params.Logger,
		locale:   params.Locale,
		now:      params.Clock,
		newID:    params.NewID,
	}
	if s.locker == nil {
		s.locker = NewKeyedMutex()
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if !s.locale.IsValid() {
		s.locale = enums.LocaleRU
	}
	if s.now == nil {
		s.now = func() time.Time { return time.Now().UTC() }
	}
	if s.newID == nil {
		s.newID = NewID
	}
	return s, nil
}

// NewID builds "purchase_<unixmilli>_<8 hex>".
func NewID(at time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s_%d_%s", idPrefix, at.UnixMilli(), suffix)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*Purchase, error) {
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	now := s.now()
	total := decimal.Zero
	items := make([]Item, len(input.Items))
	for i, item := range input.Items {
		item.Name = strings.TrimSpace(item.Name)
		items[i] = item
		total = total.Add(item.Total)
	}

	p := &Purchase{
		ID:        s.newID(now),
		CreatedAt: now,
		UpdatedAt: now,
		TotalCost: total,
		IsUrgent:  input.IsUrgent,
		Items:     items,
		Status:    enums.PurchaseStatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "purchase already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to create purchase")
	}

	ctx = s.logg.WithPurchaseID(ctx, p.ID)
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"is_urgent":  p.IsUrgent,
		"item_count": len(p.Items),
		"total_cost": p.TotalCost.StringFixed(2),
	}), "purchase created")
	s.metrics.IncCreated(p.IsUrgent)

	if s.notifier != nil {
		s.notifier.Announce(ctx, *p)
	}
	return p, nil
}

func (s *service) ApplyEvent(ctx context.Context, purchaseID string, event enums.PurchaseEvent) (*Purchase, error) {
	purchaseID = strings.TrimSpace(purchaseID)
	if purchaseID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase id is required")
	}
	if !event.IsValid() {
		s.metrics.IncTransition(string(event), metrics.ResultRejected)
		return nil, rejected(Rejection{Reason: ReasonUnknownEvent})
	}
	ctx = s.logg.WithFields(s.logg.WithPurchaseID(ctx, purchaseID), map[string]any{"event": string(event)})

	unlock, err := s.locker.Lock(ctx, purchaseID)
	if err != nil {
		s.metrics.IncTransition(string(event), metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "purchase is being updated")
	}
	updated, err := s.transition(ctx, purchaseID, event)
	unlock()
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "status", string(updated.Status)), "purchase status changed")
	if s.notifier != nil {
		s.notifier.Refresh(ctx, *updated)
	}
	return updated, nil
}

// transition runs under the purchase lock.
func (s *service) transition(ctx context.Context, purchaseID string, event enums.PurchaseEvent) (*Purchase, error) {
	current, err := s.repo.Get(ctx, purchaseID)
	if err != nil {
		if db.IsNotFound(err) {
			s.metrics.IncTransition(string(event), metrics.ResultRejected)
			return nil, rejected(Rejection{Reason: ReasonNotFound})
		}
		s.metrics.IncTransition(string(event), metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load purchase")
	}

	to, ok := Next(current.Status, event)
	if !ok {
		s.metrics.IncTransition(string(event), metrics.ResultRejected)
		return nil, rejected(Rejection{Reason: ReasonInvalidEvent, Status: current.Status})
	}

	at := s.now()
	applied, err := s.repo.UpdateStatus(ctx, purchaseID, current.Status, to, at)
	if err != nil {
		s.metrics.IncTransition(string(event), metrics.ResultError)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to update purchase status")
	}
	if !applied {
		s.metrics.IncTransition(string(event), metrics.ResultRejected)
		return nil, rejected(Rejection{Reason: ReasonStale, Status: current.Status})
	}

	s.metrics.IncTransition(string(event), metrics.ResultApplied)
	current.Status = to
	current.UpdatedAt = at
	return current, nil
}

func (s *service) HandleCallback(ctx context.Context, cb Callback) (*Purchase, error) {
	event, purchaseID, known, err := DecodeCallbackData(cb.Data)
	if err != nil {
		s.answer(ctx, cb.ID, answerUnknownAction)
		return nil, pkgerrors.Wrap(pkgerrors.CodeActionRejected, err, "purchase action rejected").
			WithDetails(Rejection{Reason: ReasonUnknownEvent})
	}
	if !known {
		s.answer(ctx, cb.ID, answerUnknownAction)
		return nil, rejected(Rejection{Reason: ReasonUnknownEvent})
	}

	p, err := s.ApplyEvent(ctx, purchaseID, event)
	if err != nil {
		s.answer(ctx, cb.ID, answerFor(err))
		return nil, err
	}
	s.answer(ctx, cb.ID, answerUpdated)
	return p, nil
}

func (s *service) answer(ctx context.Context, callbackID string, key answerKey) {
	if s.answerer == nil || callbackID == "" {
		return
	}
	if err := s.answerer.AnswerCallback(ctx, callbackID, key.text(s.locale)); err != nil {
		s.logg.Error(s.logg.WithField(ctx, "callback_id", callbackID), "failed to answer callback", err)
	}
}

func (s *service) List(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != nil && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, ListQuery{
		Limit:  pagination.LimitWithBuffer(limit),
		After:  cursor,
		Status: params.Status,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to list purchases")
	}

	result := &ListResult{Items: rows}
	if len(rows) > limit {
		result.Items = rows[:limit]
		last := result.Items[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (s *service) Get(ctx context.Context, purchaseID string) (*Purchase, error) {
	p, err := s.repo.Get(ctx, strings.TrimSpace(purchaseID))
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load purchase")
	}
	return p, nil
}

func validateItems(items []Item) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "items must not be empty").
			WithDetails(map[string]string{"items": "at least one item is required"})
	}
	problems := map[string]string{}
	for i, item := range items {
		prefix := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(item.Name) == "" {
			problems[prefix+".name"] = "name is required"
		}
		if item.Quantity <= 0 {
			problems[prefix+".quantity"] = "quantity must be greater than 0"
		}
		if !item.Price.IsPositive() {
			problems[prefix+".price"] = "price must be greater than 0"
		}
		if item.Total.IsNegative() {
			problems[prefix+".total"] = "total must not be negative"
		}
	}
	if len(problems) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase items").WithDetails(problems)
	}
	return nil
}

func rejected(r Rejection) *pkgerrors.Error {
	return pkgerrors.New(pkgerrors.CodeActionRejected, "purchase action rejected").WithDetails(r)
}

// RejectionOf returns the rejection carried by err, if any.
func RejectionOf(err error) (Rejection, bool) {
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeActionRejected {
		return Rejection{}, false
	}
	r, ok := typed.Details().(Rejection)
	return r, ok
}

type answerKey int

const (
	answerUpdated answerKey = iota
	answerNotFound
	answerUnknownAction
)

var answerTexts = map[enums.Locale]map[answerKey]string{
	enums.LocaleRU: {
		answerUpdated:       "Статус обновлён",
		answerNotFound:      "Закупка не найдена",
		answerUnknownAction: "Неизвестное действие",
	},
	enums.LocaleEN: {
		answerUpdated:       "Status updated",
		answerNotFound:      "No purchase found",
		answerUnknownAction: "Unknown action",
	},
}

func (k answerKey) text(locale enums.Locale) string {
	texts, ok := answerTexts[locale]
	if !ok {
		texts = answerTexts[enums.LocaleRU]
	}
	return texts[k]
}

func answerFor(err error) answerKey {
	r, ok := RejectionOf(err)
	if ok && r.Reason == ReasonNotFound {
		return answerNotFound
	}
	return answerUnknownAction
}
