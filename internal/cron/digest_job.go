package cron

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/pharmops-backend/internal/replenishment"
	"github.com/angelmondragon/pharmops-backend/pkg/enums"
	"github.com/angelmondragon/pharmops-backend/pkg/logger"
	"github.com/angelmondragon/pharmops-backend/pkg/telegram"
)

const (
	digestJobName   = "replenishment-digest"
	digestDedupeTTL = 36 * time.Hour
	digestMaxLines  = 30
)

type recommendationSource interface {
	Recommendations(ctx context.Context) (*replenishment.RecommendationReport, error)
}

type digestSender interface {
	Send(ctx context.Context, chatID int64, text string, buttons []telegram.Button) (int, error)
}

// digestMarker records which chats already received today's digest.
type digestMarker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	DigestKey(chat, day string) string
}

type DigestJobParams struct {
	Logger    *logger.Logger
	Analytics recommendationSource
	Sender    digestSender
	Chats     []int64
	Marker    digestMarker
	Locale    enums.Locale
	Location  *time.Location
}

// NewDigestJob posts the critical replenishment recommendations to every
// configured chat once per local day.
func NewDigestJob(params DigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Analytics == nil {
		return nil, fmt.Errorf("analytics service required")
	}
	if params.Sender == nil {
		return nil, fmt.Errorf("sender required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	locale := params.Locale
	if !locale.IsValid() {
		locale = enums.LocaleRU
	}
	return &digestJob{
		logg:      params.Logger,
		analytics: params.Analytics,
		sender:    params.Sender,
		chats:     params.Chats,
		marker:    params.Marker,
		locale:    locale,
		loc:       loc,
		now:       time.Now,
	}, nil
}

type digestJob struct {
	logg      *logger.Logger
	analytics recommendationSource
	sender    digestSender
	chats     []int64
	marker    digestMarker
	locale    enums.Locale
	loc       *time.Location
	now       func() time.Time
}

func (j *digestJob) Name() string { return digestJobName }

func (j *digestJob) Run(ctx context.Context) error {
	if len(j.chats) == 0 {
		j.logg.Debug(ctx, "no digest chats configured")
		return nil
	}
	report, err := j.analytics.Recommendations(ctx)
	if err != nil {
		return fmt.Errorf("load recommendations: %w", err)
	}

	critical := make([]replenishment.Recommendation, 0, len(report.Items))
	for _, rec := range report.Items {
		if rec.Urgency == enums.UrgencyCritical {
			critical = append(critical, rec)
		}
	}
	if len(critical) == 0 {
		j.logg.Info(ctx, "no critical products; digest skipped")
		return nil
	}

	day := j.now().In(j.loc).Format(time.DateOnly)
	text := renderDigest(critical, j.locale, day)

	var errs error
	sent := 0
	for _, chatID := range j.chats {
		chatCtx := j.logg.WithField(ctx, "chat_id", chatID)
		delivered, err := j.deliver(chatCtx, chatID, day, text)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		if delivered {
			sent++
		}
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"critical_products": len(critical),
		"chats_sent":        sent,
		"chats_failed":      len(multierr.Errors(errs)),
	}), "replenishment digest finished")
	return errs
}

func (j *digestJob) deliver(ctx context.Context, chatID int64, day, text string) (bool, error) {
	var key string
	if j.marker != nil {
		key = j.marker.DigestKey(fmt.Sprint(chatID), day)
		first, err := j.marker.SetNX(ctx, key, j.now().UTC().Format(time.RFC3339), digestDedupeTTL)
		if err != nil {
			return false, fmt.Errorf("mark digest: %w", err)
		}
		if !first {
			j.logg.Debug(ctx, "digest already sent today")
			return false, nil
		}
	}

	if _, err := j.sender.Send(ctx, chatID, text, nil); err != nil {
		if key != "" {
			if delErr := j.marker.Del(context.WithoutCancel(ctx), key); delErr != nil {
				err = multierr.Append(err, fmt.Errorf("unmark digest: %w", delErr))
			}
		}
		return false, err
	}
	return true, nil
}

var digestHeaders = map[enums.Locale]string{
	enums.LocaleRU: "🚨 <b>Критические остатки на %s</b>",
	enums.LocaleEN: "🚨 <b>Critical stock for %s</b>",
}

var digestFooters = map[enums.Locale]string{
	enums.LocaleRU: "…и ещё %d",
	enums.LocaleEN: "…and %d more",
}

var digestUnits = map[enums.Locale]string{
	enums.LocaleRU: "дн.",
	enums.LocaleEN: "d",
}

func renderDigest(recs []replenishment.Recommendation, locale enums.Locale, day string) string {
	var b strings.Builder
	fmt.Fprintf(&b, digestHeaders[locale], day)
	b.WriteString("\n")
	for i, rec := range recs {
		if i == digestMaxLines {
			fmt.Fprintf(&b, "\n"+digestFooters[locale], len(recs)-digestMaxLines)
			break
		}
		fmt.Fprintf(&b, "\n• %s: %d %s, +%d",
			html.EscapeString(rec.ProductName),
			rec.DaysToZero,
			digestUnits[locale],
			rec.RecommendedQty,
		)
	}
	return b.String()
}
