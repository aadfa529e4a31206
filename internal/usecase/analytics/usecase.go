package analytics

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domain "disclosure-intake/internal/domain/analytics"
	"disclosure-intake/internal/domain/submission"
	"disclosure-intake/internal/platform/metrics"
)

const maxEventTypeLen = 64

type Usecase struct {
	repo    domain.Repository
	pub     domain.Publisher
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// NewUsecase: pub and m may be nil.
func NewUsecase(repo domain.Repository, pub domain.Publisher, m *metrics.Metrics, log *slog.Logger) *Usecase {
	if log == nil {
		log = slog.Default()
	}
	return &Usecase{repo: repo, pub: pub, metrics: m, log: log, now: time.Now}
}

// Record stores a client-reported event. Storage errors are returned; publishing is best effort.
func (u *Usecase) Record(ctx context.Context, in RecordInput, meta submission.ClientMeta) (*EventDTO, error) {
	eventType := strings.TrimSpace(in.EventType)
	sessionID := strings.TrimSpace(in.SessionID)
	if eventType == "" || len(eventType) > maxEventTypeLen || sessionID == "" {
		return nil, domain.ErrInvalidEvent
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = u.now()
	}
	e := &domain.Event{
		EventType:        eventType,
		SessionID:        sessionID,
		Timestamp:        ts.UTC(),
		UserAgent:        meta.UserAgent,
		Device:           ClassifyDevice(meta.UserAgent),
		ScreenResolution: in.ScreenResolution,
		Step:             in.Step,
		DurationMS:       in.DurationMS,
		Referrer:         in.Referrer,
		IPAddress:        meta.IPAddress,
		Data:             SanitizeData(in.Data),
	}
	if err := u.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	u.metrics.IncrementAnalyticsEvents("client")
	u.publish(ctx, e)

	return &EventDTO{EventType: e.EventType, SessionID: e.SessionID, Timestamp: e.Timestamp, Device: e.Device}, nil
}

// Emit stores a server-side event. Failures are logged and swallowed so that
// analytics never breaks the operation being tracked.
func (u *Usecase) Emit(ctx context.Context, eventType, sessionID string, meta submission.ClientMeta, data map[string]any) {
	e := &domain.Event{
		EventType: eventType,
		SessionID: sessionID,
		Timestamp: u.now().UTC(),
		UserAgent: meta.UserAgent,
		Device:    ClassifyDevice(meta.UserAgent),
		IPAddress: meta.IPAddress,
		Data:      SanitizeData(data),
	}
	if err := u.repo.Create(ctx, e); err != nil {
		u.log.WarnContext(ctx, "analytics event not stored", "event_type", eventType, "err", err)
		return
	}
	u.metrics.IncrementAnalyticsEvents("server")
	u.publish(ctx, e)
}

func (u *Usecase) publish(ctx context.Context, e *domain.Event) {
	if u.pub == nil {
		return
	}
	if err := u.pub.Publish(ctx, e); err != nil {
		u.log.WarnContext(ctx, "analytics event not published", "event_type", e.EventType, "err", err)
	}
}
