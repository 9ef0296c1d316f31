// Package command routes chat text to the scene commands and turns every
// outcome into reply segments.
package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/audit"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/metrics"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/render"
)

// Name identifies one of the scene commands.
type Name string

const (
	Search Name = "search"
	Cut    Name = "cut"
	Help   Name = "help"
	Me     Name = "me"
)

const keyword = "tracemoe"

// SceneService is the part of the scene service the dispatcher drives.
type SceneService interface {
	Search(ctx context.Context, msg domain.Message, cutBorders bool) ([]domain.Segment, error)
	Quota(ctx context.Context) ([]domain.Segment, error)
}

// AdminChecker decides who may run admin-only commands.
type AdminChecker interface {
	IsAdmin(senderID string) bool
}

type route struct {
	name   Name
	phrase string
}

type Dispatcher struct {
	service SceneService
	admins  AdminChecker
	prefix  string
	routes  []route
	auditor audit.Logger
	logger  *slog.Logger
}

// invocation carries the per-message state of one command run.
type invocation struct {
	name    Name
	msg     domain.Message
	traceID string
	start   time.Time
	logger  *slog.Logger
}

func NewDispatcher(service SceneService, admins AdminChecker, prefix string, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	base := prefix + keyword
	routes := []route{
		{name: Search, phrase: base},
		{name: Cut, phrase: base + " cut"},
		{name: Help, phrase: base + " help"},
		{name: Me, phrase: base + " me"},
	}
	// Longest phrase first, so "tracemoe cut" never also fires "tracemoe".
	sort.SliceStable(routes, func(i, j int) bool {
		return len(routes[i].phrase) > len(routes[j].phrase)
	})

	return &Dispatcher{
		service: service,
		admins:  admins,
		prefix:  prefix,
		routes:  routes,
		auditor: &audit.NoOpLogger{},
		logger:  logger,
	}
}

// WithAuditor records every search and quota invocation with a.
func (d *Dispatcher) WithAuditor(a audit.Logger) *Dispatcher {
	if a != nil {
		d.auditor = a
	}
	return d
}

// Route returns the single command text triggers. Whitespace runs are
// collapsed and a phrase matches only as a whole word sequence.
func (d *Dispatcher) Route(text string) (Name, bool) {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return "", false
	}

	for _, r := range d.routes {
		if normalized == r.phrase || strings.HasPrefix(normalized, r.phrase+" ") {
			return r.name, true
		}
	}
	return "", false
}

// Handle runs the command carried by msg. Unmatched messages yield nil.
// Every failure, including a panic, ends up as one text segment.
func (d *Dispatcher) Handle(ctx context.Context, msg domain.Message) (replies []domain.Segment) {
	name, ok := d.Route(messageText(msg))
	if !ok {
		return nil
	}

	traceID := uuid.NewString()
	logger := d.logger.With(
		slog.String("trace_id", traceID),
		slog.String("command", string(name)),
		slog.String("sender_id", msg.SenderID),
		slog.String("message_id", msg.ID),
	)
	inv := invocation{
		name:    name,
		msg:     msg,
		traceID: traceID,
		start:   time.Now(),
		logger:  logger,
	}

	defer func() {
		if r := recover(); r != nil {
			inv.logger.Error("command panicked", slog.Any("panic", r))
			metrics.IncCommand(string(name), metrics.OutcomeError)
			replies = []domain.Segment{domain.TextSegment(failureText(domain.ErrInternal.Message))}
		}
	}()

	switch name {
	case Search, Cut:
		return d.search(ctx, inv)
	case Help:
		metrics.IncCommand(string(name), metrics.OutcomeOK)
		return []domain.Segment{domain.TextSegment(render.Help(d.prefix))}
	case Me:
		return d.quota(ctx, inv)
	}
	return nil
}

func (d *Dispatcher) search(ctx context.Context, inv invocation) []domain.Segment {
	if _, err := inv.msg.FirstImage(); err != nil {
		metrics.IncCommand(string(inv.name), metrics.OutcomeDenied)
		return []domain.Segment{domain.TextSegment(render.UsageHint(d.prefix))}
	}

	replies := []domain.Segment{domain.TextSegment(render.SearchingText)}

	cut := inv.name == Cut
	segments, err := d.service.Search(ctx, inv.msg, cut)
	d.record(ctx, inv, audit.EventSceneSearched, err, map[string]string{"cut_borders": strconv.FormatBool(cut)})
	if err != nil {
		metrics.IncCommand(string(inv.name), metrics.OutcomeError)
		return append(replies, d.failure(inv.logger, "搜索失败", err))
	}

	metrics.IncCommand(string(inv.name), metrics.OutcomeOK)
	return append(replies, segments...)
}

func (d *Dispatcher) quota(ctx context.Context, inv invocation) []domain.Segment {
	if d.admins == nil || !d.admins.IsAdmin(inv.msg.SenderID) {
		inv.logger.Warn("admin command rejected")
		d.record(ctx, inv, audit.EventAdminDenied, domain.ErrForbiddenCommand, nil)
		metrics.IncCommand(string(Me), metrics.OutcomeDenied)
		return []domain.Segment{domain.TextSegment(failureText(domain.ErrForbiddenCommand.Message))}
	}

	segments, err := d.service.Quota(ctx)
	d.record(ctx, inv, audit.EventQuotaQueried, err, nil)
	if err != nil {
		metrics.IncCommand(string(Me), metrics.OutcomeError)
		return []domain.Segment{d.failure(inv.logger, "查询失败", err)}
	}

	metrics.IncCommand(string(Me), metrics.OutcomeOK)
	return segments
}

func (d *Dispatcher) record(ctx context.Context, inv invocation, eventType audit.EventType, err error, metadata map[string]string) {
	event := audit.Event{
		TraceID:    inv.traceID,
		EventType:  eventType,
		SenderID:   inv.msg.SenderID,
		MessageID:  inv.msg.ID,
		Command:    string(inv.name),
		Success:    err == nil,
		Metadata:   metadata,
		DurationMs: time.Since(inv.start).Milliseconds(),
	}
	if err != nil {
		event.ErrorCode = domain.CodeInternal
		var appErr *domain.AppError
		if errors.As(err, &appErr) {
			event.ErrorCode = appErr.Code
		}
	}

	if auditErr := d.auditor.Log(ctx, event); auditErr != nil {
		inv.logger.Warn("audit log failed", slog.Any("error", auditErr))
	}
}

// failure converts err into the user-facing segment. Classified errors show
// their own message, anything else is logged and replaced by a generic one.
func (d *Dispatcher) failure(logger *slog.Logger, action string, err error) domain.Segment {
	var appErr *domain.AppError
	if errors.As(err, &appErr) && appErr.Code != domain.CodeInternal {
		logger.Warn("command failed",
			slog.String("code", appErr.Code),
			slog.Any("error", err),
		)
		return domain.TextSegment(failureText(fmt.Sprintf("%s: %s", action, appErr.Message)))
	}

	logger.Error("unexpected command failure", slog.Any("error", err))
	return domain.TextSegment(failureText(domain.ErrInternal.Message))
}

func failureText(message string) string {
	return "❌ " + message
}

// messageText prefers the plain text of msg and falls back to its text
// components.
func messageText(msg domain.Message) string {
	if strings.TrimSpace(msg.Text) != "" {
		return msg.Text
	}

	var parts []string
	for _, c := range msg.Components {
		if c.Kind == domain.ComponentText {
			parts = append(parts, c.Text)
		}
	}
	return strings.Join(parts, " ")
}
