package notification

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/leave-management/internal"
	"github.com/frahmantamala/leave-management/internal/core/events"
)

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// EventHandler turns leave lifecycle events into notifications. Every
// failure is logged as a notification error and swallowed.
type EventHandler struct {
	renderer   *Renderer
	dispatcher Dispatcher
	logger     *slog.Logger
}

func NewEventHandler(renderer *Renderer, dispatcher Dispatcher, logger *slog.Logger) *EventHandler {
	return &EventHandler{
		renderer:   renderer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (h *EventHandler) Register(bus Subscriber) {
	bus.Subscribe(events.EventTypeLeaveSubmitted, h.HandleLeaveSubmitted)
	bus.Subscribe(events.EventTypeLeaveApproved, h.HandleLeaveDecided)
	bus.Subscribe(events.EventTypeLeaveRejected, h.HandleLeaveDecided)
}

func (h *EventHandler) HandleLeaveSubmitted(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveSubmittedEvent)
	if !ok {
		h.logger.Error("unexpected event payload", "event_type", event.EventType(), "event_id", event.EventID())
		return nil
	}

	if e.Manager == nil {
		h.logger.Info("no manager to notify",
			"application_id", e.Leave.ApplicationID,
			"employee_id", e.Employee.ID)
		return nil
	}

	msg, err := h.renderer.Submitted(e)
	if err != nil {
		h.fail(e, "", err)
		return nil
	}
	h.deliver(ctx, e, msg)
	return nil
}

func (h *EventHandler) HandleLeaveDecided(ctx context.Context, event events.Event) error {
	e, ok := event.(*events.LeaveDecidedEvent)
	if !ok {
		h.logger.Error("unexpected event payload", "event_type", event.EventType(), "event_id", event.EventID())
		return nil
	}

	msg, err := h.renderer.Decided(e)
	if err != nil {
		h.fail(e, e.Employee.Email, err)
		return nil
	}
	h.deliver(ctx, e, msg)
	return nil
}

func (h *EventHandler) deliver(ctx context.Context, event events.Event, msg Message) {
	if err := h.dispatcher.Send(ctx, msg); err != nil {
		h.fail(event, msg.To, err)
		return
	}
	h.logger.Info("notification dispatched",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"to", msg.To,
		"subject", msg.Subject,
		"transport", h.dispatcher.Transport())
}

func (h *EventHandler) fail(event events.Event, to string, err error) {
	notifyErr := internal.NewNotificationError(fmt.Sprintf("notification for %s failed", event.EventType()), err)
	h.logger.Error(notifyErr.Message,
		"type", notifyErr.Type,
		"code", notifyErr.Code,
		"event_id", event.EventID(),
		"to", to,
		"error", err)
}
