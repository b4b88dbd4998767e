package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/diwanapp/diwan-server/internal/logger"
	"github.com/diwanapp/diwan-server/internal/sse"
)

// EventsHandle wraps the SSE manager with shutdown capability.
type EventsHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *EventsHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := h.Manager.Shutdown(ctx)
	h.cancel()
	return err
}

// ProvideEvents provides the change feed and starts its broadcast loop.
func ProvideEvents(i do.Injector) (*EventsHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.WithComponent("sse").Logger, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	return &EventsHandle{Manager: manager, cancel: cancel}, nil
}
