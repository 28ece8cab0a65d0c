package plugin

import (
	"context"

	"github.com/meshfx-dev/meshfx-sdk/domain/entities"
)

// ActionCall carries the arguments of one main entry call.
type ActionCall struct {
	Plugin  string
	Action  entities.Action
	Effect  entities.MeshEffectHandle
	InArgs  entities.PropertySetHandle
	OutArgs entities.PropertySetHandle
}

// ActionHandler handles one action. A nil error is reported to the host as
// StatusOK; other errors are converted with errors.ToStatus.
type ActionHandler func(ctx context.Context, call *ActionCall) error

// Middleware wraps an ActionHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ActionHandler) ActionHandler

// handlerTable is an immutable action to handler mapping.
// Every handler is wrapped by the middleware chain when the table is built.
type handlerTable struct {
	handlers map[entities.Action]ActionHandler
}

func newHandlerTable(handlers map[entities.Action]ActionHandler, middleware ...Middleware) *handlerTable {
	wrapped := make(map[entities.Action]ActionHandler, len(handlers))
	for action, handler := range handlers {
		h := handler
		// Apply in reverse so the first middleware wraps outermost.
		for i := len(middleware) - 1; i >= 0; i-- {
			h = middleware[i](h)
		}
		wrapped[action] = h
	}
	return &handlerTable{handlers: wrapped}
}

func (t *handlerTable) lookup(action entities.Action) (ActionHandler, bool) {
	h, ok := t.handlers[action]
	return h, ok
}
