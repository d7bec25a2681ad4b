// Package router маршрутизирует команды к обработчикам.
package router

import (
	"strings"

	"go.uber.org/zap"

	"tmmoscow/internal/telegrambot/bot/types"
)

// Router manages command routes and middleware
type Router struct {
	routes      map[string]types.HandlerFunc
	middlewares []types.Middleware
}

var _ RouterInterface = (*Router)(nil)

// NewRouter creates a new Router instance
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]types.HandlerFunc),
	}
}

// Use adds a middleware to the router
func (r *Router) Use(middleware types.Middleware) {
	r.middlewares = append(r.middlewares, middleware)
}

// Handle registers a command handler
func (r *Router) Handle(command string, handler types.HandlerFunc) {
	r.routes[command] = handler
}

// Resolve находит обработчик команды. Команда вида competition_123
// сводится к competition с аргументом 123.
func (r *Router) Resolve(command string) (types.HandlerFunc, string, []string, bool) {
	command = strings.ToLower(command)
	if handler, ok := r.routes[command]; ok {
		return handler, command, nil, true
	}
	if name, arg, found := strings.Cut(command, "_"); found && arg != "" {
		if handler, ok := r.routes[name]; ok {
			return handler, name, []string{arg}, true
		}
	}
	return nil, command, nil, false
}

// Dispatch dispatches a command to its handler
func (r *Router) Dispatch(ctx types.Context) error {
	handler, command, suffixArgs, ok := r.Resolve(ctx.Message.Command())
	if !ok {
		ctx.Deps.Logger.Warn("Unknown command", zap.String("command", command), zap.Int("update_id", ctx.UpdateID))
		return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), "Неизвестная команда. Используйте /help")
	}

	ctx.Command = command
	ctx.Args = append(suffixArgs, strings.Fields(ctx.Message.CommandArguments())...)

	// Create a chain of middleware
	currentHandler := handler
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		mw := r.middlewares[i]
		next := currentHandler
		currentHandler = func(c types.Context) error {
			return mw(c, next)
		}
	}

	return currentHandler(ctx)
}
