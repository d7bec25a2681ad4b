package commands

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"tmmoscow/internal/telegrambot/bot/middleware"
	"tmmoscow/internal/telegrambot/bot/router"
	"tmmoscow/internal/telegrambot/bot/types"
)

// RegisterAdminRoutes registers admin command handlers
func RegisterAdminRoutes(r router.RouterInterface, deps *types.Dependencies) {
	adminOnly := middleware.AdminOnly(deps.Config.AdminUsername)
	r.Handle("stats", middleware.Wrap(adminOnly, handleStats))
	r.Handle("clearcache", middleware.Wrap(adminOnly, handleClearCache))
}

func handleStats(ctx types.Context) error {
	var b strings.Builder
	if ctx.Deps.Metrics != nil {
		writeStats(&b, ctx.Deps.Metrics.GetStats(), "")
	}
	if ctx.Deps.CommandCache != nil {
		writeStats(&b, map[string]any{"command_cache": ctx.Deps.CommandCache.Stats()}, "")
	}
	if b.Len() == 0 {
		return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), "Статистика недоступна")
	}
	return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), strings.TrimRight(b.String(), "\n"))
}

// writeStats выводит вложенные группы метрик с отступами в порядке ключей
func writeStats(b *strings.Builder, stats map[string]any, indent string) {
	for _, key := range slices.Sorted(maps.Keys(stats)) {
		switch v := stats[key].(type) {
		case map[string]any:
			fmt.Fprintf(b, "%s%s:\n", indent, key)
			writeStats(b, v, indent+"  ")
		case map[string]int64:
			fmt.Fprintf(b, "%s%s:\n", indent, key)
			for _, name := range slices.Sorted(maps.Keys(v)) {
				fmt.Fprintf(b, "%s  %s: %d\n", indent, name, v[name])
			}
		default:
			fmt.Fprintf(b, "%s%s: %v\n", indent, key, v)
		}
	}
}

func handleClearCache(ctx types.Context) error {
	if ctx.Deps.CommandCache == nil {
		return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), "Кэш команд выключен")
	}
	ctx.Deps.CommandCache.Clear()
	return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), "Кэш команд очищен")
}
