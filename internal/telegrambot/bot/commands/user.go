package commands

import (
	"fmt"
	"strconv"

	"tmmoscow/internal/telegrambot/bot/formatter"
	"tmmoscow/internal/telegrambot/bot/middleware"
	"tmmoscow/internal/telegrambot/bot/router"
	"tmmoscow/internal/telegrambot/bot/types"
	"tmmoscow/internal/tmmoscow"
)

const helpText = "Доступные команды:\n" +
	"\n/start - Начать работу с ботом\n" +
	"/help - Показать это сообщение\n" +
	"/categories - Категории дистанций\n" +
	"/recent [категория] [страница] - Последние соревнования категории\n" +
	"/competition [номер] - Страница соревнования с сайта tmmoscow.ru"

// RegisterUserRoutes registers user command handlers
func RegisterUserRoutes(r router.RouterInterface) {
	r.Handle("start", handleStart)
	r.Handle("help", handleHelp)
	r.Handle("categories", handleCategories)
	r.Handle("recent", handleRecent)
	r.Handle("competition", handleCompetition)
}

func handleStart(ctx types.Context) error {
	text := "Бот показывает анонсы соревнований по спортивному туризму с сайта tmmoscow.ru.\n\n" + helpText
	return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), text)
}

func handleHelp(ctx types.Context) error {
	return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), helpText)
}

func handleCategories(ctx types.Context) error {
	return ctx.Deps.BotAPI.SendHTML(ctx.ChatID(), formatter.Categories())
}

func handleRecent(ctx types.Context) error {
	categoryArg := ctx.Deps.Config.DefaultDistanceCategory
	if len(ctx.Args) > 0 {
		categoryArg = ctx.Args[0]
	}
	category, err := tmmoscow.ParseDistanceCategory(categoryArg)
	if err != nil {
		return err
	}

	page := 0
	if len(ctx.Args) > 1 {
		page, err = strconv.Atoi(ctx.Args[1])
		if err != nil || page < 0 {
			return middleware.NewUserError("Номер страницы должен быть неотрицательным числом")
		}
	}

	key := fmt.Sprintf("recent:%s:%d", category, page)
	if ctx.Deps.CommandCache != nil {
		if cached, ok := ctx.Deps.CommandCache.Get(key); ok {
			return ctx.Deps.BotAPI.SendHTML(ctx.ChatID(), cached.(string))
		}
	}

	summaries, err := ctx.Deps.Competitions.Recent(ctx.Ctx, category, page)
	if err != nil {
		return err
	}

	text := formatter.Summaries(category, page, summaries)
	if ctx.Deps.CommandCache != nil {
		ctx.Deps.CommandCache.Set(key, text)
	}
	return ctx.Deps.BotAPI.SendHTML(ctx.ChatID(), text)
}

func handleCompetition(ctx types.Context) error {
	if len(ctx.Args) == 0 {
		return middleware.NewUserError("Укажите номер соревнования: /competition 12345")
	}
	id, err := strconv.Atoi(ctx.Args[0])
	if err != nil || id <= 0 {
		return middleware.NewUserError("Номер соревнования должен быть положительным числом")
	}

	result, err := ctx.Deps.Competitions.Competition(ctx.Ctx, id)
	if err != nil {
		return err
	}

	for _, message := range formatter.Detail(result.Detail) {
		if err := ctx.Deps.BotAPI.SendHTML(ctx.ChatID(), message); err != nil {
			return err
		}
	}

	if files := formatter.Files(result.Files); files != "" {
		if err := ctx.Deps.BotAPI.SendHTML(ctx.ChatID(), files); err != nil {
			return err
		}
	}
	if result.Version > 0 {
		return ctx.Deps.BotAPI.SendMessage(ctx.ChatID(), fmt.Sprintf("Страница сохранена, версия %d", result.Version))
	}
	return nil
}
