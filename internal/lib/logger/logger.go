package logger

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/linemk/lemonade-shop/internal/lib/logger/handlers/slogpretty"
)

// окружения из поля env конфига
const (
	// EnvLocal - запуск на машине разработчика, цветной вывод в консоль
	EnvLocal = "local"
	// EnvDev - стенд, JSON с уровнем debug
	EnvDev = "dev"
	// EnvProd - боевой магазин, JSON с уровнем info
	EnvProd = "prod"
)

// SetupLogger выбирает обработчик slog по окружению из конфига.
// Неизвестное окружение (в том числе значение по умолчанию "development") пишет JSON уровня info.
func SetupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case EnvLocal:
		log = setupPrettySlog()
	case EnvDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	default: // EnvProd
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	color.NoColor = false

	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)
	return slog.New(handler)
}
