package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/pkg/errors"

	"github.com/linemk/lemonade-shop/internal/app"
	"github.com/linemk/lemonade-shop/internal/app/handlers"
	"github.com/linemk/lemonade-shop/internal/cache"
	"github.com/linemk/lemonade-shop/internal/config"
	"github.com/linemk/lemonade-shop/internal/lib/confirmation"
	"github.com/linemk/lemonade-shop/internal/lib/logger"
	"github.com/linemk/lemonade-shop/internal/lib/logger/handlers/urllog"
	"github.com/linemk/lemonade-shop/internal/service"
	"github.com/linemk/lemonade-shop/internal/storage"
)

func main() {
	// загрузка конфигурации
	cfg := config.MustLoad()

	// инициализация логгера, зависит от настройки окружения
	log := logger.SetupLogger(cfg.Env)
	log.Info("starting app", slog.String("env", cfg.Env))

	// загружаем объект приложения, конфигом и подключением к БД
	application, err := app.NewApp(log, cfg)
	if err != nil {
		log.Error("failed to initialize app", slog.Any("error", err))
		panic(errors.Wrap(err, "failed to initialize app"))
	}
	defer application.Close()

	router := chi.NewRouter()
	// настройка middleware
	router.Use(middleware.RequestID)
	router.Use(urllog.CustomLoggerMiddleware(log))
	router.Use(middleware.Recoverer)

	// реализация слоев по работе с БД по каждому направлению
	userRepo := storage.NewUserRepository(application.DB)
	catalogRepo := storage.NewCatalogRepository(application.DB)
	orderRepo := storage.NewOrderRepository(application.DB)
	productRepo := storage.NewProductRepository(application.DB)
	variantRepo := storage.NewVariantRepository(application.DB)
	productVariantRepo := storage.NewProductVariantRepository(application.DB)

	orderOpts := service.OrderOptions{
		ConfirmationAttempts: cfg.Orders.ConfirmationAttempts,
		RevalidateInTx:       cfg.Orders.RevalidateInTx,
	}
	if application.Redis != nil {
		orderOpts.Cache = cache.NewOrderCache(application.Redis, cfg.Redis.TTL)
	}

	orderService := service.NewOrderService(application.Logger, application.DB,
		catalogRepo, orderRepo, userRepo, confirmation.NewSeeded(), orderOpts)
	productService := service.NewProductService(application.Logger, productRepo)
	variantService := service.NewVariantService(application.Logger, variantRepo)
	productVariantService := service.NewProductVariantService(application.Logger, application.DB, productRepo, productVariantRepo)

	router.Get("/health", handlers.HealthHandler(application.Logger, application.DB))

	// эндпоинты покупателя
	router.Route("/customer/v1/orders", func(r chi.Router) {
		r.Post("/", handlers.CreateOrderHandler(application.Logger, orderService))
		r.Get("/{confirmation_number}", handlers.GetOrderHandler(application.Logger, orderService))
	})

	// эндпоинты администратора каталога
	router.Route("/admin/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", handlers.ListProductsHandler(application.Logger, productService))
			r.Post("/", handlers.CreateProductHandler(application.Logger, productService))
			r.Get("/{id}", handlers.GetProductHandler(application.Logger, productService))
			r.Patch("/{id}", handlers.UpdateProductHandler(application.Logger, productService))
			r.Put("/{id}", handlers.UpsertProductHandler(application.Logger, productService))
			r.Delete("/{id}", handlers.DeleteProductHandler(application.Logger, productService))

			// связки продукт-вариант
			r.Post("/{id}/variants", handlers.AddProductVariantsHandler(application.Logger, productVariantService))
			r.Patch("/{id}/variants/{productVariantId}", handlers.UpdateProductVariantHandler(application.Logger, productVariantService))
			r.Delete("/{id}/variants/{productVariantId}", handlers.DeleteProductVariantHandler(application.Logger, productVariantService))
		})

		r.Route("/variants", func(r chi.Router) {
			r.Get("/", handlers.ListVariantsHandler(application.Logger, variantService))
			r.Post("/", handlers.CreateVariantHandler(application.Logger, variantService))
			r.Get("/{id}", handlers.GetVariantHandler(application.Logger, variantService))
			r.Patch("/{id}", handlers.UpdateVariantHandler(application.Logger, variantService))
			r.Put("/{id}", handlers.UpsertVariantHandler(application.Logger, variantService))
			r.Delete("/{id}", handlers.DeleteVariantHandler(application.Logger, variantService))
		})
	})

	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      router,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting server", slog.String("address", cfg.HTTPServer.Address))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", slog.Any("error", err))
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	stopSign := <-stop
	log.Info("received shutdown signal", slog.String("signal", stopSign.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", slog.Any("error", err))
	}
	log.Info("server gracefully stopped")
}
