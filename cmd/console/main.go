package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jmrobles/consola-pagos/internal/auth"
	"github.com/jmrobles/consola-pagos/internal/console"
	"github.com/jmrobles/consola-pagos/internal/httpclient"
	"github.com/jmrobles/consola-pagos/internal/payments"
	"github.com/jmrobles/consola-pagos/internal/pdf"
	"github.com/jmrobles/consola-pagos/internal/session"
	"github.com/jmrobles/consola-pagos/pkg/config"
	"github.com/jmrobles/consola-pagos/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("api", cfg.API.BaseURL).
		Msg("iniciando consola")

	storage, err := session.NewFileStorage(cfg.Session.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento de sesión")
	}
	store := session.NewTokenStore(storage, log)
	sessCtx := session.NewContext(store, log)
	ttl := time.Duration(cfg.Session.TTLSeconds) * time.Second

	// Cliente HTTP decorado: bearer token fresco por llamada y cierre forzado
	// de sesión ante 401/403 del backend.
	httpClient := httpclient.Wrap(&http.Client{}, store, cfg.API.BaseURL,
		func(status int, url string) {
			sessCtx.ForceLogout("el backend respondió " + http.StatusText(status))
		}, log)

	sessCtx.OnExpired(func(session.State) {
		log.Warn().Msg("sesión expirada: las próximas vistas redirigen al login")
	})

	authClient := auth.NewClient(httpClient, cfg.API.BaseURL, cfg.API.LoginPath, log)
	resolver := auth.NewResolver(store, ttl, log)
	paymentsClient := payments.NewClient(httpClient, cfg.API.BaseURL, log)
	pdfGen := pdf.NewInvoiceGenerator()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	console.Router(app, console.RouterDeps{
		Session:  sessCtx,
		Auth:     console.NewAuthHandler(sessCtx, resolver, authClient, ttl, log),
		Payments: console.NewPaymentsHandler(paymentsClient, pdfGen, cfg.UI.PageSize, log),
		Log:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("consola detenida")
}
