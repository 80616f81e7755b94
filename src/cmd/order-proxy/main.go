package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	orderhttp "webservicepoc/src/adapters/http"
	"webservicepoc/src/helper/env"
	"webservicepoc/src/services/internalcall"
	"webservicepoc/src/services/order"
	"webservicepoc/src/trace"

	"go.uber.org/fx"
)

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting order proxy demo with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newLogTrace,
			newOrderController,
			newInternalCalls,
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func newLogTrace(logger *slog.Logger) *trace.LogTrace {
	return trace.NewLogTrace(logger)
}

// newOrderController builds controller -> service -> repository with a
// trace decorator in front of each layer.
func newOrderController(logTrace *trace.LogTrace) order.OrderController {
	delay := env.GetDuration("ORDER_REPOSITORY_DELAY_MS", time.Second)
	return order.NewTracedChain(order.NewOrderRepositoryV1(delay), logTrace)
}

// newInternalCalls wires both internal-call services against the same traced
// collaborator so their logs can be compared side by side.
func newInternalCalls(logger *slog.Logger, logTrace *trace.LogTrace) orderhttp.InternalCalls {
	traced := internalcall.NewTracedInternal(internalcall.NewInternalService(logger), logTrace)

	return orderhttp.InternalCalls{
		SelfCall: internalcall.NewSelfCallService(logger),
		Call:     internalcall.NewCallService(logger, traced),
	}
}

func newServer(logger *slog.Logger, controller order.OrderController, calls orderhttp.InternalCalls) *orderhttp.Server {
	port := 8081 // default value
	if portStr := os.Getenv("SERVER_ADDR"); portStr != "" {
		if val, err := strconv.Atoi(portStr); err == nil {
			port = val
		}
	}

	return orderhttp.NewServer(logger, port, controller, calls)
}

func registerServerHooks(lc fx.Lifecycle, logger *slog.Logger, srv *orderhttp.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			return srv.Shutdown(shutdownCtx)
		},
	})
}
