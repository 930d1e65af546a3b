package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dualmode/app/config"
	"dualmode/app/service/conversation"
	"dualmode/app/service/mcpserver"
	"dualmode/app/service/web"
	"dualmode/app/service/workflow"
	"dualmode/app/util/mylog"

	"github.com/gofiber/fiber/v2/log"
	"github.com/samber/do"
	"golang.org/x/sync/errgroup"
)

func main() {
	di := do.New()
	defer di.Shutdown()
	defer log.Info("Waiting for services to finish...")

	mylog.Preinit()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	do.ProvideValue(di, appCtx)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	do.ProvideValue(di, cfg)

	if err = mylog.Init(cfg); err != nil {
		log.Fatalf("logging init failed: %v", err)
	}

	do.Provide(di, workflow.New)
	do.Provide(di, conversation.New)
	do.Provide(di, web.New)
	do.Provide(di, mcpserver.New)

	slog.Info("Service started",
		"workflow", cfg.Workflow.Kind,
		"mcp", cfg.MCP.Enabled,
		mylog.TelegramKey, true)

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info("Shutting down...")

		cancel()
	}()

	group, groupCtx := errgroup.WithContext(appCtx)

	group.Go(func() error {
		return do.MustInvoke[*web.Service](di).Run(groupCtx)
	})

	if cfg.MCP.Enabled {
		group.Go(func() error {
			return do.MustInvoke[*mcpserver.Service](di).Run(groupCtx)
		})
	}

	if err = group.Wait(); err != nil {
		slog.Error("Server stopped", "error", err)
	}
}
