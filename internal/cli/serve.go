package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clawmon/clawmon/internal/admin"
	"github.com/clawmon/clawmon/internal/agent"
	"github.com/clawmon/clawmon/internal/bus"
	"github.com/clawmon/clawmon/internal/channels"
	"github.com/clawmon/clawmon/internal/config"
	"github.com/clawmon/clawmon/internal/runlog"
	"github.com/clawmon/clawmon/internal/scheduler"
	"github.com/clawmon/clawmon/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant daemon and admin console",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	printHeader("🌐 clawmon Serve")

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Config error: %v\n", err)
		os.Exit(1)
	}
	if err := config.EnsureDir(cfg.Paths.DataDir); err != nil {
		fmt.Printf("Data dir error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	msgBus := bus.NewMessageBus()
	sessions := session.NewManager(cfg.Paths.DataDir)

	runs, err := runlog.New(filepath.Join(cfg.Paths.DataDir, "runlog.db"))
	if err != nil {
		slog.Warn("Run log unavailable", "error", err)
		runs = nil
	} else {
		defer runs.Close()
	}

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.New(scheduler.Config{
			Enabled:      true,
			TickInterval: cfg.Scheduler.TickInterval,
		}, msgBus, runs)
		for _, jc := range cfg.Scheduler.Jobs {
			expr, err := scheduler.ParseCron(jc.Cron)
			if err != nil {
				slog.Warn("Skipping job with invalid cron", "job", jc.Name, "error", err)
				continue
			}
			sched.Register(&scheduler.Job{Name: jc.Name, Cron: expr, Content: jc.Content})
		}
		go sched.Run(ctx)
	}

	var active []channels.Channel
	if cfg.Channels.Slack.Enabled {
		active = append(active, channels.NewSlackChannel(cfg.Channels.Slack, msgBus))
	}
	for _, ch := range active {
		if err := ch.Start(ctx); err != nil {
			slog.Warn("Channel failed to start", "channel", ch.Name(), "error", err)
		}
	}

	loop := agent.NewLoop(agent.LoopOptions{
		Bus:       msgBus,
		Sessions:  sessions,
		Responder: agent.EchoResponder{},
		Model:     cfg.Model.Name,
	})
	go msgBus.DispatchOutbound(ctx)
	go loop.Run(ctx)

	opts := admin.Options{
		Host:          cfg.Admin.Host,
		Port:          cfg.Admin.Port,
		Password:      cfg.Admin.Password,
		DataDir:       cfg.Paths.DataDir,
		FileTreeDepth: cfg.Admin.FileTreeDepth,
		Channels:      cfg.EnabledChannels(),
		Agent:         loop,
		Sessions:      sessions,
	}
	if sched != nil {
		opts.Cron = sched
	}
	console := admin.NewServer(opts)
	if err := console.Start(); err != nil {
		fmt.Printf("Admin console error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("🖥️  Admin console listening on http://%s\n", console.Addr())
	if cfg.Admin.Password != "" {
		fmt.Println("🔒 Basic auth required for the console")
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	fmt.Println("\nShutting down...")
	cancel()
	loop.Stop()
	for _, ch := range active {
		ch.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := console.Stop(shutdownCtx); err != nil {
		slog.Warn("Console shutdown error", "error", err)
	}
}
