package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/mj1618/agentation/internal/config"
	"github.com/mj1618/agentation/internal/server"
	"github.com/mj1618/agentation/internal/uiloop"
	"github.com/mj1618/agentation/pkg/agentation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve <fixture>",
	Short: "Start an MCP server exposing capture sessions as tools",
	Long: `Start a Model Context Protocol (MCP) server over the host described by a
fixture. Agents can start sessions, hit-test, attach feedback and export it
without shell overhead. The config file is watched and reapplied on change.

Supported transports:
  stdio             Standard I/O (default, for MCP clients)
  streamable-http   Streamable HTTP transport (for remote agents)

Examples:
  agentation serve testdata/login.yaml
  agentation serve testdata/login.yaml --transport streamable-http --port 8080
  agentation serve testdata/login.yaml --cache-ttl 0`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "stdio", "Transport: stdio, streamable-http")
	serveCmd.Flags().Int("port", 8080, "HTTP port for streamable-http transport")
	serveCmd.Flags().Int("cache-ttl", 500, "Idle snapshot cache TTL in milliseconds (0 to disable)")
	serveCmd.Flags().Bool("watch-config", true, "Reapply the config file when it changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	transport, _ := cmd.Flags().GetString("transport")
	port, _ := cmd.Flags().GetInt("port")
	cacheTTLMs, _ := cmd.Flags().GetInt("cache-ttl")
	watch, _ := cmd.Flags().GetBool("watch-config")

	app, err := loadApp(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	loop := uiloop.New(logger.Named("loop"))
	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("ui loop exited", zap.Error(err))
		}
	}()

	var agent *agentation.Agentation
	if err := loop.Do(ctx, func() {
		agent = newAgent(app, agentation.WithLoop(loop))
	}); err != nil {
		return fmt.Errorf("install overlay: %w", err)
	}

	if watch && cfgPath != "" {
		w, err := config.Watch(ctx, cfgPath, func(c config.Config) {
			loop.Post(func() {
				if err := agent.ApplyConfig(c); err != nil {
					logger.Warn("config not applied", zap.Error(err))
				}
			})
		}, logger.Named("config"))
		if err != nil {
			logger.Warn("config watch unavailable", zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	cfgSrv := server.Config{
		Transport: transport,
		Port:      port,
		CacheTTL:  time.Duration(cacheTTLMs) * time.Millisecond,
	}
	srv := server.New(loop, agent, cfgSrv, logger.Named("mcp"))
	return srv.Serve(cfgSrv)
}
