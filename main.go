// Package main is the entry point for the pgconnect command.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/yelinaung/pgconnect/internal/config"
	"gitlab.com/yelinaung/pgconnect/internal/logger"
	"gitlab.com/yelinaung/pgconnect/internal/telemetry"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		logger.Log.Error().Err(err).Str("kind", config.KindOf(err).String()).Msg("pgconnect failed")
		os.Exit(exitCode(err))
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "pgconnect",
		Short:         "Open a PostgreSQL connection pool from DATABASE_* environment variables",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file consulted after the process environment")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "pgconnect %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
		&cobra.Command{
			Use:   "check",
			Short: "Resolve configuration, connect, ping and print pool statistics",
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := loadEnv(envFile)
				if err != nil {
					return err
				}
				return withTelemetry(cmd.Context(), env, func(ctx context.Context) error {
					return runCheck(ctx, env, cmd.OutOrStdout())
				})
			},
		},
		&cobra.Command{
			Use:   "serve",
			Short: "Serve /healthz, /stats and /metrics for the pool until interrupted",
			RunE: func(cmd *cobra.Command, _ []string) error {
				env, err := loadEnv(envFile)
				if err != nil {
					return err
				}
				return withTelemetry(cmd.Context(), env, func(ctx context.Context) error {
					return runServe(ctx, env)
				})
			},
		},
	)

	return root
}

// loadEnv returns the environment commands resolve against. The process
// environment (including a .env in the working directory) wins over envFile.
func loadEnv(envFile string) (config.Env, error) {
	config.LoadDotEnv()
	if envFile == "" {
		return config.OSEnv, nil
	}

	fileEnv, err := config.DotEnv(envFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read env file %s: %w", envFile, err)
	}
	return config.Layered(config.OSEnv, fileEnv), nil
}

func withTelemetry(ctx context.Context, env config.Env, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	rt := config.LoadRuntime(env)
	logger.Configure(rt.LogLevel, rt.LogFormat)

	shutdown, err := telemetry.Setup(ctx, rt, nil)
	if err != nil {
		return fmt.Errorf("unable to set up telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Log.Warn().Err(err).Msg("Failed to flush telemetry")
		}
	}()

	return fn(ctx)
}
