package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/paperdrill/backend/internal/api"
	"github.com/paperdrill/backend/internal/assist"
	"github.com/paperdrill/backend/internal/extract"
	"github.com/paperdrill/backend/internal/grade"
	appI18n "github.com/paperdrill/backend/internal/i18n"
	"github.com/paperdrill/backend/internal/session"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "paperdrill",
		Short: "Practice scanned exam papers with automated grading and an AI tutor",
	}

	serve := serveCmd()
	root.AddCommand(serve)

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the exam session server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8000", "HTTP listen address")
	f.String("extractor-url", "http://localhost:8001", "Base URL of the exam extraction service")
	f.String("openai-key", "", "OpenAI API key for the AI tutor (or set PAPERDRILL_OPENAI_KEY)")
	f.String("openai-base-url", "", "OpenAI-compatible API base URL (empty for the public API)")
	f.String("openai-model", "gpt-4", "OpenAI model for the AI tutor")
	f.String("anthropic-key", "", "Anthropic API key for the AI tutor (or set PAPERDRILL_ANTHROPIC_KEY)")
	f.String("anthropic-model", "claude-sonnet-4-5", "Anthropic model for the AI tutor")
	f.StringP("lang", "l", "en", "Language for grading feedback (en, ru)")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PAPERDRILL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("paperdrill")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/paperdrill")
	v.AddConfigPath("/etc/paperdrill")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	registry := assist.NewRegistry()
	if key := v.GetString("openai-key"); key != "" {
		client, err := assist.NewOpenAIClient(key, v.GetString("openai-base-url"), v.GetString("openai-model"))
		if err != nil {
			return fmt.Errorf("create OpenAI client: %w", err)
		}
		registry.Register("openai", client)
	} else {
		slog.Warn("no OpenAI key configured; the OpenAI tutor is unavailable")
	}
	if key := v.GetString("anthropic-key"); key != "" {
		client, err := assist.NewAnthropicClient(key, v.GetString("anthropic-model"))
		if err != nil {
			return fmt.Errorf("create Anthropic client: %w", err)
		}
		registry.Register("anthropic", client)
	} else {
		slog.Warn("no Anthropic key configured; the Anthropic tutor is unavailable")
	}

	keys := grade.NewKeyGrader()
	engine := session.NewController(keys, registry)
	extractor := extract.NewHTTPExtractor(v.GetString("extractor-url"))

	h := api.New(engine, extractor, keys)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: v.GetStringSlice("cors-origins"),
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"extractor_url", v.GetString("extractor-url"),
		"lang", lang,
	)
	return http.ListenAndServe(addr, r)
}
