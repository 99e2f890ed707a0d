package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"

	"ConversationViewer/internal/app"
	"ConversationViewer/internal/config"
	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/infrastructure/auth"
	"ConversationViewer/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "conversationviewer",
		Short:        "Conversation viewer API with news recommendations",
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(recommendCmd())
	rootCmd.AddCommand(tokenCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	if err := application.Serve(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		return err
	}
	return nil
}

func recommendCmd() *cobra.Command {
	var userID, conversationID string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Run the news pipeline once for a stored conversation and print JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			// Logs go to stderr so stdout stays valid JSON.
			logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

			application, err := app.New(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer application.Close()

			rec, err := application.Recommend(cmd.Context(), userID, conversationID)
			if err != nil {
				return err
			}
			return printJSON(rec)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner of the conversation")
	cmd.Flags().StringVar(&conversationID, "id", "", "conversation id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func tokenCmd() *cobra.Command {
	var (
		userID string
		ttl    time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for local testing",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg := config.Load()
			token, err := auth.Sign(cfg.Auth, userID, jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user id placed in the token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printJSON(rec domain.Recommendation) error {
	if rec.Headlines == nil {
		rec.Headlines = []domain.Article{}
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Headlines []domain.Article `json:"headlines"`
		Topics    []string         `json:"topics,omitempty"`
		Message   string           `json:"message,omitempty"`
	}{rec.Headlines, domain.TopicStrings(rec.Topics), rec.Message})
}
