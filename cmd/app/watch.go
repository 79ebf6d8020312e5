package main

import (
	"fmt"
	"net/url"

	"fittrack/internal/model"
	"fittrack/pkg/auth"
	"fittrack/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	watchURL    string
	watchUserID int64
)

var watchFeedCmd = &cobra.Command{
	Use:   "watch-feed",
	Short: "prints live feed events from a running server",
	Long: `
Connects to the feed websocket as the given user, signing a short-lived token
with the configured JWT secret, and prints every event until interrupted.
`,
	SilenceUsage: true,
	RunE:         runWatchFeed,
}

func init() {
	watchFeedCmd.Flags().StringVar(&watchURL, "url", "ws://localhost:8080/api/v1/feed/ws", "feed websocket URL")
	watchFeedCmd.Flags().Int64Var(&watchUserID, "user", 0, "user ID to connect as")
	_ = watchFeedCmd.MarkFlagRequired("user")
}

func runWatchFeed(cmd *cobra.Command, _ []string) error {
	cfg, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync()
	log := logger.Logger()

	token, err := auth.NewJWTAuth(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(watchUserID, model.RoleUser)
	if err != nil {
		return fmt.Errorf("failed to issue token: %w", err)
	}

	u, err := url.Parse(watchURL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	q := u.Query()
	q.Set("access_token", token)
	u.RawQuery = q.Encode()

	ctx := cmd.Context()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	log.Info("Watching feed", zap.String("url", watchURL), zap.Int64("user_id", watchUserID))

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(message))
	}
}
