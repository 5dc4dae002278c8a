package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"pokepolice/backend/internal/api/handler"
	"pokepolice/backend/internal/config"
	"pokepolice/backend/internal/models"
	"pokepolice/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const adminActor = "admin-cli"

var (
	listLimit int
	tokenTTL  time.Duration
)

// openStore is replaced in tests.
var openStore = func(ctx context.Context) (storage.Storage, error) {
	cfg, err := config.LoadStore()
	if err != nil {
		return nil, err
	}
	return storage.Open(ctx, cfg, zap.NewNop())
}

// openEvents is replaced in tests. Without REDIS_ADDR the publisher drops events.
var openEvents = func(ctx context.Context) (storage.Publisher, func(), error) {
	rdb, err := storage.ConnectRedis(ctx, config.LoadRedis(), zap.NewNop())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {}
	if rdb != nil {
		closeFn = func() { _ = rdb.Close() }
	}
	return storage.NewEventPublisher(rdb), closeFn, nil
}

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Operator tools for the scammer list",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var checkCmd = &cobra.Command{
	Use:   "check <discordID>",
	Short: "Show the scammer record for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

var removeCmd = &cobra.Command{
	Use:   "remove <discordID>",
	Short: "Remove a user from the scammer list",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the most recent scammer records",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var trainerCmd = &cobra.Command{
	Use:   "trainer <discordID>",
	Short: "Show the trainer profile a user registered",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrainer,
}

var tokenCmd = &cobra.Command{
	Use:   "token <subject>",
	Short: "Issue a bearer token for the lookup API",
	Long: `Issue a bearer token for the lookup API.

The token is signed with API_JWT_SECRET and is valid for --ttl.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", config.DefaultListLimit, "maximum number of records")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", config.DefaultTokenTTL, "token lifetime")
	rootCmd.AddCommand(checkCmd, removeCmd, listCmd, trainerCmd, tokenCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// withStore opens the store for one command and closes it afterwards.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, s storage.Storage) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close(ctx)
	return fn(ctx, s)
}

func requireUserID(id string) error {
	if !config.IsUserID(id) {
		return fmt.Errorf("invalid discord id %q", id)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCheck(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := requireUserID(id); err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, s storage.Storage) error {
		record, err := s.GetScammer(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is not listed\n", id)
			return nil
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, record)
	})
}

func runRemove(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := requireUserID(id); err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, s storage.Storage) error {
		if err := s.RemoveScammer(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("%s is not listed", id)
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s removed from the scammer list\n", id)
		announceRemoval(ctx, cmd, id)
		return nil
	})
}

// announceRemoval tells subscribers about a removal. The removal itself has
// already succeeded, so failures are only reported.
func announceRemoval(ctx context.Context, cmd *cobra.Command, id string) {
	events, closeEvents, err := openEvents(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: moderation event not sent: %v\n", err)
		return
	}
	defer closeEvents()
	err = events.Publish(ctx, models.ModerationEvent{
		Type:   models.EventScammerRemoved,
		UserID: id,
		Actor:  adminActor,
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: moderation event not sent: %v\n", err)
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	if listLimit < 1 {
		return fmt.Errorf("--limit must be positive, got %d", listLimit)
	}
	return withStore(cmd, func(ctx context.Context, s storage.Storage) error {
		records, err := s.ListScammers(ctx, listLimit)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DISCORD ID\tNAME\tREPORTED\tSERVER\tREASON")
		for _, r := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				r.UserID, r.DisplayName, r.ReportedAt.Format(time.DateOnly), r.ReportedServer, r.Reason)
		}
		return w.Flush()
	})
}

func runTrainer(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := requireUserID(id); err != nil {
		return err
	}
	return withStore(cmd, func(ctx context.Context, s storage.Storage) error {
		profile, err := s.GetTrainer(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s has no trainer profile\n", id)
			return nil
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, profile)
	})
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("API_JWT_SECRET: %w", config.ErrMissing)
	}
	token, err := handler.GenerateToken([]byte(cfg.JWTSecret), args[0], tokenTTL)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
