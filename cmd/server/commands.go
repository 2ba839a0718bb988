package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/flashlists/internal/generation"
	"github.com/phrazzld/flashlists/internal/platform/postgres"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "flashlists",
		Short:        "Flashcard list manager",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	serve := newServeCmd(&configPath)
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	root.AddCommand(serve, newMigrateCmd(&configPath), newCardsCmd())
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var migrateFirst bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			db, err := openDatabase(ctx, cfg.Database.URL, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if migrateFirst {
				if err := postgres.Migrate(ctx, db, postgres.MigrateUp, log); err != nil {
					return err
				}
			}

			app, err := newApplication(cfg, log, db)
			if err != nil {
				return err
			}
			return app.run(ctx)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate {up|down|status|reset}",
		Short:     "Manage the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus, postgres.MigrateReset},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(*configPath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openDatabase(ctx, cfg.Database.URL, log)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			return postgres.Migrate(ctx, db, args[0], log)
		},
	}
}

// renumbered is the output of cards --renumber.
type renumbered struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

func newCardsCmd() *cobra.Command {
	var (
		frontPath string
		backPath  string
		align     bool
		renumber  bool
	)

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Generate cards from a front and a back text file",
		Long: "Reads the front and back sides as numbered line lists and prints " +
			"the generated cards with any diagnostic as JSON.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			front, err := os.ReadFile(frontPath)
			if err != nil {
				return fmt.Errorf("failed to read front: %w", err)
			}
			back, err := os.ReadFile(backPath)
			if err != nil {
				return fmt.Errorf("failed to read back: %w", err)
			}

			var out any
			if renumber {
				out = renumbered{
					Front: generation.Renumber(string(front)),
					Back:  generation.Renumber(string(back)),
				}
			} else {
				out = generation.GenerateCards(string(front), string(back), align)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&frontPath, "front", "", "file holding the front side")
	cmd.Flags().StringVar(&backPath, "back", "", "file holding the back side")
	cmd.Flags().BoolVar(&align, "align", false, "keep blank lines so fronts and backs pair by line")
	cmd.Flags().BoolVar(&renumber, "renumber", false, "print both sides renumbered instead of cards")
	_ = cmd.MarkFlagRequired("front")
	_ = cmd.MarkFlagRequired("back")
	return cmd
}
