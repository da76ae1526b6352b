package cmd

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizgen/internal/logger"
	"github.com/abhisek/quizgen/internal/store"
)

// log is the process logger, configured before any command runs.
var log = zerolog.Nop()

var rootCmd = &cobra.Command{
	Use:   "quizgen",
	Short: "Generate exam questions with an LLM",
	Long: `quizgen asks a language model for multiple-choice, true/false or yes/no
questions on a topic, validates every question against the requested shape
and keeps the ones that pass.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		v := viperForCmd(cmd)
		log = logger.Setup(v.GetString("log-level"), v.GetString("log-format"))
		if f := v.ConfigFileUsed(); f != "" {
			log.Debug().Str("path", f).Msg("loaded config file")
		}
		return nil
	},
}

// Execute runs the root command. Cancelling ctx aborts in-flight
// generation, including retry waits.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides QUIZGEN_DB env var)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "pretty", "Log format (pretty, json)")

	rootCmd.AddCommand(mcqCmd)
	rootCmd.AddCommand(binaryCmd)
	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZGEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, err
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", dbPath).Msg("opened database")
	return s, nil
}
