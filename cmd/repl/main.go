// REPL binary for interactively building predicates and running them.
//
// Configuration is layered: defaults, predsql.yaml (or --config), PREDSQL_*
// environment variables, then flags.
//
//	--engine / PREDSQL_ENGINE            postgres|mysql|sqlite (prompted if absent)
//	--database-url / PREDSQL_DATABASE_URL  DSN, auto-connects if set (DATABASE_URL also works)
//	--mapping / PREDSQL_MAPPING          field -> column mapping file
//	--log-level / PREDSQL_LOG_LEVEL      debug|info|warn|error (default warn)
//	--quote / PREDSQL_QUOTE              quote column identifiers
//
// Usage:
//
//	go run ./cmd/repl --engine sqlite --database-url :memory:
package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the predsql command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predsql",
		Short: "Interactively build SQL WHERE predicates",
		Long: `predsql builds SQL predicates from mapped field names, renders them
for PostgreSQL, MySQL or SQLite with bind parameters, and can run them
against a live database.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runREPL(cfg)
		},
	}
	registerFlags(cmd.Flags())
	return cmd
}

func runREPL(cfg *replConfig) error {
	logger := newLogger(os.Stderr, cfg.LogLevel)

	rl, err := readline.NewFromConfig(&readline.Config{
		Prompt:          "[Config] ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer func() { _ = rl.Close() }()

	engine := loadEngine(rl, cfg.Engine)
	sess := NewSession(engine, rl)
	sess.log = logger
	sess.quote = cfg.Quote

	if cfg.Mapping != "" {
		if err := sess.Execute("load " + cfg.Mapping); err != nil {
			logger.Warn("mapping load failed", "path", cfg.Mapping, "err", err)
		}
	}

	comp := &replCompleter{sess: sess}
	_ = rl.SetConfig(&readline.Config{
		Prompt:          "predsql> ",
		HistoryFile:     cfg.History,
		HistoryLimit:    500,
		AutoComplete:    comp,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})

	if cfg.DatabaseURL != "" {
		fmt.Printf("[Config] Connecting via configured DSN...\n")
		if err := sess.Execute("connect " + cfg.DatabaseURL); err != nil {
			logger.Warn("startup connect failed", "err", err)
		}
	} else {
		loadConnection(rl, sess)
	}

	fmt.Println()
	fmt.Println("predsql REPL. Type 'help' for commands, 'exit' to quit")
	fmt.Println()

	rl.SetPrompt("predsql> ")
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)
		if lower == "exit" || lower == "quit" {
			break
		}
		if err := sess.Execute(line); err != nil {
			fmt.Fprintf(os.Stderr, "  Error: %v\n", err)
		}
	}
	if sess.conn != nil {
		_ = sess.conn.close()
	}
	fmt.Println()
	return nil
}

func loadEngine(rl *readline.Instance, configured string) string {
	if configured != "" {
		if !isValidEngine(configured) {
			fmt.Fprintf(os.Stderr, "Warning: invalid engine %q, defaulting to postgres\n", configured)
			return "postgres"
		}
		fmt.Printf("[Config] Engine: %s\n", configured)
		return configured
	}

	choice := strings.TrimSpace(strings.ToLower(prompt(rl, "Select engine (postgres, mysql, sqlite)", "postgres")))
	if !isValidEngine(choice) {
		fmt.Fprintf(os.Stderr, "Warning: unknown engine %q, defaulting to postgres\n", choice)
		return "postgres"
	}
	fmt.Printf("[Config] Engine: %s\n", choice)
	return choice
}

func loadConnection(rl *readline.Instance, sess *Session) {
	answer := strings.TrimSpace(strings.ToLower(prompt(rl, "Connect to a database? (y/N)", "")))
	if answer != "y" && answer != "yes" {
		fmt.Println("[Config] Skipped. Use 'connect <dsn>' later to connect")
		return
	}

	dsn := buildDSN(rl, sess.engine)
	if dsn == "" {
		fmt.Println("[Config] No connection configured. Use 'connect <dsn>' later")
		return
	}

	fmt.Printf("[Config] DSN: %s\n", sanitizeDSN(dsn))
	if err := sess.Execute("connect " + dsn); err != nil {
		fmt.Fprintf(os.Stderr, "  Warning: connect failed: %v\n", err)
	}
}

// prompt prints a label with an optional default and returns the user's
// input, or the default if they press enter.
func prompt(rl *readline.Instance, label, defaultVal string) string {
	if rl == nil {
		return defaultVal
	}
	if defaultVal != "" {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s [%s]: ", label, defaultVal))
	} else {
		rl.SetPrompt(fmt.Sprintf("[Config]   %s: ", label))
	}
	defer rl.SetPrompt("predsql> ")
	line, err := rl.ReadLine()
	if err != nil {
		return defaultVal
	}
	if val := strings.TrimSpace(line); val != "" {
		return val
	}
	return defaultVal
}

func buildDSN(rl *readline.Instance, engine string) string {
	switch engine {
	case "sqlite":
		return prompt(rl, "Database path", ":memory:")
	case "mysql":
		return buildMySQLDSN(rl)
	default:
		return buildPostgresDSN(rl)
	}
}

func buildPostgresDSN(rl *readline.Instance) string {
	defaultUser := "postgres"
	if u, err := user.Current(); err == nil && u.Username != "" {
		defaultUser = u.Username
	}

	dbUser := prompt(rl, "User", defaultUser)
	dbPass := prompt(rl, "Password", "")
	host := prompt(rl, "Host", "localhost")
	port := prompt(rl, "Port", "5432")
	dbName := prompt(rl, "Database", dbUser)
	sslMode := prompt(rl, "SSL mode (disable/require/verify-full)", "disable")

	userInfo := url.User(dbUser)
	if dbPass != "" {
		userInfo = url.UserPassword(dbUser, dbPass)
	}
	u := &url.URL{
		Scheme:   "postgres",
		User:     userInfo,
		Host:     host + ":" + port,
		Path:     "/" + dbName,
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}

func buildMySQLDSN(rl *readline.Instance) string {
	dbUser := prompt(rl, "User", "root")
	dbPass := prompt(rl, "Password", "")
	host := prompt(rl, "Host", "localhost")
	port := prompt(rl, "Port", "3306")
	dbName := prompt(rl, "Database", "")
	if dbName == "" {
		return ""
	}

	auth := dbUser
	if dbPass != "" {
		auth += ":" + dbPass
	}
	return fmt.Sprintf("%s@tcp(%s:%s)/%s", auth, host, port, dbName)
}

func isValidEngine(engine string) bool {
	switch engine {
	case "postgres", "mysql", "sqlite":
		return true
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".predsql_history")
}
