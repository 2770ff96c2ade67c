package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/unimail/internal/app"
	"github.com/lu-zhengda/unimail/internal/config"
	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider"
	"github.com/lu-zhengda/unimail/internal/provider/email"
	"github.com/lu-zhengda/unimail/internal/provider/gmail"
	"github.com/lu-zhengda/unimail/internal/provider/mock"
	"github.com/lu-zhengda/unimail/internal/registry"
	"github.com/lu-zhengda/unimail/internal/store"
	"github.com/lu-zhengda/unimail/internal/store/sqlite"
)

var (
	// version is set via ldflags at build time.
	version = "dev"
	cfgFile string

	// jsonFlag enables JSON output for all commands.
	jsonFlag bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "unimail",
		Short:   "Unified mail accounts and conversation summaries",
		Long:    "unimail keeps a unified registry of mail accounts from Gmail, Email/Exchange and mock sources, and stores compact conversation summaries.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if shell, _ := cmd.Flags().GetString("generate-completion"); shell != "" {
				switch shell {
				case "bash":
					return cmd.Root().GenBashCompletion(os.Stdout)
				case "zsh":
					return cmd.Root().GenZshCompletion(os.Stdout)
				case "fish":
					return cmd.Root().GenFishCompletion(os.Stdout, true)
				default:
					return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
				}
			}
			return cmd.Help()
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("unimail %s\n", version))
	root.CompletionOptions.DisableDefaultCmd = true
	root.Flags().String("generate-completion", "", "Generate shell completion (bash, zsh, fish)")
	root.Flags().MarkHidden("generate-completion")
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	root.PersistentFlags().BoolVar(&jsonFlag, "json", false, "output in JSON format")
	root.AddCommand(newAccountsCmd())
	root.AddCommand(newConversationCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// openDB creates the data directory and opens the SQLite database.
func openDB() (*sqlite.DB, error) {
	dataDir := config.DataDir()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "unimail.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig loads the application configuration from the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// resolveGmailCredentials sets Gmail OAuth credentials using the first
// available source: config file, then environment variables.
func resolveGmailCredentials(cfg *config.Config) error {
	if cfg.Gmail.ClientID != "" && cfg.Gmail.ClientSecret != "" {
		gmail.SetCredentials(cfg.Gmail.ClientID, cfg.Gmail.ClientSecret)
		return nil
	}

	clientID := os.Getenv("GMAIL_CLIENT_ID")
	clientSecret := os.Getenv("GMAIL_CLIENT_SECRET")
	if clientID != "" && clientSecret != "" {
		gmail.SetCredentials(clientID, clientSecret)
		return nil
	}

	return gmail.EnsureCredentials()
}

// newDiscovery wires the configured account sources to a fresh registry
// backed by db.
func newDiscovery(cfg *config.Config, db *sqlite.DB) (*app.Discovery, error) {
	timeout, err := cfg.Discovery.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	sources := make([]provider.AccountSource, 0, len(cfg.Discovery.Sources))
	for _, name := range cfg.Discovery.Sources {
		switch domain.Source(name) {
		case domain.SourceGmail:
			tokens := store.NewKeyringTokenStore()
			var profile gmail.ProfileFunc
			if cfg.Gmail.VerifyProfile {
				if err := resolveGmailCredentials(cfg); err != nil {
					return nil, err
				}
				profile = gmail.KeyringProfile(tokens)
			}
			sources = append(sources, gmail.NewSource(db, tokens, profile))
		case domain.SourceEmail:
			sources = append(sources, email.New(db))
		case domain.SourceMock:
			sources = append(sources, mock.New())
		default:
			return nil, fmt.Errorf("unknown discovery source %q", name)
		}
	}

	return &app.Discovery{
		Registry: registry.New(cfg.Registry.Authority),
		Sources:  sources,
		Cache:    db,
		Timeout:  timeout,
	}, nil
}

// configPath returns the config file in use.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return filepath.Join(config.ConfigDir(), "config.toml")
}

// resolveAccount picks the Gmail account to use: the explicit flag, then
// the account preferences from the config, then the first configured Gmail
// account. A preference naming a removed account is skipped.
func resolveAccount(ctx context.Context, db *sqlite.DB, cfg *config.Config, flag string) (*domain.Account, error) {
	accounts, err := db.ListAccounts(ctx, string(domain.SourceGmail))
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no gmail accounts configured; run 'unimail accounts add' first")
	}
	return pickAccount(accounts, flag, cfg.Accounts.Preferred())
}

func pickAccount(accounts []domain.Account, flag string, preferred []string) (*domain.Account, error) {
	find := func(want string) *domain.Account {
		for i := range accounts {
			if accounts[i].ID == want || accounts[i].Email == want {
				return &accounts[i]
			}
		}
		return nil
	}
	if flag != "" {
		if a := find(flag); a != nil {
			return a, nil
		}
		return nil, fmt.Errorf("account not found: %s", flag)
	}
	for _, want := range preferred {
		if a := find(want); a != nil {
			return a, nil
		}
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no gmail accounts configured; run 'unimail accounts add' first")
	}
	return &accounts[0], nil
}

// rememberViewed records address as the last viewed account.
func rememberViewed(cfg *config.Config, address string) {
	if cfg.Accounts.LastViewed == address {
		return
	}
	cfg.Accounts.LastViewed = address
	if err := config.Save(configPath(), cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not record last viewed account: %v\n", err)
	}
}
