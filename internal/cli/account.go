package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider/gmail"
	"github.com/lu-zhengda/unimail/internal/store"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage mail accounts and the unified account registry",
	}
	cmd.AddCommand(newAccountAddCmd())
	cmd.AddCommand(newAccountListCmd())
	cmd.AddCommand(newAccountRemoveCmd())
	cmd.AddCommand(newAccountRefreshCmd())
	cmd.AddCommand(newAccountQueryCmd())
	return cmd
}

func newAccountAddCmd() *cobra.Command {
	var (
		address      string
		providerName string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a Gmail account via OAuth, or register an Email/Exchange account",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			switch domain.Source(providerName) {
			case domain.SourceGmail:
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				if err := resolveGmailCredentials(cfg); err != nil {
					return err
				}

				tokenStore := store.NewKeyringTokenStore()

				// Without an address, authenticate under a temporary key and
				// move the token once the profile reveals the real address.
				key := address
				if key == "" {
					key = fmt.Sprintf("gmail-%d", time.Now().UnixNano())
				}
				client := gmail.New(key, tokenStore)

				if !jsonFlag {
					fmt.Println("Starting Gmail OAuth flow...")
				}
				if err := client.Authenticate(ctx); err != nil {
					return fmt.Errorf("failed to authenticate: %w", err)
				}

				if address == "" {
					profileEmail, err := client.GetProfile(ctx)
					if err != nil {
						return fmt.Errorf("failed to get profile email: %w", err)
					}
					address = profileEmail

					token, err := tokenStore.LoadToken(key)
					if err != nil {
						return fmt.Errorf("failed to reload token: %w", err)
					}
					if err := tokenStore.SaveToken(address, token); err != nil {
						return fmt.Errorf("failed to re-save token: %w", err)
					}
					if delErr := tokenStore.DeleteToken(key); delErr != nil {
						fmt.Fprintf(os.Stderr, "Warning: failed to delete temporary token: %v\n", delErr)
					}
				}
			case domain.SourceEmail:
				if address == "" {
					return fmt.Errorf("--email is required for email accounts")
				}
			default:
				return fmt.Errorf("unsupported provider: %s (use gmail or email)", providerName)
			}

			account := &domain.Account{
				ID:          address,
				Email:       address,
				Provider:    providerName,
				DisplayName: address,
				CreatedAt:   time.Now(),
			}
			if err := db.CreateAccount(ctx, account); err != nil {
				return fmt.Errorf("failed to store account: %w", err)
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "add", Email: address})
			}
			fmt.Printf("Account added: %s\n", address)
			return nil
		},
	}

	cmd.Flags().StringVar(&address, "email", "", "email address (auto-detected for gmail if omitted)")
	cmd.Flags().StringVar(&providerName, "provider", "gmail", "account provider (gmail, email)")
	return cmd
}

func newAccountListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts in the unified registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			d, err := newDiscovery(cfg, db)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			n, err := d.Restore(ctx)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			if n == 0 {
				d.ProviderCreated(ctx)
			}

			accounts := d.Registry.List()
			if jsonFlag {
				return printJSON(toJSONAccounts(accounts))
			}

			if len(accounts) == 0 {
				fmt.Println("No accounts found. Run 'unimail accounts add' to add one.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSOURCE\tCAPABILITIES")
			for _, a := range accounts {
				fmt.Fprintf(w, "%d\t%s\t%s\t%#x\n", a.ID, a.Name, a.Source, int64(a.Capabilities))
			}
			return w.Flush()
		},
	}
}

func newAccountRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Rediscover accounts from every configured source",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			d, err := newDiscovery(cfg, db)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err := d.Restore(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}
			report := d.ProviderCreated(ctx)

			if jsonFlag {
				return printJSON(toJSONReport(report))
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SOURCE\tACCOUNTS\tSTORED\tREMOVED\tSTATUS")
			for _, r := range report.Results {
				status := "ok"
				if r.Err != nil {
					status = r.Err.Error()
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\n", r.Source, r.Accounts, r.Added, r.Removed, status)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Printf("%d accounts registered.\n", d.Registry.Len())
			return nil
		},
	}
}

func newAccountQueryCmd() *cobra.Command {
	var columns string

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print the registry as a table of account columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			d, err := newDiscovery(cfg, db)
			if err != nil {
				return err
			}
			if _, err := d.Restore(cmd.Context()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			}

			var projection []string
			if columns != "" {
				projection = strings.Split(columns, ",")
			}
			table, err := d.Registry.Query(projection)
			if err != nil {
				return fmt.Errorf("failed to query registry: %w", err)
			}

			if jsonFlag {
				return printJSON(toJSONTable(table))
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, strings.Join(table.Columns, "\t"))
			for _, row := range table.Rows {
				cells := make([]string, len(row))
				for i, v := range row {
					cells[i] = fmt.Sprint(v)
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&columns, "columns", "", "comma-separated columns to include (default all)")
	return cmd
}

func newAccountRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [email]",
		Short: "Remove an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			accounts, err := db.ListAccounts(ctx, "")
			if err != nil {
				return fmt.Errorf("failed to list accounts: %w", err)
			}

			var target *domain.Account
			for i := range accounts {
				if accounts[i].Email == address || accounts[i].ID == address {
					target = &accounts[i]
					break
				}
			}
			if target == nil {
				return fmt.Errorf("account not found: %s", address)
			}

			if err := db.DeleteAccount(ctx, target.ID); err != nil {
				return fmt.Errorf("failed to delete account: %w", err)
			}

			if target.Provider == string(domain.SourceGmail) {
				if err := store.NewKeyringTokenStore().DeleteToken(target.Email); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: could not remove token from keyring: %v\n", err)
				}
			}

			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: "remove", Email: target.Email})
			}
			fmt.Printf("Account removed: %s\n", target.Email)
			return nil
		},
	}
}
