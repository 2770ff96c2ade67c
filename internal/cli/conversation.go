package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lu-zhengda/unimail/internal/app"
	"github.com/lu-zhengda/unimail/internal/domain"
	"github.com/lu-zhengda/unimail/internal/provider/gmail"
	"github.com/lu-zhengda/unimail/internal/store"
)

func newConversationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversation",
		Aliases: []string{"conv"},
		Short:   "Inspect and update stored conversation summaries",
	}
	cmd.AddCommand(newConversationShowCmd())
	cmd.AddCommand(newConversationMarkReadCmd())
	cmd.AddCommand(newConversationSyncCmd())
	return cmd
}

func newConversationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show the stored summary of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := app.NewConversationService(db, nil, "", "")
			info, err := svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonFlag {
				if info == nil {
					return printJSON(nil)
				}
				return printJSON(toJSONConversation(args[0], info))
			}
			if info == nil {
				fmt.Println("No preview available.")
				return nil
			}
			printConversation(args[0], info)
			return nil
		},
	}
}

func printConversation(id string, info *domain.ConversationInfo) {
	fmt.Printf("Conversation: %s\n", id)
	fmt.Printf("Messages:     %d (%d drafts)\n", info.MessageCount, info.DraftCount)
	fmt.Printf("Snippet:      %s\n", info.Snippet())
	if len(info.Messages) == 0 {
		return
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSENDER\tREAD\tSTARRED")
	for i, m := range info.Messages {
		sender := m.Sender
		if m.IsFromMe() {
			sender = "me"
		}
		fmt.Fprintf(w, "%d\t%s\t%t\t%t\n", i+1, sender, m.Read, m.Starred)
	}
	w.Flush()
}

func newConversationMarkReadCmd() *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "mark-read [id]",
		Short: "Mark every message of a conversation read (or unread)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			svc := app.NewConversationService(db, nil, "", "")
			changed, err := svc.MarkRead(cmd.Context(), args[0], !unread)
			if err != nil {
				return err
			}

			action := "mark-read"
			if unread {
				action = "mark-unread"
			}
			if jsonFlag {
				return printJSON(jsonAction{OK: true, Action: action, ConversationID: args[0], Changed: changed})
			}
			if !changed {
				fmt.Println("Nothing to change.")
				return nil
			}
			fmt.Printf("Conversation %s updated.\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "mark unread instead of read")
	return cmd
}

func newConversationSyncCmd() *cobra.Command {
	var accountFlag string

	cmd := &cobra.Command{
		Use:   "sync [thread-id]",
		Short: "Fetch a Gmail thread and store its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := resolveGmailCredentials(cfg); err != nil {
				return err
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			account, err := resolveAccount(ctx, db, cfg, accountFlag)
			if err != nil {
				return err
			}

			client := gmail.New(account.Email, store.NewKeyringTokenStore())
			svc := app.NewConversationService(db, client, account.ID, account.Email)
			info, err := svc.Sync(ctx, args[0])
			if err != nil {
				return err
			}
			rememberViewed(cfg, account.Email)

			if jsonFlag {
				return printJSON(toJSONConversation(args[0], info))
			}
			printConversation(args[0], info)
			return nil
		},
	}

	cmd.Flags().StringVar(&accountFlag, "account", "", "account to sync with (defaults to config default, then last viewed, then first gmail account)")
	return cmd
}
