package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

func newTransactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Inspect ledger transactions",
	}
	cmd.AddCommand(
		newTransactionsListCmd(),
		newTransactionsAddCmd(),
	)
	return cmd
}

func newTransactionsListCmd() *cobra.Command {
	var cursor string
	var pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if cursor != "" {
				q.Set("cursor", cursor)
			}
			if pageSize > 0 {
				q.Set("page_size", strconv.Itoa(pageSize))
			}
			path := "/api/v1/transactions/"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			resp, err := client.Get(path)
			if err != nil {
				return fmt.Errorf("list transactions: %w", err)
			}

			var data []map[string]any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(data) == 0 {
				fmt.Println("No transactions found.")
				return nil
			}

			fmt.Printf("%-42s  %-42s  %-6s  %10s  %s\n", "ID", "ACCOUNT", "KIND", "AMOUNT", "CREATED")
			fmt.Printf("%-42s  %-42s  %-6s  %10s  %s\n", "----", "-------", "----", "------", "-------")
			for _, txn := range data {
				id, _ := txn["id"].(string)
				account, _ := txn["account"].(string)
				kind, _ := txn["kind"].(string)
				amount, _ := txn["amount"].(float64)
				created, _ := txn["created"].(float64)
				fmt.Printf("%-42s  %-42s  %-6s  %10d  %s\n", id, account, kind, int64(amount), formatStamp(created))
			}

			if resp.NextCursor != nil && *resp.NextCursor != "" {
				fmt.Printf("\n(next page: --cursor %s)\n", *resp.NextCursor)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&cursor, "cursor", "", "Resume listing from an opaque cursor")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Results per page")
	return cmd
}

func newTransactionsAddCmd() *cobra.Command {
	var memo string

	cmd := &cobra.Command{
		Use:   "add <account_id> <credit|debit> <amount>",
		Short: "Record a ledger entry against an account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("amount must be an integer: %w", err)
			}

			req := map[string]any{
				"account": args[0],
				"kind":    args[1],
				"amount":  amount,
			}
			if memo != "" {
				req["memo"] = memo
			}

			resp, err := client.Post("/api/v1/transactions/", req)
			if err != nil {
				return fmt.Errorf("create transaction: %w", err)
			}

			var data map[string]any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			id, ok := data["id"].(string)
			if !ok {
				return fmt.Errorf("transaction response missing 'id' field")
			}
			fmt.Printf("Transaction created: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&memo, "memo", "", "Free-form note stored with the entry")
	return cmd
}
