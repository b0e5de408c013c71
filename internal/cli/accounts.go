package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func newAccountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage ledger accounts",
	}
	cmd.AddCommand(
		newAccountsListCmd(),
		newAccountsCreateCmd(),
		newAccountsGetCmd(),
		newAccountsDeleteCmd(),
	)
	return cmd
}

func newAccountsListCmd() *cobra.Command {
	var page int
	var pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if page > 0 {
				q.Set("page", strconv.Itoa(page))
			}
			if pageSize > 0 {
				q.Set("page_size", strconv.Itoa(pageSize))
			}
			path := "/api/v1/accounts/"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			resp, err := client.Get(path)
			if err != nil {
				return fmt.Errorf("list accounts: %w", err)
			}

			var data []map[string]any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			if len(data) == 0 {
				fmt.Println("No accounts found.")
				return nil
			}

			fmt.Printf("%-42s  %-20s  %-8s  %12s\n", "ID", "NAME", "CURRENCY", "BALANCE")
			fmt.Printf("%-42s  %-20s  %-8s  %12s\n", "----", "-----", "--------", "-------")
			for _, acc := range data {
				id, _ := acc["id"].(string)
				name, _ := acc["name"].(string)
				currency, _ := acc["currency"].(string)
				balance, _ := acc["balance"].(float64)
				fmt.Printf("%-42s  %-20s  %-8s  %12d\n", id, name, currency, int64(balance))
			}

			if resp.Count != nil && *resp.Count > len(data) {
				fmt.Printf("\n(%d of %d shown)\n", len(data), *resp.Count)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Results per page")
	return cmd
}

func newAccountsCreateCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": args[0]}
			if currency != "" {
				req["currency"] = currency
			}

			resp, err := client.Post("/api/v1/accounts/", req)
			if err != nil {
				return fmt.Errorf("create account: %w", err)
			}

			var data map[string]any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}
			id, ok := data["id"].(string)
			if !ok {
				return fmt.Errorf("account response missing 'id' field")
			}
			fmt.Printf("Account created: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "", "ISO 4217 currency code (default USD)")
	return cmd
}

func newAccountsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <account_id>",
		Short: "Show a single account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			resp, err := client.Get("/api/v1/accounts/" + id)
			if err != nil {
				return fmt.Errorf("get account: %w", err)
			}

			var data map[string]any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			name, _ := data["name"].(string)
			currency, _ := data["currency"].(string)
			balance, _ := data["balance"].(float64)

			fmt.Printf("Account: %s\n", id)
			fmt.Printf("  Name:     %s\n", name)
			fmt.Printf("  Currency: %s\n", currency)
			fmt.Printf("  Balance:  %d\n", int64(balance))
			if created, ok := data["created"].(float64); ok {
				fmt.Printf("  Created:  %s\n", formatStamp(created))
			}
			return nil
		},
	}
}

func newAccountsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <account_id>",
		Short: "Delete an empty account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			if _, err := client.Delete("/api/v1/accounts/" + id); err != nil {
				return fmt.Errorf("delete account: %w", err)
			}
			fmt.Printf("Account deleted: %s\n", id)
			return nil
		},
	}
}

// formatStamp renders an epoch-millisecond timestamp for display.
func formatStamp(ms float64) string {
	return time.UnixMilli(int64(ms)).UTC().Format(time.RFC3339)
}
