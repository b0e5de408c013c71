package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newTransferCmd() *cobra.Command {
	var memo string

	cmd := &cobra.Command{
		Use:   "transfer <from_account> <to_account> <amount>",
		Short: "Move funds between two accounts",
		Long:  "Atomically debit one account and credit another, recording both ledger entries.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("amount must be an integer: %w", err)
			}

			req := map[string]any{
				"from":   args[0],
				"to":     args[1],
				"amount": amount,
			}
			if memo != "" {
				req["memo"] = memo
			}

			resp, err := client.Post("/api/v1/transfers", req)
			if err != nil {
				return fmt.Errorf("transfer: %w", err)
			}

			// Action responses carry their extra keys beside "status" rather
			// than under "data".
			var body map[string]any
			if err := json.Unmarshal(resp.Raw, &body); err != nil {
				return fmt.Errorf("parse response: %w", err)
			}

			fmt.Printf("Transferred %d from %s to %s\n", amount, args[0], args[1])
			if debit, ok := body["debit"].(string); ok {
				fmt.Printf("  Debit:  %s\n", debit)
			}
			if credit, ok := body["credit"].(string); ok {
				fmt.Printf("  Credit: %s\n", credit)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&memo, "memo", "", "Free-form note stored with both entries")
	return cmd
}
