package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/simonvc/tradebook/internal/ledger"
)

// moneyFlag parses a major-unit amount flag ("1250.50") into minor units.
func moneyFlag(name, value string) (int64, error) {
	m, err := ledger.ParseMoney(value)
	if err != nil {
		return 0, fmt.Errorf("--%s: %w", name, err)
	}
	return int64(m), nil
}

func quantityFlag(name, value string) (decimal.Decimal, error) {
	q, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("--%s: invalid quantity %q", name, value)
	}
	return q, nil
}

// optionalInt returns a pointer to v only when the flag was set.
func optionalInt(cmd *cobra.Command, name string, v int) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	return &v
}

func money(m ledger.Money) string {
	if m == 0 {
		return "-"
	}
	return m.String()
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(ledger.DateLayout)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-2] + ".."
	}
	return s
}
