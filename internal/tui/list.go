package tui

import "github.com/simonvc/tradebook/internal/ledger"

// window returns the [start, end) slice of n rows that keeps cursor visible
// in height rows.
func window(cursor, n, height int) (int, int) {
	maxRows := height - 4
	if maxRows < 1 {
		maxRows = 10
	}
	start := 0
	if cursor >= maxRows {
		start = cursor - maxRows + 1
	}
	end := start + maxRows
	if end > n {
		end = n
	}
	return start, end
}

func moveCursor(cursor, n int, up bool) int {
	if up {
		if cursor > 0 {
			return cursor - 1
		}
		return cursor
	}
	if cursor < n-1 {
		return cursor + 1
	}
	return cursor
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n-2] + ".."
	}
	return s
}

func amount(m ledger.Money) string {
	if m == 0 {
		return "-"
	}
	return m.String()
}
