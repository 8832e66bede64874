package invoicepdf

import "fmt"

// FormatCents renders an amount in minor currency units as a fixed
// two-decimal string. All arithmetic stays in integers so repeated
// renders can never drift.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FormatAmount appends the currency code to a formatted amount.
func FormatAmount(cents int64, currency string) string {
	return FormatCents(cents) + " " + currency
}
