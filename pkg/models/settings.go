package models

// Settings holds the session-wide company and billing configuration. It is a
// plain value: updates replace the whole record rather than mutating fields
// in place. Every field may be empty; consumers render blanks rather than
// failing.
type Settings struct {
	Currency       string  // 3-letter currency code, e.g. "USD"
	TaxRate        float64 // percentage, non-negative
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string
}
