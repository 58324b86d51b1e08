// Package render prints FreelancePay data for terminals: aligned tables for
// people and JSON, optionally narrowed by a JMESPath query, for scripts.
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/jmespath/go-jmespath"
)

// Format selects how data is printed.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "table" or "json"; the empty string means table.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown output format %q: use table or json", s)
}

const (
	// DefaultCurrency prefixes every amount unless configured otherwise.
	DefaultCurrency = "KSh"

	// DisplayDateLayout is how dates are shown to people.
	DisplayDateLayout = "Jan 2, 2006"

	notProvided  = "Not provided"
	notAvailable = "N/A"
)

// Config configures a Renderer.
type Config struct {
	Format   Format
	Currency string
	// Query is a JMESPath expression applied to JSON output. Setting it
	// implies FormatJSON.
	Query string
}

// Renderer writes data to one writer in one format.
type Renderer struct {
	w        io.Writer
	format   Format
	currency string
	query    *jmespath.JMESPath
}

// New creates a Renderer. It fails when the query does not compile.
func New(w io.Writer, cfg Config) (*Renderer, error) {
	r := &Renderer{w: w, format: cfg.Format, currency: cfg.Currency}
	if r.format == "" {
		r.format = FormatTable
	}
	if r.currency == "" {
		r.currency = DefaultCurrency
	}
	if cfg.Query != "" {
		q, err := jmespath.Compile(cfg.Query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile query: %w", err)
		}
		r.query = q
		r.format = FormatJSON
	}
	return r, nil
}

// Format reports the effective output format.
func (r *Renderer) Format() Format { return r.format }

// Money formats an amount with the configured currency.
func (r *Renderer) Money(v float64) string {
	return Money(r.currency, v)
}

// Money formats v as "<currency> 1,234.00".
func Money(currency string, v float64) string {
	return currency + " " + humanize.FormatFloat("#,###.##", v)
}

// Date formats t as "Jan 2, 2006", or N/A for the zero time.
func Date(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format(DisplayDateLayout)
}

// Percent formats a ratio in [0, 1] as a whole percentage.
func Percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}

// JSON writes v as indented JSON, after applying the query if one is set.
func (r *Renderer) JSON(v any) error {
	if r.query != nil {
		selected, err := r.selectQuery(v)
		if err != nil {
			return err
		}
		v = selected
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	b = append(b, '\n')
	if _, err := r.w.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// selectQuery round-trips v through JSON so the query sees the same field
// names the output would have.
func (r *Renderer) selectQuery(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode output: %w", err)
	}
	var data any
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("failed to decode output: %w", err)
	}
	selected, err := r.query.Search(data)
	if err != nil {
		return nil, fmt.Errorf("jmespath: %w", err)
	}
	return selected, nil
}

// Line writes one line of plain text. JSON output ignores it.
func (r *Renderer) Line(format string, args ...any) error {
	if r.format == FormatJSON {
		return nil
	}
	_, err := fmt.Fprintf(r.w, format+"\n", args...)
	return err
}
