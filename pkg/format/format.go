// Package format turns measure values and category cells into display text.
//
// Host format strings are interpreted loosely: a "%" anywhere makes the value
// a percentage, a "," asks for thousands grouping, the digits after the "."
// give the default precision, and a leading currency symbol is kept as a
// prefix. Grouping uses golang.org/x/text so separators follow the printer
// language.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/matzehuels/dotplot/pkg/dataview"
)

// DefaultNumeric is the format applied to value columns without one.
const DefaultNumeric = "#,0.00"

// DefaultDate is the layout used for date columns without a Go layout format.
const DefaultDate = "2006-01-02"

// Display unit divisors. Auto picks one from the magnitude of a reference value.
const (
	UnitsAuto     = 0
	UnitsNone     = 1
	UnitsThousand = 1e3
	UnitsMillion  = 1e6
	UnitsBillion  = 1e9
	UnitsTrillion = 1e12
)

var unitSuffix = map[float64]string{
	UnitsThousand: "K",
	UnitsMillion:  "M",
	UnitsBillion:  "bn",
	UnitsTrillion: "T",
}

// Options configures a [Formatter].
type Options struct {
	// Format is the host format string of the column.
	Format string
	// Precision overrides the decimal places implied by Format.
	Precision *int
	// Units is the display unit divisor; UnitsAuto derives it from Reference.
	Units float64
	// Reference is the magnitude used to pick auto units, usually the domain max.
	Reference float64
	// Language selects grouping separators; the zero value means English.
	Language language.Tag
}

// Formatter formats numbers for one axis or legend.
type Formatter struct {
	percent   bool
	group     bool
	prefix    string
	precision int
	units     float64
	suffix    string
	printer   *message.Printer
}

// New builds a formatter from opts.
func New(opts Options) *Formatter {
	f := &Formatter{
		percent:   IsPercent(opts.Format),
		group:     strings.Contains(opts.Format, ","),
		prefix:    currencyPrefix(opts.Format),
		precision: formatPrecision(opts.Format),
	}
	if opts.Precision != nil {
		f.precision = *opts.Precision
	}

	f.units = opts.Units
	if f.units == UnitsAuto {
		f.units = AutoUnits(opts.Reference)
	}
	if f.percent {
		f.units = UnitsNone
	}
	f.suffix = unitSuffix[f.units]

	tag := opts.Language
	if tag == language.Und {
		tag = language.English
	}
	f.printer = message.NewPrinter(tag)
	return f
}

// Format renders v.
func (f *Formatter) Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	if f.percent {
		v *= 100
	} else if f.units > UnitsNone {
		v /= f.units
	}

	var s string
	if f.group || f.suffix != "" {
		s = f.printer.Sprintf("%.*f", f.precision, v)
	} else {
		s = strconv.FormatFloat(v, 'f', f.precision, 64)
	}
	if f.percent {
		s += "%"
	}
	s += f.suffix
	if f.prefix != "" {
		if strings.HasPrefix(s, "-") {
			return "-" + f.prefix + s[1:]
		}
		return f.prefix + s
	}
	return s
}

// Number formats v with the given host format string and no display units.
func Number(v float64, format string) string {
	if format == "" {
		format = DefaultNumeric
	}
	return New(Options{Format: format, Units: UnitsNone}).Format(v)
}

// Cell formats one category cell according to its column. Date columns use
// the column format when it is a Go layout, numbers keep their shortest form,
// and everything else is rendered as text.
func Cell(v any, col dataview.Column) string {
	if v == nil {
		return ""
	}
	if col.IsDate() {
		if t, ok := dataview.Time(v); ok {
			return Date(t, col.Format)
		}
	}
	if col.Format != "" && col.Type == dataview.TypeNumeric {
		if n, ok := dataview.Number(v); ok {
			return Number(n, col.Format)
		}
	}
	return dataview.String(v)
}

// Date formats t with layout when it looks like a Go layout, else [DefaultDate].
func Date(t time.Time, layout string) string {
	if !strings.Contains(layout, "2006") && !strings.Contains(layout, "Jan") && !strings.Contains(layout, "15:04") {
		layout = DefaultDate
	}
	return t.Format(layout)
}

// AutoUnits picks the display unit divisor for a magnitude.
func AutoUnits(v float64) float64 {
	v = math.Abs(v)
	switch {
	case v >= UnitsTrillion:
		return UnitsTrillion
	case v >= UnitsBillion:
		return UnitsBillion
	case v >= UnitsMillion:
		return UnitsMillion
	case v >= UnitsThousand:
		return UnitsThousand
	}
	return UnitsNone
}

// IsPercent reports whether a host format string formats percentages.
func IsPercent(format string) bool {
	return strings.Contains(format, "%")
}

func formatPrecision(format string) int {
	i := strings.IndexByte(format, '.')
	if i < 0 {
		return 0
	}
	n := 0
	for _, r := range format[i+1:] {
		if r != '0' && r != '#' {
			break
		}
		n++
	}
	return n
}

func currencyPrefix(format string) string {
	for _, p := range []string{"$", "€", "£", "¥"} {
		if strings.HasPrefix(format, p) || strings.HasPrefix(format, `\`+p) {
			return p
		}
	}
	return ""
}
