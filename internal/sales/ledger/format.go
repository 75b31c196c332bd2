package ledger

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var displayPrinter = message.NewPrinter(language.English)

// FormatAmount renders a currency value for display: rounded half away from zero
// to two places, with thousands grouping. Never feed the result back into arithmetic.
func FormatAmount(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	return sign + groupThousands(whole) + "." + frac
}

// groupThousands inserts separators into a string of decimal digits. The
// digits never pass through a float, so the output is exact at any size.
func groupThousands(whole string) string {
	if n, err := strconv.ParseInt(whole, 10, 64); err == nil {
		return displayPrinter.Sprintf("%d", n)
	}
	var b strings.Builder
	head := len(whole) % 3
	if head == 0 {
		head = 3
	}
	b.WriteString(whole[:head])
	for i := head; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}
	return b.String()
}

// FormattedTotals is Totals rendered for display.
type FormattedTotals struct {
	Net    string `json:"net"`
	Tax    string `json:"tax"`
	Grand  string `json:"grand"`
	Margin string `json:"margin"`
}

// Format renders all totals for display.
func (t Totals) Format() FormattedTotals {
	return FormattedTotals{
		Net:    FormatAmount(t.Net),
		Tax:    FormatAmount(t.Tax),
		Grand:  FormatAmount(t.Grand),
		Margin: FormatAmount(t.Margin),
	}
}
