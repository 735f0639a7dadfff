// Package csvcodec converts records to and from the four-column CSV table
// shared with therapists: "Fecha","Hora","Tipo","Detalles".
package csvcodec

import (
	"fmt"
	"strings"

	"github.com/hpungsan/pelvilog/internal/record"
)

// BOM is written before the CSV text when it goes to a file so that
// spreadsheet applications detect UTF-8.
const BOM = "\uFEFF"

// Header is the first row of every export.
var Header = []string{"Fecha", "Hora", "Tipo", "Detalles"}

// Encode renders records in the given order, one row each, after the header.
// Fields are always double-quoted; embedded quotes are written as-is.
func Encode(records []record.Record) string {
	entries := make([]record.Entry, len(records))
	for i, r := range records {
		entries[i] = r.Entry
	}
	return EncodeEntries(entries)
}

// EncodeEntries is Encode for entries that have no identifier yet.
func EncodeEntries(entries []record.Entry) string {
	var b strings.Builder
	writeRow(&b, Header)
	for _, e := range entries {
		b.WriteByte('\n')
		writeRow(&b, []string{e.Date, e.Time, string(e.Type()), Details(e.Details)})
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(c)
		b.WriteByte('"')
	}
}

// Details renders the variant-specific fields in the fixed sub-format of the
// "Detalles" column.
func Details(d record.Details) string {
	switch v := d.(type) {
	case record.FluidIntake:
		return fmt.Sprintf("%dml - %s", v.Amount, v.DrinkType.Label())
	case record.Urination:
		return fmt.Sprintf("%s - A tiempo: %s - Vaciado: %s",
			v.Amount.Label(), record.YesNo(v.ArrivedOnTime), record.YesNo(v.CompleteEmptying))
	case record.Leakage:
		return fmt.Sprintf("%s - %s - Intensidad: %d/5",
			v.Amount.Label(), v.Circumstance.Label(), v.Intensity)
	case record.Urgency:
		return fmt.Sprintf("Intensidad: %d/10 - Llegó: %s - Aviso: %s",
			v.Intensity, v.ReachedBathroom.Label(), v.WarningTime.Label())
	case record.PadUse:
		return fmt.Sprintf("%s - %s", v.PadType.Label(), v.Condition.Label())
	}
	return ""
}
