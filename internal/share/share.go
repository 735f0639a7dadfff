// Package share builds the plain-text summaries sent to a therapist over
// messaging apps. Both layouts are pure functions of their arguments.
package share

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hpungsan/pelvilog/internal/record"
)

const (
	summaryTitle = "📊 *Resumen de Terapia de Suelo Pélvico*"
	footer       = "_Generado con Mi Diario de Hidratación 💧_"
)

type dayTotals struct {
	date       string
	fluidML    int
	urinations int
	leakages   int
	urgencies  int
}

// Summary groups records by date label and prints per-day totals. start and
// end are printed as given.
func Summary(records []record.Record, start, end string) string {
	byDate := make(map[string]*dayTotals)
	var days []*dayTotals
	for _, r := range records {
		d, ok := byDate[r.Date]
		if !ok {
			d = &dayTotals{date: r.Date}
			byDate[r.Date] = d
			days = append(days, d)
		}
		switch v := r.Details.(type) {
		case record.FluidIntake:
			d.fluidML += v.Amount
		case record.Urination:
			d.urinations++
		case record.Leakage:
			d.leakages++
		case record.Urgency:
			d.urgencies++
		case record.PadUse:
		}
	}

	// Days are ordered by their DD/MM/YYYY label as a string.
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].date < days[j].date
	})

	var b strings.Builder
	b.WriteString(summaryTitle + "\n\n")
	fmt.Fprintf(&b, "📅 Período: %s - %s\n", start, end)
	fmt.Fprintf(&b, "📝 Total de registros: %d\n\n", len(records))

	for _, d := range days {
		fmt.Fprintf(&b, "📆 *%s*\n", d.date)
		fmt.Fprintf(&b, "💧 Ingesta: %dml\n", d.fluidML)
		fmt.Fprintf(&b, "🚽 Micciones: %d\n", d.urinations)
		if d.leakages > 0 {
			fmt.Fprintf(&b, "💦 Pérdidas: %d\n", d.leakages)
		}
		if d.urgencies > 0 {
			fmt.Fprintf(&b, "⚡ Urgencias: %d\n", d.urgencies)
		}
		b.WriteString("\n")
	}

	b.WriteString(footer)
	return b.String()
}

// Detailed lists one day's records in time-of-day order.
func Detailed(records []record.Record, day string) string {
	sorted := make([]record.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		mi, okI := minutes(sorted[i].Time)
		mj, okJ := minutes(sorted[j].Time)
		if okI != okJ {
			return okI
		}
		return okI && mi < mj
	})

	var b strings.Builder
	fmt.Fprintf(&b, "📋 *Registro detallado - %s*\n", day)
	fmt.Fprintf(&b, "📝 Total de registros: %d\n\n", len(records))

	for _, r := range sorted {
		fmt.Fprintf(&b, "🕐 %s - %s\n", r.Time, Line(r.Details))
	}
	if len(sorted) > 0 {
		b.WriteString("\n")
	}

	b.WriteString(footer)
	return b.String()
}

// Line renders the inline description of one record, emoji included.
func Line(d record.Details) string {
	switch v := d.(type) {
	case record.FluidIntake:
		return fmt.Sprintf("💧 Ingesta: %dml de %s", v.Amount, v.DrinkType.Label())
	case record.Urination:
		s := "🚽 Micción: " + v.Amount.Label()
		if !v.ArrivedOnTime {
			s += " ⚠️ No llegó a tiempo"
		}
		return s
	case record.Leakage:
		return fmt.Sprintf("💦 Pérdida: %s (%s) - Intensidad %d/5",
			v.Amount.Label(), v.Circumstance.Label(), v.Intensity)
	case record.Urgency:
		return fmt.Sprintf("⚡ Urgencia: %d/10 - %s - Aviso: %s",
			v.Intensity, v.ReachedBathroom.Label(), v.WarningTime.Label())
	case record.PadUse:
		return fmt.Sprintf("🩹 Compresa: %s - %s", v.PadType.Label(), v.Condition.Label())
	}
	return ""
}

func minutes(clock string) (int, bool) {
	t, err := time.Parse(record.TimeLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
