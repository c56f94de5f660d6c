package locale

import (
	"fmt"
	"time"
)

// Table holds the localized calendar vocabulary used when formatting labels
// for the display device. Weekday tables are Monday-first, matching the
// device layout. The table is plain data: callers supply it through
// configuration and the formatting code never consults the system locale.
type Table struct {
	WeekdaysShort [7]string
	WeekdaysLong  [7]string
	Months        [12]string
	AllDayLabel   string
}

// Finnish is the default vocabulary of the original deployment.
func Finnish() Table {
	return Table{
		WeekdaysShort: [7]string{"Ma", "Ti", "Ke", "To", "Pe", "La", "Su"},
		WeekdaysLong:  [7]string{"Maanantai", "Tiistai", "Keskiviikko", "Torstai", "Perjantai", "Lauantai", "Sunnuntai"},
		Months: [12]string{
			"Tammikuu", "Helmikuu", "Maaliskuu", "Huhtikuu", "Toukokuu", "Kesäkuu",
			"Heinäkuu", "Elokuu", "Syyskuu", "Lokakuu", "Marraskuu", "Joulukuu",
		},
		AllDayLabel: "Koko päivä",
	}
}

// FromSlices builds a Table from configuration slices, validating lengths.
// Empty slices fall back to the Finnish defaults so a partial locale section
// still produces a usable table.
func FromSlices(weekdaysShort, weekdaysLong, months []string, allDayLabel string) (Table, error) {
	table := Finnish()
	if len(weekdaysShort) > 0 {
		if len(weekdaysShort) != 7 {
			return Table{}, fmt.Errorf("locale weekdays_short must have 7 entries, got %d", len(weekdaysShort))
		}
		copy(table.WeekdaysShort[:], weekdaysShort)
	}
	if len(weekdaysLong) > 0 {
		if len(weekdaysLong) != 7 {
			return Table{}, fmt.Errorf("locale weekdays_long must have 7 entries, got %d", len(weekdaysLong))
		}
		copy(table.WeekdaysLong[:], weekdaysLong)
	}
	if len(months) > 0 {
		if len(months) != 12 {
			return Table{}, fmt.Errorf("locale months must have 12 entries, got %d", len(months))
		}
		copy(table.Months[:], months)
	}
	if allDayLabel != "" {
		table.AllDayLabel = allDayLabel
	}
	return table, nil
}

func (t Table) WeekdayShort(d time.Weekday) string {
	return t.WeekdaysShort[mondayIndex(d)]
}

func (t Table) WeekdayLong(d time.Weekday) string {
	return t.WeekdaysLong[mondayIndex(d)]
}

func (t Table) Month(m time.Month) string {
	return t.Months[m-1]
}

// mondayIndex converts Go's Sunday-first weekday to a Monday-first index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
