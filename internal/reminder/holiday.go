package reminder

import (
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

var usFed = cal.NewBusinessCalendar()

func init() {
	usFed.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
}

// IsDayOff reports whether t falls on a weekend or a US federal holiday,
// counting observed dates.
func IsDayOff(t time.Time) bool {
	if cal.IsWeekend(t) {
		return true
	}
	actual, observed, _ := usFed.IsHoliday(t)
	return actual || observed
}
