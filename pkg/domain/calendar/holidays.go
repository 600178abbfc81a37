package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/aa"
	"github.com/rickar/cal/v2/us"
)

var regions = map[string][]*cal.Holiday{
	"common": {
		aa.NewYear, aa.GoodFriday, aa.EasterMonday, aa.WorkersDay,
		aa.AscensionDay, aa.PentecostMonday, aa.ChristmasDay, aa.ChristmasDay2,
	},
	"us": us.Holidays,
}

// Regions returns the supported holiday region codes.
func Regions() []string {
	out := make([]string, 0, len(regions))
	for r := range regions {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// RegionHolidays reports public holidays of a region.
type RegionHolidays struct {
	region string
	bc     *cal.BusinessCalendar
}

// NewRegionHolidays returns the holiday provider for a region code.
func NewRegionHolidays(region string) (*RegionHolidays, error) {
	hs, ok := regions[strings.ToLower(region)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}
	bc := cal.NewBusinessCalendar()
	bc.AddHoliday(hs...)
	return &RegionHolidays{region: strings.ToLower(region), bc: bc}, nil
}

// Region returns the region code.
func (r *RegionHolidays) Region() string { return r.region }

// Holiday implements HolidayProvider.
func (r *RegionHolidays) Holiday(date time.Time) (string, bool) {
	actual, observed, h := r.bc.IsHoliday(date)
	if !actual && !observed || h == nil {
		return "", false
	}
	return h.Name, true
}

// Span is a holiday provider that is active from a given date onward.
type Span struct {
	From     time.Time
	Provider HolidayProvider
}

// Timeline switches between holiday providers over time, e.g. when a
// resource relocates. Spans must be sorted by From.
type Timeline []Span

// Holiday implements HolidayProvider.
func (tl Timeline) Holiday(date time.Time) (string, bool) {
	var active HolidayProvider
	for _, s := range tl {
		if s.From.After(date) {
			break
		}
		active = s.Provider
	}
	if active == nil {
		return "", false
	}
	return active.Holiday(date)
}
