package lib

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// IndexDateLayout is the dd/mm/yyyy layout accepted on the command line.
const IndexDateLayout = "2/1/2006"

// IndexName returns the page title and file name of the weekly index for date.
// The week is the ISO-8601 week number; the year is the calendar year of date.
func IndexName(date time.Time) (title, filename string) {
	_, week := date.ISOWeek()
	year := date.Year()
	title = fmt.Sprintf("ML NEWS / %d / %s week", year, humanize.Ordinal(week))
	filename = fmt.Sprintf("index_%d_%02d.html", year, week)
	return title, filename
}

// ParseIndexDate parses a dd/mm/yyyy date.
func ParseIndexDate(s string) (time.Time, error) {
	t, err := time.Parse(IndexDateLayout, s)
	if err != nil {
		return time.Time{}, errors.Errorf("date must be in the format dd/mm/yyyy, got %q", s)
	}
	return t, nil
}
