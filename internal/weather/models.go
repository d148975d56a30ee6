package weather

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MinYear is the earliest year the dashboard accepts.
const MinYear = 1950

// Coordinate is a point on the map, either clicked or resolved from a place name.
type Coordinate struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

func (c Coordinate) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// Validate checks that the coordinate lies within the valid lat/lon ranges.
func (c Coordinate) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinate, err)
	}
	return nil
}

// Place is a resolved location.
type Place struct {
	Name       string     `json:"name"`
	Coordinate Coordinate `json:"coordinate"`
}

// Date is a calendar day as selected by the user.
type Date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// NewDate builds a Date, rejecting combinations that do not exist (e.g. Feb 30).
func NewDate(year, month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %s", ErrInvalidDate, d)
	}
	return d, nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// YearRangeError is an ErrInvalidDate whose year lies outside the selectable range.
type YearRangeError struct {
	Year, Min, Max int
}

func (e *YearRangeError) Error() string {
	return fmt.Sprintf("year must be between %d and %d", e.Min, e.Max)
}

func (e *YearRangeError) Unwrap() error { return ErrInvalidDate }

// Validate checks the date exists and that the year is in [MinYear, now.Year()].
// now should already be in the zone the user's calendar is in.
func (d Date) Validate(now time.Time) error {
	if _, err := NewDate(d.Year, d.Month, d.Day); err != nil {
		return err
	}
	if d.Year < MinYear || d.Year > now.Year() {
		return &YearRangeError{Year: d.Year, Min: MinYear, Max: now.Year()}
	}
	return nil
}

// Start returns 00:00 of the day in loc.
func (d Date) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns the date n days away.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Start(time.UTC).AddDate(0, 0, n))
}

// String formats the date as YYYY-MM-DD, the format upstream APIs expect.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Source tells which upstream window a DayWeather came from.
type Source string

const (
	SourceArchive  Source = "archive"
	SourceForecast Source = "forecast"
)

// HourlyRecord is one hour of a DayWeather.
type HourlyRecord struct {
	Time            string  `json:"time"` // HH:MM, local to the request timezone
	Hour            int     `json:"hour"`
	TemperatureC    float64 `json:"temperatureC"`
	PrecipitationMM float64 `json:"precipitationMm"`
	ConditionCode   int     `json:"conditionCode"`
	ConditionLabel  string  `json:"conditionLabel"`
}

// DayWeather is the normalized hourly table for one location and one calendar day.
// Records are ordered by time ascending.
type DayWeather struct {
	Coordinate Coordinate     `json:"coordinate"`
	Date       Date           `json:"date"`
	Timezone   string         `json:"timezone"`
	Provider   string         `json:"provider"`
	Source     Source         `json:"source"`
	Records    []HourlyRecord `json:"records"`
}

// Relabel returns a copy of the day with condition labels in lang.
func (d DayWeather) Relabel(lang Language) DayWeather {
	out := d
	out.Records = make([]HourlyRecord, len(d.Records))
	for i, r := range d.Records {
		r.ConditionLabel = ClassifyIn(lang, r.ConditionCode).Label()
		out.Records[i] = r
	}
	return out
}
