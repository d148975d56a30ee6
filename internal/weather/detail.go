package weather

// DetailHours are the hours shown as cards in the detail view.
var DetailHours = []int{0, 3, 6, 9, 12, 15, 18, 21}

// Slot is one card in the detail view.
type Slot struct {
	Hour            int     `json:"hour"`
	Time            string  `json:"time"`
	Icon            string  `json:"icon"`
	Text            string  `json:"text"`
	TemperatureC    float64 `json:"temperatureC"`
	PrecipitationMM float64 `json:"precipitationMm"`
	// Exact is false when the requested hour was missing upstream and the
	// closest available hour was used instead.
	Exact bool `json:"exact"`
}

// Point is one (time, temperature) pair of the chart series.
type Point struct {
	Time         string  `json:"time"`
	TemperatureC float64 `json:"temperatureC"`
}

// DetailView is the intraday view of the selected day.
type DetailView struct {
	Date      Date    `json:"date"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
	Slots     []Slot  `json:"slots,omitempty"`
	Series    []Point `json:"series,omitempty"`
}

// Detail builds the detail view. Slots are looked up by hour, not position.
func Detail(day DayWeather) DetailView {
	view := DetailView{Date: day.Date}
	if len(day.Records) == 0 {
		view.Reason = Reason(Unavailable(day.Provider, CauseNoData, nil))
		return view
	}
	view.Available = true

	byHour := make(map[int]HourlyRecord, len(day.Records))
	for _, r := range day.Records {
		if _, dup := byHour[r.Hour]; !dup {
			byHour[r.Hour] = r
		}
	}

	view.Slots = make([]Slot, 0, len(DetailHours))
	for _, h := range DetailHours {
		r, exact := byHour[h]
		if !exact {
			r = closestRecord(day.Records, h)
		}
		icon, text := SplitLabel(r.ConditionLabel)
		view.Slots = append(view.Slots, Slot{
			Hour:            h,
			Time:            r.Time,
			Icon:            icon,
			Text:            text,
			TemperatureC:    r.TemperatureC,
			PrecipitationMM: r.PrecipitationMM,
			Exact:           exact,
		})
	}

	view.Series = make([]Point, 0, len(day.Records))
	for _, r := range day.Records {
		view.Series = append(view.Series, Point{Time: r.Time, TemperatureC: r.TemperatureC})
	}

	return view
}

// closestRecord returns the record whose hour is nearest to h; ties go to the
// earlier hour. records must be non-empty and sorted by hour.
func closestRecord(records []HourlyRecord, h int) HourlyRecord {
	best := records[0]
	bestDist := absInt(best.Hour - h)
	for _, r := range records[1:] {
		if d := absInt(r.Hour - h); d < bestDist {
			best, bestDist = r, d
		}
	}
	return best
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
