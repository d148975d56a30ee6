package weather

// DaySummary is the comparison view of one day: temperature range and the
// prevailing condition. Available is false when the day had no data.
type DaySummary struct {
	Date                 Date    `json:"date"`
	Available            bool    `json:"available"`
	Reason               string  `json:"reason,omitempty"`
	MaxTempC             float64 `json:"maxTempC"`
	MinTempC             float64 `json:"minTempC"`
	Condition            string  `json:"condition,omitempty"`
	TotalPrecipitationMM float64 `json:"totalPrecipitationMm"`
}

// Summarize reduces a day's hourly records to a DaySummary.
// The condition is the most frequent label; on a tie the one seen first wins.
func Summarize(day DayWeather) DaySummary {
	summary := DaySummary{Date: day.Date}
	if len(day.Records) == 0 {
		summary.Reason = Reason(Unavailable(day.Provider, CauseNoData, nil))
		return summary
	}

	summary.Available = true
	summary.MaxTempC = day.Records[0].TemperatureC
	summary.MinTempC = day.Records[0].TemperatureC

	counts := make(map[string]int)
	var order []string

	for _, r := range day.Records {
		if r.TemperatureC > summary.MaxTempC {
			summary.MaxTempC = r.TemperatureC
		}
		if r.TemperatureC < summary.MinTempC {
			summary.MinTempC = r.TemperatureC
		}
		summary.TotalPrecipitationMM += r.PrecipitationMM

		if _, seen := counts[r.ConditionLabel]; !seen {
			order = append(order, r.ConditionLabel)
		}
		counts[r.ConditionLabel]++
	}

	// Walk labels in first-seen order so ties go to the earliest one.
	bestCount := 0
	for _, label := range order {
		if counts[label] > bestCount {
			bestCount = counts[label]
			summary.Condition = label
		}
	}

	return summary
}

// missingSummary is the placeholder for a day whose fetch failed.
func missingSummary(date Date, err error) DaySummary {
	return DaySummary{Date: date, Reason: Reason(err)}
}
