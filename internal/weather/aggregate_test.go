package weather

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func dayWith(temps []float64, labels []string) DayWeather {
	day := DayWeather{Date: Date{2024, 5, 1}}
	for i, temp := range temps {
		r := HourlyRecord{Hour: i, TemperatureC: temp, PrecipitationMM: 0.5}
		if i < len(labels) {
			r.ConditionLabel = labels[i]
		}
		day.Records = append(day.Records, r)
	}
	return day
}

func TestSummarizeTemperatureRange(t *testing.T) {
	s := Summarize(dayWith([]float64{10, 15, 8, 20}, nil))

	assert.True(t, s.Available)
	assert.Equal(t, 20.0, s.MaxTempC)
	assert.Equal(t, 8.0, s.MinTempC)
	assert.InDelta(t, 2.0, s.TotalPrecipitationMM, 1e-9)
}

func TestSummarizeModalCondition(t *testing.T) {
	s := Summarize(dayWith([]float64{1, 2, 3, 4}, []string{"A", "B", "A", "C"}))
	assert.Equal(t, "A", s.Condition)
}

func TestSummarizeModalConditionTieGoesToFirstSeen(t *testing.T) {
	s := Summarize(dayWith([]float64{1, 2, 3, 4}, []string{"B", "A", "A", "B"}))
	assert.Equal(t, "B", s.Condition)

	s = Summarize(dayWith([]float64{1, 2, 3}, []string{"C", "B", "A"}))
	assert.Equal(t, "C", s.Condition)
}

func TestSummarizeNegativeTemperatures(t *testing.T) {
	s := Summarize(dayWith([]float64{-3, -10, -1}, nil))
	assert.Equal(t, -1.0, s.MaxTempC)
	assert.Equal(t, -10.0, s.MinTempC)
}

func TestSummarizeEmptyDay(t *testing.T) {
	s := Summarize(DayWeather{Date: Date{2024, 5, 1}})
	assert.False(t, s.Available)
	assert.NotEmpty(t, s.Reason)
	assert.Equal(t, Date{2024, 5, 1}, s.Date)
}
