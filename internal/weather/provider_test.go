package weather

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEndpointPolicySelect(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, tokyo)
	policy := EndpointPolicy{
		ArchiveLag: DefaultArchiveLag,
		Location:   tokyo,
		Now:        func() time.Time { return now },
	}

	cases := []struct {
		date Date
		want Source
	}{
		{Date{2024, 6, 1}, SourceArchive},
		{Date{2024, 6, 7}, SourceArchive},
		// 06-08 00:00 is 63h before now.
		{Date{2024, 6, 8}, SourceArchive},
		// 06-09 00:00 is 39h before now: within the lag.
		{Date{2024, 6, 9}, SourceForecast},
		{Date{2024, 6, 10}, SourceForecast},
		{Date{2024, 6, 11}, SourceForecast},
		{Date{2024, 6, 20}, SourceForecast},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, policy.Select(tc.date), "date %s", tc.date)
	}
}

func TestEndpointPolicyBoundaryIsStrict(t *testing.T) {
	now := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	policy := EndpointPolicy{ArchiveLag: 48 * time.Hour, Location: time.UTC, Now: func() time.Time { return now }}

	// Exactly 48h old is not strictly older.
	assert.Equal(t, SourceForecast, policy.Select(Date{2024, 6, 8}))
	assert.Equal(t, SourceArchive, policy.Select(Date{2024, 6, 7}))
}

func TestNewEndpointPolicyDefaults(t *testing.T) {
	p := NewEndpointPolicy(0, nil)
	assert.Equal(t, DefaultArchiveLag, p.ArchiveLag)
	assert.Equal(t, time.UTC, p.Location)
	assert.NotNil(t, p.Now)
}
