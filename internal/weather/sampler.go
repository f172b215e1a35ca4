package weather

import "time"

const (
	// DefaultTargetHour is the local hour used to pick one reading per day.
	DefaultTargetHour = 14

	// DailyTimeLayout renders a daily reading's timestamp, e.g.
	// "Mon Oct 16 2023 14:00:00 GMT+0300 (MSK)".
	DailyTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700 (MST)"
)

// ExtractDailyReadings keeps the samples whose local hour equals targetHour and
// returns one reading per distinct formatted timestamp. Order follows the first
// occurrence of each timestamp; a later duplicate overwrites the temperature in
// place. A nil loc means time.Local.
func ExtractDailyReadings(samples []Sample, targetHour int, loc *time.Location) []DailySample {
	if loc == nil {
		loc = time.Local
	}

	readings := make([]DailySample, 0)
	index := make(map[string]int)

	for _, s := range samples {
		local := s.Time.In(loc)
		if local.Hour() != targetHour {
			continue
		}

		key := local.Format(DailyTimeLayout)
		if i, ok := index[key]; ok {
			readings[i].Temperature = s.Temperature
			continue
		}

		index[key] = len(readings)
		readings = append(readings, DailySample{
			Time:        key,
			Temperature: s.Temperature,
		})
	}

	return readings
}
