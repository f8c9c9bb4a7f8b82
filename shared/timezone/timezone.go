package timezone

import (
	"labplanner/config"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog/log"
)

var (
	appLocation = time.UTC
)

func init() {
	appLocation = load(config.Get().App.Timezone)
}

func load(name string) *time.Location {
	if name == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")

		return time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Error().Err(err).Str("timezone", name).Msg("Failed to load timezone, falling back to UTC")

		return time.UTC
	}

	log.Info().Str("timezone", name).Msg("Application timezone initialized")

	return loc
}

// SetLocation swaps the application zone. Used by the scheduler config and tests.
func SetLocation(name string) {
	appLocation = load(name)
}

func Now() time.Time {
	return time.Now().In(appLocation)
}

// Today is the current calendar day in the application zone.
func Today() civil.Date {
	return civil.DateOf(Now())
}

func ToAppTime(t time.Time) time.Time {
	return t.In(appLocation)
}

func GetLocation() *time.Location {
	return appLocation
}

func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, appLocation)
}

func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}
