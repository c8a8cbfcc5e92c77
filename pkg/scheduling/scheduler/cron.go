package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	gferrors "github.com/vnykmshr/goflux/pkg/common/errors"
	"github.com/vnykmshr/goflux/pkg/common/validation"
)

// cronParser accepts the standard five fields, an optional leading seconds
// field, and descriptors such as "@hourly" or "@every 1m30s".
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron parses a cron expression.
// Examples:
//
//	"0 */2 * * *"     - Every 2 hours
//	"*/5 * * * * *"   - Every 5 seconds
//	"30 14 * * 1-5"   - 2:30 PM on weekdays
//	"@daily"          - Every day at midnight
//	"@every 1m30s"    - Every 90 seconds (sub-second intervals round up to 1s)
func ParseCron(expr string) (cron.Schedule, error) {
	if err := validation.ValidateNotEmpty("scheduler", "cron", expr); err != nil {
		return nil, err
	}

	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, gferrors.NewValidationError("scheduler", "cron", expr, "is not a valid cron expression").
			WithHint(err.Error())
	}
	return schedule, nil
}

// NextFire returns the next time schedule fires after s.Now(), evaluated in
// s.Location(), and how long until then. A zero time means the schedule
// never fires again.
func NextFire(s Scheduler, schedule cron.Schedule) (time.Time, time.Duration) {
	now := s.Now().In(s.Location())
	next := schedule.Next(now)
	if next.IsZero() {
		return next, 0
	}
	return next, next.Sub(now)
}
