package progress

import "time"

// updateStreak advances the calendar-day study streak for an action at now.
// Days are compared in UTC. Same-day actions are no-ops, a one-day gap
// extends the streak, a longer gap resets the current streak to 1 and a
// negative gap (clock skew) is ignored entirely.
func (p *Progress) updateStreak(now time.Time) {
	today := startOfDay(now)

	if p.Streak.LastStudyDate == nil {
		p.Streak.Current = 1
		if p.Streak.Longest < 1 {
			p.Streak.Longest = 1
		}
		p.Streak.LastStudyDate = &today
		return
	}

	diff := daysBetween(startOfDay(*p.Streak.LastStudyDate), today)
	switch {
	case diff < 0:
		// Action dated before the recorded last study day, ignore it
		return
	case diff == 0:
		return
	case diff == 1:
		p.Streak.Current++
	default:
		p.Streak.Current = 1
	}

	if p.Streak.Current > p.Streak.Longest {
		p.Streak.Longest = p.Streak.Current
	}
	p.Streak.LastStudyDate = &today
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
