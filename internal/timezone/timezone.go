// Package timezone converts user-entered civil date-times in an IANA zone to
// absolute UTC instants and back, and detects DST transition ambiguities.
package timezone

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type InvalidInputError struct {
	Message string
}

func (e InvalidInputError) Error() string {
	return e.Message
}

type DSTKind string

const (
	DSTNone          DSTKind = "none"
	DSTSpringForward DSTKind = "spring-forward"
	DSTFallBack      DSTKind = "fall-back"
)

type DSTWarning struct {
	Kind    DSTKind `json:"kind"`
	Message string  `json:"message,omitempty"`
}

// LocalToUTC converts a civil date ("2006-01-02") and time of day ("15:04")
// in the given IANA zone to the corresponding UTC instant. A civil time that
// occurs twice during a fall-back transition resolves to the first (earlier)
// occurrence. A civil time skipped by a spring-forward transition still
// materializes an instant near the gap, matching CheckDSTAmbiguity's advisory
// behavior.
func LocalToUTC(date, clock, zone string) (time.Time, error) {
	civil, loc, err := parseCivil(date, clock, zone)
	if err != nil {
		return time.Time{}, err
	}

	candidates := resolveCivil(civil, loc)
	if len(candidates) == 0 {
		// Skipped hour: let the runtime normalize past the gap.
		t := time.Date(
			civil.Year(), civil.Month(), civil.Day(),
			civil.Hour(), civil.Minute(), 0, 0, loc,
		)
		return t.UTC(), nil
	}
	return candidates[0].UTC(), nil
}

// UTCToLocal maps a UTC instant back to the civil date and time of day in the
// given zone.
func UTCToLocal(t time.Time, zone string) (string, string, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return "", "", InvalidInputError{Message: fmt.Sprintf("unknown timezone %q", zone)}
	}
	local := t.In(loc)
	return local.Format(DateLayout), local.Format(TimeLayout), nil
}

// CheckDSTAmbiguity reports whether the civil time falls inside a DST
// transition window. The check is advisory: it never blocks schedule
// creation, the caller decides what to do with the warning.
func CheckDSTAmbiguity(date, clock, zone string) (DSTWarning, error) {
	civil, loc, err := parseCivil(date, clock, zone)
	if err != nil {
		return DSTWarning{Kind: DSTNone}, err
	}

	candidates := resolveCivil(civil, loc)
	switch len(candidates) {
	case 0:
		// The clock skipped this time, report the hour it lands on instead.
		normalized := time.Date(
			civil.Year(), civil.Month(), civil.Day(),
			civil.Hour(), civil.Minute(), 0, 0, loc,
		).In(loc)
		return DSTWarning{
			Kind: DSTSpringForward,
			Message: fmt.Sprintf(
				"This time doesn't exist due to DST. The clock skips ahead to %s.",
				normalized.Format("3:04 PM"),
			),
		}, nil
	case 1:
		return DSTWarning{Kind: DSTNone}, nil
	default:
		return DSTWarning{
			Kind:    DSTFallBack,
			Message: "This time occurs twice due to DST. The first occurrence will be used.",
		}, nil
	}
}

func parseCivil(date, clock, zone string) (time.Time, *time.Location, error) {
	civil, err := time.Parse(DateLayout+"T"+TimeLayout, date+"T"+clock)
	if err != nil {
		return time.Time{}, nil, InvalidInputError{
			Message: fmt.Sprintf("invalid date/time %q %q", date, clock),
		}
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, nil, InvalidInputError{
			Message: fmt.Sprintf("unknown timezone %q", zone),
		}
	}
	return civil, loc, nil
}

// resolveCivil returns every instant whose civil reading in loc equals the
// requested wall clock, earliest first. The zone's UTC offsets in effect a day
// before and after bound the possible mappings, so probing with each offset
// finds zero (skipped hour), one, or two (repeated hour) instants.
func resolveCivil(civil time.Time, loc *time.Location) []time.Time {
	naive := time.Date(
		civil.Year(), civil.Month(), civil.Day(),
		civil.Hour(), civil.Minute(), 0, 0, time.UTC,
	)

	offsets := make(map[int]struct{})
	for _, probe := range []time.Time{
		naive.Add(-24 * time.Hour),
		naive,
		naive.Add(24 * time.Hour),
	} {
		_, off := probe.In(loc).Zone()
		offsets[off] = struct{}{}
	}

	var candidates []time.Time
	for off := range offsets {
		cand := naive.Add(-time.Duration(off) * time.Second)
		local := cand.In(loc)
		if local.Year() == civil.Year() &&
			local.Month() == civil.Month() &&
			local.Day() == civil.Day() &&
			local.Hour() == civil.Hour() &&
			local.Minute() == civil.Minute() {
			candidates = append(candidates, cand)
		}
	}

	for i := range candidates {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].Before(candidates[i]) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}
	return candidates
}
