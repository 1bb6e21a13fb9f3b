package models

import (
	"fmt"
	"sort"
)

// WorkDaySet is a set of ISO weekdays (1=Monday .. 7=Sunday).
// A nil set means "not configured" and falls through to the next level.
type WorkDaySet []int

// FallbackWorkDays applies when neither the user nor the organization configured workdays
var FallbackWorkDays = WorkDaySet{1, 2, 3, 4, 5}

func (s WorkDaySet) IsSet() bool {
	return len(s) > 0
}

func (s WorkDaySet) Contains(isoWeekday int) bool {
	for _, d := range s {
		if d == isoWeekday {
			return true
		}
	}
	return false
}

// Validate checks that all days are in 1..7 without duplicates
func (s WorkDaySet) Validate() error {
	seen := make(map[int]bool, len(s))
	for _, d := range s {
		if d < 1 || d > 7 {
			return fmt.Errorf("workday %d is out of range 1-7", d)
		}
		if seen[d] {
			return fmt.Errorf("workday %d is duplicated", d)
		}
		seen[d] = true
	}
	return nil
}

// Sorted returns a sorted copy
func (s WorkDaySet) Sorted() WorkDaySet {
	if s == nil {
		return nil
	}
	out := append(WorkDaySet(nil), s...)
	sort.Ints(out)
	return out
}

// ResolveWorkDays picks the effective set: user override, then organization default, then fallback
func ResolveWorkDays(userDays, orgDays WorkDaySet) WorkDaySet {
	if userDays.IsSet() {
		return userDays
	}
	if orgDays.IsSet() {
		return orgDays
	}
	return FallbackWorkDays
}
