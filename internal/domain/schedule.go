package domain

import "slices"

// The engine below is pure: every operation takes the current list, returns a
// freshly allocated list, and never mutates its input. Callers persist the
// returned list atomically as a whole.
//
// List order and number order are the same sorted sequence by invariant; every
// operation normalizes its working copy to keep that true even if a caller
// hands in a permuted list.

// sortedCopy returns a copy of items sorted ascending by Number.
func sortedCopy(items []Item) []Item {
	out := slices.Clone(items)
	slices.SortFunc(out, func(a, b Item) int {
		return a.Number - b.Number
	})
	return out
}

// Generate replaces the entire list with a fresh sequence of items numbered
// from..to inclusive, days cyclically assigned starting at firstDay, all
// pending, default color, not hidden, no media.
//
// The from <= to precondition is caller-validated. An unknown firstDay label
// starts the cycle at Days[0].
func Generate(from, to int, firstDay string) []Item {
	if to < from {
		return []Item{}
	}

	dayIdx := DayIndex(firstDay)
	if dayIdx < 0 {
		dayIdx = 0
	}

	items := make([]Item, 0, to-from+1)
	for n := from; n <= to; n++ {
		items = append(items, Item{
			Number: n,
			Day:    Days[dayIdx],
			Color:  DefaultColor,
		})
		dayIdx = (dayIdx + 1) % len(Days)
	}
	return items
}

// CompleteBatch marks every item with Number in [startNumber, startNumber+count)
// as completed. All batch members share batchID, batchColor, and the day of the
// item at startNumber: the whole batch collapses onto the day it happened.
// Every item after the last batch member then has its day reassigned
// cyclically, continuing from the day after the batch's day, so the pending
// schedule shifts left to absorb the batch.
//
// If startNumber does not identify an existing item the operation is a no-op.
// A count reaching past the end of the list completes only what exists.
func CompleteBatch(items []Item, startNumber, count int, batchID, batchColor, completedTime string) []Item {
	out := sortedCopy(items)

	start := slices.IndexFunc(out, func(it Item) bool { return it.Number == startNumber })
	if start < 0 || count <= 0 {
		return out
	}

	completionDay := out[start].Day
	for i := range out {
		if out[i].Number >= startNumber && out[i].Number < startNumber+count {
			out[i].Completed = true
			out[i].CompletedTime = completedTime
			out[i].CompletionBatchID = batchID
			out[i].BatchColor = batchColor
			out[i].Day = completionDay
		}
	}

	completionIdx := DayIndex(completionDay)
	if completionIdx < 0 {
		return out
	}

	// Trailing items continue the cycle from the day after the batch's day.
	last := slices.IndexFunc(out, func(it Item) bool { return it.Number == startNumber+count-1 })
	if last < 0 {
		return out
	}
	next := (completionIdx + 1) % len(Days)
	for i := last + 1; i < len(out); i++ {
		out[i].Day = Days[next]
		next = (next + 1) % len(Days)
	}

	return out
}

// UndoBatch reverts every item whose Number is in numbers to pending, clearing
// the completion timestamp and batch fields. Every item after the remaining
// last-completed item (by list position) then has its day recomputed
// cyclically from the day after that item's day, or from Days[0] when nothing
// remains completed. The result matches what Generate would have produced had
// the undone items never been completed.
func UndoBatch(items []Item, numbers []int) []Item {
	undo := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		undo[n] = true
	}

	out := sortedCopy(items)
	for i := range out {
		if undo[out[i].Number] {
			out[i].Completed = false
			out[i].CompletedTime = ""
			out[i].CompletionBatchID = ""
			out[i].BatchColor = ""
		}
	}

	lastCompleted := -1
	for i := range out {
		if out[i].Completed {
			lastCompleted = i
		}
	}

	dayIdx := 0
	if lastCompleted >= 0 {
		// An unknown day label on the anchor restarts the cycle at Days[0].
		dayIdx = (DayIndex(out[lastCompleted].Day) + 1) % len(Days)
	}
	for i := lastCompleted + 1; i < len(out); i++ {
		out[i].Day = Days[dayIdx]
		dayIdx = (dayIdx + 1) % len(Days)
	}

	return out
}

// UpdateItem replaces the item with matching Number in place. All other items
// are unchanged and no day recomputation happens; completion state changes
// must go through CompleteBatch/UndoBatch. Returns false when no item with
// that Number exists.
func UpdateItem(items []Item, updated Item) ([]Item, bool) {
	out := sortedCopy(items)
	for i := range out {
		if out[i].Number == updated.Number {
			out[i] = updated
			return out, true
		}
	}
	return out, false
}

// Stats is the read-only summary derived from a list. It is recomputed on
// demand and never stored.
type Stats struct {
	CompletedCount int   `json:"completedCount"`
	RemainingCount int   `json:"remainingCount"`
	LastCompleted  *Item `json:"lastCompleted,omitempty"`
}

// ComputeStats derives completion statistics from the list.
//
// LastCompleted is the completed item with the highest Number, computed over
// the sorted-by-number completed subset rather than trusting list order.
func ComputeStats(items []Item) Stats {
	stats := Stats{}
	var last *Item
	for _, it := range sortedCopy(items) {
		if !it.Completed {
			continue
		}
		stats.CompletedCount++
		cp := it
		last = &cp
	}
	stats.RemainingCount = len(items) - stats.CompletedCount
	stats.LastCompleted = last
	return stats
}

// BatchMembers returns the items sharing the given completion batch, in
// number order. An empty batchID returns nil.
func BatchMembers(items []Item, batchID string) []Item {
	if batchID == "" {
		return nil
	}
	var members []Item
	for _, it := range sortedCopy(items) {
		if it.CompletionBatchID == batchID {
			members = append(members, it)
		}
	}
	return members
}

// RemainingFrom counts pending items with Number >= startNumber. It backs the
// "cannot complete more than N" validation on batch completion.
func RemainingFrom(items []Item, startNumber int) int {
	count := 0
	for _, it := range items {
		if !it.Completed && it.Number >= startNumber {
			count++
		}
	}
	return count
}
