// Package domain contains the tracker's core types and the pure
// sequencing/completion engine that operates on them.
package domain

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Days is the fixed weekly cycle used for scheduling, starting at Sunday.
// Labels are the Arabic day names the client displays verbatim.
var Days = [7]string{"الأحد", "الاثنين", "الثلاثاء", "الأربعاء", "الخميس", "الجمعة", "السبت"}

// DayIndex returns the position of a day label in the cycle, or -1 if the
// label is not one of the seven known days.
func DayIndex(day string) int {
	for i, d := range Days {
		if d == day {
			return i
		}
	}
	return -1
}

// DefaultColor is the sentinel "no color" value for items.
const DefaultColor = "#1e1e2f"

// Mode selects which of the two independent item lists is active.
type Mode string

// The two fixed tracking modes.
const (
	ModeHizb Mode = "hizb" // 60 items
	ModeJuz  Mode = "juz"  // 30 items
)

// Valid reports whether m is one of the two known modes.
func (m Mode) Valid() bool {
	return m == ModeHizb || m == ModeJuz
}

// Size returns the number of items a default list holds for this mode.
func (m Mode) Size() int {
	if m == ModeJuz {
		return 30
	}
	return 60
}

// OwnerKey returns the media owner key for an item number in this mode,
// e.g. "hizb_12". Media records are associated with items through this key.
func (m Mode) OwnerKey(number int) string {
	return fmt.Sprintf("%s_%d", m, number)
}

// ImageRef is a lightweight reference to an image held by the media store.
// The authoritative payload lives there; the item only carries display data.
type ImageRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"`
}

// AudioRef is a lightweight reference to a voice note held by the media store.
type AudioRef struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Size      int64  `json:"size"`
	Timestamp int64  `json:"timestamp"`
}

// Item is one trackable unit (a Hizb or a Juz).
//
// Number is unique within a mode's list and immutable once created. Day is
// recomputed for not-yet-completed items as a function of position relative
// to the most recently completed item. Completed=false implies no
// CompletedTime, CompletionBatchID, or BatchColor.
type Item struct {
	Number            int        `json:"number"`
	Day               string     `json:"day"`
	Completed         bool       `json:"completed"`
	CompletedTime     string     `json:"completedTime,omitempty"`
	Note              string     `json:"note,omitempty"`
	Color             string     `json:"color,omitempty"`
	Hidden            bool       `json:"hidden"`
	CompletionBatchID string     `json:"completionBatchId,omitempty"`
	BatchColor        string     `json:"batchColor,omitempty"`
	Images            []ImageRef `json:"images,omitempty"`
	AudioNotes        []AudioRef `json:"audioNotes,omitempty"`
}

// NewBatchID derives a batch identifier from the completion time.
// All items completed in one operation share it.
func NewBatchID(now time.Time) string {
	return fmt.Sprintf("batch_%d", now.UnixMilli())
}

// batchColorAlphabet restricts batch colors to high-brightness hex digits so
// the resulting border color stays visible on a dark background.
const batchColorAlphabet = "89ABCDEF"

// RandomBatchColor returns a random high-brightness hex color for display
// grouping of a completion batch.
func RandomBatchColor() string {
	b := make([]byte, 0, 7)
	b = append(b, '#')
	for range 6 {
		b = append(b, batchColorAlphabet[rand.IntN(len(batchColorAlphabet))])
	}
	return string(b)
}
