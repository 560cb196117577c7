package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayIndex(t *testing.T) {
	assert.Equal(t, 0, DayIndex("الأحد"))
	assert.Equal(t, 4, DayIndex("الخميس"))
	assert.Equal(t, 6, DayIndex("السبت"))
	assert.Equal(t, -1, DayIndex("Sunday"))
	assert.Equal(t, -1, DayIndex(""))
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeHizb.Valid())
	assert.True(t, ModeJuz.Valid())
	assert.False(t, Mode("surah").Valid())
	assert.False(t, Mode("").Valid())
}

func TestModeSize(t *testing.T) {
	assert.Equal(t, 60, ModeHizb.Size())
	assert.Equal(t, 30, ModeJuz.Size())
}

func TestModeOwnerKey(t *testing.T) {
	assert.Equal(t, "hizb_12", ModeHizb.OwnerKey(12))
	assert.Equal(t, "juz_3", ModeJuz.OwnerKey(3))
}

func TestNewBatchID(t *testing.T) {
	now := time.UnixMilli(1756684800000)
	assert.Equal(t, "batch_1756684800000", NewBatchID(now))
}

func TestRandomBatchColor(t *testing.T) {
	for range 50 {
		c := RandomBatchColor()
		assert.Len(t, c, 7)
		assert.Equal(t, byte('#'), c[0])
		for _, r := range c[1:] {
			assert.True(t, strings.ContainsRune(batchColorAlphabet, r), "unexpected digit %q in %s", r, c)
		}
	}
}
