package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPForLevel(t *testing.T) {
	assert.EqualValues(t, 0, XPForLevel(0))
	assert.EqualValues(t, 0, XPForLevel(1))
	assert.EqualValues(t, 282, XPForLevel(2)) // floor(100 * 2^1.5)
	assert.EqualValues(t, 519, XPForLevel(3))
	assert.EqualValues(t, 800, XPForLevel(4))
	assert.EqualValues(t, 3162, XPForLevel(10))
	assert.EqualValues(t, 8944, XPForLevel(20))
	assert.EqualValues(t, 35355, XPForLevel(50))
}

func TestCalculateLevel(t *testing.T) {
	assert.Equal(t, 1, CalculateLevel(-50))
	assert.Equal(t, 1, CalculateLevel(0))
	assert.Equal(t, 1, CalculateLevel(281))
	assert.Equal(t, 2, CalculateLevel(282))
	assert.Equal(t, 2, CalculateLevel(518))
	assert.Equal(t, 3, CalculateLevel(519))
	assert.Equal(t, MaxLevel, CalculateLevel(100_000_000))
}

func TestCalculateLevel_ExactThresholds(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		assert.Equal(t, level, CalculateLevel(XPForLevel(level)), "threshold for level %d", level)
	}
}

func TestCalculateLevel_Monotonic(t *testing.T) {
	prev := 1
	for xp := int64(0); xp <= 5000; xp += 7 {
		level := CalculateLevel(xp)
		assert.GreaterOrEqual(t, level, prev, "level regressed at xp=%d", xp)
		prev = level
	}
}

func TestLevelBadge(t *testing.T) {
	assert.Equal(t, "🌱", LevelBadge(1))
	assert.Equal(t, "🌱", LevelBadge(4))
	assert.Equal(t, "🔥", LevelBadge(5))
	assert.Equal(t, "🎯", LevelBadge(15))
	assert.Equal(t, "⭐", LevelBadge(20))
	assert.Equal(t, "🏆", LevelBadge(39))
	assert.Equal(t, "💎", LevelBadge(40))
	assert.Equal(t, "👑", LevelBadge(50))
	assert.Equal(t, "👑", LevelBadge(100))
}

func TestLevelTitle(t *testing.T) {
	assert.Equal(t, "Beginner", LevelTitle(1))
	assert.Equal(t, "Rising", LevelTitle(5))
	assert.Equal(t, "Focused", LevelTitle(12))
	assert.Equal(t, "Star", LevelTitle(25))
	assert.Equal(t, "Champion", LevelTitle(30))
	assert.Equal(t, "Diamond", LevelTitle(49))
	assert.Equal(t, "Master", LevelTitle(50))
	assert.Equal(t, "Master", LevelTitle(100))
}

func TestGetLevelInfo(t *testing.T) {
	info := GetLevelInfo(0)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, "🌱", info.Badge)
	assert.Equal(t, "Beginner", info.Title)
	assert.False(t, info.IsMaxLevel)
	assert.EqualValues(t, 282, info.XPToNext)

	info = GetLevelInfo(300)
	assert.Equal(t, 2, info.Level)
	assert.EqualValues(t, 282, info.CurrentLevelXP)
	assert.EqualValues(t, 519, info.NextLevelXP)
	assert.EqualValues(t, 18, info.XPInLevel)
	assert.EqualValues(t, 219, info.XPToNext)
	assert.InDelta(t, 7.6, info.ProgressPercent, 0.01)
}

func TestGetLevelInfo_MaxLevel(t *testing.T) {
	info := GetLevelInfo(XPForLevel(MaxLevel) + 999)
	assert.Equal(t, MaxLevel, info.Level)
	assert.True(t, info.IsMaxLevel)
	assert.Equal(t, 100.0, info.ProgressPercent)
	assert.EqualValues(t, 0, info.XPToNext)
}

func TestGetLevelInfo_NegativeXP(t *testing.T) {
	info := GetLevelInfo(-100)
	assert.Equal(t, 1, info.Level)
	assert.EqualValues(t, 0, info.TotalXP)
}
