package services

import (
	"math"
)

// Level curve: XP required to reach level L is floor(100 * L^1.5).
// Level 1 costs nothing, level 100 is the cap.
const (
	BaseXPPerLevel = 100
	LevelExponent  = 1.5
	MaxLevel       = 100
)

// levelBadges maps the lowest level of each band to its badge emoji.
// The active badge is the one for the highest threshold at or below
// the current level.
var levelBadges = []struct {
	Level int
	Badge string
}{
	{1, "🌱"},
	{5, "🔥"},
	{10, "🎯"},
	{20, "⭐"},
	{30, "🏆"},
	{40, "💎"},
	{50, "👑"},
}

var levelTitles = []struct {
	Level int
	Title string
}{
	{1, "Beginner"},
	{5, "Rising"},
	{10, "Focused"},
	{20, "Star"},
	{30, "Champion"},
	{40, "Diamond"},
	{50, "Master"},
}

// LevelInfo is the complete level snapshot returned to clients.
type LevelInfo struct {
	Level           int     `json:"level"`
	Badge           string  `json:"badge"`
	Title           string  `json:"title"`
	TotalXP         int64   `json:"total_xp"`
	CurrentLevelXP  int64   `json:"current_level_xp"`
	NextLevelXP     int64   `json:"next_level_xp"`
	XPInLevel       int64   `json:"xp_in_level"`
	XPNeeded        int64   `json:"xp_needed"`
	XPToNext        int64   `json:"xp_to_next"`
	ProgressPercent float64 `json:"progress"`
	IsMaxLevel      bool    `json:"is_max_level"`
}

// XPForLevel returns the cumulative XP required to reach the given level.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}
	return int64(BaseXPPerLevel * math.Pow(float64(level), LevelExponent))
}

// CalculateLevel returns the largest level whose threshold does not
// exceed totalXP, capped at MaxLevel. Negative XP normalizes to level 1.
func CalculateLevel(totalXP int64) int {
	if totalXP <= 0 {
		return 1
	}
	level := 1
	for level < MaxLevel {
		if totalXP < XPForLevel(level+1) {
			break
		}
		level++
	}
	return level
}

// XPToNextLevel returns how much more XP is needed for the next level,
// 0 at max level.
func XPToNextLevel(totalXP int64) int64 {
	level := CalculateLevel(totalXP)
	if level >= MaxLevel {
		return 0
	}
	return XPForLevel(level+1) - totalXP
}

// LevelProgress returns the current level and the percentage of the way
// to the next one, rounded to one decimal. 100.0 at max level.
func LevelProgress(totalXP int64) (int, float64) {
	level := CalculateLevel(totalXP)
	if level >= MaxLevel {
		return level, 100.0
	}

	currentLevelXP := XPForLevel(level)
	xpNeeded := XPForLevel(level+1) - currentLevelXP
	if xpNeeded == 0 {
		return level, 100.0
	}

	progress := float64(totalXP-currentLevelXP) / float64(xpNeeded) * 100
	return level, math.Round(progress*10) / 10
}

// LevelBadge returns the badge emoji for a level.
func LevelBadge(level int) string {
	badge := levelBadges[0].Badge
	for _, b := range levelBadges {
		if level >= b.Level {
			badge = b.Badge
		}
	}
	return badge
}

// LevelTitle returns the title band for a level.
func LevelTitle(level int) string {
	title := levelTitles[0].Title
	for _, t := range levelTitles {
		if level >= t.Level {
			title = t.Title
		}
	}
	return title
}

// GetLevelInfo assembles the full level snapshot for a total XP value.
func GetLevelInfo(totalXP int64) LevelInfo {
	if totalXP < 0 {
		totalXP = 0
	}
	level, progress := LevelProgress(totalXP)
	currentLevelXP := XPForLevel(level)
	nextLevelXP := totalXP
	if level < MaxLevel {
		nextLevelXP = XPForLevel(level + 1)
	}

	return LevelInfo{
		Level:           level,
		Badge:           LevelBadge(level),
		Title:           LevelTitle(level),
		TotalXP:         totalXP,
		CurrentLevelXP:  currentLevelXP,
		NextLevelXP:     nextLevelXP,
		XPInLevel:       totalXP - currentLevelXP,
		XPNeeded:        nextLevelXP - currentLevelXP,
		XPToNext:        XPToNextLevel(totalXP),
		ProgressPercent: progress,
		IsMaxLevel:      level >= MaxLevel,
	}
}
