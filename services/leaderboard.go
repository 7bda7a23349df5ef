package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"edulearn-backend/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardCacheTTL = 60 * time.Second

// LeaderboardService ranks users by XP. The global board is cache-aside in
// Redis since every client polls it; per-user decoration happens after the
// cache so entries stay shareable. A nil Redis client disables caching.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	UserID        string  `json:"user_id"`
	Username      *string `json:"username,omitempty"`
	FullName      string  `json:"full_name"`
	PhotoURL      *string `json:"photo_url,omitempty"`
	TotalXP       int64   `json:"total_xp"`
	WeeklyXP      int64   `json:"weekly_xp,omitempty"`
	Level         int     `json:"level"`
	LevelBadge    string  `json:"level_badge"`
	IsPremium     bool    `json:"is_premium"`
	IsCurrentUser bool    `json:"is_current_user"`
}

// GlobalBoard is the all-time leaderboard plus the caller's own rank when
// they did not make the cut.
type GlobalBoard struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
}

// Global returns the top users by total XP.
func (s *LeaderboardService) Global(ctx context.Context, currentUser *models.User, limit int) (*GlobalBoard, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	entries, err := s.globalEntries(ctx, limit)
	if err != nil {
		return nil, err
	}

	board := GlobalBoard{Leaderboard: entries}
	inTop := false
	for i := range board.Leaderboard {
		if board.Leaderboard[i].UserID == currentUser.ID {
			board.Leaderboard[i].IsCurrentUser = true
			inTop = true
		}
	}

	if !inTop {
		var above int64
		if err := s.DB.Model(&models.User{}).
			Where("total_xp > ?", currentUser.TotalXP).
			Count(&above).Error; err != nil {
			return nil, err
		}
		board.CurrentUser = &LeaderboardEntry{
			Rank:          int(above) + 1,
			UserID:        currentUser.ID,
			FullName:      currentUser.FullName,
			TotalXP:       currentUser.TotalXP,
			Level:         currentUser.Level,
			LevelBadge:    LevelBadge(currentUser.Level),
			IsCurrentUser: true,
		}
	}

	return &board, nil
}

func (s *LeaderboardService) globalEntries(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:global:%d", limit)

	if s.RDB != nil {
		cached, err := s.RDB.Get(ctx, cacheKey).Result()
		if err == nil {
			var entries []LeaderboardEntry
			if err := json.Unmarshal([]byte(cached), &entries); err == nil {
				return entries, nil
			}
		} else if err != redis.Nil {
			log.Printf("[Leaderboard] redis get failed: %v", err)
		}
	}

	var users []models.User
	if err := s.DB.Where("is_active = ?", true).
		Order("total_xp DESC").
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, user := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:       i + 1,
			UserID:     user.ID,
			Username:   user.Username,
			FullName:   user.FullName,
			PhotoURL:   user.PhotoURL,
			TotalXP:    user.TotalXP,
			Level:      user.Level,
			LevelBadge: LevelBadge(user.Level),
			IsPremium:  user.IsPremium,
		})
	}

	if s.RDB != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.RDB.Set(ctx, cacheKey, payload, leaderboardCacheTTL).Err(); err != nil {
				log.Printf("[Leaderboard] redis set failed: %v", err)
			}
		}
	}

	return entries, nil
}

// Weekly ranks users by ledger XP earned in the last 7 days.
func (s *LeaderboardService) Weekly(currentUserID string, limit int) ([]LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}

	weekAgo := time.Now().UTC().AddDate(0, 0, -7)

	type row struct {
		ID        string
		Username  *string
		FullName  string
		PhotoURL  *string
		Level     int
		IsPremium bool
		WeeklyXP  int64
	}
	var rows []row
	err := s.DB.Model(&models.User{}).
		Select("users.id, users.username, users.full_name, users.photo_url, users.level, users.is_premium, SUM(xp_histories.amount) AS weekly_xp").
		Joins("JOIN xp_histories ON xp_histories.user_id = users.id").
		Where("xp_histories.created_at >= ?", weekAgo).
		Group("users.id, users.username, users.full_name, users.photo_url, users.level, users.is_premium").
		Order("weekly_xp DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, LeaderboardEntry{
			Rank:          i + 1,
			UserID:        r.ID,
			Username:      r.Username,
			FullName:      r.FullName,
			PhotoURL:      r.PhotoURL,
			WeeklyXP:      r.WeeklyXP,
			Level:         r.Level,
			LevelBadge:    LevelBadge(r.Level),
			IsPremium:     r.IsPremium,
			IsCurrentUser: r.ID == currentUserID,
		})
	}
	return entries, nil
}
