package services

import (
	"context"
	"log"
	"time"

	"solidity-quest-system/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const leaderboardKey = "leaderboard:xp"

// LeaderboardService keeps a redis ZSET of total XP per player for cheap
// top-N and rank reads. Postgres stays the source of truth: when redis is
// not configured (RDB nil) every read falls back to a profile query, and
// Rebuild re-derives the whole ZSET from the profiles table.
type LeaderboardService struct {
	DB  *gorm.DB
	RDB *redis.Client
}

func NewLeaderboardService(db *gorm.DB, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{DB: db, RDB: rdb}
}

// LeaderboardEntry is one row of the public leaderboard.
type LeaderboardEntry struct {
	ExternalUserID string `json:"external_user_id"`
	Name           string `json:"name"`
	Level          int    `json:"level"`
	TotalXP        int64  `json:"total_xp"`
	Rank           int    `json:"rank"`
}

// UpdateScore mirrors a player's new XP total into the ZSET. No-op without
// redis.
func (s *LeaderboardService) UpdateScore(externalUserID string, totalXP int64) error {
	if s.RDB == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.RDB.ZAdd(ctx, leaderboardKey, redis.Z{
		Score:  float64(totalXP),
		Member: externalUserID,
	}).Err()
}

// Top returns the highest-XP players, redis-first with a Postgres fallback.
func (s *LeaderboardService) Top(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if s.RDB == nil {
		return s.topFromDB(limit)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	results, err := s.RDB.ZRevRangeWithScores(ctx, leaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		log.Printf("⚠️ Leaderboard redis read failed, falling back to DB: %v", err)
		return s.topFromDB(limit)
	}
	if len(results) == 0 {
		return s.topFromDB(limit)
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		id, _ := z.Member.(string)
		totalXP := int64(z.Score)
		entries = append(entries, LeaderboardEntry{
			ExternalUserID: id,
			TotalXP:        totalXP,
			Level:          LevelForXP(totalXP),
			Rank:           i + 1,
		})
	}
	if err := s.enrichNames(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// RankFor returns the player's 1-indexed position, or 0 when unranked.
func (s *LeaderboardService) RankFor(externalUserID string) (int, error) {
	if s.RDB == nil {
		return s.rankFromDB(externalUserID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	rank, err := s.RDB.ZRevRank(ctx, leaderboardKey, externalUserID).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		log.Printf("⚠️ Leaderboard redis rank failed, falling back to DB: %v", err)
		return s.rankFromDB(externalUserID)
	}
	return int(rank) + 1, nil
}

// Rebuild re-derives the ZSET from the profiles table. Runs at boot and on
// the maintenance schedule so redis restarts heal themselves.
func (s *LeaderboardService) Rebuild() error {
	if s.RDB == nil {
		return nil
	}

	var profiles []models.PlayerProfile
	if err := s.DB.Select("external_user_id", "total_xp").Find(&profiles).Error; err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pipe := s.RDB.TxPipeline()
	pipe.Del(ctx, leaderboardKey)
	for i := range profiles {
		pipe.ZAdd(ctx, leaderboardKey, redis.Z{
			Score:  float64(profiles[i].TotalXP),
			Member: profiles[i].ExternalUserID,
		})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	log.Printf("📊 Leaderboard rebuilt: %d player(s)", len(profiles))
	return nil
}

func (s *LeaderboardService) topFromDB(limit int) ([]LeaderboardEntry, error) {
	var profiles []models.PlayerProfile
	if err := s.DB.Order("total_xp DESC").Limit(limit).Find(&profiles).Error; err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, 0, len(profiles))
	for i := range profiles {
		entries = append(entries, LeaderboardEntry{
			ExternalUserID: profiles[i].ExternalUserID,
			Level:          profiles[i].Level,
			TotalXP:        profiles[i].TotalXP,
			Rank:           i + 1,
		})
	}
	if err := s.enrichNames(entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *LeaderboardService) rankFromDB(externalUserID string) (int, error) {
	prof, err := profileTx(s.DB, externalUserID)
	if err != nil {
		if err == models.ErrNotInitialized {
			return 0, nil
		}
		return 0, err
	}
	var ahead int64
	if err := s.DB.Model(&models.PlayerProfile{}).
		Where("total_xp > ?", prof.TotalXP).Count(&ahead).Error; err != nil {
		return 0, err
	}
	return int(ahead) + 1, nil
}

// enrichNames fills display names from the mirrored players table (the
// identity service owns usernames), falling back to the profile name for
// players the sync worker hasn't mirrored yet.
func (s *LeaderboardService) enrichNames(entries []LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].ExternalUserID)
	}

	var players []models.Player
	if err := s.DB.Select("external_user_id", "username").
		Where("external_user_id IN ?", ids).Find(&players).Error; err != nil {
		return err
	}
	mirror := make(map[string]string, len(players))
	for i := range players {
		mirror[players[i].ExternalUserID] = players[i].Username
	}

	var profiles []models.PlayerProfile
	if err := s.DB.Select("external_user_id", "name").
		Where("external_user_id IN ?", ids).Find(&profiles).Error; err != nil {
		return err
	}
	fallback := make(map[string]string, len(profiles))
	for i := range profiles {
		fallback[profiles[i].ExternalUserID] = profiles[i].Name
	}

	resolveNames(entries, mirror, fallback)
	return nil
}

// resolveNames merges display names into entries: the identity mirror wins,
// the local profile name fills the gaps.
func resolveNames(entries []LeaderboardEntry, mirror, fallback map[string]string) {
	for i := range entries {
		if name, ok := mirror[entries[i].ExternalUserID]; ok && name != "" {
			entries[i].Name = name
			continue
		}
		entries[i].Name = fallback[entries[i].ExternalUserID]
	}
}
