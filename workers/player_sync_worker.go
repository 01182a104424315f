// workers/player_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"solidity-quest-system/models"
	"solidity-quest-system/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerChangesResponse is the top-level structure of the identity service response.
type PlayerChangesResponse struct {
	Players []models.RemotePlayer `json:"players"`
}

type PlayerSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/players"
	serviceToken string
	httpClient   *http.Client
}

// NewPlayerSyncWorker requires the identity service URL and this service's token.
func NewPlayerSyncWorker(db *gorm.DB, identityServiceURL, endpointPath, serviceToken string) *PlayerSyncWorker {
	return &PlayerSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      identityServiceURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *PlayerSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Player Sync Worker (identity-service → players)…")
	go w.run(ctx)
}

func (w *PlayerSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial player sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Player sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Player Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local players table.
func (w *PlayerSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM players WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0)
	}
	return lastTime
}

// syncBatch fetches player changes from the identity service and upserts the
// local players table.
func (w *PlayerSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid identity service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to identity service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("identity service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response PlayerChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode identity service response: %w", err)
	}

	if len(response.Players) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d player(s) from identity service…", len(response.Players))

	var upsertCount, errorCount int
	for _, remote := range response.Players {
		local := models.Player{
			ID:             uuid.NewString(),
			ExternalUserID: remote.ExternalID,
			Username:       utils.NormalizeDisplayName(remote.Username),
			AvatarURL:      remote.AvatarURL,
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "avatar_url", "updated_at",
			}),
		}).Create(&local).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert player (external_id=%q, username=%q): %v",
				remote.ExternalID, remote.Username, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d player(s) (%d upserted, %d errors)",
		len(response.Players), upsertCount, errorCount)
	return nil
}
