package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"solidity-quest-system/models"

	"gorm.io/gorm"
)

// DeploymentSyncClient polls the chain indexer to confirm pending
// deployments. The client deploys through its own wallet; we only learn the
// outcome by asking the indexer about the transaction.
type DeploymentSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewDeploymentSyncClient(db *gorm.DB) *DeploymentSyncClient {
	baseURL := os.Getenv("CHAIN_INDEXER_URL")
	if baseURL == "" {
		log.Fatal("CHAIN_INDEXER_URL environment variable is required")
	}
	token := os.Getenv("QUEST_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("QUEST_SERVICE_TOKEN environment variable is required for deployment sync")
	}

	return &DeploymentSyncClient{
		BaseURL: baseURL,
		Token:   token,
		DB:      db,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// TxStatus is the indexer's answer for one transaction hash.
type TxStatus struct {
	TxHash    string     `json:"tx_hash"`
	Status    string     `json:"status"` // "pending" | "confirmed" | "failed"
	MinedAt   *time.Time `json:"mined_at,omitempty"`
	BlockHash string     `json:"block_hash,omitempty"`
}

func (c *DeploymentSyncClient) GetTxStatus(ctx context.Context, chainID int64, txHash string) (*TxStatus, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/tx/%s", c.BaseURL, txHash))
	if err != nil {
		return nil, fmt.Errorf("failed to parse indexer URL: %w", err)
	}

	q := u.Query()
	q.Set("chain_id", fmt.Sprintf("%d", chainID))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call chain indexer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Indexer hasn't seen the tx yet — still pending from our side.
		return &TxStatus{TxHash: txHash, Status: models.DeploymentPending}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chain indexer returned status %d: %s", resp.StatusCode, string(body))
	}

	var status TxStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode indexer response: %w", err)
	}
	return &status, nil
}

// PollDeployments checks pending deployments against the chain indexer and
// flips their status once the transaction lands (or fails).
func PollDeployments(ctx context.Context, client *DeploymentSyncClient, pollInterval time.Duration) {
	log.Println("Starting deployment confirmation polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Deployment polling stopped.")
			return
		case <-ticker.C:
			var pending []models.Deployment
			if err := client.DB.Where("status = ?", models.DeploymentPending).
				Limit(100).Find(&pending).Error; err != nil {
				log.Printf("❌ Error fetching pending deployments: %v", err)
				continue
			}
			if len(pending) == 0 {
				continue
			}

			var confirmed, failed int
			for i := range pending {
				d := &pending[i]
				status, err := client.GetTxStatus(ctx, d.ChainID, d.TxHash)
				if err != nil {
					log.Printf("❌ Error checking tx %s: %v", d.TxHash, err)
					continue
				}

				switch status.Status {
				case models.DeploymentConfirmed:
					now := time.Now()
					if status.MinedAt != nil {
						now = *status.MinedAt
					}
					d.Status = models.DeploymentConfirmed
					d.ConfirmedAt = &now
					confirmed++
				case models.DeploymentFailed:
					d.Status = models.DeploymentFailed
					failed++
				default:
					continue // still pending, check again next tick
				}

				if err := client.DB.Save(d).Error; err != nil {
					log.Printf("❌ Failed to update deployment %s: %v", d.ID, err)
				}
			}

			if confirmed > 0 || failed > 0 {
				log.Printf("✅ Deployment sweep: %d confirmed, %d failed (of %d pending)",
					confirmed, failed, len(pending))
			}
		}
	}
}
