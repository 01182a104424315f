// services/workbench.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"solidity-quest-system/models"
	"solidity-quest-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkbenchService handles the sandbox flow: compile through the external
// compiler service, persist the artifact, and record client-side wallet
// deployments for the chain sync worker to confirm.
type WorkbenchService struct {
	DB       *gorm.DB
	Compiler *CompilerServiceClient
}

func NewWorkbenchService(db *gorm.DB, compiler *CompilerServiceClient) *WorkbenchService {
	return &WorkbenchService{DB: db, Compiler: compiler}
}

// CompileContract compiles the player's sources. On success the full
// compiler output (bytecode + ABI) is stored as an artifact and the response
// carries its ID; compile failures come back 200 with the diagnostics.
func (s *WorkbenchService) CompileContract(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		ContractName string            `json:"contract_name"`
		LevelID      int               `json:"level_id"`
		Sources      map[string]string `json:"sources"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.ContractName == "" || len(req.Sources) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "contract_name and sources are required"})
	}
	if req.LevelID != 0 && !models.ValidLevelID(req.LevelID) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown level ID"})
	}

	result, err := s.Compiler.Compile(models.CompileRequest{
		ContractName: req.ContractName,
		Sources:      req.Sources,
	})
	if err != nil {
		log.Printf("Compiler service error: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Compiler service unavailable"})
	}

	if !result.Success {
		return c.JSON(fiber.Map{
			"success": false,
			"errors":  result.Errors,
		})
	}

	artifact, err := s.storeArtifact(userID, req.LevelID, req.ContractName, result)
	if err != nil {
		log.Printf("Failed to store artifact: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to store artifact"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"artifact":    artifact,
		"bytecode":    result.Bytecode,
		"abi":         result.ABI,
		"compiler":    result.CompilerVersion,
		"warnings":    result.Errors, // success still carries warnings
	})
}

func (s *WorkbenchService) storeArtifact(userID string, levelID int, contractName string, result *models.CompileResult) (*models.ContractArtifact, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	artifactID := uuid.NewString()
	key := fmt.Sprintf("artifacts/%s/%s.json", userID, artifactID)

	var url string
	if utils.R2Enabled() {
		url, err = utils.UploadBytesToR2(payload, key, "application/json")
		if err != nil {
			return nil, err
		}
	} else {
		url, err = utils.SaveArtifactLocal(payload, fmt.Sprintf("%s_%s.json", userID, artifactID))
		if err != nil {
			return nil, err
		}
	}

	artifact := models.ContractArtifact{
		ID:              artifactID,
		ExternalUserID:  userID,
		LevelID:         levelID,
		ContractName:    contractName,
		CompilerVersion: result.CompilerVersion,
		ArtifactURL:     url,
		BytecodeSize:    len(result.Bytecode) / 2, // hex chars -> bytes
	}
	if err := s.DB.Create(&artifact).Error; err != nil {
		return nil, err
	}

	log.Printf("📦 Artifact stored: %s (%s) for %s", contractName, artifactID, userID)
	return &artifact, nil
}

// RecordDeployment records a wallet-side deployment of one of the player's
// artifacts. Created pending; the chain sync worker flips the status.
func (s *WorkbenchService) RecordDeployment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var req struct {
		ArtifactID string `json:"artifact_id"`
		Address    string `json:"address"`
		TxHash     string `json:"tx_hash"`
		ChainID    int64  `json:"chain_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if _, err := uuid.Parse(req.ArtifactID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid artifact ID"})
	}
	if req.Address == "" || req.TxHash == "" || req.ChainID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "address, tx_hash and chain_id are required"})
	}

	var artifact models.ContractArtifact
	if err := s.DB.Where("id = ? AND external_user_id = ?", req.ArtifactID, userID).First(&artifact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Artifact not found or not owned"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	deployment := models.Deployment{
		ID:             uuid.NewString(),
		ExternalUserID: userID,
		ArtifactID:     artifact.ID,
		Address:        req.Address,
		TxHash:         req.TxHash,
		ChainID:        req.ChainID,
		Status:         models.DeploymentPending,
	}
	if err := s.DB.Create(&deployment).Error; err != nil {
		log.Printf("DB Error recording deployment: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record deployment"})
	}

	log.Printf("🚀 Deployment recorded: %s @ %s (chain %d)", artifact.ContractName, req.Address, req.ChainID)
	return c.Status(fiber.StatusCreated).JSON(deployment)
}

// ListArtifacts returns the player's compile history, newest first.
func (s *WorkbenchService) ListArtifacts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var artifacts []models.ContractArtifact
	if err := s.DB.Where("external_user_id = ?", userID).
		Order("created_at DESC").Find(&artifacts).Error; err != nil {
		log.Printf("DB Error fetching artifacts: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch artifacts"})
	}
	return c.JSON(artifacts)
}

// ListDeployments returns the player's deployments, newest first.
func (s *WorkbenchService) ListDeployments(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var deployments []models.Deployment
	if err := s.DB.Where("external_user_id = ?", userID).
		Order("created_at DESC").Find(&deployments).Error; err != nil {
		log.Printf("DB Error fetching deployments: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch deployments"})
	}
	return c.JSON(deployments)
}
