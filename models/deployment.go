package models

import (
	"encoding/json"
	"time"
)

// Deployment lifecycle states. The client deploys through its own wallet and
// reports the transaction; the chain sync worker confirms it.
const (
	DeploymentPending   = "pending"
	DeploymentConfirmed = "confirmed"
	DeploymentFailed    = "failed"
)

// ContractArtifact is the stored output of one successful compile: the
// bytecode/ABI JSON lives in object storage, the row keeps the pointer and
// enough metadata to list the player's workbench history.
type ContractArtifact struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`

	LevelID         int    `gorm:"index" json:"level_id"`
	ContractName    string `gorm:"not null" json:"contract_name"`
	CompilerVersion string `json:"compiler_version,omitempty"`
	ArtifactURL     string `gorm:"type:text" json:"artifact_url"`
	BytecodeSize    int    `json:"bytecode_size"`

	Timestamps
}

// Deployment records a client-side (wallet) deployment of a compiled
// artifact. Created pending; the chain sync worker flips the status.
type Deployment struct {
	ID             string `gorm:"primaryKey;type:uuid" json:"id"`
	ExternalUserID string `gorm:"index;not null" json:"external_user_id"`
	ArtifactID     string `gorm:"index;type:uuid;not null" json:"artifact_id"`

	Address string `gorm:"not null" json:"address"`
	TxHash  string `gorm:"uniqueIndex;not null" json:"tx_hash"`
	ChainID int64  `gorm:"not null" json:"chain_id"`

	Status      string     `gorm:"type:varchar(16);index;default:'pending'" json:"status"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`

	Timestamps
}

// CompileRequest/CompileResult are the contract with the external compiler
// service. Solidity semantics are entirely its problem.
type CompileRequest struct {
	ContractName string            `json:"contract_name"`
	Sources      map[string]string `json:"sources"` // filename -> source
}

type CompilerError struct {
	Severity string `json:"severity"` // "error" | "warning"
	Message  string `json:"message"`
	File     string `json:"file,omitempty"`
	Line     int    `json:"line,omitempty"`
}

type CompileResult struct {
	Success         bool            `json:"success"`
	CompilerVersion string          `json:"compiler_version,omitempty"`
	Bytecode        string          `json:"bytecode,omitempty"`
	ABI             json.RawMessage `json:"abi,omitempty"`
	Errors          []CompilerError `json:"errors,omitempty"`
}
