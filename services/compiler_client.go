package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"solidity-quest-system/models"
	"solidity-quest-system/utils"
)

type CompilerServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewCompilerServiceClient(baseURL, token string) *CompilerServiceClient {
	return &CompilerServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client:  utils.HTTPClient, // solc runs can be slow, shared 30s timeout
	}
}

// Compile posts the player's sources to the compiler service. A result with
// Success=false (compiler diagnostics) is NOT an error — callers relay the
// diagnostics to the player.
func (c *CompilerServiceClient) Compile(reqBody models.CompileRequest) (*models.CompileResult, error) {
	url := fmt.Sprintf("%s/compile", c.BaseURL)

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		log.Printf("CompilerService /compile returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("compile request failed: %d", resp.StatusCode)
	}

	var out models.CompileResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}
