package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/jwebster45206/chronicle/pkg/chat"
	"github.com/jwebster45206/chronicle/pkg/state"
)

// GameSummary matches one entry of the game listing.
type GameSummary struct {
	ID            uuid.UUID `json:"id"`
	CharacterName string    `json:"character_name,omitempty"`
}

type createGameStateRequest struct {
	UserID   string `json:"user_id"`
	Language string `json:"language,omitempty"`
}

func testConnection(client *http.Client, baseURL string) bool {
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// doJSON sends body (if any) and decodes a response with the wanted status
// into out.
func doJSON(client *http.Client, method, u string, body any, want int, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != want {
		var errorResp ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func getGameState(client *http.Client, baseURL string, gameStateID uuid.UUID) (*state.GameState, error) {
	var gs state.GameState
	if err := doJSON(client, http.MethodGet, fmt.Sprintf("%s/v1/gamestate/%s", baseURL, gameStateID), nil, http.StatusOK, &gs); err != nil {
		return nil, fmt.Errorf("failed to get game state: %w", err)
	}
	return &gs, nil
}

func createGameState(client *http.Client, baseURL, userID, lang string) (*state.GameState, error) {
	var gs state.GameState
	req := createGameStateRequest{UserID: userID, Language: lang}
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/gamestate", req, http.StatusCreated, &gs); err != nil {
		return nil, fmt.Errorf("failed to create game state: %w", err)
	}
	return &gs, nil
}

func listGameStates(client *http.Client, baseURL, userID string) ([]GameSummary, error) {
	var resp struct {
		Games []GameSummary `json:"games"`
	}
	u := baseURL + "/v1/gamestate?user_id=" + url.QueryEscape(userID)
	if err := doJSON(client, http.MethodGet, u, nil, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return resp.Games, nil
}

func sendChat(client *http.Client, baseURL string, gameStateID uuid.UUID, message string) (*chat.ChatResponse, error) {
	var resp chat.ChatResponse
	req := chat.ChatRequest{GameStateID: gameStateID, Message: message}
	if err := doJSON(client, http.MethodPost, baseURL+"/v1/chat", req, http.StatusOK, &resp); err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	return &resp, nil
}
