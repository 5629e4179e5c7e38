package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"stareduca_backend/internal/config"
)

// HubStudent Hub Central 下发的学生档案
type HubStudent struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	DateOfBirth string `json:"dateOfBirth"`
	Code        string `json:"code"`
	FamilyID    string `json:"familyId"`
	AvatarURL   string `json:"avatarUrl"`
}

// HubClient 调用 Hub Central 完成一次性授权码交换
type HubClient struct {
	BaseURL   string
	MiniAppID string
	client    *http.Client
}

func NewHubClient(cfg *config.HubConfig) *HubClient {
	return &HubClient{
		BaseURL:   cfg.BaseURL,
		MiniAppID: cfg.MiniAppID,
		client:    &http.Client{Timeout: cfg.TimeoutSeconds},
	}
}

// ExchangeCode 授权码换学生档案，码无效或过期时 Hub 返回非 2xx
func (h *HubClient) ExchangeCode(ctx context.Context, code string) (*HubStudent, error) {
	payload, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		h.BaseURL+"/auth/mini-app-exchange", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Mini-App-Id", h.MiniAppID)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("hub central exchange failed: status %d", resp.StatusCode)
	}

	var body struct {
		User HubStudent `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.User.ID == "" {
		return nil, fmt.Errorf("hub central exchange: empty user payload")
	}

	return &body.User, nil
}
