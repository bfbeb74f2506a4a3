package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/andrescamacho/railbot-go/internal/domain/game"
)

// Exported decoders for server-pushed delta payloads. Deltas reuse the wire
// shapes of the init-data snapshot, so the response processor delegates here
// instead of owning a second decoding path.

// DecodeWhistle decodes a Whistle:Spawn payload
func DecodeWhistle(raw json.RawMessage) (*game.Whistle, error) {
	var data struct {
		Whistle whistleDTO `json:"Whistle"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("malformed whistle delta: %w", err)
	}
	w := &game.Whistle{
		ID:         data.Whistle.ID,
		Category:   data.Whistle.Category,
		Position:   data.Whistle.Position,
		IsForVideo: data.Whistle.IsForVideo,
		Rewards:    decodeReward(data.Whistle.Reward),
	}
	if spawn := parseTime(data.Whistle.SpawnTime); spawn != nil {
		w.SpawnTime = *spawn
	}
	if from := parseTime(data.Whistle.CollectableFrom); from != nil {
		w.CollectableFrom = *from
	}
	return w, nil
}

// DecodeContract decodes a Contract:New payload
func DecodeContract(raw json.RawMessage) (*game.Contract, error) {
	var data struct {
		Contract contractDTO `json:"Contract"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("malformed contract delta: %w", err)
	}
	c := data.Contract
	return &game.Contract{
		Slot:           c.Slot,
		ContractListID: c.ContractListID,
		ArticleID:      c.ArticleID,
		ArticleAmount:  c.ArticleAmount,
		Conditions:     decodeReward(c.Conditions),
		UsableFrom:     parseTime(c.UsableFrom),
		AvailableTo:    parseTime(c.AvailableTo),
		ExpiresAt:      parseTime(c.ExpiresAt),
	}, nil
}

// DecodeContractList decodes a ContractList:Update payload
func DecodeContractList(raw json.RawMessage) (*game.ContractList, error) {
	var data struct {
		ContractList contractListDTO `json:"ContractList"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("malformed contract list delta: %w", err)
	}
	l := data.ContractList
	return &game.ContractList{
		ID:            l.ID,
		NextReplaceAt: parseTime(l.NextReplaceAt),
		AvailableTo:   parseTime(l.AvailableTo),
		ExpiresAt:     parseTime(l.ExpiresAt),
	}, nil
}

// DecodeJob decodes a Map:NewJob payload
func DecodeJob(raw json.RawMessage) (*game.Job, error) {
	var data struct {
		Job jobDTO `json:"Job"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("malformed job delta: %w", err)
	}
	j := data.Job
	return &game.Job{
		ID:                j.ID,
		JobLocationID:     j.JobLocationID,
		JobType:           j.JobType,
		RequiredArticleID: j.RequiredArticleID,
		RequiredAmount:    j.RequiredAmount,
		CurrentAmount:     j.CurrentAmount,
		Duration:          time.Duration(j.Duration) * time.Second,
		UnlockAt:          parseTime(j.UnlocksAt),
		ExpiresAt:         parseTime(j.ExpiresAt),
		CollectableFrom:   parseTime(j.CollectableFrom),
		CompletedAt:       parseTime(j.CompletedAt),
		Reward:            decodeReward(j.Reward),
	}, nil
}

// QuestChange is the decoded Region:Quest:Change payload
type QuestChange struct {
	JobLocationID int
	Progress      int
}

// DecodeQuestChange decodes a Region:Quest:Change payload
func DecodeQuestChange(raw json.RawMessage) (*QuestChange, error) {
	var data struct {
		Quest struct {
			JobLocationID int `json:"JobLocationId"`
			Progress      int `json:"Progress"`
		} `json:"Quest"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("malformed quest delta: %w", err)
	}
	return &QuestChange{JobLocationID: data.Quest.JobLocationID, Progress: data.Quest.Progress}, nil
}
