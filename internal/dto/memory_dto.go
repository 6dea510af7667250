package dto

import "encoding/json"

type InitMemoryResponse struct {
	Dossier     json.RawMessage `json:"dossier"`
	Digest      json.RawMessage `json:"digest"`
	PacketBytes int             `json:"packetBytes"`
	WeekStart   string          `json:"weekStart"`
}

type ConversationRequest struct {
	UserMessage  string `json:"userMessage" validate:"required_without=CoachMessage"`
	CoachMessage string `json:"coachMessage"`
}

type ConversationResponse struct {
	Bullets []string `json:"bullets"`
}
