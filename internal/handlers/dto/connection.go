package dto

import "github.com/google/uuid"

type ConnectionRequest struct {
	ReceiverID uuid.UUID `json:"receiver_id" binding:"required"`
}

type RespondRequest struct {
	Outcome string `json:"outcome" binding:"required,connection_outcome"`
}
