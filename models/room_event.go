package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoomEvent is an audit row appended inside the same transaction as the
// room mutation it records.
type RoomEvent struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	CreatedAt time.Time `json:"createdAt"`

	Action string `json:"action" gorm:"type:varchar(20);not null"` // "upsert" | "delete"
	RoomID uint   `json:"roomId" gorm:"column:room_id;index"`
	RoomNo string `json:"roomNo" gorm:"column:room_no;type:varchar(50);not null"`

	Payload datatypes.JSON `json:"payload"`
}
