package models

// Room is a physical unit identified by its business-facing room number.
// CreatedAt is stored as an ISO-8601 UTC string and set exactly once at
// insert, so GORM auto-timestamps are not used on this model.
type Room struct {
	ID uint `json:"id" gorm:"primaryKey;autoIncrement"`

	RoomNo    string `json:"roomNo" gorm:"column:room_no;uniqueIndex;type:varchar(50);not null"`
	FloorNo   string `json:"floorNo" gorm:"column:floor_no;type:varchar(50);not null"`
	CreatedAt string `json:"createdAt" gorm:"column:created_at;type:varchar(40);not null"`

	// Occupants, ascending by id for stable display order.
	Persons []Person `json:"persons" gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}
