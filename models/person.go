package models

// Person belongs to exactly one room and is never edited individually:
// every room update replaces the full occupant set.
type Person struct {
	ID     uint `json:"-" gorm:"primaryKey;autoIncrement"`
	RoomID uint `json:"-" gorm:"column:room_id;index;not null"`

	Name        string `json:"name" gorm:"type:varchar(100);not null"`
	Age         int    `json:"age" gorm:"not null"`
	Nationality string `json:"nationality" gorm:"type:varchar(100);not null"`
}

// TableName keeps the table at "persons"; GORM would otherwise pluralize
// Person to "people".
func (Person) TableName() string {
	return "persons"
}
