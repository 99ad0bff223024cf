package services

import (
	"encoding/json"
	"errors"
	"time"

	"roomqr-backend/models"
	"roomqr-backend/utils"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const createdAtLayout = "2006-01-02T15:04:05.000Z07:00"

// RoomService wraps *gorm.DB with the transactional room operations.
type RoomService struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewRoomService(db *gorm.DB, logger *zap.Logger) *RoomService {
	return &RoomService{DB: db, Logger: logger}
}

// UpsertRoomInput carries the raw request values. Room and floor numbers
// may arrive as strings or JSON numbers; normalization happens here, before
// validation, before any write.
type UpsertRoomInput struct {
	RoomNo         interface{}
	FloorNo        interface{}
	OriginalRoomNo string
	Persons        []PersonInput
}

type PersonInput struct {
	Name        interface{}
	Age         interface{}
	Nationality interface{}
}

// RoomResult is the resolved outcome of an upsert.
type RoomResult struct {
	ID      uint            `json:"id"`
	RoomNo  string          `json:"roomNo"`
	FloorNo string          `json:"floorNo"`
	Persons []models.Person `json:"persons"`
}

// DeletedRoom is the outcome of a delete.
type DeletedRoom struct {
	ID     uint   `json:"id"`
	RoomNo string `json:"roomNo"`
}

// GetAll returns every room newest-first, each with its occupants in
// insertion order.
func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.
		Preload("Persons", func(db *gorm.DB) *gorm.DB { return db.Order("persons.id ASC") }).
		Order("id DESC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		if rooms[i].Persons == nil {
			rooms[i].Persons = []models.Person{}
		}
	}
	return rooms, nil
}

// GetByID returns one room with its occupants, ErrRoomNotFound when no row
// matches.
func (s *RoomService) GetByID(id int) (models.Room, error) {
	var room models.Room
	err := s.DB.
		Preload("Persons", func(db *gorm.DB) *gorm.DB { return db.Order("persons.id ASC") }).
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Room{}, ErrRoomNotFound
	}
	if err != nil {
		return models.Room{}, err
	}
	if room.Persons == nil {
		room.Persons = []models.Person{}
	}
	return room, nil
}

// Upsert creates a room when no room with the lookup number exists,
// otherwise updates that room's number and floor and replaces its entire
// occupant set. The lookup key is OriginalRoomNo when supplied (the rename
// case), the target room number otherwise. All writes happen in one
// transaction.
func (s *RoomService) Upsert(input UpsertRoomInput) (RoomResult, error) {
	roomNo := utils.NormalizeKey(input.RoomNo)
	if roomNo == "" {
		return RoomResult{}, newValidationError("roomNo is required")
	}

	floorNo := utils.NormalizeKey(input.FloorNo)
	if floorNo == "" {
		return RoomResult{}, newValidationError("floorNo is required")
	}

	if len(input.Persons) == 0 {
		return RoomResult{}, newValidationError("persons must be a non-empty array")
	}

	persons := make([]models.Person, 0, len(input.Persons))
	for _, p := range input.Persons {
		name := utils.TrimString(p.Name)
		if name == "" {
			return RoomResult{}, newValidationError("each person must have a name")
		}

		age, ok := utils.ToOptionalInt(p.Age)
		if !ok || age < 0 {
			return RoomResult{}, newValidationError("each person must have a valid age")
		}

		nationality := utils.TrimString(p.Nationality)
		if nationality == "" {
			return RoomResult{}, newValidationError("each person must have a nationality")
		}

		persons = append(persons, models.Person{Name: name, Age: age, Nationality: nationality})
	}

	lookupNo := input.OriginalRoomNo
	if lookupNo == "" {
		lookupNo = roomNo
	}

	var roomID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Room
		err := tx.Where("room_no = ?", lookupNo).First(&existing).Error

		switch {
		case err == nil:
			roomID = existing.ID
			if err := tx.Model(&models.Room{}).Where("id = ?", roomID).
				Updates(map[string]interface{}{"room_no": roomNo, "floor_no": floorNo}).Error; err != nil {
				return err
			}
			if err := tx.Where("room_id = ?", roomID).Delete(&models.Person{}).Error; err != nil {
				return err
			}

		case errors.Is(err, gorm.ErrRecordNotFound):
			room := models.Room{
				RoomNo:    roomNo,
				FloorNo:   floorNo,
				CreatedAt: time.Now().UTC().Format(createdAtLayout),
			}
			if err := tx.Create(&room).Error; err != nil {
				return err
			}
			roomID = room.ID

		default:
			return err
		}

		for i := range persons {
			persons[i].ID = 0
			persons[i].RoomID = roomID
		}
		if err := tx.Create(&persons).Error; err != nil {
			return err
		}

		return appendRoomEvent(tx, "upsert", roomID, roomNo, RoomResult{
			ID: roomID, RoomNo: roomNo, FloorNo: floorNo, Persons: persons,
		})
	})
	if err != nil {
		return RoomResult{}, err
	}

	s.Logger.Info("room upserted",
		zap.Uint("room_id", roomID),
		zap.String("room_no", roomNo),
		zap.Int("persons", len(persons)),
	)

	return RoomResult{ID: roomID, RoomNo: roomNo, FloorNo: floorNo, Persons: persons}, nil
}

// DeleteByRoomNumber removes the room with the given number and all of its
// occupants in one transaction. ErrRoomNotFound when the number matches
// nothing.
func (s *RoomService) DeleteByRoomNumber(roomNo string) (DeletedRoom, error) {
	var roomID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Room
		err := tx.Where("room_no = ?", roomNo).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		if err != nil {
			return err
		}
		roomID = existing.ID

		// Delete occupants explicitly so the outcome does not depend on
		// the engine honoring ON DELETE CASCADE.
		if err := tx.Where("room_id = ?", roomID).Delete(&models.Person{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Room{}, roomID).Error; err != nil {
			return err
		}

		return appendRoomEvent(tx, "delete", roomID, roomNo, DeletedRoom{ID: roomID, RoomNo: roomNo})
	})
	if err != nil {
		return DeletedRoom{}, err
	}

	s.Logger.Info("room deleted", zap.Uint("room_id", roomID), zap.String("room_no", roomNo))

	return DeletedRoom{ID: roomID, RoomNo: roomNo}, nil
}

func appendRoomEvent(tx *gorm.DB, action string, roomID uint, roomNo string, payload interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := models.RoomEvent{
		Action:  action,
		RoomID:  roomID,
		RoomNo:  roomNo,
		Payload: datatypes.JSON(raw),
	}
	return tx.Create(&event).Error
}
