package services

import (
	"roomqr-backend/models"

	"gorm.io/gorm"
)

// RoomEventService reads the audit trail written by RoomService.
type RoomEventService struct {
	DB *gorm.DB
}

func NewRoomEventService(db *gorm.DB) *RoomEventService {
	return &RoomEventService{DB: db}
}

func (s *RoomEventService) GetAll(limit int) ([]models.RoomEvent, error) {
	if limit <= 0 {
		limit = 200
	}
	var events []models.RoomEvent
	err := s.DB.Order("id DESC").Limit(limit).Find(&events).Error
	return events, err
}

func (s *RoomEventService) GetByRoomNo(roomNo string, limit int) ([]models.RoomEvent, error) {
	if limit <= 0 {
		limit = 200
	}
	var events []models.RoomEvent
	err := s.DB.Where("room_no = ?", roomNo).Order("id DESC").Limit(limit).Find(&events).Error
	return events, err
}
