package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"roomqr-backend/controllers"
	"roomqr-backend/models"
	"roomqr-backend/routes"
	"roomqr-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "test.sqlite")
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(&models.Room{}, &models.Person{}, &models.RoomEvent{}))

	roomService := services.NewRoomService(db, zap.NewNop())
	eventService := services.NewRoomEventService(db)

	rc := controllers.NewRoomController(roomService, zap.NewNop())
	ec := controllers.NewRoomEventController(eventService, zap.NewNop())

	return routes.SetupRouter(rc, ec, nil, zap.NewNop())
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())
}

func TestCreateRoom_ThenGetByID(t *testing.T) {
	router := newTestRouter(t)

	code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":  "201",
		"floorNo": "2",
		"persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
	})
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.OK)

	var created struct {
		ID      uint   `json:"id"`
		RoomNo  string `json:"roomNo"`
		FloorNo string `json:"floorNo"`
		Persons []struct {
			Name        string `json:"name"`
			Age         int    `json:"age"`
			Nationality string `json:"nationality"`
		} `json:"persons"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, uint(1), created.ID)
	assert.Equal(t, "201", created.RoomNo)
	assert.Equal(t, "2", created.FloorNo)
	require.Len(t, created.Persons, 1)
	assert.Equal(t, "Ann", created.Persons[0].Name)
	assert.Equal(t, 30, created.Persons[0].Age)
	assert.Equal(t, "US", created.Persons[0].Nationality)

	code, env = doJSON(t, router, http.MethodGet, "/api/get_room/1", nil)
	require.Equal(t, http.StatusOK, code)
	require.True(t, env.OK)

	var fetched models.Room
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, "201", fetched.RoomNo)
	require.Len(t, fetched.Persons, 1)
	assert.Equal(t, "Ann", fetched.Persons[0].Name)
}

func TestCreateRoom_EmptyPersonsRejected(t *testing.T) {
	router := newTestRouter(t)

	code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":  "202",
		"floorNo": "2",
		"persons": []gin.H{},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.OK)
	assert.Equal(t, "persons must be a non-empty array", env.Error)

	// no row was created
	code, env = doJSON(t, router, http.MethodGet, "/api/get_rooms", nil)
	require.Equal(t, http.StatusOK, code)
	var rooms []models.Room
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	assert.Empty(t, rooms)
}

func TestCreateRoom_ValidationMessages(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name    string
		body    gin.H
		message string
	}{
		{
			name:    "missing roomNo",
			body:    gin.H{"floorNo": "2", "persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}}},
			message: "roomNo is required",
		},
		{
			name:    "missing floorNo",
			body:    gin.H{"roomNo": "202", "persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}}},
			message: "floorNo is required",
		},
		{
			name:    "person missing name",
			body:    gin.H{"roomNo": "202", "floorNo": "2", "persons": []gin.H{{"age": 30, "nationality": "US"}}},
			message: "each person must have a name",
		},
		{
			name:    "person negative age",
			body:    gin.H{"roomNo": "202", "floorNo": "2", "persons": []gin.H{{"name": "Ann", "age": -3, "nationality": "US"}}},
			message: "each person must have a valid age",
		},
		{
			name:    "person missing nationality",
			body:    gin.H{"roomNo": "202", "floorNo": "2", "persons": []gin.H{{"name": "Ann", "age": 30}}},
			message: "each person must have a nationality",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", tc.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, tc.message, env.Error)
		})
	}
}

func TestCreateRoom_NumericRoomAndFloor(t *testing.T) {
	router := newTestRouter(t)

	code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":  305,
		"floorNo": 3,
		"persons": []gin.H{{"name": "Bob", "age": 41.9, "nationality": "DE"}},
	})
	require.Equal(t, http.StatusOK, code)

	var created services.RoomResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "305", created.RoomNo)
	assert.Equal(t, "3", created.FloorNo)
	assert.Equal(t, 41, created.Persons[0].Age)
}

func TestGetRoom_BadIDAndMissing(t *testing.T) {
	router := newTestRouter(t)

	code, env := doJSON(t, router, http.MethodGet, "/api/get_room/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "id is required", env.Error)

	code, env = doJSON(t, router, http.MethodGet, "/api/get_room/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "room not found", env.Error)
}

func TestDeleteRoom_IdempotentInEffect(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":  "101",
		"floorNo": "1",
		"persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
	})
	require.Equal(t, http.StatusOK, code)

	code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"action": "delete",
		"roomNo": "101",
	})
	require.Equal(t, http.StatusOK, code)

	var deleted services.DeletedRoom
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, "101", deleted.RoomNo)

	// second delete finds nothing
	code, env = doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"action": "delete",
		"roomNo": "101",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "room not found", env.Error)
}

func TestDeleteRoom_MissingRoomNo(t *testing.T) {
	router := newTestRouter(t)

	code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{"action": "delete"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "roomNo is required", env.Error)
}

func TestRenameRoom_ViaOriginalRoomNo(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":  "101",
		"floorNo": "1",
		"persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":         "101B",
		"floorNo":        "1",
		"originalRoomNo": "101",
		"persons":        []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
	})
	require.Equal(t, http.StatusOK, code)

	// deleting by the old number now misses; the new number hits
	code, _ = doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{"action": "delete", "roomNo": "101"})
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{"action": "delete", "roomNo": "101B"})
	assert.Equal(t, http.StatusOK, code)
}

func TestRenameRoom_CollisionRejected(t *testing.T) {
	router := newTestRouter(t)

	for _, roomNo := range []string{"101", "102"} {
		code, _ := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
			"roomNo":  roomNo,
			"floorNo": "1",
			"persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
		})
		require.Equal(t, http.StatusOK, code)
	}

	// renaming 101 onto 102 hits the unique index on room_no
	code, env := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":         "102",
		"floorNo":        "1",
		"originalRoomNo": "101",
		"persons":        []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.OK)

	// the transaction rolled back; 101 is still reachable
	code, _ = doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{"action": "delete", "roomNo": "101"})
	assert.Equal(t, http.StatusOK, code)
}

func TestGetRooms_NewestFirstWithPersons(t *testing.T) {
	router := newTestRouter(t)

	for _, body := range []gin.H{
		{"roomNo": "101", "floorNo": "1", "persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}}},
		{"roomNo": "102", "floorNo": "1", "persons": []gin.H{{"name": "Bob", "age": 41, "nationality": "DE"}}},
	} {
		code, _ := doJSON(t, router, http.MethodPost, "/api/create_rooms", body)
		require.Equal(t, http.StatusOK, code)
	}

	code, env := doJSON(t, router, http.MethodGet, "/api/get_rooms", nil)
	require.Equal(t, http.StatusOK, code)

	var rooms []models.Room
	require.NoError(t, json.Unmarshal(env.Data, &rooms))
	require.Len(t, rooms, 2)
	assert.Equal(t, "102", rooms[0].RoomNo)
	assert.Equal(t, "101", rooms[1].RoomNo)
	require.Len(t, rooms[0].Persons, 1)
	assert.Equal(t, "Bob", rooms[0].Persons[0].Name)
}

func TestRoomEvents_RecordedForMutations(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{
		"roomNo":  "101",
		"floorNo": "1",
		"persons": []gin.H{{"name": "Ann", "age": 30, "nationality": "US"}},
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, router, http.MethodPost, "/api/create_rooms", gin.H{"action": "delete", "roomNo": "101"})
	require.Equal(t, http.StatusOK, code)

	code, env := doJSON(t, router, http.MethodGet, "/api/room_events", nil)
	require.Equal(t, http.StatusOK, code)

	var events []models.RoomEvent
	require.NoError(t, json.Unmarshal(env.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "delete", events[0].Action, "newest event first")
	assert.Equal(t, "upsert", events[1].Action)
}

func TestCreateRoom_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/create_rooms", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
