// Package client is a thin Go client for the room management API. It maps
// envelope responses into typed results and surfaces server error messages
// as APIError values. No retries, no caching.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"roomqr-backend/models"

	"github.com/go-resty/resty/v2"
)

const defaultBaseURL = "http://localhost:4000"

// APIError carries the server's error message for a non-success response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

type envelope struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

type Client struct {
	http *resty.Client
}

// New builds a client for the given base URL ("" selects the default
// http://localhost:4000). Trailing slashes are stripped.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient}
}

// CreateRoomParams is the payload of the create-or-update operation.
// OriginalRoomNo is set only for the rename case.
type CreateRoomParams struct {
	RoomNo         string        `json:"roomNo"`
	FloorNo        string        `json:"floorNo"`
	Persons        []PersonParam `json:"persons"`
	OriginalRoomNo string        `json:"originalRoomNo,omitempty"`
}

type PersonParam struct {
	Name        string `json:"name"`
	Age         int    `json:"age"`
	Nationality string `json:"nationality"`
}

// UpsertedRoom is the resolved room returned by CreateRoom.
type UpsertedRoom struct {
	ID      uint            `json:"id"`
	RoomNo  string          `json:"roomNo"`
	FloorNo string          `json:"floorNo"`
	Persons []models.Person `json:"persons"`
}

// DeletedRoom identifies the room removed by DeleteRoom.
type DeletedRoom struct {
	ID     uint   `json:"id"`
	RoomNo string `json:"roomNo"`
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}

	var env envelope
	decodeErr := json.Unmarshal(resp.Body(), &env)

	if resp.IsError() || decodeErr != nil || !env.OK {
		message := "request failed"
		if decodeErr == nil && env.Error != "" {
			message = env.Error
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: message}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// GetRooms fetches the full room list, newest-first.
func (c *Client) GetRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := c.do(ctx, http.MethodGet, "/api/get_rooms", nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

// GetRoom fetches one room by identifier.
func (c *Client) GetRoom(ctx context.Context, id int) (models.Room, error) {
	var room models.Room
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/get_room/%d", id), nil, &room)
	return room, err
}

// CreateRoom runs the create-or-update operation.
func (c *Client) CreateRoom(ctx context.Context, params CreateRoomParams) (UpsertedRoom, error) {
	var room UpsertedRoom
	err := c.do(ctx, http.MethodPost, "/api/create_rooms", params, &room)
	return room, err
}

// DeleteRoom removes a room by its room number.
func (c *Client) DeleteRoom(ctx context.Context, roomNo string) (DeletedRoom, error) {
	var deleted DeletedRoom
	body := map[string]string{"action": "delete", "roomNo": roomNo}
	err := c.do(ctx, http.MethodPost, "/api/create_rooms", body, &deleted)
	return deleted, err
}

// Health reports whether the server liveness check responds.
func (c *Client) Health(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &APIError{StatusCode: resp.StatusCode(), Message: "request failed"}
	}
	return nil
}
