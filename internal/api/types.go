package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Image mirrors an image record as returned by /api/image/*.
type Image struct {
	ID       string `json:"_id"`
	Title    string `json:"title"`
	ImageURL string `json:"image"`
	Order    int    `json:"order"`
	UserID   string `json:"userId,omitempty"`
}

// User mirrors the user payload returned on login.
type User struct {
	ID    string `json:"_id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Email string `json:"email" toml:"email"`
}

// OrderUpdate is one entry of a reorder request.
type OrderUpdate struct {
	ID    string `json:"_id"`
	Order int    `json:"order"`
}

// ListResponse mirrors GET /api/image/getAllImages.
type ListResponse struct {
	Data []Image `json:"data"`
}

// UploadResponse mirrors POST /api/image/upload.
type UploadResponse struct {
	Status  bool    `json:"status"`
	Message string  `json:"message"`
	Data    []Image `json:"data"`
}

// EditResponse mirrors PUT /api/image/edit.
type EditResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    Image  `json:"data"`
}

// UserResponse mirrors the /api/user/* envelopes. Message is either a plain
// string or, for register validation failures, an object keyed by field.
type UserResponse struct {
	Status  bool            `json:"status"`
	Message json.RawMessage `json:"message"`
	Data    *User           `json:"data"`
}

// Text returns the message when it is a plain string.
func (r UserResponse) Text() string {
	return messageText(r.Message)
}

// FieldErrors returns per-field messages when the server sent a map.
func (r UserResponse) FieldErrors() map[string]string {
	if len(r.Message) == 0 || r.Message[0] != '{' {
		return nil
	}
	var fields map[string]string
	if err := json.Unmarshal(r.Message, &fields); err != nil {
		return nil
	}
	return fields
}

// DeleteResult is the raw delete payload. The service only promises a truthy
// value on success, so the body is kept undecoded and judged by Truthy.
type DeleteResult struct {
	Raw json.RawMessage
}

// Truthy reports whether the payload counts as success: anything except
// null, false, 0, "" and an empty body. Objects carrying a boolean "status"
// field are judged by that field.
func (d DeleteResult) Truthy() bool {
	raw := bytes.TrimSpace(d.Raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n', 'f':
		return false
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	case '{':
		var envelope struct {
			Status *bool `json:"status"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Status != nil {
			return *envelope.Status
		}
		return true
	case '[':
		return true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err != nil {
		return false
	}
	return n != 0
}

var errMissingID = errors.New("image without id")

func validateImages(images []Image) error {
	for i, img := range images {
		if err := img.validate(); err != nil {
			return fmt.Errorf("image %d: %w", i, err)
		}
	}
	return nil
}

func (img Image) validate() error {
	if strings.TrimSpace(img.ID) == "" {
		return errMissingID
	}
	if img.Order < 0 {
		return fmt.Errorf("image %s: negative order %d", img.ID, img.Order)
	}
	return nil
}

func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}
