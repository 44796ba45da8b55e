package api

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

const (
	pathListImages  = "/api/image/getAllImages"
	pathUpload      = "/api/image/upload"
	pathEdit        = "/api/image/edit"
	pathDelete      = "/api/image/delete"
	pathChangeOrder = "/api/image/changeImageOrder"
)

// UploadFile is one file of an upload or edit request.
type UploadFile struct {
	Name        string
	Title       string
	ContentType string
	Data        []byte
}

// UploadRequest carries a batch of titled images for one user.
type UploadRequest struct {
	UserID string
	Files  []UploadFile
}

// EditRequest updates the title and optionally the file of an image.
type EditRequest struct {
	ImageID string
	UserID  string
	Title   string
	File    *UploadFile
}

// ListImages fetches every image owned by userID, in server order.
func (c *Client) ListImages(ctx context.Context, userID string) ([]Image, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user id required")
	}
	values := url.Values{}
	values.Set("userId", userID)
	rel := &url.URL{Path: pathListImages, RawQuery: values.Encode()}
	var payload ListResponse
	if err := c.doJSON(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	if err := validateImages(payload.Data); err != nil {
		return nil, fmt.Errorf("invalid list response: %w", err)
	}
	return payload.Data, nil
}

// UploadImages posts a multipart batch. A response with status=false is not an
// error; callers inspect UploadResponse.Status.
func (c *Client) UploadImages(ctx context.Context, req UploadRequest) (UploadResponse, error) {
	if strings.TrimSpace(req.UserID) == "" {
		return UploadResponse{}, fmt.Errorf("user id required")
	}
	if len(req.Files) == 0 {
		return UploadResponse{}, fmt.Errorf("no files to upload")
	}
	titles := make([]string, len(req.Files))
	for i, f := range req.Files {
		titles[i] = f.Title
	}
	encodedTitles, err := json.Marshal(titles)
	if err != nil {
		return UploadResponse{}, fmt.Errorf("encode titles: %w", err)
	}

	var payload UploadResponse
	err = c.doMultipart(ctx, http.MethodPost, &url.URL{Path: pathUpload}, func(mw *multipart.Writer) error {
		for _, f := range req.Files {
			if err := createFilePart(mw, "images", f); err != nil {
				return err
			}
		}
		if err := mw.WriteField("titles", string(encodedTitles)); err != nil {
			return err
		}
		return mw.WriteField("userId", req.UserID)
	}, &payload)
	if err != nil {
		return UploadResponse{}, err
	}
	if payload.Status {
		if err := validateImages(payload.Data); err != nil {
			return UploadResponse{}, fmt.Errorf("invalid upload response: %w", err)
		}
	}
	return payload, nil
}

// EditImage replaces an image's title and, when File is set, its content.
func (c *Client) EditImage(ctx context.Context, req EditRequest) (EditResponse, error) {
	if strings.TrimSpace(req.ImageID) == "" || strings.TrimSpace(req.UserID) == "" {
		return EditResponse{}, fmt.Errorf("image id and user id required")
	}
	var payload EditResponse
	err := c.doMultipart(ctx, http.MethodPut, &url.URL{Path: pathEdit}, func(mw *multipart.Writer) error {
		if req.File != nil {
			if err := createFilePart(mw, "image", *req.File); err != nil {
				return err
			}
		}
		if err := mw.WriteField("title", req.Title); err != nil {
			return err
		}
		if err := mw.WriteField("imageId", req.ImageID); err != nil {
			return err
		}
		return mw.WriteField("userId", req.UserID)
	}, &payload)
	if err != nil {
		return EditResponse{}, err
	}
	if payload.Status {
		if err := payload.Data.validate(); err != nil {
			return EditResponse{}, fmt.Errorf("invalid edit response: %w", err)
		}
	}
	return payload, nil
}

// DeleteImage removes an image. Success is signalled by a truthy payload.
func (c *Client) DeleteImage(ctx context.Context, imageID, userID string) (DeleteResult, error) {
	if strings.TrimSpace(imageID) == "" || strings.TrimSpace(userID) == "" {
		return DeleteResult{}, fmt.Errorf("image id and user id required")
	}
	rel := &url.URL{Path: pathDelete + "/" + url.PathEscape(imageID) + "/" + url.PathEscape(userID)}
	var raw json.RawMessage
	if err := c.doJSON(ctx, http.MethodDelete, rel, nil, &raw); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{Raw: raw}, nil
}

// ChangeImageOrder pushes the full order of a gallery. The response body is
// not inspected.
func (c *Client) ChangeImageOrder(ctx context.Context, updates []OrderUpdate) error {
	body := struct {
		UpdatedImages []OrderUpdate `json:"updatedImages"`
	}{UpdatedImages: updates}
	if body.UpdatedImages == nil {
		body.UpdatedImages = []OrderUpdate{}
	}
	return c.doJSON(ctx, http.MethodPost, &url.URL{Path: pathChangeOrder}, body, nil)
}
