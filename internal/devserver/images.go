package devserver

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/validate"
)

func (s *Server) listImages(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID != callerID(c) {
		return fiber.NewError(fiber.StatusForbidden, "You can only list your own images")
	}
	s.mu.Lock()
	data := records(s.imagesOf(userID))
	s.mu.Unlock()
	return c.JSON(api.ListResponse{Data: data})
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

func readUpload(fh *multipart.FileHeader) (upload, error) {
	f, err := fh.Open()
	if err != nil {
		return upload{}, err
	}
	defer func() { _ = f.Close() }()
	data, err := io.ReadAll(f)
	if err != nil {
		return upload{}, err
	}
	return upload{name: fh.Filename, contentType: fh.Header.Get("Content-Type"), data: data}, nil
}

func (s *Server) uploadImages(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Expected a multipart form")
	}
	userID := firstValue(form, "userId")
	if userID != callerID(c) {
		return fiber.NewError(fiber.StatusForbidden, "You can only upload to your own gallery")
	}
	var titles []string
	if raw := firstValue(form, "titles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &titles); err != nil {
			return c.JSON(fiber.Map{"status": false, "message": "Titles must be a JSON array"})
		}
	}
	headers := form.File["images"]
	if len(titles) != len(headers) {
		return c.JSON(fiber.Map{"status": false, "message": "Each image needs a title"})
	}

	uploads := make([]upload, len(headers))
	items := make([]validate.UploadItem, len(headers))
	for i, fh := range headers {
		if uploads[i], err = readUpload(fh); err != nil {
			return err
		}
		items[i] = validate.UploadItem{Title: titles[i], ContentType: uploads[i].contentType}
	}
	if err := validate.Upload(items); err != nil {
		return c.JSON(fiber.Map{"status": false, "message": validate.Fields(err).First()})
	}

	base := c.BaseURL()
	s.mu.Lock()
	next := len(s.imagesOf(userID)) + 1
	created := make([]api.Image, len(uploads))
	for i, up := range uploads {
		id := uuid.NewString()
		img := &storedImage{
			Image: api.Image{
				ID:       id,
				Title:    items[i].Title,
				ImageURL: base + "/uploads/" + id,
				Order:    next + i,
				UserID:   userID,
			},
			contentType: up.contentType,
			data:        up.data,
		}
		s.images[id] = img
		created[i] = img.Image
	}
	s.mu.Unlock()

	s.logger.Info("images uploaded", zap.String("user_id", userID), zap.Int("count", len(created)))
	return c.JSON(api.UploadResponse{Status: true, Message: "Images uploaded successfully", Data: created})
}

func (s *Server) editImage(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Expected a multipart form")
	}
	userID := firstValue(form, "userId")
	imageID := firstValue(form, "imageId")
	if userID != callerID(c) {
		return fiber.NewError(fiber.StatusForbidden, "You can only edit your own images")
	}
	title, err := validate.Title(firstValue(form, "title"))
	if err != nil {
		return c.JSON(fiber.Map{"status": false, "message": validate.Fields(err).First()})
	}
	var replacement *upload
	if files := form.File["image"]; len(files) > 0 {
		up, err := readUpload(files[0])
		if err != nil {
			return err
		}
		if err := validate.ImageType(up.contentType); err != nil {
			return c.JSON(fiber.Map{"status": false, "message": validate.Fields(err).First()})
		}
		replacement = &up
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[imageID]
	if !ok || img.UserID != userID {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}
	img.Title = title
	if replacement != nil {
		img.contentType = replacement.contentType
		img.data = replacement.data
	}
	return c.JSON(api.EditResponse{Status: true, Message: "Image updated successfully", Data: img.Image})
}

func (s *Server) deleteImage(c *fiber.Ctx) error {
	imageID, userID := c.Params("imageId"), c.Params("userId")
	if userID != callerID(c) {
		return fiber.NewError(fiber.StatusForbidden, "You can only delete your own images")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[imageID]
	if !ok || img.UserID != userID {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}
	delete(s.images, imageID)
	s.renumber(userID)
	return c.JSON(fiber.Map{"status": true, "message": "Image deleted successfully"})
}

func (s *Server) changeOrder(c *fiber.Ctx) error {
	var req struct {
		UpdatedImages []api.OrderUpdate `json:"updatedImages"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	userID := callerID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range req.UpdatedImages {
		img, ok := s.images[u.ID]
		if !ok || img.UserID != userID {
			return fiber.NewError(fiber.StatusNotFound, fmt.Sprintf("Image %s not found", u.ID))
		}
	}
	for _, u := range req.UpdatedImages {
		s.images[u.ID].Order = u.Order
	}
	s.renumber(userID)
	return c.JSON(fiber.Map{"status": true, "message": "Order updated"})
}

// serveUpload returns stored image bytes. The URLs are unguessable ids, so
// no cookie is required, matching how browsers load <img> sources.
func (s *Server) serveUpload(c *fiber.Ctx) error {
	s.mu.Lock()
	img, ok := s.images[c.Params("id")]
	var (
		data        []byte
		contentType string
	)
	if ok {
		data, contentType = img.data, img.contentType
	}
	s.mu.Unlock()
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Image not found")
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(data)
}

func firstValue(form *multipart.Form, key string) string {
	if vals := form.Value[key]; len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}
