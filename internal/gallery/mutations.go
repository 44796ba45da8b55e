package gallery

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/state"
	"github.com/five82/frame/internal/validate"
)

const (
	uploadedMessage = "Images uploaded successfully"
	editedMessage   = "Image edited successfully"
	deletedMessage  = "Image deleted"
)

// Upload validates and sends a batch, then appends the records the service
// created. Nothing is added locally before the service answers.
func (s *Service) Upload(ctx context.Context, files []api.UploadFile) Result {
	release, ok := s.guard.acquire(OpUpload)
	if !ok {
		return rejected(OpUpload, "An upload is already running.", ErrInFlight)
	}
	defer release()

	userID, err := s.owner()
	if err != nil {
		return rejected(OpUpload, "Please sign in first.", err)
	}

	items := make([]validate.UploadItem, len(files))
	for i, f := range files {
		items[i] = validate.UploadItem{Title: f.Title, ContentType: f.ContentType}
	}
	if err := validate.Upload(items); err != nil {
		return rejected(OpUpload, validate.Fields(err).First(), err)
	}
	batch := make([]api.UploadFile, len(files))
	copy(batch, files)
	for i := range batch {
		batch[i].Title = items[i].Title
	}

	resp, err := s.images.UploadImages(ctx, api.UploadRequest{UserID: userID, Files: batch})
	if err != nil {
		s.logger.Warn("upload failed", zap.Int("files", len(batch)), zap.Error(err))
		return failed(OpUpload, messageFor(err, "Upload failed."), err)
	}
	if !resp.Status {
		s.logger.Info("upload refused", zap.String("message", resp.Message))
		return failed(OpUpload, orDefault(resp.Message, "Upload failed."), fmt.Errorf("upload images: %w", ErrRefused))
	}

	s.store.AppendMany(resp.Data)
	s.logger.Info("images uploaded", zap.Int("count", len(resp.Data)))
	res := succeeded(OpUpload, orDefault(resp.Message, uploadedMessage))
	res.Images = resp.Data
	return res
}

// Edit renames imageID and, when file is non-nil, replaces its content. With
// rollback enabled the new title is shown before the service answers.
func (s *Service) Edit(ctx context.Context, imageID, title string, file *api.UploadFile) Result {
	release, ok := s.guard.acquire(OpEdit)
	if !ok {
		return rejected(OpEdit, "An edit is already being saved.", ErrInFlight)
	}
	defer release()

	userID, err := s.owner()
	if err != nil {
		return rejected(OpEdit, "Please sign in first.", err)
	}
	title, err = validate.Title(title)
	if err != nil {
		return rejected(OpEdit, validate.Fields(err).First(), err)
	}
	if file != nil {
		if err := validate.ImageType(file.ContentType); err != nil {
			return rejected(OpEdit, validate.Fields(err).First(), err)
		}
	}
	if state.IndexOf(s.store.Snapshot().Images, imageID) < 0 {
		return rejected(OpEdit, "That image is no longer in the gallery.", ErrUnknownImage)
	}

	var (
		prev    state.Snapshot
		version uint64
		preview bool
	)
	if s.rollback {
		prev, version, preview = s.store.Apply(func(images []api.Image) ([]api.Image, bool) {
			idx := state.IndexOf(images, imageID)
			if idx < 0 {
				return nil, false
			}
			images[idx].Title = title
			return images, true
		})
	}

	resp, err := s.images.EditImage(ctx, api.EditRequest{ImageID: imageID, UserID: userID, Title: title, File: file})
	if err == nil && !resp.Status {
		err = fmt.Errorf("edit image: %w", ErrRefused)
	}
	if err != nil {
		s.logger.Warn("edit failed", zap.String("image_id", imageID), zap.Error(err))
		res := failed(OpEdit, orDefault(resp.Message, messageFor(err, "Could not edit the image.")), err)
		if preview {
			res.RolledBack = s.undo(ctx, prev, version)
		}
		return res
	}

	s.store.ReplaceOne(imageID, resp.Data)
	s.logger.Info("image edited", zap.String("image_id", imageID))
	res := succeeded(OpEdit, editedMessage)
	res.Images = []api.Image{resp.Data}
	return res
}

// Delete removes imageID once the user confirmed it. With rollback enabled
// the image disappears immediately and comes back if the service does not
// return a truthy payload; otherwise it is removed only after success.
func (s *Service) Delete(ctx context.Context, imageID string, confirmed bool) Result {
	if !confirmed {
		return rejected(OpDelete, "Delete cancelled.", ErrNotConfirmed)
	}
	release, ok := s.guard.acquire(OpDelete)
	if !ok {
		return rejected(OpDelete, "A delete is already running.", ErrInFlight)
	}
	defer release()

	userID, err := s.owner()
	if err != nil {
		return rejected(OpDelete, "Please sign in first.", err)
	}

	var (
		prev    state.Snapshot
		version uint64
	)
	if s.rollback {
		var applied bool
		prev, version, applied = s.store.Apply(func(images []api.Image) ([]api.Image, bool) {
			idx := state.IndexOf(images, imageID)
			if idx < 0 {
				return nil, false
			}
			return append(images[:idx], images[idx+1:]...), true
		})
		if !applied {
			return rejected(OpDelete, "That image is no longer in the gallery.", ErrUnknownImage)
		}
	} else if state.IndexOf(s.store.Snapshot().Images, imageID) < 0 {
		return rejected(OpDelete, "That image is no longer in the gallery.", ErrUnknownImage)
	}

	result, err := s.images.DeleteImage(ctx, imageID, userID)
	if err == nil && !result.Truthy() {
		err = fmt.Errorf("delete image: %w", ErrRefused)
	}
	if err != nil {
		s.logger.Warn("delete failed", zap.String("image_id", imageID), zap.Error(err))
		res := failed(OpDelete, messageFor(err, "Could not delete the image."), err)
		if s.rollback {
			res.RolledBack = s.undo(ctx, prev, version)
		}
		return res
	}

	if !s.rollback {
		s.store.RemoveOne(imageID)
	}
	s.logger.Info("image deleted", zap.String("image_id", imageID))
	return succeeded(OpDelete, deletedMessage)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
