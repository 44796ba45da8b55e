package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/frame/internal/api"
	"github.com/five82/frame/internal/app"
	"github.com/five82/frame/internal/gallery"
)

// loadGallery fetches the signed-in user's images into the store.
func loadGallery(ctx context.Context, deps *app.Deps) ([]api.Image, error) {
	if _, err := requireSession(deps); err != nil {
		return nil, err
	}
	res := deps.Gallery.Load(ctx)
	if !res.OK() {
		if api.IsUnauthorized(res.Err) {
			return nil, errSignedOut
		}
		return nil, report(io.Discard, res, "")
	}
	return res.Images, nil
}

// resolveImage finds the image ref names: an exact id, a 1-based position,
// or an unambiguous id prefix.
func resolveImage(images []api.Image, ref string) (api.Image, int, error) {
	ref = strings.TrimSpace(ref)
	for i, img := range images {
		if img.ID == ref {
			return img, i, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(images) {
			return api.Image{}, -1, fmt.Errorf("position %d out of range 1-%d", n, len(images))
		}
		return images[n-1], n - 1, nil
	}
	found := -1
	for i, img := range images {
		if ref != "" && strings.HasPrefix(img.ID, ref) {
			if found >= 0 {
				return api.Image{}, -1, fmt.Errorf("%q matches more than one image", ref)
			}
			found = i
		}
	}
	if found < 0 {
		return api.Image{}, -1, fmt.Errorf("%w: %s", gallery.ErrUnknownImage, ref)
	}
	return images[found], found, nil
}

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your images in gallery order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				images, err := loadGallery(ctx, deps)
				if err != nil {
					return err
				}
				printImages(cmd.OutOrStdout(), images)
				return nil
			})
		},
	}
}

func newUploadCmd(flags *globalFlags) *cobra.Command {
	var titles []string

	cmd := &cobra.Command{
		Use:   "upload FILE...",
		Short: "Upload images to the end of the gallery",
		Long: `Upload one or more images. Each --title pairs with the file at the same
position; files without a title use their name without the extension.`,
		Example: `  frame upload beach.jpg dunes.png --title "Beach day" --title "Dunes"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				if _, err := requireSession(deps); err != nil {
					return err
				}
				files, err := gallery.ReadFiles(ctx, args, titles)
				if err != nil {
					return err
				}
				res := deps.Gallery.Upload(ctx, files)
				if err := report(cmd.OutOrStdout(), res, "Uploaded."); err != nil {
					return err
				}
				printImages(cmd.OutOrStdout(), res.Images)
				return nil
			})
		},
	}

	cmd.Flags().StringArrayVarP(&titles, "title", "t", nil, "title for the file at the same position (repeatable)")

	return cmd
}

func newEditCmd(flags *globalFlags) *cobra.Command {
	var (
		title string
		file  string
	)

	cmd := &cobra.Command{
		Use:   "edit IMAGE",
		Short: "Change an image's title or replace its file",
		Long: `Change an image's title or replace its file. IMAGE is an id, an id
prefix or a 1-based position in the gallery.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if title == "" && file == "" {
				return errors.New("nothing to change; pass --title and/or --file")
			}
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				images, err := loadGallery(ctx, deps)
				if err != nil {
					return err
				}
				img, _, err := resolveImage(images, args[0])
				if err != nil {
					return err
				}
				if title == "" {
					title = img.Title
				}
				var replacement *api.UploadFile
				if file != "" {
					f, err := gallery.ReadFile(file, title)
					if err != nil {
						return err
					}
					replacement = &f
				}
				return report(cmd.OutOrStdout(), deps.Gallery.Edit(ctx, img.ID, title, replacement), "Image updated.")
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&file, "file", "f", "", "replacement image file")

	return cmd
}

func newDeleteCmd(flags *globalFlags) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete IMAGE",
		Aliases: []string{"rm"},
		Short:   "Delete an image",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				images, err := loadGallery(ctx, deps)
				if err != nil {
					return err
				}
				img, _, err := resolveImage(images, args[0])
				if err != nil {
					return err
				}
				res := deps.Gallery.Delete(ctx, img.ID, yes)
				if errors.Is(res.Err, gallery.ErrNotConfirmed) {
					printNotice(cmd.OutOrStdout(), fmt.Sprintf("Not deleted. Re-run with --yes to delete %q.", img.Title))
				}
				return report(cmd.OutOrStdout(), res, "Image deleted.")
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")

	return cmd
}

func newMoveCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move IMAGE TARGET",
		Short: "Move an image to the position held by another",
		Long: `Move IMAGE to the position currently held by TARGET; the images in
between shift by one. Both accept an id, an id prefix or a 1-based position.`,
		Example: `  # move the third image to the front
  frame move 3 1`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				images, err := loadGallery(ctx, deps)
				if err != nil {
					return err
				}
				source, _, err := resolveImage(images, args[0])
				if err != nil {
					return err
				}
				target, _, err := resolveImage(images, args[1])
				if err != nil {
					return err
				}
				if err := report(cmd.OutOrStdout(), deps.Gallery.Move(ctx, source.ID, target.ID), "Order saved."); err != nil {
					return err
				}
				printImages(cmd.OutOrStdout(), deps.Gallery.Store().Snapshot().Images)
				return nil
			})
		},
	}
}

func newViewCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view IMAGE",
		Short: "Show one image's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(cmd, flags, func(ctx context.Context, deps *app.Deps) error {
				images, err := loadGallery(ctx, deps)
				if err != nil {
					return err
				}
				img, idx, err := resolveImage(images, args[0])
				if err != nil {
					return err
				}
				deps.Gallery.Store().Select(img.ID)
				printImage(cmd.OutOrStdout(), img, idx+1, len(images))
				return nil
			})
		},
	}
}
