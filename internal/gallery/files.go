package gallery

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"golang.org/x/sync/errgroup"

	"github.com/five82/frame/internal/api"
)

const readConcurrency = 4

// ReadFiles loads the files at paths concurrently, pairing each with the
// title at the same index. A missing title defaults to the file name without
// its extension.
func ReadFiles(ctx context.Context, paths, titles []string) ([]api.UploadFile, error) {
	if len(titles) > len(paths) {
		return nil, fmt.Errorf("%d titles for %d files", len(titles), len(paths))
	}
	files := make([]api.UploadFile, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, path := range paths {
		title := ""
		if i < len(titles) {
			title = titles[i]
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := ReadFile(path, title)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ReadFile loads one file and sniffs its content type.
func ReadFile(path, title string) (api.UploadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return api.UploadFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	name := filepath.Base(path)
	if strings.TrimSpace(title) == "" {
		title = strings.TrimSuffix(name, filepath.Ext(name))
	}
	return api.UploadFile{
		Name:        name,
		Title:       title,
		ContentType: mimetype.Detect(data).String(),
		Data:        data,
	}, nil
}
