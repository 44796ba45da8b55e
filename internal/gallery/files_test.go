package gallery

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestReadFiles_DetectsTypeAndDefaultsTitle(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "sunset.png")
	txt := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(png, pngHeader, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(txt, []byte("hello"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	files, err := ReadFiles(context.Background(), []string{png, txt}, []string{"Evening Sky"})
	if err != nil {
		t.Fatalf("ReadFiles returned error: %v", err)
	}
	if files[0].ContentType != "image/png" || files[0].Title != "Evening Sky" || files[0].Name != "sunset.png" {
		t.Fatalf("files[0] = %+v", files[0])
	}
	if files[1].Title != "notes" {
		t.Fatalf("default title = %q, want %q", files[1].Title, "notes")
	}
	if files[1].ContentType == "image/png" {
		t.Fatalf("text file detected as image")
	}
}

func TestReadFiles_MissingFile(t *testing.T) {
	_, err := ReadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.png")}, nil)
	if err == nil {
		t.Fatalf("ReadFiles succeeded for a missing file")
	}
}

func TestReadFiles_TooManyTitles(t *testing.T) {
	if _, err := ReadFiles(context.Background(), nil, []string{"x"}); err == nil {
		t.Fatalf("ReadFiles accepted more titles than files")
	}
}
