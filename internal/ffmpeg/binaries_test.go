package ffmpeg

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocate(t *testing.T) {
	env := map[string]string{EnvFFmpegPath: "/opt/ffmpeg"}
	getenv := func(k string) string { return env[k] }
	lookPath := func(name string) (string, error) {
		if name == "ffprobe" {
			return "/usr/bin/ffprobe", nil
		}
		return "", errors.New("not found")
	}

	paths := locate(getenv, lookPath)
	if paths.FFmpeg != "/opt/ffmpeg" || paths.FFprobe != "/usr/bin/ffprobe" {
		t.Errorf("unexpected paths %+v", paths)
	}
	if !paths.complete() {
		t.Error("expected complete paths")
	}

	none := locate(func(string) string { return "" }, func(string) (string, error) {
		return "", errors.New("not found")
	})
	if none.complete() {
		t.Errorf("expected incomplete paths, got %+v", none)
	}
}

func TestAssetForPlatform(t *testing.T) {
	tests := []struct {
		goos, goarch string
		expected     string
		wantErr      bool
	}{
		{"linux", "amd64", "ffmpeg-6.1-linux-64.zip", false},
		{"linux", "arm64", "ffmpeg-6.1-linux-arm-64.zip", false},
		{"darwin", "amd64", "ffmpeg-6.1-macos-64.zip", false},
		{"windows", "amd64", "ffmpeg-6.1-win-64.zip", false},
		{"plan9", "386", "", true},
	}

	for _, tt := range tests {
		got, err := assetForPlatform(tt.goos, tt.goarch)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s/%s: unexpected error %v", tt.goos, tt.goarch, err)
		}
		if got != tt.expected {
			t.Errorf("%s/%s: got %q, expected %q", tt.goos, tt.goarch, got, tt.expected)
		}
	}
}

func TestBinaryName(t *testing.T) {
	tests := map[string]string{
		"ffmpeg":            "ffmpeg",
		"bin/FFprobe.exe":   "ffprobe",
		"ffmpeg-6.1/ffplay": "",
		"readme.txt":        "",
	}
	for input, expected := range tests {
		if got := binaryName(input); got != expected {
			t.Errorf("binaryName(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := zip.NewWriter(f)
	for name, body := range entries {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := entry.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractArchive(t *testing.T) {
	archive := writeZip(t, map[string]string{
		"ffmpeg":     "binary-a",
		"ffprobe":    "binary-b",
		"readme.txt": "ignored",
	})
	dir := t.TempDir()

	if err := extractArchive(archive, dir); err != nil {
		t.Fatalf("extractArchive: %v", err)
	}

	paths := BinaryPaths{
		FFmpeg:  filepath.Join(dir, "ffmpeg"+executableSuffix()),
		FFprobe: filepath.Join(dir, "ffprobe"+executableSuffix()),
	}
	if !binariesExist(paths) {
		t.Fatalf("expected binaries in %s", dir)
	}
	data, err := os.ReadFile(paths.FFmpeg)
	if err != nil || string(data) != "binary-a" {
		t.Errorf("unexpected ffmpeg contents %q (%v)", data, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "readme.txt")); !os.IsNotExist(err) {
		t.Error("unrelated entries should not be extracted")
	}
}

func TestExtractArchiveMissingBinary(t *testing.T) {
	archive := writeZip(t, map[string]string{"ffmpeg": "only"})
	if err := extractArchive(archive, t.TempDir()); err == nil {
		t.Error("expected error for archive without ffprobe")
	}
}
