package fsdata

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestList_StableKeysAndMetadata(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "a"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	entries, err := List(context.Background(), dir, false)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2 (hidden excluded)", len(entries))
	}
	for _, e := range entries {
		if !filepath.IsAbs(e.Key) || filepath.Base(e.Key) != e.Name {
			t.Fatalf("entry key %q not the absolute path of %q", e.Key, e.Name)
		}
	}
	var file Entry
	for _, e := range entries {
		if e.Name == "b.txt" {
			file = e
		}
	}
	if file.Size != 5 {
		t.Fatalf("b.txt size = %d, want 5", file.Size)
	}
	if file.ModTime.IsZero() {
		t.Fatal("b.txt ModTime is zero, want stat metadata")
	}

	withHidden, err := List(context.Background(), dir, true)
	if err != nil {
		t.Fatalf("List(showHidden): %v", err)
	}
	if len(withHidden) != 3 {
		t.Fatalf("got %d entries with hidden, want 3", len(withHidden))
	}
}

func TestLess_DirectoriesFirstThenField(t *testing.T) {
	dirA := Entry{Name: "zzz", IsDir: true}
	fileSmall := Entry{Name: "aaa", Size: 1}
	fileBig := Entry{Name: "bbb", Size: 100}

	byName := Less("name", false)
	if !byName(dirA, fileSmall) {
		t.Fatal("directory should sort before file regardless of name")
	}

	bySize := Less("size", false)
	if !bySize(fileSmall, fileBig) {
		t.Fatal("small file should sort before big file")
	}

	bySizeDesc := Less("size", true)
	if !bySizeDesc(fileBig, fileSmall) {
		t.Fatal("descending: big file should sort before small file")
	}
	if !bySizeDesc(dirA, fileBig) {
		t.Fatal("directories stay first even descending")
	}
}

func TestPreviewLoader_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	content := "line one\nline two\nline three\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := PreviewLoader(path)(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p, ok := res.Value.(Preview)
	if !ok {
		t.Fatalf("Value is %T, want Preview", res.Value)
	}
	if !strings.HasPrefix(p.ContentType, "text/plain") {
		t.Fatalf("ContentType = %q, want text/plain", p.ContentType)
	}
	if len(p.Lines) != 3 {
		t.Fatalf("Lines = %q, want 3 lines", p.Lines)
	}
	if p.Lines[0] != "line one" {
		t.Fatalf("Lines[0] = %q, want %q", p.Lines[0], "line one")
	}
	if p.FileSize != int64(len(content)) {
		t.Fatalf("FileSize = %d, want %d", p.FileSize, len(content))
	}
	if res.Size <= 0 {
		t.Fatalf("Size = %d, want positive approximate size", res.Size)
	}
}

func TestPreviewLoader_BinaryFileHasNoLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blob.bin")
	if err := os.WriteFile(path, []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	res, err := PreviewLoader(path)(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	p := res.Value.(Preview)
	if strings.HasPrefix(p.ContentType, "text/") {
		t.Fatalf("ContentType = %q, want binary type", p.ContentType)
	}
	if len(p.Lines) != 0 {
		t.Fatalf("Lines = %q, want none for binary content", p.Lines)
	}
}

func TestPreviewLoader_MissingFileErrors(t *testing.T) {
	if _, err := PreviewLoader(filepath.Join(t.TempDir(), "gone"))(context.Background()); err == nil {
		t.Fatal("load(missing) = nil error, want error")
	}
}

func TestParseMounts(t *testing.T) {
	input := `/dev/sda1 / ext4 rw,relatime 0 0
proc /proc proc rw,nosuid 0 0
tmpfs /run tmpfs rw 0 0
/dev/sdb1 /mnt/data\040disk xfs rw 0 0
broken-line
/dev/sda1 / ext4 rw 0 0
`
	drives := parseMounts(strings.NewReader(input))
	if len(drives) != 2 {
		t.Fatalf("got %d drives (%v), want 2", len(drives), drives)
	}
	if drives[0].MountPoint != "/" || drives[0].FSType != "ext4" {
		t.Fatalf("drives[0] = %+v, want root ext4", drives[0])
	}
	if drives[1].MountPoint != "/mnt/data disk" {
		t.Fatalf("drives[1].MountPoint = %q, want escaped space decoded", drives[1].MountPoint)
	}
}

func TestDrives_AlwaysReturnsSomething(t *testing.T) {
	if len(Drives()) == 0 {
		t.Fatal("Drives() returned nothing, want at least a fallback root")
	}
}
