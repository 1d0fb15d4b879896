package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
	"time"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	entries := []Entry{
		{Filename: "a.png", Modified: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Data: []byte("aaa")},
		{Filename: "b.png", Data: []byte("bb")},
	}
	if err := Write(&buf, entries); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("NewReader error: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("files = %d, want 2", len(zr.File))
	}
	for i, f := range zr.File {
		if f.Name != entries[i].Filename {
			t.Fatalf("file %d name = %q", i, f.Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, _ := io.ReadAll(rc)
		_ = rc.Close()
		if !bytes.Equal(data, entries[i].Data) {
			t.Fatalf("%s data = %q", f.Name, data)
		}
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if _, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
		t.Fatalf("empty archive unreadable: %v", err)
	}
}
