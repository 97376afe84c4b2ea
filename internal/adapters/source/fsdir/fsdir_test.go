package fsdir

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/vshulcz/bees-exporter/internal/domain"
)

func TestDir_List(t *testing.T) {
	mt := time.Unix(1700000000, 0)
	fsys := fstest.MapFS{
		"b.status":        {Data: []byte("TOTAL:"), ModTime: mt},
		"a.status":        {Data: []byte("TOTAL:"), ModTime: mt},
		"a.status.tmp":    {Data: []byte("x")},
		"notes.txt":       {Data: []byte("x")},
		"nested/c.status": {Data: []byte("x")},
		"weird.status/x":  {Data: []byte("x")},
		"beescrawl.dat":   {Data: []byte("x")},
	}

	got, err := New(fsys).List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"a.status", "b.status"}
	if len(got) != len(want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDir_Open(t *testing.T) {
	mt := time.Unix(1700000123, 0)
	d := New(fstest.MapFS{
		"a.status":     {Data: []byte("hello"), ModTime: mt},
		"dir.status/x": {Data: []byte("x")},
	})

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{name: "existing", file: "a.status"},
		{name: "missing", file: "gone.status", wantErr: true},
		{name: "directory", file: "dir.status", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, ts, err := d.Open(context.Background(), tt.file)
			if tt.wantErr {
				if err == nil {
					rc.Close()
					t.Fatal("expected error")
				}
				if !errors.Is(err, domain.ErrSourceUnavailable) {
					t.Fatalf("error %v does not wrap ErrSourceUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer rc.Close()
			if !ts.Equal(mt) {
				t.Fatalf("mtime = %v, want %v", ts, mt)
			}
			b, _ := io.ReadAll(rc)
			if string(b) != "hello" {
				t.Fatalf("content = %q", b)
			}
		})
	}
}

func TestOpen_OnDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "x.status"), []byte("TOTAL: a=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	d, err := Open(dir)
	if err != nil {
		t.Fatalf("Open(%q): %v", dir, err)
	}
	if err := d.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	names, err := d.List(context.Background())
	if err != nil || len(names) != 1 || names[0] != "x.status" {
		t.Fatalf("List = %v, %v", names, err)
	}

	if _, err := Open(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := Open(filepath.Join(dir, "x.status")); err == nil {
		t.Fatal("expected error for regular file")
	}
}
