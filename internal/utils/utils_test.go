package utils

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestSafeEntryName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Home Page", "Home Page"},
		{"  Checkout   flow ", "Checkout flow"},
		{"../../etc/passwd", "etc-passwd"},
		{"Résumé", "Résumé"},
		{"///", "screen"},
		{"", "screen"},
	}
	for _, tt := range tests {
		if got := SafeEntryName(tt.in, "screen"); got != tt.want {
			t.Errorf("SafeEntryName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueNames(t *testing.T) {
	u := UniqueNames{}
	got := []string{u.Next("Home"), u.Next("home"), u.Next("Home"), u.Next("Other")}
	want := []string{"Home", "home (2)", "Home (3)", "Other"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer
	entries := []ZipEntry{
		{Name: "Home/desktop.png", Body: []byte("desktop")},
		{Name: "Home/mobile.png", Body: []byte("mobile")},
	}
	if err := WriteZip(&buf, entries); err != nil {
		t.Fatalf("WriteZip: %v", err)
	}

	r, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(r.File) != 2 {
		t.Fatalf("expected 2 files, got %d", len(r.File))
	}
	for i, f := range r.File {
		if f.Name != entries[i].Name {
			t.Errorf("file %d name = %q, want %q", i, f.Name, entries[i].Name)
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		body, _ := io.ReadAll(rc)
		rc.Close()
		if string(body) != string(entries[i].Body) {
			t.Errorf("file %s body = %q", f.Name, body)
		}
	}
}
