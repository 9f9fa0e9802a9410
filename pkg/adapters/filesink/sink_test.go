package filesink

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/framepull/pkg/ports"
)

func TestWriteUnit_AppendsPayloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.raw")
	s, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	units := []*ports.Unit{
		{Data: []byte("aaa"), TimeUs: 0},
		{Data: []byte("bb"), TimeUs: 33333},
		{Rendered: true, TimeUs: 66666},
		{Data: []byte("c"), TimeUs: 100000},
	}
	for _, u := range units {
		if err := s.WriteUnit(u); err != nil {
			t.Fatalf("write unit: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(got, []byte("aaabbc")) {
		t.Errorf("expected file content %q, got %q", "aaabbc", got)
	}
	if s.Units() != 3 {
		t.Errorf("expected 3 payload units, got %d", s.Units())
	}
	if s.Bytes() != 6 {
		t.Errorf("expected 6 payload bytes, got %d", s.Bytes())
	}
}

func TestNew_BadPath(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "no", "such", "dir", "out.raw")); err == nil {
		t.Error("expected creation in a missing directory to fail")
	}
}
