// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadList(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "files.txt")
	if err := os.WriteFile(p, []byte("a.wav\n\n  b c.wav \r\n\t\nd.sph"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadList(p)
	if err != nil {
		t.Fatalf("ReadList() error = %v", err)
	}

	want := []string{"a.wav", "b c.wav", "d.sph"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadList() = %q, want %q", got, want)
	}
}

func TestReadList_Missing(t *testing.T) {
	t.Parallel()

	if _, err := ReadList(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("ReadList() error = nil, want error for missing file")
	}
}

func TestWriteList(t *testing.T) {
	t.Parallel()

	p := filepath.Join(t.TempDir(), "out.list")
	want := []string{"x", "y"}

	if err := WriteList(p, want); err != nil {
		t.Fatalf("WriteList() error = %v", err)
	}

	b, err := os.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "x\ny\n" {
		t.Errorf("file = %q, want %q", b, "x\ny\n")
	}

	if err := WriteList(p, nil); err != nil {
		t.Fatalf("WriteList(nil) error = %v", err)
	}
	if b, _ = os.ReadFile(p); len(b) != 0 {
		t.Errorf("file = %q, want empty", b)
	}
}
