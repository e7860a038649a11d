package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-test/deep"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestListAlphabetizesAndStripsSuffix(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "zeta.json", `{"name":"zeta"}`)
	writeFile(t, dir, "alpha.json", `{"name":"alpha"}`)
	writeFile(t, dir, "notes.txt", `not a profile`)

	names, err := NewStore(dir).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"alpha", "zeta"}
	if diff := deep.Equal(names, want); diff != nil {
		t.Errorf("List() diff: %v", diff)
	}
}

func TestLoadParsesCommentsAndTrailingCommas(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "tolerant.json", `{
		// a hand-edited profile
		"name": "tolerant",
		"display_name": "Tolerant",
		"cpu": { "type": "65C02", "clock_speed": 2000000, },
		"memory": { "size": 32768, "type": "ram", },
	}`)

	p, err := NewStore(dir).Load("tolerant")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p == nil {
		t.Fatal("Load returned nil profile")
	}
	if p.CPU.Type != "65C02" || p.Memory.Size != 32768 {
		t.Errorf("parsed profile = %+v, want CPU.Type=65C02 Memory.Size=32768", p)
	}
}

func TestLoadCaseInsensitiveProperties(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "shout.json", `{"NAME":"shout","CPU":{"TYPE":"65C02","CLOCK_SPEED":1},"MEMORY":{"SIZE":256,"TYPE":"ram"}}`)

	p, err := NewStore(dir).Load("shout")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p == nil || p.Name != "shout" {
		t.Fatalf("Load() = %+v, want Name=shout", p)
	}
}

func TestLoadRejectsPathSeparatorsAndTraversal(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"../escape", "a/b", `a\b`, ".."} {
		if _, err := NewStore(dir).Load(name); err != ErrInvalidName {
			t.Errorf("Load(%q) err = %v, want ErrInvalidName", name, err)
		}
	}
}

func TestLoadMissingFileReturnsNilNoError(t *testing.T) {
	dir := t.TempDir()
	p, err := NewStore(dir).Load("does-not-exist")
	if err != nil {
		t.Errorf("Load(missing) err = %v, want nil", err)
	}
	if p != nil {
		t.Errorf("Load(missing) = %+v, want nil", p)
	}
}

func TestLoadMalformedFileReturnsNilNoError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{not json at all`)
	p, err := NewStore(dir).Load("broken")
	if err != nil {
		t.Errorf("Load(malformed) err = %v, want nil", err)
	}
	if p != nil {
		t.Errorf("Load(malformed) = %+v, want nil", p)
	}
}

func TestLoadPathThrowsOnMalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	writeFile(t, dir, "broken.json", `{not json at all`)
	if _, err := NewStore(dir).LoadPath(path); err == nil {
		t.Error("LoadPath(malformed) err = nil, want error")
	}
}

func TestDefaultProfileFallback(t *testing.T) {
	if Default.Name != "simple-65c02" || Default.CPU.Type != "65C02" || Default.Memory.Size != 65536 {
		t.Errorf("Default = %+v, want name=simple-65c02 cpu.type=65C02 memory.size=65536", Default)
	}
}
