package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fixedNow(t *testing.T) time.Time {
	t.Helper()

	ts := time.Date(2022, 4, 11, 8, 30, 0, 0, time.UTC)
	prev := now
	now = func() time.Time { return ts }

	t.Cleanup(func() { now = prev })

	return ts
}

const body = "# Participación 2022\n\n| Entidad | Votos |\n| ------- | ----- |\n| Colima  | 1,234 |"

func TestSign_RoundTrip(t *testing.T) {
	ts := fixedNow(t)

	signed := Sign(body, Metadata{Dataset: "2022", Source: "abc123", Validation: true})

	if !strings.HasPrefix(signed, body) {
		t.Fatalf("body not preserved:\n%s", signed)
	}

	meta, err := Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if meta.Dataset != "2022" || meta.Source != "abc123" || !meta.Validation {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	if !meta.LastModify.Equal(ts) {
		t.Errorf("LastModify = %v, want %v", meta.LastModify, ts)
	}
}

func TestSign_ReplacesBlock(t *testing.T) {
	fixedNow(t)

	once := Sign(body, Metadata{Dataset: "2021"})
	twice := Sign(once, Metadata{Dataset: "2021"})

	if once != twice {
		t.Errorf("re-signing changed output:\n%s\n---\n%s", once, twice)
	}

	if strings.Count(twice, TagStart) != 1 {
		t.Error("expected exactly one metadata block")
	}
}

func TestVerify_Errors(t *testing.T) {
	if _, err := Verify(body); !errors.Is(err, ErrNoMetadataBlock) {
		t.Errorf("unsigned: %v", err)
	}

	noHash := body + "\n\n" + TagStart + "\nVALIDATION: TRUE\n" + TagEnd
	if _, err := Verify(noHash); !errors.Is(err, ErrNoHashFound) {
		t.Errorf("no hash: %v", err)
	}

	tampered := strings.Replace(Sign(body, Metadata{}), "1,234", "9,999", 1)
	if _, err := Verify(tampered); !errors.Is(err, ErrHashMismatch) {
		t.Errorf("tampered: %v", err)
	}
}

func TestVerifySource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2022.json")
	if err := os.WriteFile(path, []byte(`{"entidadesHijas":[]}`), 0644); err != nil {
		t.Fatal(err)
	}

	sum, err := HashFile(path)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}

	meta := &Metadata{Source: sum}
	if err := VerifySource(meta, path); err != nil {
		t.Errorf("VerifySource: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	if err := VerifySource(meta, path); !errors.Is(err, ErrSourceMismatch) {
		t.Errorf("changed file: %v", err)
	}

	if _, err := HashFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
