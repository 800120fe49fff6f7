package locale

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStorage(t *testing.T, storage Storage) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := storage.Get(ctx, StorageKey); err != nil || ok {
		t.Fatalf("expected empty storage, ok=%v err=%v", ok, err)
	}
	if err := storage.Set(ctx, StorageKey, "th"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := storage.Set(ctx, StorageKey, "en"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := storage.Get(ctx, StorageKey)
	if err != nil || !ok || value != "en" {
		t.Fatalf("expected en, got %q ok=%v err=%v", value, ok, err)
	}
}

func TestMemoryStorage(t *testing.T) {
	exerciseStorage(t, NewMemoryStorage())
}

func TestFileStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", preferencesFile)
	exerciseStorage(t, NewFileStorage(path))

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
}

func TestFileStorage_CorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), preferencesFile)
	if err := os.WriteFile(path, []byte(": : :\n- ["), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, _, err := NewFileStorage(path).Get(context.Background(), StorageKey); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestSQLiteStorage(t *testing.T) {
	storage, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer storage.Close()
	exerciseStorage(t, storage)
}

func TestFromDevice(t *testing.T) {
	cases := map[string]Locale{
		"th_TH.UTF-8": Thai,
		"th":          Thai,
		"en-US":       English,
		"en_GB@euro":  English,
	}
	for raw, want := range cases {
		got, ok := FromDevice(raw)
		if !ok || got != want {
			t.Fatalf("%q: expected %q, got %q ok=%v", raw, want, got, ok)
		}
	}
	for _, raw := range []string{"", "C", "POSIX", "ja_JP", "not a tag"} {
		if got, ok := FromDevice(raw); ok {
			t.Fatalf("%q: expected unsupported, got %q", raw, got)
		}
	}
}

func TestEnvDevice(t *testing.T) {
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANGUAGE", "th_TH:en_US")
	t.Setenv("LANG", "en_US.UTF-8")
	if got := EnvDevice(); got != "th_TH" {
		t.Fatalf("expected LANGUAGE to win, got %q", got)
	}
}
