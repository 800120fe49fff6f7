package locale

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type failingStorage struct {
	getErr error
	setErr error
	sets   []string
}

func (f *failingStorage) Get(context.Context, string) (string, bool, error) {
	return "", false, f.getErr
}

func (f *failingStorage) Set(_ context.Context, _ string, value string) error {
	f.sets = append(f.sets, value)
	return f.setErr
}

func TestInit_PrefersStoredValue(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	if err := storage.Set(ctx, StorageKey, "th"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	consulted := false
	store := NewStore(storage, WithDevice(func() string {
		consulted = true
		return "en_US.UTF-8"
	}))
	if got := store.Init(ctx); got != Thai {
		t.Fatalf("expected th, got %q", got)
	}
	if consulted {
		t.Fatalf("device must not be consulted when a preference is stored")
	}
	if !store.Resolved() {
		t.Fatalf("expected resolved store")
	}
}

func TestInit_FallsBackToDeviceThenDefault(t *testing.T) {
	ctx := context.Background()

	cases := map[string]struct {
		device string
		stored string
		want   Locale
	}{
		"thai device":        {device: "th_TH.UTF-8", want: Thai},
		"english device":     {device: "en-GB", want: English},
		"unsupported device": {device: "fr_FR.UTF-8", want: Default},
		"posix device":       {device: "C", want: Default},
		"unknown device":     {device: "", want: Default},
		"invalid stored":     {device: "th", stored: "de", want: Thai},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			storage := NewMemoryStorage()
			if tc.stored != "" {
				_ = storage.Set(ctx, StorageKey, tc.stored)
			}
			store := NewStore(storage, WithDevice(FixedDevice(tc.device)))
			if got := store.Init(ctx); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestInit_StorageFailureUsesFallback(t *testing.T) {
	store := NewStore(&failingStorage{getErr: errors.New("disk on fire")},
		WithDevice(FixedDevice("th")),
		WithFallback(English),
	)
	if got := store.Init(context.Background()); got != English {
		t.Fatalf("expected fallback on storage failure, got %q", got)
	}
}

func TestCurrent_InterimDefaultBeforeInit(t *testing.T) {
	store := NewStore(nil, WithDevice(FixedDevice("th")))
	if got := store.Current(); got != Default {
		t.Fatalf("expected interim default, got %q", got)
	}
	if store.Resolved() {
		t.Fatalf("store must not report resolved before Init")
	}
	if got := <-store.InitAsync(context.Background()); got != Thai {
		t.Fatalf("expected async init to resolve th, got %q", got)
	}
}

// gatedStorage reads its value, then holds the read until release is closed.
type gatedStorage struct {
	*MemoryStorage
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := g.MemoryStorage.Get(ctx, key)
	close(g.entered)
	<-g.release
	return value, ok, err
}

func TestInitAsync_ToggleDuringReadWins(t *testing.T) {
	ctx := context.Background()
	storage := &gatedStorage{
		MemoryStorage: NewMemoryStorage(),
		entered:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	store := NewStore(storage, WithDevice(FixedDevice("en_US")))

	var observed []Locale
	store.Subscribe(func(l Locale) { observed = append(observed, l) })

	done := store.InitAsync(ctx)
	<-storage.entered
	if got := store.Toggle(ctx); got != Thai {
		t.Fatalf("expected toggle to th, got %q", got)
	}
	close(storage.release)

	if got := <-done; got != Thai {
		t.Fatalf("expected init to keep the toggled locale, got %q", got)
	}
	stored, _, _ := storage.MemoryStorage.Get(ctx, StorageKey)
	if stored != "th" || store.Current() != Thai {
		t.Fatalf("storage and current diverged: stored=%q current=%q", stored, store.Current())
	}
	if !store.Resolved() {
		t.Fatalf("store must be resolved after init")
	}
	if diff := cmp.Diff([]Locale{Thai}, observed); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestToggle_PersistsBeforeNotifying(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()
	store := NewStore(storage, WithDevice(FixedDevice("en")))
	store.Init(ctx)

	var observed []Locale
	store.Subscribe(func(l Locale) {
		stored, _, _ := storage.Get(ctx, StorageKey)
		if stored != l.String() {
			t.Errorf("listener saw %q before storage held it (stored %q)", l, stored)
		}
		if store.Current() != l {
			t.Errorf("listener saw stale Current")
		}
		observed = append(observed, l)
	})

	if got := store.Toggle(ctx); got != Thai {
		t.Fatalf("expected th, got %q", got)
	}
	if got := store.Toggle(ctx); got != English {
		t.Fatalf("expected en, got %q", got)
	}
	if diff := cmp.Diff([]Locale{Thai, English}, observed); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestToggle_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs", "preferences.yaml")

	first := NewStore(NewFileStorage(path), WithDevice(FixedDevice("en_US")))
	first.Init(ctx)
	first.Toggle(ctx)

	consulted := false
	second := NewStore(NewFileStorage(path), WithDevice(func() string {
		consulted = true
		return "en_US"
	}))
	if got := second.Init(ctx); got != Thai {
		t.Fatalf("expected persisted th, got %q", got)
	}
	if consulted {
		t.Fatalf("device must not be consulted after a toggle was persisted")
	}
}

func TestToggle_WriteFailureStillFlips(t *testing.T) {
	storage := &failingStorage{setErr: errors.New("read-only")}
	store := NewStore(storage, WithDevice(FixedDevice("")))
	store.Init(context.Background())

	if got := store.Toggle(context.Background()); got != Thai {
		t.Fatalf("expected flip despite write failure, got %q", got)
	}
	if diff := cmp.Diff([]string{"th"}, storage.sets); diff != "" {
		t.Fatalf("write attempts mismatch (-want +got):\n%s", diff)
	}
}

func TestSet_RejectsUnsupported(t *testing.T) {
	store := NewStore(nil)
	var unsupported *UnsupportedError
	if err := store.Set(context.Background(), Locale("fr")); !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedError, got %v", err)
	}
	if err := store.Set(context.Background(), Thai); err != nil {
		t.Fatalf("set: %v", err)
	}
	if store.Current() != Thai {
		t.Fatalf("expected th")
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	store := NewStore(nil)
	calls := 0
	unsubscribe := store.Subscribe(func(Locale) { calls++ })
	store.Toggle(context.Background())
	unsubscribe()
	unsubscribe()
	store.Toggle(context.Background())
	if calls != 1 {
		t.Fatalf("expected a single notification, got %d", calls)
	}
}
