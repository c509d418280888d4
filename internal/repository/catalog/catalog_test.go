package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/terror-zones/internal/domain/zone"
)

// TestEmbedded_ReferenceCatalog checks the bundled catalog size and order.
func TestEmbedded_ReferenceCatalog(t *testing.T) {
	t.Parallel()

	catalog, err := Embedded().Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, 36, catalog.Len())
	require.Equal(t, "Blood Moor and Den of Evil", catalog.Name(0))
	require.Equal(t, "Chaos Sanctuary", catalog.Name(28))
	require.Equal(t, "Worldstone Keep, Throne of Destruction, and Worldstone Chamber", catalog.Name(35))
}

// TestEmbedded_GoldenRotation pins zones resolved against the bundled catalog.
func TestEmbedded_GoldenRotation(t *testing.T) {
	t.Parallel()

	catalog, err := Embedded().Load(context.Background())
	require.NoError(t, err)

	engine, err := zone.NewEngine(catalog)
	require.NoError(t, err)

	// Slot 990 starts at 891000000 ms and has seed 990 + 10 = 1000.
	require.Equal(t, int64(1000), zone.Seed(zone.SlotIndex(891_000_000)))
	require.Equal(t, "Chaos Sanctuary", engine.CurrentZone(891_000_000).Zone)

	require.Equal(t, "Flayer Jungle and Flayer Dungeon", engine.CurrentZone(1_700_000_000_000).Zone)
	require.Equal(t, "Burial Grounds, The Crypt, and The Mausoleum", engine.CurrentZone(0).Zone)
}

// TestFileRepository_NotFound verifies Load returns ErrNotFound for a missing file.
func TestFileRepository_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing.yaml"))

	catalog, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
	require.Nil(t, catalog)
}

// TestFileRepository_SaveLoad_Roundtrip ensures order and duplicates survive a roundtrip.
func TestFileRepository_SaveLoad_Roundtrip(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "zones.yaml")
	repo := NewFileRepository(file)

	want, err := zone.NewCatalog([]string{"The Pit", "Chaos Sanctuary", "The Pit"})
	require.NoError(t, err)

	require.NoError(t, repo.Save(context.Background(), want))

	got, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, want.Names(), got.Names())

	require.ErrorIs(t, repo.Save(context.Background(), nil), zone.ErrEmptyCatalog)
}

// TestFileRepository_RejectsMalformed covers empty catalogs and unknown keys.
func TestFileRepository_RejectsMalformed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("zones: []\n"), 0o600))

	_, err := NewFileRepository(empty).Load(context.Background())
	require.ErrorIs(t, err, zone.ErrEmptyCatalog)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("areas:\n  - Tristram\n"), 0o600))

	_, err = NewFileRepository(unknown).Load(context.Background())
	require.Error(t, err)
}

// TestOpen picks the embedded catalog for an empty path.
func TestOpen(t *testing.T) {
	t.Parallel()

	require.IsType(t, new(EmbeddedRepository), Open(""))
	require.IsType(t, new(FileRepository), Open("zones.yaml"))
}
