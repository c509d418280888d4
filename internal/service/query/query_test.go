package query

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/repository/catalog"
)

// referenceMillis is 2023-11-14T22:13:20Z, 100 seconds before a boundary.
const referenceMillis = "1700000000000"

func newOptions(t *testing.T, output Format) (*Options, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer

	return &Options{
		ConfigPath: filepath.Join(t.TempDir(), "missing.yaml"),
		At:         referenceMillis,
		Output:     output,
		Out:        &buf,
	}, &buf
}

// TestCurrent_Text verifies the human-readable current zone output.
func TestCurrent_Text(t *testing.T) {
	t.Parallel()

	opts, buf := newOptions(t, FormatText)

	require.NoError(t, Current(context.Background(), opts))
	require.Equal(t,
		"Flayer Jungle and Flayer Dungeon\nactive since 2023-11-14T22:00:00Z, rotates in 1m40s\n",
		buf.String(),
	)
}

// TestNext_JSON verifies the forecast renders in order with countdowns.
func TestNext_JSON(t *testing.T) {
	t.Parallel()

	opts, buf := newOptions(t, FormatJSON)

	require.NoError(t, Next(context.Background(), opts, 2))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)

	require.Equal(t, "Durance of Hate", got[0]["zone"])
	require.Equal(t, "2023-11-14T22:15:00Z", got[0]["start"])
	require.Equal(t, "2023-11-14T22:30:00Z", got[0]["end"])
	require.InDelta(t, 100, got[0]["seconds_until_active"], 0)

	require.Equal(t, "Chaos Sanctuary", got[1]["zone"])
	require.InDelta(t, 1000, got[1]["seconds_until_active"], 0)
}

// TestNext_RejectsNegativeCount verifies invalid counts surface the engine error.
func TestNext_RejectsNegativeCount(t *testing.T) {
	t.Parallel()

	opts, _ := newOptions(t, FormatText)

	require.ErrorIs(t, Next(context.Background(), opts, -1), zone.ErrInvalidArgument)
}

// TestFind_YAML verifies lookups are case-insensitive and report the canonical name.
func TestFind_YAML(t *testing.T) {
	t.Parallel()

	opts, buf := newOptions(t, FormatYAML)

	require.NoError(t, Find(context.Background(), opts, "black marsh and the hole"))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, true, got["found"])

	entry, ok := got["entry"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "Black Marsh and The Hole", entry["zone"])
	require.Equal(t, 4600, entry["seconds_until_active"])
}

// TestFind_NotScheduled verifies a zone absent from the horizon is reported, not failed.
func TestFind_NotScheduled(t *testing.T) {
	t.Parallel()

	opts, buf := newOptions(t, FormatText)

	require.NoError(t, Find(context.Background(), opts, "Blood Moor and Den of Evil"))
	require.Equal(t, "Blood Moor and Den of Evil is not scheduled within the search horizon\n", buf.String())
}

// TestFind_UnknownZone verifies names outside the catalog are rejected.
func TestFind_UnknownZone(t *testing.T) {
	t.Parallel()

	opts, _ := newOptions(t, FormatText)

	require.ErrorIs(t, Find(context.Background(), opts, "Cow Level"), zone.ErrUnknownZone)
}

// TestZones_Text verifies the catalog listing is numbered in rotation order.
func TestZones_Text(t *testing.T) {
	t.Parallel()

	opts, buf := newOptions(t, FormatText)
	opts.At = ""

	require.NoError(t, Zones(context.Background(), opts))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 36)
	require.Equal(t, " 0  Blood Moor and Den of Evil", string(lines[0]))
}

// TestExportCatalog verifies the exported file loads back to the same catalog.
func TestExportCatalog(t *testing.T) {
	t.Parallel()

	opts, _ := newOptions(t, FormatText)
	path := filepath.Join(t.TempDir(), "catalog.yaml")

	require.NoError(t, ExportCatalog(context.Background(), opts, path))

	exported, err := catalog.NewFileRepository(path).Load(context.Background())
	require.NoError(t, err)

	embedded, err := catalog.Embedded().Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, embedded.Names(), exported.Names())
}

// TestParseAt verifies both accepted time notations and the fallback to now.
func TestParseAt(t *testing.T) {
	t.Parallel()

	fixed := time.UnixMilli(42)

	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "empty uses clock", value: "", want: 42},
		{name: "milliseconds", value: "1700000000000", want: 1700000000000},
		{name: "negative milliseconds", value: "-1", want: -1},
		{name: "rfc3339", value: "2023-11-14T22:13:20Z", want: 1700000000000},
		{name: "rfc3339 with offset", value: "2023-11-15T01:13:20+03:00", want: 1700000000000},
		{name: "garbage", value: "tomorrow", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParseAt(tt.value, func() time.Time { return fixed })
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTime)
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

// TestParseFormat verifies format names are case-insensitive and validated.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	got, err := ParseFormat(" JSON ")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, got)

	got, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatText, got)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
