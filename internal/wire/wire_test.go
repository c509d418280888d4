package wire

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"
)

// TestCodec_RegisteredAndCompact checks registration and the integer-key layout.
func TestCodec_RegisteredAndCompact(t *testing.T) {
	t.Parallel()

	require.NotNil(t, encoding.GetCodec(CodecName))

	data, err := Codec{}.Marshal(&CurrentZoneRequest{AtMillis: 5})
	require.NoError(t, err)
	require.Equal(t, []byte{0xa1, 0x01, 0x05}, data)

	// Zero time is omitted entirely.
	data, err = Codec{}.Marshal(&CurrentZoneRequest{})
	require.NoError(t, err)
	require.Equal(t, []byte{0xa0}, data)
}

// TestCodec_SkipsUnknownKeys ensures older clients accept responses with extra fields.
func TestCodec_SkipsUnknownKeys(t *testing.T) {
	t.Parallel()

	// {1: "Tristram", 2: 900000, 3: 1800000, 9: true}
	data := []byte{
		0xa4,
		0x01, 0x68, 'T', 'r', 'i', 's', 't', 'r', 'a', 'm',
		0x02, 0x1a, 0x00, 0x0d, 0xbb, 0xa0,
		0x03, 0x1a, 0x00, 0x1b, 0x77, 0x40,
		0x09, 0xf5,
	}

	var w ZoneWindow
	require.NoError(t, Codec{}.Unmarshal(data, &w))
	require.Equal(t, ZoneWindow{Zone: "Tristram", StartMillis: 900_000, EndMillis: 1_800_000}, w)

	require.Error(t, Codec{}.Unmarshal([]byte{0xff}, &w))
}

// TestRequestValidation covers forecast and find request bounds.
func TestRequestValidation(t *testing.T) {
	t.Parallel()

	require.NoError(t, (&ForecastRequest{Count: 0}).Validate())
	require.NoError(t, (&ForecastRequest{Count: MaxForecastCount}).Validate())
	require.ErrorIs(t, (&ForecastRequest{Count: -1}).Validate(), ErrNegativeCount)
	require.ErrorIs(t, (&ForecastRequest{Count: MaxForecastCount + 1}).Validate(), ErrCountTooLarge)

	require.NoError(t, (&FindZoneRequest{Zone: "The Pit"}).Validate())
	require.ErrorIs(t, (&FindZoneRequest{Zone: "  "}).Validate(), ErrZoneRequired)
	require.ErrorIs(t, (&FindZoneRequest{Zone: strings.Repeat("x", MaxZoneNameLength+1)}).Validate(), ErrZoneTooLong)
}

// TestUnimplementedServer answers with codes.Unimplemented.
func TestUnimplementedServer(t *testing.T) {
	t.Parallel()

	var s UnimplementedZoneServiceServer

	_, err := s.GetCurrentZone(context.Background(), new(CurrentZoneRequest))
	require.Equal(t, codes.Unimplemented, status.Code(err))

	_, err = s.ListZones(context.Background(), new(ListZonesRequest))
	require.Equal(t, codes.Unimplemented, status.Code(err))
}

// TestNilGetters ensures getters tolerate nil receivers.
func TestNilGetters(t *testing.T) {
	t.Parallel()

	var (
		entry   *ForecastEntry
		current *CurrentZoneResponse
		found   *FindZoneResponse
	)

	require.Nil(t, entry.GetWindow())
	require.Nil(t, current.GetWindow())
	require.Nil(t, found.GetEntry())
	require.Empty(t, entry.GetWindow().GetZone())
}
