package watcher

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/terror-zones/internal/config"
	"github.com/oshokin/terror-zones/internal/domain/zone"
	"github.com/oshokin/terror-zones/internal/service/common"
)

// scriptedSource returns prepared statuses in order.
type scriptedSource struct {
	// statuses are returned one per call; the last one repeats.
	statuses []zone.Status
	// err, when set, fails every call.
	err error
	// calls counts CurrentZone invocations.
	calls int
}

func (s *scriptedSource) CurrentZone(context.Context, int64) (zone.Status, error) {
	if s.err != nil {
		return zone.Status{}, s.err
	}

	idx := min(s.calls, len(s.statuses)-1)
	s.calls++

	return s.statuses[idx], nil
}

func (s *scriptedSource) ListZones(context.Context) ([]string, error) {
	return []string{"Alpha", "Beta", "Gamma"}, nil
}

// recordingAlerter remembers every alerted status.
type recordingAlerter struct {
	mu     sync.Mutex
	alerts []zone.Status
}

func (a *recordingAlerter) Alert(_ context.Context, status zone.Status) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.alerts = append(a.alerts, status)

	return nil
}

func (a *recordingAlerter) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.alerts)
}

func status(name string, start int64) zone.Status {
	return zone.Status{
		Window: zone.Window{
			Zone:        name,
			StartMillis: start,
		},
		SecondsUntilNextBoundary: 60,
	}
}

// TestPoll_AlertsOncePerWindow verifies a tracked window alerts once however often it is polled.
func TestPoll_AlertsOncePerWindow(t *testing.T) {
	t.Parallel()

	source := &scriptedSource{
		statuses: []zone.Status{
			status("Alpha", 0),
			status("Alpha", 0),
			status("Beta", zone.SlotMillis),
			status("Alpha", 2*zone.SlotMillis),
			status("Alpha", 2*zone.SlotMillis),
		},
	}
	alerter := new(recordingAlerter)
	w := New(source, alerter, []string{"Alpha"}, nil)

	var alerted []bool

	for range source.statuses {
		_, ok, err := w.Poll(context.Background())
		require.NoError(t, err)

		alerted = append(alerted, ok)
	}

	require.Equal(t, []bool{true, false, false, true, false}, alerted)
	require.Equal(t, 2, alerter.count())
}

// TestPoll_SourceError verifies source failures are wrapped and do not alert.
func TestPoll_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	alerter := new(recordingAlerter)
	w := New(&scriptedSource{err: boom}, alerter, []string{"Alpha"}, nil)

	_, alerted, err := w.Poll(context.Background())
	require.ErrorIs(t, err, boom)
	require.False(t, alerted)
	require.Zero(t, alerter.count())
}

// TestResolveTracked verifies names are canonicalized and unknown names are rejected.
func TestResolveTracked(t *testing.T) {
	t.Parallel()

	source := new(scriptedSource)

	resolved, err := ResolveTracked(context.Background(), source, []string{" alpha ", "GAMMA"})
	require.NoError(t, err)
	require.Equal(t, []string{"Alpha", "Gamma"}, resolved)

	_, err = ResolveTracked(context.Background(), source, []string{"Delta"})
	require.ErrorIs(t, err, zone.ErrUnknownZone)
}

// TestWriterAlerter verifies the alert line names the zone and the remaining time.
func TestWriterAlerter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := NewWriterAlerter(&buf).Alert(context.Background(), status("Chaos Sanctuary", 891000000))
	require.NoError(t, err)
	require.Equal(t, "[1970-01-11T07:30:00Z] Chaos Sanctuary is active for another 1m0s\n", buf.String())
}

// TestRun_AlertsEachRotation verifies the polling loop alerts once for every window it observes.
func TestRun_AlertsEachRotation(t *testing.T) {
	t.Parallel()

	synctest.Test(t, func(t *testing.T) {
		engine, err := common.NewEngine(context.Background(), "", 0)
		require.NoError(t, err)

		alerter := new(recordingAlerter)
		w := New(common.NewLocalSource(engine), alerter, engine.Catalog().Names(), time.Now)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)

		go func() {
			done <- w.Run(ctx, time.Minute)
		}()

		// The bubble clock starts on a window boundary, so 31 minutes span three windows.
		time.Sleep(31 * time.Minute)
		synctest.Wait()

		cancel()
		require.NoError(t, <-done)
		require.Equal(t, 3, alerter.count())
	})
}

// TestRun_RejectsIntervalOutOfRange verifies an interval override obeys the settings bounds.
func TestRun_RejectsIntervalOutOfRange(t *testing.T) {
	t.Parallel()

	for _, interval := range []time.Duration{time.Millisecond, 2 * time.Minute} {
		options := &Options{
			ConfigPath:   filepath.Join(t.TempDir(), "missing.yaml"),
			PollInterval: interval,
			Out:          new(bytes.Buffer),
		}

		err := Run(context.Background(), options)
		require.ErrorIs(t, err, config.ErrPollIntervalOutOfRange, "interval %s", interval)
	}
}
