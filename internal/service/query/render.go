package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/terror-zones/internal/domain/zone"
)

// Format selects how results are rendered.
type Format string

const (
	// FormatText renders human-readable lines.
	FormatText Format = "text"
	// FormatJSON renders indented JSON.
	FormatJSON Format = "json"
	// FormatYAML renders YAML.
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates an output format name. Empty selects text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// window is the machine-readable form of a rotation window.
type window struct {
	Zone  string `json:"zone"  yaml:"zone"`
	Start string `json:"start" yaml:"start"`
	End   string `json:"end"   yaml:"end"`
}

// currentResult is the machine-readable form of the current zone.
type currentResult struct {
	window `yaml:",inline"`

	SecondsUntilNextBoundary int64 `json:"seconds_until_next_boundary" yaml:"seconds_until_next_boundary"`
}

// forecastResult is the machine-readable form of a forecast entry.
type forecastResult struct {
	window `yaml:",inline"`

	SecondsUntilActive int64 `json:"seconds_until_active" yaml:"seconds_until_active"`
}

// findResult is the machine-readable form of a zone lookup.
type findResult struct {
	Query string          `json:"query"           yaml:"query"`
	Found bool            `json:"found"           yaml:"found"`
	Entry *forecastResult `json:"entry,omitempty" yaml:"entry,omitempty"`
}

// renderer writes results in one format.
type renderer struct {
	// out receives the rendered output.
	out io.Writer
	// format selects the encoding.
	format Format
}

// newRenderer validates the format and defaults out to stdout.
func newRenderer(out io.Writer, format Format) (*renderer, error) {
	format, err := ParseFormat(string(format))
	if err != nil {
		return nil, err
	}

	return &renderer{
		out:    stdout(out),
		format: format,
	}, nil
}

func (r *renderer) current(status zone.Status) error {
	if r.format != FormatText {
		return r.encode(currentResult{
			window:                   toWindow(status.Window),
			SecondsUntilNextBoundary: status.SecondsUntilNextBoundary,
		})
	}

	_, err := fmt.Fprintf(r.out, "%s\nactive since %s, rotates in %s\n",
		status.Zone, formatTime(status.Start()), formatSeconds(status.SecondsUntilNextBoundary))

	return wrapWrite(err)
}

func (r *renderer) forecast(entries []zone.ForecastEntry) error {
	if r.format != FormatText {
		results := make([]forecastResult, 0, len(entries))
		for _, entry := range entries {
			results = append(results, toForecast(entry))
		}

		return r.encode(results)
	}

	tw := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTS\tIN\tZONE")

	for _, entry := range entries {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n",
			formatTime(entry.Start()), formatSeconds(entry.SecondsUntilActive), entry.Zone)
	}

	return wrapWrite(tw.Flush())
}

func (r *renderer) find(query string, entry zone.ForecastEntry, found bool) error {
	if r.format != FormatText {
		result := findResult{
			Query: query,
			Found: found,
		}

		if found {
			converted := toForecast(entry)
			result.Entry = &converted
		}

		return r.encode(result)
	}

	var err error
	if found {
		_, err = fmt.Fprintf(r.out, "%s\nstarts %s, in %s\n",
			entry.Zone, formatTime(entry.Start()), formatSeconds(entry.SecondsUntilActive))
	} else {
		_, err = fmt.Fprintf(r.out, "%s is not scheduled within the search horizon\n", query)
	}

	return wrapWrite(err)
}

func (r *renderer) zones(names []string) error {
	if r.format != FormatText {
		return r.encode(names)
	}

	for i, name := range names {
		if _, err := fmt.Fprintf(r.out, "%2d  %s\n", i, name); err != nil {
			return wrapWrite(err)
		}
	}

	return nil
}

// encode writes v as JSON or YAML.
func (r *renderer) encode(v any) error {
	switch r.format {
	case FormatJSON:
		encoder := json.NewEncoder(r.out)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(r.out)
		encoder.SetIndent(2)

		if err := encoder.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		if err := encoder.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	case FormatText:
		return fmt.Errorf("%w: text has no structured encoding", ErrUnknownFormat)
	}

	return nil
}

func toWindow(w zone.Window) window {
	return window{
		Zone:  w.Zone,
		Start: formatTime(w.Start()),
		End:   formatTime(w.End()),
	}
}

func toForecast(entry zone.ForecastEntry) forecastResult {
	return forecastResult{
		window:             toWindow(entry.Window),
		SecondsUntilActive: entry.SecondsUntilActive,
	}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func formatSeconds(seconds int64) string {
	return (time.Duration(seconds) * time.Second).String()
}

func wrapWrite(err error) error {
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
