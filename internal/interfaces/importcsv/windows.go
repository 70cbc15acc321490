package importcsv

import (
	"io"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

const defaultTimeLayout = "02/01/2006 15:04:05"

// WindowFile is the YAML layout mapping window labels to wall-clock bounds.
type WindowFile struct {
	TimeZone string                `yaml:"timezone"`
	Layout   string                `yaml:"layout"`
	Default  WindowSpec            `yaml:"default"`
	Windows  map[string]WindowSpec `yaml:"windows"`
}

type WindowSpec struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// Window is a resolved [Start, End] range in epoch seconds.
type Window struct {
	Start int64
	End   int64
}

// Windows resolves labels case-insensitively and falls back to the default
// window for unknown labels.
type Windows struct {
	byLabel  map[string]Window
	fallback Window
}

func LoadWindows(r io.Reader) (*Windows, error) {
	var file WindowFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, crerr.Wrap(err, "decode window file")
	}
	return file.Resolve()
}

func (f WindowFile) Resolve() (*Windows, error) {
	loc := time.UTC
	if tz := strings.TrimSpace(f.TimeZone); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			return nil, crerr.Wrapf(err, "load time zone %q", tz)
		}
	}
	layout := f.Layout
	if strings.TrimSpace(layout) == "" {
		layout = defaultTimeLayout
	}

	fallback, err := f.Default.resolve(layout, loc)
	if err != nil {
		return nil, crerr.Wrap(err, "default window")
	}

	out := &Windows{
		byLabel:  make(map[string]Window, len(f.Windows)),
		fallback: fallback,
	}
	for label, spec := range f.Windows {
		window, err := spec.resolve(layout, loc)
		if err != nil {
			return nil, crerr.Wrapf(err, "window %q", label)
		}
		out.byLabel[normalizeLabel(label)] = window
	}
	return out, nil
}

func (w *Windows) Lookup(label string) (Window, bool) {
	window, ok := w.byLabel[normalizeLabel(label)]
	if !ok {
		return w.fallback, false
	}
	return window, true
}

func (s WindowSpec) resolve(layout string, loc *time.Location) (Window, error) {
	start, err := time.ParseInLocation(layout, strings.TrimSpace(s.Start), loc)
	if err != nil {
		return Window{}, crerr.Wrapf(err, "parse start %q", s.Start)
	}
	end, err := time.ParseInLocation(layout, strings.TrimSpace(s.End), loc)
	if err != nil {
		return Window{}, crerr.Wrapf(err, "parse end %q", s.End)
	}
	if end.Before(start) {
		return Window{}, crerr.Newf("end %q before start %q", s.End, s.Start)
	}
	return Window{Start: start.Unix(), End: end.Unix()}, nil
}

func normalizeLabel(label string) string {
	return strings.ToLower(strings.Join(strings.Fields(label), " "))
}
