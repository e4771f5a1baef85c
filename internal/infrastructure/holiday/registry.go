// Package holiday loads business-day calendars from YAML holiday files.
//
// Each file in the configured directory defines one calendar; the calendar
// ID is the file name without its extension:
//
//	# IN-MUM.yaml
//	holidays:
//	  - date: 2024-03-25
//	    name: Holi
//	  - date: 2024-08-15
//	    name: Independence Day
//
// Weekends are non-business days on every calendar; the files only list the
// extra holidays.
package holiday

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harshitrathi14/LOS-LMS-sub001/internal/domain/valueobject"
	"github.com/harshitrathi14/LOS-LMS-sub001/pkg/businessday"
)

const dateLayout = "2006-01-02"

type calendarFile struct {
	Holidays []holidayEntry `yaml:"holidays"`
}

type holidayEntry struct {
	Date string `yaml:"date"`
	Name string `yaml:"name"`
}

// Registry resolves calendars by ID. It implements port.CalendarSource.
// The registry is immutable after loading, so lookups are safe for
// concurrent use.
type Registry struct {
	calendars map[string]*businessday.Calendar
}

// NewRegistry loads every *.yaml and *.yml file in dir. An empty dir yields
// a registry that only serves the weekend-only default calendar.
func NewRegistry(dir string) (*Registry, error) {
	r := &Registry{calendars: make(map[string]*businessday.Calendar)}
	if dir == "" {
		return r, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read holiday dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ext)
		cal, err := loadCalendar(filepath.Join(dir, entry.Name()), id)
		if err != nil {
			return nil, err
		}
		r.calendars[id] = cal
	}
	return r, nil
}

// Calendar returns the calendar with the given ID. An empty ID resolves to
// the weekend-only default.
func (r *Registry) Calendar(_ context.Context, id string) (*businessday.Calendar, error) {
	if id == "" {
		return businessday.NewCalendar("", nil), nil
	}
	cal, ok := r.calendars[id]
	if !ok {
		return nil, valueobject.NewConfigurationError("calendar_id", fmt.Sprintf("unknown calendar %q", id))
	}
	return cal, nil
}

// IDs lists the loaded calendar IDs, for startup logging.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.calendars))
	for id := range r.calendars {
		ids = append(ids, id)
	}
	return ids
}

func loadCalendar(path, id string) (*businessday.Calendar, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read calendar file %s: %w", path, err)
	}
	var file calendarFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse calendar file %s: %w", path, err)
	}

	holidays := make([]time.Time, 0, len(file.Holidays))
	for _, h := range file.Holidays {
		day, err := time.ParseInLocation(dateLayout, h.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("calendar %s: bad holiday date %q: %w", id, h.Date, err)
		}
		holidays = append(holidays, day)
	}
	return businessday.NewCalendar(id, holidays), nil
}
