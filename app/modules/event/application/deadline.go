package eventservice

import (
	"errors"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var errUnparsedDeadline = errors.New("no deadline found in text")

var deadlineLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func newDeadlineParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// parseDeadline reads a registration deadline. Absolute layouts are tried
// first; anything else is handed to the natural language parser relative to
// now. A bare date means the end of that day. Empty input means no deadline.
func (s *EventService) parseDeadline(raw string, now time.Time) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, raw, now.Location()); err == nil {
			return &t, nil
		}
	}
	if d, err := time.ParseInLocation(time.DateOnly, raw, now.Location()); err == nil {
		t := d.Add(24*time.Hour - time.Second)
		return &t, nil
	}

	r, err := s.parser.Parse(raw, now)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, errUnparsedDeadline
	}
	t := r.Time
	return &t, nil
}
