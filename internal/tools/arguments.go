package tools

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chrisdamba/trafficmcp/internal/models"
	"github.com/mitchellh/mapstructure"
)

var ErrMissingArgument = errors.New("missing argument")

// MissingArgumentError names the required arguments a call left out.
type MissingArgumentError struct {
	Names []string
}

func (e *MissingArgumentError) Error() string {
	if len(e.Names) == 1 {
		return e.Names[0] + " parameter is required"
	}
	return strings.Join(e.Names, " and ") + " parameters are required"
}

func (e *MissingArgumentError) Is(target error) bool {
	return target == ErrMissingArgument
}

func missing(names ...string) error {
	return &MissingArgumentError{Names: names}
}

// decodeArgs copies an argument object, or a single argument, into out.
// Input is weakly typed so JSON numbers land in int fields and numeric
// strings are accepted.
func decodeArgs(args any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// ParseDate accepts a calendar date (midnight UTC) or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC 3339", s)
}

type dateRangeArgs struct {
	StartDate string `mapstructure:"start_date"`
	EndDate   string `mapstructure:"end_date"`
}

// optional returns nil unless both ends are given.
func (a dateRangeArgs) optional() (*models.DateRange, error) {
	if a.StartDate == "" || a.EndDate == "" {
		return nil, nil
	}
	return a.required()
}

func (a dateRangeArgs) required() (*models.DateRange, error) {
	if a.StartDate == "" || a.EndDate == "" {
		return nil, missing("start_date", "end_date")
	}
	start, err := ParseDate(a.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(a.EndDate)
	if err != nil {
		return nil, err
	}
	return &models.DateRange{Start: start, End: end}, nil
}
