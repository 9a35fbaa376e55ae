package deathnote

import (
	"encoding/json"
	"time"

	"github.com/UZHBCON/deathnote/errors"
)

// UnixTime is a block time in seconds since the epoch. Deadlines and
// confirmation times are stored with this precision only.
type UnixTime int64

// AsUnixTime drops the sub second part of t.
func AsUnixTime(t time.Time) UnixTime {
	return UnixTime(t.Unix())
}

func (t UnixTime) Time() time.Time {
	return time.Unix(int64(t), 0)
}

// IsZero reports whether the time is unset. An unconfirmed testament has
// a zero confirmation time.
func (t UnixTime) IsZero() bool {
	return t == 0
}

// Add returns t moved by d, truncated to whole seconds.
func (t UnixTime) Add(d time.Duration) UnixTime {
	return t + UnixTime(d/time.Second)
}

func (t UnixTime) Validate() error {
	if t < 0 {
		return errors.Wrap(errors.ErrState, "negative value")
	}
	return nil
}

func (t UnixTime) String() string {
	return t.Time().UTC().String()
}

// UnmarshalJSON accepts a number of seconds as well as an RFC 3339 string.
// The string form is easier to write in a genesis file.
func (t *UnixTime) UnmarshalJSON(raw []byte) error {
	var seconds int64
	if err := json.Unmarshal(raw, &seconds); err != nil {
		var stamp time.Time
		if err := json.Unmarshal(raw, &stamp); err != nil {
			return errors.Wrap(errors.ErrInput, "invalid time format")
		}
		seconds = stamp.Unix()
	}
	if seconds < 0 {
		return errors.Wrap(errors.ErrInput, "time before epoch")
	}
	*t = UnixTime(seconds)
	return nil
}
