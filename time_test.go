package deathnote

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/UZHBCON/deathnote/errors"
)

func TestUnixTimeUnmarshal(t *testing.T) {
	cases := map[string]struct {
		raw     string
		want    UnixTime
		wantErr *errors.Error
	}{
		"number": {
			raw:  "1500000000",
			want: 1500000000,
		},
		"zero": {
			raw:  "0",
			want: 0,
		},
		"time string": {
			raw:  `"2017-07-14T02:40:00Z"`,
			want: 1500000000,
		},
		"negative number": {
			raw:     "-4",
			wantErr: errors.ErrInput,
		},
		"garbage": {
			raw:     `"yesterday"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	base := UnixTime(1000)
	if got := base.Add(30 * 24 * time.Hour); got != UnixTime(1000+30*86400) {
		t.Fatalf("unexpected result: %d", got)
	}
	if !UnixTime(0).IsZero() {
		t.Fatal("zero value must be zero")
	}
	if err := UnixTime(-1).Validate(); !errors.ErrState.Is(err) {
		t.Fatalf("unexpected validation result: %v", err)
	}
}
