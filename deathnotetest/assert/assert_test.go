package assert

import (
	"fmt"
	"testing"
)

type tester struct {
	failed bool
}

func (t *tester) Helper()                       {}
func (t *tester) Fatal(...interface{})          { t.failed = true }
func (t *tester) Fatalf(string, ...interface{}) { t.failed = true }

func TestNil(t *testing.T) {
	cases := map[string]struct {
		value    interface{}
		wantFail bool
	}{
		"nil":             {value: nil},
		"nil error":       {value: error(nil)},
		"nil map":         {value: map[string]int(nil)},
		"nil pointer":     {value: (*int)(nil)},
		"non nil error":   {value: fmt.Errorf("x"), wantFail: true},
		"non nil integer": {value: 0, wantFail: true},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var tt tester
			Nil(&tt, tc.value)
			if tt.failed != tc.wantFail {
				t.Fatalf("want failed=%v", tc.wantFail)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	var tt tester
	Equal(&tt, []int{1, 2}, []int{1, 2})
	if tt.failed {
		t.Fatal("equal slices")
	}
	Equal(&tt, int64(1), 1)
	if !tt.failed {
		t.Fatal("different types must not be equal")
	}
}

func TestPanics(t *testing.T) {
	var tt tester
	Panics(&tt, func() { panic("boom") })
	if tt.failed {
		t.Fatal("panic not detected")
	}
	Panics(&tt, func() {})
	if !tt.failed {
		t.Fatal("missing panic not detected")
	}
}
