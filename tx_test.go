package deathnote

import (
	"testing"

	"github.com/UZHBCON/deathnote/errors"
)

type pingMsg struct {
	Text string
}

func (pingMsg) Path() string { return "test/ping" }

func (m pingMsg) Validate() error {
	if m.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type otherMsg struct{}

func (otherMsg) Path() string    { return "test/other" }
func (otherMsg) Validate() error { return nil }

type txMock struct {
	msg Msg
	err error
}

func (tx txMock) GetMsg() (Msg, error) { return tx.msg, tx.err }

func TestLoadMsg(t *testing.T) {
	cases := map[string]struct {
		tx      Tx
		dest    interface{}
		wantErr *errors.Error
		want    string
	}{
		"pointer message": {
			tx:   txMock{msg: &pingMsg{Text: "hi"}},
			dest: &pingMsg{},
			want: "hi",
		},
		"value message": {
			tx:   txMock{msg: pingMsg{Text: "hi"}},
			dest: &pingMsg{},
			want: "hi",
		},
		"invalid message": {
			tx:      txMock{msg: &pingMsg{}},
			dest:    &pingMsg{},
			wantErr: errors.ErrEmpty,
		},
		"type mismatch": {
			tx:      txMock{msg: &otherMsg{}},
			dest:    &pingMsg{},
			wantErr: errors.ErrType,
		},
		"missing message": {
			tx:      txMock{},
			dest:    &pingMsg{},
			wantErr: errors.ErrMsg,
		},
		"message error": {
			tx:      txMock{err: errors.ErrDatabase},
			dest:    &pingMsg{},
			wantErr: errors.ErrDatabase,
		},
		"not a pointer": {
			tx:      txMock{msg: &pingMsg{Text: "hi"}},
			dest:    pingMsg{},
			wantErr: errors.ErrHuman,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := LoadMsg(tc.tx, tc.dest)
			if tc.wantErr != nil {
				if !tc.wantErr.Is(err) {
					t.Fatalf("want %q error, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if got := tc.dest.(*pingMsg).Text; got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestGetPath(t *testing.T) {
	if got := GetPath(txMock{msg: &pingMsg{}}); got != "test/ping" {
		t.Fatalf("unexpected path: %q", got)
	}
	if got := GetPath(txMock{}); got != "(missing)" {
		t.Fatalf("unexpected path: %q", got)
	}
}
