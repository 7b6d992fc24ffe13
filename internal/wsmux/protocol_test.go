package wsmux

import (
	"encoding/json"
	"testing"
)

func TestCreateMessageRoundTripsArgv(t *testing.T) {
	want := createMessage{Type: "create", Cols: 80, Rows: 24, Argv: []string{"/bin/zsh", "-l"}}
	b := marshal(want)

	var got createMessage
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(got.Argv) != 2 || got.Argv[0] != "/bin/zsh" || got.Argv[1] != "-l" {
		t.Errorf("Argv = %v, want [/bin/zsh -l]", got.Argv)
	}
}

func TestCreateMessageOmitsEmptyArgv(t *testing.T) {
	b := marshal(createMessage{Type: "create", Cols: 80, Rows: 24})
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := raw["argv"]; ok {
		t.Errorf("expected argv to be omitted when empty, got %s", b)
	}
}
