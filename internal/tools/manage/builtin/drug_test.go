package builtin

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/windlant/vqa-client/internal/drug"
	"github.com/windlant/vqa-client/internal/tools"
)

type fakeLookup struct {
	info drug.Info
	err  error
}

func (f fakeLookup) Lookup(context.Context, string) (drug.Info, error) {
	return f.info, f.err
}

func TestDrugTool(t *testing.T) {
	cases := []struct {
		name   string
		lookup fakeLookup
		kind   tools.ErrorKind
	}{
		{"not found", fakeLookup{err: drug.ErrNoMatch}, tools.KindNotFound},
		{"api error", fakeLookup{err: &drug.APIError{Code: "30", Message: "bad key"}}, tools.KindUpstream},
		{"transport", fakeLookup{err: errors.New("dial tcp: refused")}, tools.KindTransport},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := NewDrugTool(tc.lookup, discardLogger()).Function(context.Background(), tools.ToolArguments{"drug_name": "x"})
			if !res.IsErr() || res.Err.Kind != tc.kind {
				t.Fatalf("expected %s, got %#v", tc.kind, res)
			}
		})
	}

	res := NewDrugTool(fakeLookup{info: drug.Info{ItemName: "타이레놀"}}, discardLogger()).
		Function(context.Background(), tools.ToolArguments{"drug_name": "타이레놀"})
	if res.IsErr() || !strings.Contains(res.Value, "약물명: 타이레놀") {
		t.Fatalf("unexpected result %#v", res)
	}

	res = NewDrugTool(fakeLookup{}, discardLogger()).Function(context.Background(), tools.ToolArguments{})
	if !res.IsErr() || res.Err.Kind != tools.KindInvalidArguments {
		t.Fatalf("expected invalid_arguments, got %#v", res)
	}
}
