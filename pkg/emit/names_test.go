package emit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVarNames(t *testing.T) {
	names := newVarNames()
	var got []string
	for _, n := range []string{"Principled BSDF", "Mix", "Mix", "Tree", "1 Value", "", "Mix.001", "for", "  Ä b"} {
		got = append(got, names.next(n))
	}
	want := []string{"principled_bsdf", "mix", "mix_2", "tree_2", "node_1_value", "node", "mix_001", "for_2", "b"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected names (-want +got):\n%s", diff)
	}
}
