// Package hosttest provides a small, fully linked scene for tests that need
// a live graph to evaluate against.
package hosttest

import (
	"bytes"
	_ "embed"
	"testing"

	"github.com/bpytools/rnagen/pkg/host"
)

//go:embed testdata/scene.yaml
var sceneYAML []byte

// SceneYAML returns the raw fixture document.
func SceneYAML() []byte {
	out := make([]byte, len(sceneYAML))
	copy(out, sceneYAML)
	return out
}

// Scene loads a fresh copy of the fixture scene. Every call returns an
// independent graph, so tests may mutate it freely.
func Scene(t testing.TB) *host.Namespace {
	t.Helper()
	ns, err := host.LoadScene(bytes.NewReader(sceneYAML))
	if err != nil {
		t.Fatalf("loading fixture scene: %v", err)
	}
	return ns
}

// MustEval evaluates path against ns and fails the test on error.
func MustEval(t testing.TB, ns *host.Namespace, path string) any {
	t.Helper()
	v, err := ns.Eval(path)
	if err != nil {
		t.Fatalf("evaluating %s: %v", path, err)
	}
	return v
}

// MustStruct is MustEval for paths that address a struct.
func MustStruct(t testing.TB, ns *host.Namespace, path string) *host.Struct {
	t.Helper()
	s, ok := MustEval(t, ns, path).(*host.Struct)
	if !ok {
		t.Fatalf("%s is not a struct", path)
	}
	return s
}
