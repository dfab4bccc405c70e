/*

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package digest splits a full datapath into the typed roots it passes
// through and the leaf property it ends on.
package digest

import (
	"errors"
	"fmt"

	"github.com/bpytools/rnagen/pkg/datapath"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/go-logr/logr"
)

// ErrNoTypedRoot is returned when a path does not pass through any typed
// root, or does not end on a leaf property when one is required. It is an
// expected, user facing condition.
var ErrNoTypedRoot = errors.New("no typed root found for path")

// Root is one typed ancestor of a digested path. Relative is the leaf
// property path as seen from Path.
type Root struct {
	Path     string `json:"path"`
	TypeName string `json:"typeName"`
	Relative string `json:"relative"`
}

// Chain lists typed roots outermost first.
type Chain []Root

// Types returns the distinct type names of the chain in order.
func (c Chain) Types() []string {
	var out []string
	seen := make(map[string]struct{}, len(c))
	for _, r := range c {
		if _, ok := seen[r.TypeName]; ok {
			continue
		}
		seen[r.TypeName] = struct{}{}
		out = append(out, r.TypeName)
	}
	return out
}

// Find returns the innermost root of the given type.
func (c Chain) Find(typeName string) (Root, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].TypeName == typeName {
			return c[i], true
		}
	}
	return Root{}, false
}

// Result is the outcome of digesting one path.
type Result struct {
	Chain Chain
	// Leaf is the leaf property value, if one was reached.
	Leaf      any
	LeafPath  string
	FoundLeaf bool
}

// Digester evaluates paths prefix by prefix against a namespace.
type Digester struct {
	ns       *host.Namespace
	log      logr.Logger
	reporter metrics.Reporter
}

// Option configures a Digester.
type Option func(*Digester)

// Logger sets the logger evaluation failures are written to.
func Logger(l logr.Logger) Option {
	return func(d *Digester) {
		d.log = l
	}
}

// Reporter sets the metrics reporter.
func Reporter(r metrics.Reporter) Option {
	return func(d *Digester) {
		d.reporter = r
	}
}

func New(ns *host.Namespace, opts ...Option) *Digester {
	d := &Digester{
		ns:       ns,
		log:      logr.Discard(),
		reporter: metrics.NoopReporter(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = d.log.WithName("digest")
	return d
}

// Digest evaluates every prefix of fullPath and builds the chain of typed
// roots leading to its leaf property.
//
// With allTypes unset the chain keeps only the current anchor: it is reset
// when a type repeats (a back reference such as id_data), restarted at every
// indexed typed root, and dropped on any hop that is neither a typed root nor
// a leaf. With allTypes set every typed ancestor is kept and no leaf is
// required.
func (d *Digester) Digest(fullPath string, allTypes bool) (*Result, error) {
	return d.digest(fullPath, allTypes, false)
}

// DigestReference is Digest for pointer properties: when fullPath ends on an
// attribute holding a typed root, such as an object's parent, that struct is
// the leaf instead of another root of the chain.
func (d *Digester) DigestReference(fullPath string, allTypes bool) (*Result, error) {
	return d.digest(fullPath, allTypes, true)
}

func (d *Digester) digest(fullPath string, allTypes, pointerLeaf bool) (*Result, error) {
	log := d.log.WithValues(logging.FullPath, fullPath)

	prefixes, err := datapath.Hierarchy(fullPath)
	if err != nil {
		log.Error(err, "malformed path")
		d.reporter.ReportDigest(allTypes, metrics.OutcomeError, 0)
		return nil, err
	}

	var chain Chain
	seen := make(map[string]struct{})
	res := &Result{}

	for i, p := range prefixes {
		v, err := d.ns.Eval(p.Text)
		if err != nil {
			log.Error(err, "evaluation failed", logging.Prefix, p.Text)
			d.reporter.ReportDigest(allTypes, metrics.OutcomeError, 0)
			return nil, err
		}

		last := i == len(prefixes)-1
		if name, ok := host.TypedRootName(v); ok {
			if pointerLeaf && last && !p.Indexed && len(chain) > 0 {
				res.Leaf, res.LeafPath, res.FoundLeaf = v, p.Text, true
				break
			}
			cur := Root{Path: p.Text, TypeName: name}
			_, repeated := seen[name]
			switch {
			case allTypes:
				chain = append(chain, cur)
			case repeated, p.Indexed:
				chain = Chain{cur}
				seen = map[string]struct{}{name: {}}
			default:
				chain = append(chain, cur)
				seen[name] = struct{}{}
			}
			log.V(logging.Debug).Info("typed root", logging.Prefix, p.Text, logging.TypeName, name, logging.ChainLength, len(chain))
			continue
		}

		if host.IsLeaf(v) {
			res.Leaf, res.LeafPath, res.FoundLeaf = v, p.Text, true
			break
		}

		if !allTypes {
			chain = nil
			seen = make(map[string]struct{})
		}
	}

	if (!res.FoundLeaf && !allTypes) || len(chain) == 0 {
		log.V(logging.Debug).Info("no typed root")
		d.reporter.ReportDigest(allTypes, metrics.OutcomeError, 0)
		return nil, fmt.Errorf("%w: %s", ErrNoTypedRoot, fullPath)
	}

	target := res.LeafPath
	if !res.FoundLeaf {
		target = fullPath
	}
	for i := range chain {
		rel, ok := datapath.Relative(target, chain[i].Path)
		if !ok {
			return nil, fmt.Errorf("%w: %s is not below %s", ErrNoTypedRoot, target, chain[i].Path)
		}
		chain[i].Relative = rel
	}
	res.Chain = chain

	d.reporter.ReportDigest(allTypes, metrics.OutcomeSuccess, len(chain))
	return res, nil
}
