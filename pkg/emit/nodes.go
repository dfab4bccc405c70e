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

package emit

import (
	"errors"
	"fmt"

	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/bpytools/rnagen/pkg/logging"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/dominikbraun/graph"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

// ErrNotNodeTree is returned when the exported path does not address a node
// tree.
var ErrNotNodeTree = errors.New("value is not a node tree")

// NodeOptions controls node tree export.
type NodeOptions struct {
	Options
	// WriteDefaults writes every attribute, including those equal to the
	// default of a freshly created node.
	WriteDefaults bool
	// LinkedDefaults writes default values of inputs that are fed by a link.
	LinkedDefaults bool
	// ClearTree removes the existing nodes of the target tree first.
	ClearTree bool
}

// NodeStats summarizes one node tree export. Cycles counts links that close
// a loop in the node graph.
type NodeStats struct {
	RunID      string
	Nodes      int
	Attributes int
	Sockets    int
	Links      int
	Cycles     int
	Unresolved int
}

// NodeTreeExporter writes code that rebuilds a node tree.
type NodeTreeExporter struct {
	ns       *host.Namespace
	ser      *literal.Serializer
	log      logr.Logger
	reporter metrics.Reporter
}

func NewNodeTreeExporter(ns *host.Namespace, opts ...ExporterOption) *NodeTreeExporter {
	c := newConfig(opts)
	return &NodeTreeExporter{
		ns:       ns,
		ser:      literal.NewSerializer(ns),
		log:      c.log.WithName("nodes"),
		reporter: c.reporter,
	}
}

// nodeExport holds the state of a single Export call.
type nodeExport struct {
	*NodeTreeExporter
	w     *writer
	log   logr.Logger
	opts  NodeOptions
	stats *NodeStats
	vars  map[*host.Struct]string
}

// Export writes code that recreates the nodes and links of the tree at
// treePath inside the tree bound to `tree`.
func (e *NodeTreeExporter) Export(sink Sink, treePath string, opts NodeOptions) (NodeStats, error) {
	stats := NodeStats{RunID: uuid.New().String()}
	log := e.log.WithValues(logging.RunID, stats.RunID, logging.Path, treePath)

	v, err := e.ns.Eval(treePath)
	if err != nil {
		log.Error(err, "evaluation failed")
		return stats, err
	}
	tree, ok := v.(*host.Struct)
	if !ok || tree == nil {
		return stats, fmt.Errorf("%w: %s is %s", ErrNotNodeTree, treePath, describeValue(v))
	}
	nodes, ok := attrCollection(tree, "nodes")
	if !ok {
		return stats, fmt.Errorf("%w: %s has no nodes", ErrNotNodeTree, treePath)
	}

	x := &nodeExport{
		NodeTreeExporter: e,
		w:                &writer{sink: sink},
		log:              log,
		opts:             opts,
		stats:            &stats,
		vars:             make(map[*host.Struct]string),
	}

	start := sink.LineCount()
	err = x.w.script(opts.Options, "make_node_tree", func() error {
		x.w.line("tree = %s", treePath)
		if opts.ClearTree {
			x.w.line("tree.nodes.clear()")
		}

		names := newVarNames()
		list := structs(nodes)
		for _, node := range list {
			name, _ := node.Name()
			x.vars[node] = names.next(name)
		}
		for _, node := range list {
			x.writeNode(node)
		}
		x.writeParents(list)

		links, _ := attrCollection(tree, "links")
		x.writeLinks(structs(links))
		return nil
	})
	if err != nil {
		return stats, err
	}

	log.Info("exported node tree", logging.LineCount, sink.LineCount()-start, "nodes", stats.Nodes, "links", stats.Links, "cycles", stats.Cycles)
	e.reporter.ReportEmit(kindNode, stats.Nodes, sink.LineCount()-start)
	e.reporter.ReportEmit(kindLink, stats.Links, 0)
	e.reporter.ReportUnresolved(kindNode, stats.Unresolved)
	return stats, nil
}

func (x *nodeExport) writeNode(node *host.Struct) {
	v := x.vars[node]
	name, _ := node.Name()
	log := x.log.WithValues(logging.NodeName, name)

	x.w.line("")
	x.w.line("# %s", name)
	x.w.line("%s = tree.nodes.new(%s)", v, literal.Quote(node.TypeName))
	x.w.line("%s.name = %s", v, literal.Quote(name))
	if loc, ok := node.Attr("location"); ok {
		x.assign(log, v+".location", loc)
	}
	x.stats.Nodes++

	for _, field := range node.Fields() {
		if _, skip := skippedNodeFields[field]; skip {
			continue
		}
		value, _ := node.Attr(field)
		if def, ok := nodeDefault(node.TypeName, field); ok && !x.opts.WriteDefaults && host.Equal(def, value) {
			continue
		}
		if x.assign(log, v+"."+field, value) {
			x.stats.Attributes++
		}
	}

	if ramp, ok := attrStruct(node, "color_ramp"); ok {
		x.writeColorRamp(log, v+".color_ramp", ramp)
	}
	if mapping, ok := attrStruct(node, "mapping"); ok {
		x.writeMapping(log, v+".mapping", mapping)
	}

	inputs, _ := attrCollection(node, "inputs")
	x.writeSockets(log, v+".inputs", structs(inputs), true)
	outputs, _ := attrCollection(node, "outputs")
	x.writeSockets(log, v+".outputs", structs(outputs), false)
}

// assign writes `target = literal(value)`. Values with no literal form are
// logged and skipped.
func (x *nodeExport) assign(log logr.Logger, target string, value any) bool {
	lit, ok := x.literal(value)
	if !ok {
		log.V(logging.Debug).Info("no literal for attribute", logging.Property, target, "value", describeValue(value))
		return false
	}
	x.w.line("%s = %s", target, lit)
	return true
}

func (x *nodeExport) literal(value any) (string, bool) {
	switch t := value.(type) {
	case nil:
		return literal.None, true
	case string:
		return literal.Quote(t), true
	}
	return x.ser.ToLiteral(value)
}

// writeFields writes the fields of s that differ from defaults, skipping the
// names in skip.
func (x *nodeExport) writeFields(log logr.Logger, prefix string, s *host.Struct, defaults map[string]any, skip ...string) {
	skipped := make(map[string]struct{}, len(skip))
	for _, f := range skip {
		skipped[f] = struct{}{}
	}
	for _, field := range s.Fields() {
		if _, ok := skipped[field]; ok {
			continue
		}
		value, _ := s.Attr(field)
		if def, ok := defaults[field]; ok && !x.opts.WriteDefaults && host.Equal(def, value) {
			continue
		}
		if x.assign(log, prefix+"."+field, value) {
			x.stats.Attributes++
		}
	}
}

// writeColorRamp writes the ramp settings and its elements. A new ramp
// already holds implicitRampElements elements; those are reused and only the
// remaining ones are created.
func (x *nodeExport) writeColorRamp(log logr.Logger, ramp string, s *host.Struct) {
	x.writeFields(log, ramp, s, colorRampDefaults, "elements")

	coll, _ := attrCollection(s, "elements")
	elements := structs(coll)
	for i, el := range elements {
		pos, _ := el.Attr("position")
		target := fmt.Sprintf("%s.elements[%d]", ramp, i)
		if i < implicitRampElements {
			x.assign(log, target+".position", pos)
		} else {
			lit, ok := x.literal(pos)
			if !ok {
				lit = literal.None
			}
			x.w.line("elem = %s.elements.new(%s)", ramp, lit)
			target = "elem"
		}
		if color, ok := el.Attr("color"); ok {
			x.assign(log, target+".color", color)
		}
	}
	if len(elements) == 1 {
		x.w.line("%s.elements.remove(%s.elements[1])", ramp, ramp)
	}
}

// writeMapping writes curve mapping settings and the points of every curve.
// Each curve starts with implicitCurvePoints points that are moved into
// place; the rest are added.
func (x *nodeExport) writeMapping(log logr.Logger, mapping string, s *host.Struct) {
	x.writeFields(log, mapping, s, curveMappingDefaults, "curves")

	curves, _ := attrCollection(s, "curves")
	for ci, curve := range structs(curves) {
		pointColl, _ := attrCollection(curve, "points")
		for pi, p := range structs(pointColl) {
			loc, _ := p.Attr("location")
			target := fmt.Sprintf("%s.curves[%d].points[%d]", mapping, ci, pi)
			if pi < implicitCurvePoints {
				x.assign(log, target+".location", loc)
			} else {
				lit, ok := x.pointArgs(loc)
				if !ok {
					log.Info("curve point has no location", logging.Property, target)
					continue
				}
				x.w.line("point = %s.curves[%d].points.new(%s)", mapping, ci, lit)
				target = "point"
			}
			x.writeFields(log, target, p, curvePointDefaults, "location", "select")
		}
	}
	x.w.line("%s.update()", mapping)
}

// pointArgs renders a point location as the arguments of points.new.
func (x *nodeExport) pointArgs(loc any) (string, bool) {
	vec, ok := loc.(host.Vector)
	if !ok || len(vec) < 2 {
		return "", false
	}
	return fmt.Sprintf("%f, %f", vec[0], vec[1]), true
}

func (x *nodeExport) writeSockets(log logr.Logger, prefix string, sockets []*host.Struct, inputs bool) {
	for i, sock := range sockets {
		value, ok := sock.Attr("default_value")
		if !ok || attrBool(sock, "hide") {
			continue
		}
		if inputs && attrBool(sock, "is_linked") && !x.opts.LinkedDefaults {
			continue
		}
		if x.assign(log, fmt.Sprintf("%s[%d].default_value", prefix, i), value) {
			x.stats.Sockets++
		}
	}
}

// writeParents assigns frames once every node exists, since a child may be
// created before its frame.
func (x *nodeExport) writeParents(nodes []*host.Struct) {
	first := true
	for _, node := range nodes {
		parent, ok := attrStruct(node, "parent")
		if !ok {
			continue
		}
		pv, ok := x.vars[parent]
		if !ok {
			name, _ := node.Name()
			x.log.Info("parent is not part of the tree", logging.NodeName, name, "parent", parent.String())
			x.stats.Unresolved++
			continue
		}
		if first {
			x.w.line("")
			first = false
		}
		x.w.line("%s.parent = %s", x.vars[node], pv)
	}
}

func (x *nodeExport) writeLinks(links []*host.Struct) {
	g := graph.New(graph.StringHash, graph.Directed())
	for _, v := range x.vars {
		_ = g.AddVertex(v)
	}

	first := true
	for _, link := range links {
		from, fromSock, okFrom := x.endpoint(link, "from_node", "from_socket", "outputs")
		to, toSock, okTo := x.endpoint(link, "to_node", "to_socket", "inputs")
		if !okFrom || !okTo {
			x.log.Info("skipping link with unknown endpoint")
			x.stats.Unresolved++
			continue
		}

		cycle, err := graph.CreatesCycle(g, from, to)
		if err != nil {
			x.log.Error(err, "checking link for cycles", "from", from, "to", to)
		}
		if cycle {
			x.stats.Cycles++
			x.log.Info("link closes a cycle", "from", from, "to", to)
		}
		if err := g.AddEdge(from, to); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			x.log.Error(err, "recording link", "from", from, "to", to)
		}

		if first {
			x.w.line("")
			first = false
		}
		x.w.line("tree.links.new(%s.outputs[%d], %s.inputs[%d])", from, fromSock, to, toSock)
		x.stats.Links++
	}
}

// endpoint resolves one end of a link to the node's variable and the
// position of the socket in the node's socket list.
func (x *nodeExport) endpoint(link *host.Struct, nodeAttr, socketAttr, list string) (string, int, bool) {
	node, ok := attrStruct(link, nodeAttr)
	if !ok {
		return "", 0, false
	}
	v, ok := x.vars[node]
	if !ok {
		return "", 0, false
	}
	sock, ok := attrStruct(link, socketAttr)
	if !ok {
		return "", 0, false
	}
	sockets, ok := attrCollection(node, list)
	if !ok {
		return "", 0, false
	}
	i := sockets.IndexOf(sock)
	return v, i, i >= 0
}
