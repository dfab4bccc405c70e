package preset

import (
	"errors"
	"testing"

	"github.com/bpytools/rnagen/pkg/digest"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/host/hosttest"
	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/bpytools/rnagen/pkg/metrics"
	"github.com/onsi/gomega"
)

type applyReporter struct {
	metrics.Reporter
	applied, failed int
}

func (r *applyReporter) ReportApply(applied, failed int) {
	r.applied += applied
	r.failed += failed
}

// defaultPreset pastes the cube location and turns it into a preset.
func defaultPreset(t *testing.T, ns *host.Namespace) *Preset {
	t.Helper()
	clip := NewClipboard(ns, digest.New(ns))
	if _, err := clip.Paste(cubeLocation); err != nil {
		t.Fatal(err)
	}
	p, err := NewLibrary().CreatePreset(clip, "MyColl", "Default", "Object")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestApply(t *testing.T) {
	g := gomega.NewWithT(t)
	ns := hosttest.Scene(t)
	p := defaultPreset(t, ns)
	rep := &applyReporter{}
	a := NewApplier(ns, Reporter(rep))

	report, err := a.Apply(p, `bpy.data.objects["Empty"].location`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(report.OK()).To(gomega.BeTrue())
	g.Expect(report.Root).To(gomega.Equal(`bpy.data.objects["Empty"]`))
	g.Expect(report.Applied).To(gomega.Equal([]string{"location"}))
	g.Expect(hosttest.MustEval(t, ns, `bpy.data.objects["Empty"].location`)).To(gomega.Equal(host.Vector{0, 0, 0}))
	g.Expect(rep.applied).To(gomega.Equal(1))
}

func TestApply_MissingProperty(t *testing.T) {
	g := gomega.NewWithT(t)
	ns := hosttest.Scene(t)
	p := defaultPreset(t, ns)
	hosttest.MustStruct(t, ns, `bpy.data.objects["Empty"]`).Delete("location")
	rep := &applyReporter{}

	report, err := NewApplier(ns, Reporter(rep)).Apply(p, `bpy.data.objects["Empty"]`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(report.OK()).To(gomega.BeFalse())
	g.Expect(report.Applied).To(gomega.BeEmpty())
	g.Expect(report.Errors).To(gomega.HaveLen(1))
	g.Expect(report.Errors[0].Path).To(gomega.Equal("location"))
	g.Expect(errors.Is(report.Errors[0], host.ErrNoAttribute)).To(gomega.BeTrue())
	g.Expect(rep.failed).To(gomega.Equal(1))
}

func TestApply_PartialFailure(t *testing.T) {
	g := gomega.NewWithT(t)
	ns := hosttest.Scene(t)
	p := defaultPreset(t, ns)
	p.Properties = append(p.Properties, Property{
		Path:  "parent",
		Value: literal.Record{Kind: literal.KindReference, Reference: &literal.Reference{Registry: "objects", Item: "Gone"}},
	}, Property{
		Path:  "pass_index",
		Value: literal.Record{Kind: literal.KindInt, Int: intPtr(7)},
	})

	report, err := NewApplier(ns).Apply(p, `bpy.data.objects["Cube"]`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(report.Applied).To(gomega.Equal([]string{"location", "pass_index"}))
	g.Expect(report.Errors).To(gomega.HaveLen(1))
	g.Expect(errors.Is(report.Errors[0], literal.ErrUnresolvableReference)).To(gomega.BeTrue())
	g.Expect(hosttest.MustEval(t, ns, `bpy.data.objects["Cube"].pass_index`)).To(gomega.Equal(7))
}

func TestApply_NoTarget(t *testing.T) {
	tcs := []struct {
		name    string
		target  string
		wantErr error
	}{
		{name: "other base type", target: `bpy.data.meshes["Cube"]`, wantErr: ErrBaseTypeMismatch},
		{name: "no typed ancestor", target: `bpy.data.objects`, wantErr: ErrBaseTypeMismatch},
		{name: "missing item", target: `bpy.data.objects["Nope"]`, wantErr: host.ErrNotFound},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			ns := hosttest.Scene(t)
			report, err := NewApplier(ns).Apply(defaultPreset(t, ns), tc.target)
			g.Expect(err).To(gomega.MatchError(tc.wantErr))
			g.Expect(report).To(gomega.BeNil())
		})
	}
}

func intPtr(i int) *int {
	return &i
}

func TestApply_Reference(t *testing.T) {
	g := gomega.NewWithT(t)
	ns := hosttest.Scene(t)
	clip := NewClipboard(ns, digest.New(ns))

	e, err := clip.Paste(`bpy.data.objects["Cube"].parent`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(e.BaseType).To(gomega.Equal("Object"))
	g.Expect(e.Value.Kind).To(gomega.Equal(literal.KindReference))
	g.Expect(*e.Value.Reference).To(gomega.Equal(literal.Reference{Registry: "objects", Item: "Empty"}))
	g.Expect(e.Value.Literal()).To(gomega.Equal(`bpy.data.objects.get("Empty")`))

	p, err := NewLibrary().CreatePreset(clip, "Rigging", "Parented", "Object")
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(p.Properties).To(gomega.HaveLen(1))
	g.Expect(p.Properties[0].Path).To(gomega.Equal("parent"))

	g.Expect(ns.Assign(`bpy.data.objects["Cube"].parent`, nil)).To(gomega.Succeed())
	report, err := NewApplier(ns).Apply(p, `bpy.data.objects["Cube"]`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(report.OK()).To(gomega.BeTrue())
	g.Expect(hosttest.MustEval(t, ns, `bpy.data.objects["Cube"].parent`)).
		To(gomega.BeIdenticalTo(hosttest.MustEval(t, ns, `bpy.data.objects["Empty"]`)))
}

func TestApply_EulerKeepsTargetOrder(t *testing.T) {
	g := gomega.NewWithT(t)
	ns := hosttest.Scene(t)
	clip := NewClipboard(ns, digest.New(ns))
	_, err := clip.Paste(`bpy.data.objects["Empty"].rotation_euler`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	p, err := NewLibrary().CreatePreset(clip, "Rigging", "Turned", "Object")
	g.Expect(err).NotTo(gomega.HaveOccurred())

	hosttest.MustStruct(t, ns, `bpy.data.objects["Cube"]`).Set("rotation_euler", host.Euler{Order: "ZYX"})
	report, err := NewApplier(ns).Apply(p, `bpy.data.objects["Cube"]`)
	g.Expect(err).NotTo(gomega.HaveOccurred())
	g.Expect(report.OK()).To(gomega.BeTrue())
	g.Expect(hosttest.MustEval(t, ns, `bpy.data.objects["Cube"].rotation_euler`)).
		To(gomega.Equal(host.Euler{Z: 1.5, Order: "ZYX"}))
}
