package preset

import (
	"testing"

	"github.com/bpytools/rnagen/pkg/literal"
	"github.com/stretchr/testify/require"
)

func TestLibrary_CreatePreset(t *testing.T) {
	clip := newClipboard(t)
	_, err := clip.Paste(cubeLocation)
	require.NoError(t, err)

	lib := NewLibrary()
	p, err := lib.CreatePreset(clip, "MyColl", "Default", "Object")
	require.NoError(t, err)
	require.Equal(t, "Default", p.Name)
	require.Equal(t, "Object", p.BaseType)
	require.Len(t, p.Properties, 1)
	require.Equal(t, "location", p.Properties[0].Path)
	require.Equal(t, literal.KindVector3, p.Properties[0].Value.Kind)
	require.Equal(t, []float64{0, 0, 0}, p.Properties[0].Value.Vector)

	found, err := lib.Find("MyColl", "Object", "Default")
	require.NoError(t, err)
	require.Same(t, p, found)

	_, err = lib.CreatePreset(clip, "MyColl", "Default", "Object")
	require.ErrorIs(t, err, ErrDuplicatePreset)
	_, err = lib.CreatePreset(clip, "MyColl", "Other", "Material")
	require.ErrorIs(t, err, ErrNoMatchingEntry)
	_, err = lib.CreatePreset(clip, "MyColl", "", "Object")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestLibrary_CreatePreset_UsesChosenBase(t *testing.T) {
	clip := newClipboard(t)
	for _, p := range []string{cubeLocation, bevelWidth} {
		_, err := clip.Paste(p)
		require.NoError(t, err)
	}

	lib := NewLibrary()
	p, err := lib.CreatePreset(clip, "MyColl", "Bevel only", "BevelModifier")
	require.NoError(t, err)
	require.Len(t, p.Properties, 1)
	require.Equal(t, "width", p.Properties[0].Path)

	require.NoError(t, clip.ChooseBase(1, "Object"))
	p, err = lib.CreatePreset(clip, "MyColl", "Both", "Object")
	require.NoError(t, err)
	var paths []string
	for _, prop := range p.Properties {
		paths = append(paths, prop.Path)
	}
	require.Equal(t, []string{"location", `modifiers["Bevel"].width`}, paths)

	c, ok := lib.Collection("MyColl")
	require.True(t, ok)
	require.Equal(t, []string{"BevelModifier", "Object"}, c.BaseTypes())
}

func TestPreset_Modify(t *testing.T) {
	clip := newClipboard(t)
	loc, err := clip.Paste(cubeLocation)
	require.NoError(t, err)
	width, err := clip.Paste(bevelWidth)
	require.NoError(t, err)

	p := &Preset{Name: "Default", BaseType: "Object"}
	require.NoError(t, p.AddProperty(loc))
	require.ErrorIs(t, p.AddProperty(loc), ErrDuplicatePath)
	// The entry's own base type is BevelModifier; the preset re-anchors it.
	require.NoError(t, p.AddProperty(width))
	_, ok := p.Property(`modifiers["Bevel"].width`)
	require.True(t, ok)

	mesh := &Preset{Name: "Mesh", BaseType: "Mesh"}
	require.ErrorIs(t, mesh.AddProperty(loc), ErrUnknownBaseType)

	require.NoError(t, p.RemoveProperty("location"))
	require.ErrorIs(t, p.RemoveProperty("location"), ErrNotFound)
	require.Len(t, p.Properties, 1)

	require.NoError(t, p.Rename("Renamed"))
	require.Equal(t, "Renamed", p.Name)
	require.ErrorIs(t, p.Rename(""), ErrEmptyName)
}

func TestLibrary_Remove(t *testing.T) {
	clip := newClipboard(t)
	_, err := clip.Paste(cubeLocation)
	require.NoError(t, err)

	lib := NewLibrary()
	for _, coll := range []string{"A", "B"} {
		_, err := lib.CreatePreset(clip, coll, "Default", "Object")
		require.NoError(t, err)
	}

	require.ErrorIs(t, lib.RenameCollection("A", "B"), ErrDuplicateName)
	require.NoError(t, lib.RenameCollection("A", "C"))
	_, ok := lib.Collection("A")
	require.False(t, ok)

	require.NoError(t, lib.RemovePreset("C", "Object", "Default"))
	require.ErrorIs(t, lib.RemovePreset("C", "Object", "Default"), ErrPresetNotFound)
	c, _ := lib.Collection("C")
	require.Empty(t, c.BaseTypes())

	require.NoError(t, lib.RemoveCollection("B"))
	_, err = lib.Find("B", "Object", "Default")
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, lib.RemoveCollection("B"), ErrNotFound)
}

func TestStore(t *testing.T) {
	s := NewStore()
	for _, name := range []string{"document", "preferences"} {
		src, err := ParseDataSource(name)
		require.NoError(t, err)
		lib, err := s.Library(src)
		require.NoError(t, err)
		require.NotNil(t, lib)
	}
	doc, _ := s.Library(Document)
	prefs, _ := s.Library(Preferences)
	require.NotSame(t, doc, prefs)

	_, err := ParseDataSource("scene")
	require.ErrorIs(t, err, ErrNotFound)
}
