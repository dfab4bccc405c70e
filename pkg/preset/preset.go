package preset

import (
	"fmt"
	"sort"

	"github.com/bpytools/rnagen/pkg/literal"
)

// Property is one recorded value, addressed relative to the base type.
type Property struct {
	Path  string         `json:"path"`
	Value literal.Record `json:"value"`
}

// Preset is a named set of property values for one base type.
type Preset struct {
	Name       string     `json:"name"`
	BaseType   string     `json:"baseType"`
	Properties []Property `json:"properties"`
}

func (p *Preset) Rename(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// AddProperty records the value of e relative to the preset's base type.
func (p *Preset) AddProperty(e Entry) error {
	orig := e.BaseType
	e.BaseType = p.BaseType
	rel, ok := e.Relative()
	if !ok {
		return fmt.Errorf("%w: %s has no %s ancestor (chosen %s)", ErrUnknownBaseType, e.FullPath, p.BaseType, orig)
	}
	if _, ok := p.Property(rel); ok {
		return fmt.Errorf("%w: %s", ErrDuplicatePath, rel)
	}
	p.Properties = append(p.Properties, Property{Path: rel, Value: e.Value})
	return nil
}

func (p *Preset) RemoveProperty(path string) error {
	for i, prop := range p.Properties {
		if prop.Path == path {
			p.Properties = append(p.Properties[:i:i], p.Properties[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: property %s", ErrNotFound, path)
}

func (p *Preset) Property(path string) (Property, bool) {
	for _, prop := range p.Properties {
		if prop.Path == path {
			return prop, true
		}
	}
	return Property{}, false
}

// Validate checks a preset read from storage.
func (p *Preset) Validate() error {
	if p.Name == "" || p.BaseType == "" {
		return fmt.Errorf("%w: preset needs a name and a base type", ErrInvalidLibrary)
	}
	seen := make(map[string]struct{}, len(p.Properties))
	for _, prop := range p.Properties {
		if prop.Path == "" {
			return fmt.Errorf("%w: preset %s has a property without a path", ErrInvalidLibrary, p.Name)
		}
		if _, ok := seen[prop.Path]; ok {
			return fmt.Errorf("%w: preset %s: %s", ErrDuplicatePath, p.Name, prop.Path)
		}
		seen[prop.Path] = struct{}{}
		if err := prop.Value.Validate(); err != nil {
			return fmt.Errorf("preset %s, property %s: %w", p.Name, prop.Path, err)
		}
	}
	return nil
}

// Collection groups presets by base type.
type Collection struct {
	Name    string               `json:"name"`
	Presets map[string][]*Preset `json:"presets"`
}

func (c *Collection) Preset(baseType, name string) (*Preset, bool) {
	for _, p := range c.Presets[baseType] {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// BaseTypes returns the base types that have presets, sorted.
func (c *Collection) BaseTypes() []string {
	out := make([]string, 0, len(c.Presets))
	for t, ps := range c.Presets {
		if len(ps) > 0 {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

// Library is the set of preset collections held by one data source.
type Library struct {
	Collections []*Collection `json:"collections"`
}

func NewLibrary() *Library {
	return &Library{}
}

func (l *Library) Collection(name string) (*Collection, bool) {
	for _, c := range l.Collections {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// CreatePreset builds a preset from every clipboard entry whose chosen base
// type is baseType. The collection is created if needed.
func (l *Library) CreatePreset(clip *Clipboard, collection, name, baseType string) (*Preset, error) {
	if collection == "" || name == "" {
		return nil, ErrEmptyName
	}
	entries := clip.withBase(baseType)
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMatchingEntry, baseType)
	}

	c, ok := l.Collection(collection)
	if ok {
		if _, exists := c.Preset(baseType, name); exists {
			return nil, fmt.Errorf("%w: %s/%s/%s", ErrDuplicatePreset, collection, baseType, name)
		}
	}

	p := &Preset{Name: name, BaseType: baseType}
	for _, e := range entries {
		if err := p.AddProperty(e); err != nil {
			return nil, err
		}
	}

	if !ok {
		c = &Collection{Name: collection, Presets: make(map[string][]*Preset)}
		l.Collections = append(l.Collections, c)
	}
	if c.Presets == nil {
		c.Presets = make(map[string][]*Preset)
	}
	c.Presets[baseType] = append(c.Presets[baseType], p)
	return p, nil
}

// Find returns the named preset.
func (l *Library) Find(collection, baseType, name string) (*Preset, error) {
	c, ok := l.Collection(collection)
	if !ok {
		return nil, fmt.Errorf("%w: collection %s", ErrNotFound, collection)
	}
	p, ok := c.Preset(baseType, name)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s/%s", ErrPresetNotFound, collection, baseType, name)
	}
	return p, nil
}

func (l *Library) RemovePreset(collection, baseType, name string) error {
	c, ok := l.Collection(collection)
	if !ok {
		return fmt.Errorf("%w: collection %s", ErrNotFound, collection)
	}
	ps := c.Presets[baseType]
	for i, p := range ps {
		if p.Name == name {
			c.Presets[baseType] = append(ps[:i:i], ps[i+1:]...)
			if len(c.Presets[baseType]) == 0 {
				delete(c.Presets, baseType)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s/%s/%s", ErrPresetNotFound, collection, baseType, name)
}

// RemoveCollection removes a collection and every preset in it.
func (l *Library) RemoveCollection(name string) error {
	for i, c := range l.Collections {
		if c.Name == name {
			l.Collections = append(l.Collections[:i:i], l.Collections[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: collection %s", ErrNotFound, name)
}

func (l *Library) RenameCollection(from, to string) error {
	if to == "" {
		return ErrEmptyName
	}
	c, ok := l.Collection(from)
	if !ok {
		return fmt.Errorf("%w: collection %s", ErrNotFound, from)
	}
	if from == to {
		return nil
	}
	if _, taken := l.Collection(to); taken {
		return fmt.Errorf("%w: collection %s", ErrDuplicateName, to)
	}
	c.Name = to
	return nil
}

// Validate checks a library read from storage: names are unique and every
// record holds exactly the variant its kind names.
func (l *Library) Validate() error {
	names := make(map[string]struct{}, len(l.Collections))
	for _, c := range l.Collections {
		if c == nil || c.Name == "" {
			return fmt.Errorf("%w: collection without a name", ErrInvalidLibrary)
		}
		if _, ok := names[c.Name]; ok {
			return fmt.Errorf("%w: collection %s", ErrDuplicateName, c.Name)
		}
		names[c.Name] = struct{}{}

		for baseType, ps := range c.Presets {
			presets := make(map[string]struct{}, len(ps))
			for _, p := range ps {
				if p == nil {
					return fmt.Errorf("%w: empty preset in %s", ErrInvalidLibrary, c.Name)
				}
				if err := p.Validate(); err != nil {
					return fmt.Errorf("collection %s: %w", c.Name, err)
				}
				if p.BaseType != baseType {
					return fmt.Errorf("%w: preset %s has base type %s but is stored under %s", ErrInvalidLibrary, p.Name, p.BaseType, baseType)
				}
				if _, ok := presets[p.Name]; ok {
					return fmt.Errorf("%w: %s/%s/%s", ErrDuplicatePreset, c.Name, baseType, p.Name)
				}
				presets[p.Name] = struct{}{}
			}
		}
	}
	return nil
}

// DataSource selects which library presets are read from and written to.
type DataSource string

const (
	// Document presets live with the scene and go away with it.
	Document DataSource = "document"
	// Preferences presets persist across documents.
	Preferences DataSource = "preferences"
)

func ParseDataSource(s string) (DataSource, error) {
	switch DataSource(s) {
	case Document, Preferences:
		return DataSource(s), nil
	}
	return "", fmt.Errorf("%w: data source %q, want %s or %s", ErrNotFound, s, Document, Preferences)
}

// Store holds the library of each data source.
type Store struct {
	Document    *Library
	Preferences *Library
}

func NewStore() *Store {
	return &Store{Document: NewLibrary(), Preferences: NewLibrary()}
}

func (s *Store) Library(src DataSource) (*Library, error) {
	switch src {
	case Document:
		return s.Document, nil
	case Preferences:
		return s.Preferences, nil
	}
	return nil, fmt.Errorf("%w: data source %q", ErrNotFound, src)
}
