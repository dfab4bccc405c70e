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

package preset

import (
	"errors"
	"fmt"

	"github.com/bpytools/rnagen/pkg/digest"
	"github.com/bpytools/rnagen/pkg/host"
	"github.com/bpytools/rnagen/pkg/literal"
)

var (
	ErrDuplicateEntry   = errors.New("path is already on the clipboard")
	ErrNoEntry          = errors.New("no such clipboard entry")
	ErrUnknownBaseType  = errors.New("base type is not available for this entry")
	ErrNoLeaf           = errors.New("path does not end on a property value")
	ErrNoMatchingEntry  = errors.New("no clipboard entry has the base type")
	ErrDuplicatePreset  = errors.New("preset already exists")
	ErrPresetNotFound   = errors.New("preset not found")
	ErrDuplicateName    = errors.New("name is already taken")
	ErrNotFound         = errors.New("not found")
	ErrEmptyName        = errors.New("name must not be empty")
	ErrDuplicatePath    = errors.New("property path already in preset")
	ErrInvalidLibrary   = errors.New("invalid preset library")
	ErrBaseTypeMismatch = errors.New("target does not match the preset base type")
)

// Entry is one pasted path. Chain is the anchored chain the default base
// type comes from; Alternatives holds every typed ancestor so the base type
// can be changed later.
type Entry struct {
	FullPath     string         `json:"fullPath"`
	BaseType     string         `json:"baseType"`
	Value        literal.Record `json:"value"`
	Chain        digest.Chain   `json:"chain"`
	Alternatives digest.Chain   `json:"alternatives"`
}

// BaseTypes returns the base types the entry may be applied against.
func (e Entry) BaseTypes() []string {
	all := make(digest.Chain, 0, len(e.Alternatives)+len(e.Chain))
	all = append(all, e.Alternatives...)
	all = append(all, e.Chain...)
	return all.Types()
}

// Relative returns the property path relative to the chosen base type.
func (e Entry) Relative() (string, bool) {
	if r, ok := e.Chain.Find(e.BaseType); ok {
		return r.Relative, true
	}
	r, ok := e.Alternatives.Find(e.BaseType)
	return r.Relative, ok
}

// Clipboard collects pasted paths. It is the only source of preset
// properties.
type Clipboard struct {
	digester *digest.Digester
	ser      *literal.Serializer
	entries  []Entry
}

func NewClipboard(ns *host.Namespace, d *digest.Digester) *Clipboard {
	return &Clipboard{digester: d, ser: literal.NewSerializer(ns)}
}

// Paste digests fullPath, snapshots its leaf value and appends an entry. The
// default base type is the innermost root of the anchored chain. Pointer
// properties are recorded as references to the registry item they hold.
func (c *Clipboard) Paste(fullPath string) (Entry, error) {
	for _, e := range c.entries {
		if e.FullPath == fullPath {
			return Entry{}, fmt.Errorf("%w: %s", ErrDuplicateEntry, fullPath)
		}
	}

	res, err := c.digester.DigestReference(fullPath, false)
	if err != nil {
		return Entry{}, err
	}
	if !res.FoundLeaf {
		return Entry{}, fmt.Errorf("%w: %s", ErrNoLeaf, fullPath)
	}
	all, err := c.digester.DigestReference(fullPath, true)
	if err != nil {
		return Entry{}, err
	}

	rec, err := c.ser.Snapshot(res.Leaf)
	if err != nil {
		return Entry{}, fmt.Errorf("snapshotting %s: %w", fullPath, err)
	}

	e := Entry{
		FullPath:     fullPath,
		BaseType:     res.Chain[len(res.Chain)-1].TypeName,
		Value:        rec,
		Chain:        res.Chain,
		Alternatives: all.Chain,
	}
	c.entries = append(c.entries, e)
	return e, nil
}

// Entries returns a copy of the clipboard contents.
func (c *Clipboard) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Clipboard) Len() int {
	return len(c.entries)
}

func (c *Clipboard) Remove(i int) error {
	if i < 0 || i >= len(c.entries) {
		return fmt.Errorf("%w: %d", ErrNoEntry, i)
	}
	c.entries = append(c.entries[:i:i], c.entries[i+1:]...)
	return nil
}

func (c *Clipboard) Clear() {
	c.entries = nil
}

// ChooseBase changes the base type of entry i to one of its alternatives.
func (c *Clipboard) ChooseBase(i int, typeName string) error {
	if i < 0 || i >= len(c.entries) {
		return fmt.Errorf("%w: %d", ErrNoEntry, i)
	}
	for _, t := range c.entries[i].BaseTypes() {
		if t == typeName {
			c.entries[i].BaseType = typeName
			return nil
		}
	}
	return fmt.Errorf("%w: %s for %s", ErrUnknownBaseType, typeName, c.entries[i].FullPath)
}

// BaseTypes returns the chosen base types of all entries, in first-seen
// order.
func (c *Clipboard) BaseTypes() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, e := range c.entries {
		if _, ok := seen[e.BaseType]; ok {
			continue
		}
		seen[e.BaseType] = struct{}{}
		out = append(out, e.BaseType)
	}
	return out
}

// withBase returns the entries whose chosen base type is typeName.
func (c *Clipboard) withBase(typeName string) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if e.BaseType == typeName {
			out = append(out, e)
		}
	}
	return out
}
