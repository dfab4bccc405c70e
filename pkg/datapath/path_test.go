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

package datapath

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bpytools/rnagen/pkg/datapath/token"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input     string
		expected  []Token
		expectErr bool
	}{
		{
			input:     ``,
			expectErr: true,
		},
		{
			input:     `.data`,
			expectErr: true,
		},
		{
			input:     `bpy.data.`,
			expectErr: true,
		},
		{
			input:    `bpy`,
			expected: []Token{{Kind: token.Attribute, Text: "bpy"}},
		},
		{
			input: `bpy.data.objects["Cube"].location`,
			expected: []Token{
				{Kind: token.Attribute, Text: "bpy"},
				{Kind: token.Attribute, Text: "data"},
				{Kind: token.Attribute, Text: "objects"},
				{Kind: token.Index, Text: `["Cube"]`},
				{Kind: token.Attribute, Text: "location"},
			},
		},
	}

	for i, tc := range tests {
		t.Run(fmt.Sprintf("test_%d", i), func(t *testing.T) {
			p, err := Parse(tc.input)
			if tc.expectErr != (err != nil) {
				t.Fatalf("for input: %s\nunexpected error: %v", tc.input, err)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tc.expected, p.Tokens()); diff != "" {
				t.Errorf("for input: %s\ngot unexpected results: %s", tc.input, diff)
			}
			if p.String() != tc.input {
				t.Errorf("String() = %q, want %q", p.String(), tc.input)
			}
		})
	}
}

func TestPath_ParentAppend(t *testing.T) {
	p := MustParse(`bpy.data.objects["Cube"]`)
	last, ok := p.Last()
	require.True(t, ok)
	require.Equal(t, Token{Kind: token.Index, Text: `["Cube"]`}, last)

	parent := p.Parent()
	require.Equal(t, `bpy.data.objects`, parent.String())
	require.True(t, p.HasPrefix(parent))
	require.False(t, parent.HasPrefix(p))

	// Append on a parent must not clobber the original's backing array.
	other := parent.Append(Token{Kind: token.Index, Text: `["Lamp"]`})
	require.Equal(t, `bpy.data.objects["Lamp"]`, other.String())
	require.Equal(t, `bpy.data.objects["Cube"]`, p.String())

	zoomedIn := p.Append(Token{Kind: token.Attribute, Text: "location"})
	require.Equal(t, `bpy.data.objects["Cube"].location`, zoomedIn.String())
}

func TestRemoveLastAttribute(t *testing.T) {
	tests := []struct {
		input  string
		prefix string
		last   string
		ok     bool
	}{
		{input: `bpy`, ok: false},
		{input: `bpy.data`, prefix: `bpy`, last: `data`, ok: true},
		{input: `bpy.data.objects["Cube"]`, prefix: `bpy.data.objects`, last: `["Cube"]`, ok: true},
		{input: `bpy.data.objects["Cube"].location`, prefix: `bpy.data.objects["Cube"]`, last: `location`, ok: true},
		{input: `bpy.data.objects[`, ok: false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			prefix, last, ok := RemoveLastAttribute(tc.input)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.prefix, prefix)
			require.Equal(t, tc.last, last)
			if !ok {
				return
			}
			// Zooming back in must reproduce the input.
			rebuilt := prefix + last
			if last[0] != '[' {
				rebuilt = prefix + "." + last
			}
			require.Equal(t, tc.input, rebuilt)
		})
	}
}

func TestHierarchy(t *testing.T) {
	got, err := Hierarchy(`bpy.data.objects["Cube"].modifiers[0].levels`)
	require.NoError(t, err)

	want := []Prefix{
		{Text: `bpy`},
		{Text: `bpy.data`},
		{Text: `bpy.data.objects`},
		{Text: `bpy.data.objects["Cube"]`, Indexed: true},
		{Text: `bpy.data.objects["Cube"].modifiers`},
		{Text: `bpy.data.objects["Cube"].modifiers[0]`, Indexed: true},
		{Text: `bpy.data.objects["Cube"].modifiers[0].levels`},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected hierarchy: %s", diff)
	}

	_, err = Hierarchy(`bpy.data.objects["Cube"`)
	require.True(t, errors.Is(err, token.ErrUnbalancedBracket))
}

func TestJoinRelative(t *testing.T) {
	tests := []struct {
		base string
		rel  string
		want string
	}{
		{base: `bpy.data.objects["Cube"]`, rel: `location`, want: `bpy.data.objects["Cube"].location`},
		{base: `bpy.data.objects["Cube"]`, rel: `["prop"]`, want: `bpy.data.objects["Cube"]["prop"]`},
		{base: `bpy.data.objects["Cube"]`, rel: `.`, want: `bpy.data.objects["Cube"]`},
		{base: `bpy.data.objects["Cube"]`, rel: ``, want: `bpy.data.objects["Cube"]`},
		{base: ``, rel: `location`, want: `location`},
	}
	for _, tc := range tests {
		got := Join(tc.base, tc.rel)
		require.Equal(t, tc.want, got)
		if tc.base == "" || tc.rel == "." || tc.rel == "" {
			continue
		}
		rel, ok := Relative(got, tc.base)
		require.True(t, ok)
		require.Equal(t, tc.rel, rel)
	}

	_, ok := Relative(`bpy.data.objects_extra`, `bpy.data.objects`)
	require.False(t, ok)
	_, ok = Relative(`bpy.data`, `bpy.data.objects`)
	require.False(t, ok)
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		expr      string
		expected  IndexValue
		expectErr bool
	}{
		{expr: `[0]`, expected: IndexValue{Pos: 0}},
		{expr: `[-1]`, expected: IndexValue{Pos: -1}},
		{expr: `["Cube"]`, expected: IndexValue{IsKey: true, Key: "Cube"}},
		{expr: `['Cube']`, expected: IndexValue{IsKey: true, Key: "Cube"}},
		{expr: `["say \"hi\""]`, expected: IndexValue{IsKey: true, Key: `say "hi"`}},
		{expr: `["a" + "b"]`, expectErr: true},
		{expr: `[x]`, expectErr: true},
		{expr: `[]`, expectErr: true},
		{expr: `0`, expectErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := ParseIndex(tc.expr)
			if tc.expectErr {
				require.ErrorIs(t, err, ErrInvalidIndex)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}

	require.Equal(t, `["say \"hi\""]`, QuoteIndex(`say "hi"`))
	require.Equal(t, `[3]`, IntIndex(3))
}
