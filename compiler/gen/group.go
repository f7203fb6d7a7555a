package gen

import (
	"sort"

	"github.com/syssam/oneshot/compiler/scan"
)

// Group is the set of marked fields owned by one state record.
// Groups are built once per round and never mutated after grouping.
type Group struct {
	Owner  *scan.Owner
	Fields []*scan.Field
}

// Key returns the group's identity: owner package path plus name.
// Two records with the same simple name in different packages never
// collide.
func (g *Group) Key() string {
	return g.Owner.PkgPath + "." + g.Owner.Name
}

// SourceFiles returns the sorted, de-duplicated set of files contributing
// a marked field or the owner declaration to the group. These are the
// dependency edges recorded on every generated artifact.
func (g *Group) SourceFiles() []string {
	seen := map[string]bool{g.Owner.File: true}
	for _, f := range g.Fields {
		seen[f.File] = true
	}
	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// BuildGroups buckets valid marked fields by owning record. Fields whose
// owner could not be resolved are dropped here, silently: an ownerless
// field is a scanner artifact, not a user mistake. Group order and field
// order within a group follow source position, so generation output is
// deterministic for an unchanged symbol set.
func BuildGroups(fields []*scan.Field) []*Group {
	byOwner := make(map[string]*Group)
	var groups []*Group
	for _, f := range fields {
		if f.Owner == nil {
			continue
		}
		key := f.Owner.PkgPath + "." + f.Owner.Name
		g, ok := byOwner[key]
		if !ok {
			g = &Group{Owner: f.Owner}
			byOwner[key] = g
			groups = append(groups, g)
		}
		g.Fields = append(g.Fields, f)
	}
	for _, g := range groups {
		sort.Slice(g.Fields, func(i, j int) bool {
			a, b := g.Fields[i].Pos, g.Fields[j].Pos
			if a.Filename != b.Filename {
				return a.Filename < b.Filename
			}
			return a.Offset < b.Offset
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Key() < groups[j].Key()
	})
	return groups
}
