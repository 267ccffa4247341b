package merge

import (
	"sort"

	"github.com/ieee0824/compseg-go/features"
)

// vector is a partially specified feature vector under construction.
type vector map[string]features.Value

func newVector(markers []string) vector {
	v := make(vector, len(markers))
	for _, m := range markers {
		v.set(m)
	}
	return v
}

// set assigns a marker, overriding any earlier value.
func (v vector) set(marker string) {
	val, name := features.SplitMarker(marker)
	if val == features.Zero {
		return
	}
	v[name] = val
}

func (v vector) resolved(name string) bool {
	_, ok := v[name]
	return ok
}

// fill resolves every feature named in markers that is still unresolved,
// taking its value from src.
func (v vector) fill(markers, src []string) {
	for _, m := range markers {
		_, name := features.SplitMarker(m)
		if v.resolved(name) {
			continue
		}
		if val := valueIn(src, name); val != features.Zero {
			v[name] = val
		}
	}
}

// markers returns the sorted signed markers of v.
func (v vector) markers() []string {
	out := make([]string, 0, len(v))
	for name, val := range v {
		out = append(out, features.Marker(val, name))
	}
	sort.Strings(out)
	return out
}

func valueIn(set []string, name string) features.Value {
	for _, m := range set {
		if val, n := features.SplitMarker(m); n == name {
			return val
		}
	}
	return features.Zero
}

func contains(set []string, marker string) bool {
	for _, m := range set {
		if m == marker {
			return true
		}
	}
	return false
}
