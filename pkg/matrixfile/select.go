// SPDX-License-Identifier: MPL-2.0

package matrixfile

import "strings"

// SelectAll is the wildcard selector matching every non-auxiliary
// environment.
const SelectAll = "all"

// ResolveSelection filters the declared environments down to the
// requested subset, preserving a deterministic order.
//
// An empty selector yields the file's default list, or every
// non-auxiliary environment when no defaults are declared. The "all"
// wildcard yields every non-auxiliary environment. Anything else is a
// comma-separated list of exact names; auxiliary environments run only
// when named this way. Unknown names fail with UnknownEnvironmentError
// before any sandbox work starts.
func (m *Matrixfile) ResolveSelection(selector string) ([]*EnvironmentSpec, error) {
	selector = strings.TrimSpace(selector)

	switch selector {
	case "":
		if len(m.Defaults) > 0 {
			return m.byNames(m.Defaults)
		}
		return m.nonAuxiliary(), nil
	case SelectAll:
		return m.nonAuxiliary(), nil
	}

	names := make([]string, 0)
	for _, name := range strings.Split(selector, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	return m.byNames(names)
}

// byNames resolves exact names in order, dropping repeats after the
// first occurrence.
func (m *Matrixfile) byNames(names []string) ([]*EnvironmentSpec, error) {
	selected := make([]*EnvironmentSpec, 0, len(names))
	picked := make(map[string]struct{}, len(names))
	for _, name := range names {
		env, ok := m.Lookup(name)
		if !ok {
			return nil, &UnknownEnvironmentError{Name: name, Known: m.Names()}
		}
		if _, dup := picked[name]; dup {
			continue
		}
		picked[name] = struct{}{}
		selected = append(selected, env)
	}
	return selected, nil
}

// nonAuxiliary returns every non-auxiliary environment in file order.
func (m *Matrixfile) nonAuxiliary() []*EnvironmentSpec {
	selected := make([]*EnvironmentSpec, 0, len(m.Envs))
	for i := range m.Envs {
		if !m.Envs[i].Auxiliary {
			selected = append(selected, &m.Envs[i])
		}
	}
	return selected
}
