package compiler

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/wardi/bar-foo/internal/ir"
)

// InheritanceCycle is a set of classes that (transitively) list each
// other as parents. No linearization exists for any class on the cycle.
type InheritanceCycle struct {
	Path    []string `json:"path"`    // ["A", "B", "A"]
	Message string   `json:"message"`
}

// parentGraph maps class name -> declared parent names.
type parentGraph map[string][]string

func buildParentGraph(specs []ir.ClassSpec) parentGraph {
	graph := make(parentGraph, len(specs))
	for _, s := range specs {
		graph[s.Name] = append(graph[s.Name], s.Parents...)
	}
	return graph
}

// AnalyzeInheritance finds inheritance cycles in a spec set.
//
// The algorithm:
//  1. Build class -> parents graph
//  2. Use Tarjan's algorithm to find strongly connected components
//  3. Report each SCC with size > 1, or a class listing itself, as a cycle
//
// Unknown parents are ignored here; Validate reports them separately.
// Results are sorted by their first class name for stable output.
func AnalyzeInheritance(specs []ir.ClassSpec) []InheritanceCycle {
	graph := buildParentGraph(specs)
	sccs := tarjanSCC(graph)

	var cycles []InheritanceCycle
	for _, scc := range sccs {
		if len(scc) > 1 || slices.Contains(graph[scc[0]], scc[0]) {
			cycles = append(cycles, sccToCycle(scc, graph))
		}
	}

	sort.Slice(cycles, func(i, j int) bool { return cycles[i].Path[0] < cycles[j].Path[0] })
	return cycles
}

// tarjanSCC finds strongly connected components using Tarjan's algorithm.
// Nodes are visited in name order so the output is deterministic.
func tarjanSCC(graph parentGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, known := graph[w]; !known {
				continue
			}
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		// v is a root: pop its component.
		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sort.Strings(scc)
			sccs = append(sccs, scc)
		}
	}

	nodes := make([]string, 0, len(graph))
	for n := range graph {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)
	for _, n := range nodes {
		if _, visited := indices[n]; !visited {
			strongConnect(n)
		}
	}
	return sccs
}

// sccToCycle walks parent edges inside the SCC from its smallest member
// until it returns to the start.
func sccToCycle(scc []string, graph parentGraph) InheritanceCycle {
	start := scc[0]
	if len(scc) == 1 {
		return InheritanceCycle{
			Path:    []string{start, start},
			Message: fmt.Sprintf("class %s inherits from itself", start),
		}
	}

	members := make(map[string]bool, len(scc))
	for _, n := range scc {
		members[n] = true
	}

	path := []string{start}
	visited := map[string]bool{start: true}
	current := start
	for {
		var next string
		for _, p := range graph[current] {
			if members[p] && (!visited[p] || p == start) {
				next = p
				break
			}
		}
		if next == "" {
			break
		}
		path = append(path, next)
		if next == start {
			break
		}
		visited[next] = true
		current = next
	}

	return InheritanceCycle{
		Path:    path,
		Message: fmt.Sprintf("inheritance cycle: %s", strings.Join(path, " -> ")),
	}
}

// Order sorts specs so every class follows all of its parents. Among
// classes whose parents are already placed, names sort alphabetically.
// Fails if a parent is unknown or the graph has a cycle.
func Order(specs []ir.ClassSpec) ([]ir.ClassSpec, error) {
	byName := make(map[string]ir.ClassSpec, len(specs))
	for _, s := range specs {
		if _, dup := byName[s.Name]; dup {
			return nil, fmt.Errorf("class %q defined more than once", s.Name)
		}
		byName[s.Name] = s
	}

	pending := make(map[string]int, len(specs)) // unplaced parent count
	children := make(map[string][]string)
	for _, s := range specs {
		for _, p := range s.Parents {
			if _, ok := byName[p]; !ok {
				return nil, fmt.Errorf("class %q: unknown parent %q", s.Name, p)
			}
			children[p] = append(children[p], s.Name)
		}
		pending[s.Name] = len(s.Parents)
	}

	var ready []string
	for name, n := range pending {
		if n == 0 {
			ready = append(ready, name)
		}
	}

	ordered := make([]ir.ClassSpec, 0, len(specs))
	for len(ready) > 0 {
		sort.Strings(ready)
		name := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byName[name])
		for _, child := range children[name] {
			pending[child]--
			if pending[child] == 0 {
				ready = append(ready, child)
			}
		}
	}

	if len(ordered) != len(specs) {
		var stuck []string
		for name, n := range pending {
			if n > 0 {
				stuck = append(stuck, name)
			}
		}
		sort.Strings(stuck)
		return nil, fmt.Errorf("inheritance cycle among: %s", strings.Join(stuck, ", "))
	}
	return ordered, nil
}
