package modulemanager

import (
	"fmt"
	"sort"
)

// dependencyNode is a module in the dependency graph
type dependencyNode struct {
	module       Module
	dependencies []string
	visited      bool
	inStack      bool
}

// dependencyGraph represents the dependency relationships between enabled modules
type dependencyGraph struct {
	nodes map[string]*dependencyNode
}

// buildDependencyGraph creates a dependency graph from the enabled modules.
// A dependency on a module that is unknown or disabled is an error.
func buildDependencyGraph(modules map[string]Module) (*dependencyGraph, error) {
	g := &dependencyGraph{nodes: make(map[string]*dependencyNode, len(modules))}

	for id, module := range modules {
		node := &dependencyNode{module: module}
		if provider, ok := module.(DependencyProvider); ok {
			node.dependencies = append(node.dependencies, provider.Dependencies()...)
		}
		sort.Strings(node.dependencies)
		g.nodes[id] = node
	}

	for id, node := range g.nodes {
		for _, dep := range node.dependencies {
			if _, ok := g.nodes[dep]; !ok {
				return nil, fmt.Errorf("module %s depends on unavailable module %s", id, dep)
			}
		}
	}

	if err := g.detectCycles(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *dependencyGraph) sortedIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// detectCycles uses DFS to detect dependency cycles
func (g *dependencyGraph) detectCycles() error {
	for _, id := range g.sortedIDs() {
		if !g.nodes[id].visited {
			if err := g.detectCyclesDFS(id, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

func (g *dependencyGraph) detectCyclesDFS(id string, path []string) error {
	node := g.nodes[id]
	node.visited = true
	node.inStack = true
	path = append(path, id)

	for _, dep := range node.dependencies {
		depNode := g.nodes[dep]
		if !depNode.visited {
			if err := g.detectCyclesDFS(dep, path); err != nil {
				return err
			}
			continue
		}
		if depNode.inStack {
			for i, p := range path {
				if p == dep {
					cycle := append(append([]string(nil), path[i:]...), dep)
					return fmt.Errorf("circular dependency detected: %v", cycle)
				}
			}
		}
	}

	node.inStack = false
	return nil
}

// initializationOrder returns modules so that every module follows its dependencies.
// Independent modules are ordered by id, which keeps startup deterministic.
func (g *dependencyGraph) initializationOrder() []Module {
	order := make([]Module, 0, len(g.nodes))
	done := make(map[string]bool, len(g.nodes))

	var visit func(string)
	visit = func(id string) {
		if done[id] {
			return
		}
		done[id] = true
		for _, dep := range g.nodes[id].dependencies {
			visit(dep)
		}
		order = append(order, g.nodes[id].module)
	}

	for _, id := range g.sortedIDs() {
		visit(id)
	}
	return order
}
