package analysis

import (
	"errors"
	"fmt"

	"github.com/dominikbraun/graph"

	"starscript/internal/scripting/ast"
	"starscript/internal/scripting/machine"
)

// Assignment is one single-static-assignment of an expression to a
// variable. Programs handed to the Analyzer are expected in SSA form:
// each name is assigned at most once.
type Assignment struct {
	Name string
	Expr *ast.Node
}

// ErrCyclicProgram reports that the assignments reference each other in
// a cycle and no encode order exists.
var ErrCyclicProgram = errors.New("cyclic variable dependencies")

// DependencyGraph is the directed reads-graph of a set of assignments:
// an edge from a to b means b's expression reads a.
type DependencyGraph struct {
	g graph.Graph[string, string]
}

// NewDependencyGraph builds the graph. Names are normalized; variables
// that are read but never assigned still appear as vertices.
func NewDependencyGraph(assignments []Assignment) (*DependencyGraph, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	addVertex := func(name string) error {
		err := g.AddVertex(name)
		if err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return err
		}
		return nil
	}

	for _, a := range assignments {
		name := machine.Normalize(a.Name)
		if err := addVertex(name); err != nil {
			return nil, err
		}
		for dep := range readSet(a.Expr) {
			if err := addVertex(dep); err != nil {
				return nil, err
			}
			err := g.AddEdge(dep, name)
			switch {
			case err == nil || errors.Is(err, graph.ErrEdgeAlreadyExists):
			case errors.Is(err, graph.ErrEdgeCreatesCycle):
				return nil, fmt.Errorf("%w: %s depends on %s", ErrCyclicProgram, name, dep)
			default:
				return nil, err
			}
		}
	}
	return &DependencyGraph{g: g}, nil
}

// EncodeOrder returns the variable names in an order where every
// dependency precedes its dependents. Ties break alphabetically so the
// order is stable.
func (d *DependencyGraph) EncodeOrder() ([]string, error) {
	return graph.StableTopologicalSort(d.g, func(a, b string) bool { return a < b })
}

// readSet collects the normalized names of all variables an expression
// reads. The inc/dec forms both read and write their target; the read
// is what matters for encode ordering.
func readSet(n *ast.Node) map[string]struct{} {
	reads := make(map[string]struct{})
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.Variable {
			reads[machine.Normalize(n.Name)] = struct{}{}
			return
		}
		walk(n.Left)
		walk(n.Right)
	}
	walk(n)
	return reads
}

// Analyzer wires a whole program into one model: it orders the
// assignments by dependency and asserts each in turn, so queries about
// any variable see the constraints of everything it derives from.
type Analyzer struct {
	model *Model
}

// NewAnalyzer creates an analyzer with a fresh model.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{model: NewModel(opts)}
}

// Close releases the underlying model.
func (a *Analyzer) Close() {
	a.model.Close()
}

// Model exposes the underlying model for queries.
func (a *Analyzer) Model() *Model {
	return a.model
}

// AssertProgram encodes a set of single-assignments in dependency
// order. Expressions containing unencodable node kinds taint their
// results; the joined ErrNotEncodable errors are returned after the
// whole program has been asserted.
func (a *Analyzer) AssertProgram(assignments []Assignment) error {
	deps, err := NewDependencyGraph(assignments)
	if err != nil {
		return err
	}
	order, err := deps.EncodeOrder()
	if err != nil {
		return err
	}

	byName := make(map[string]*ast.Node, len(assignments))
	for _, asn := range assignments {
		byName[machine.Normalize(asn.Name)] = asn.Expr
	}

	var errs []error
	for _, name := range order {
		expr, ok := byName[name]
		if !ok {
			// Read but never assigned: stays unconstrained.
			continue
		}
		if err := a.model.AssertExpr(a.model.GetOrCreate(name), expr); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
