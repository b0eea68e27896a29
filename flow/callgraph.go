package flow

import (
	"fmt"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/zboralski/lattice"
)

// BuildCallGraph constructs a lattice.Graph from the given classes.
// Every declared method becomes a node. Every invoke instruction whose
// operand resolves becomes an edge to the referenced method, which
// need not be declared by any of the classes.
func BuildCallGraph(classes ...*classfile.ClassFile) (*lattice.Graph, error) {
	g := &lattice.Graph{}
	for _, cf := range classes {
		resolve := PoolResolver(cf.ConstantPool)
		for i := range cf.Methods {
			m := &cf.Methods[i]
			caller := MemberName(cf.ClassName(), m.Name(cf.ConstantPool), m.Descriptor(cf.ConstantPool))
			g.Nodes = append(g.Nodes, caller)

			code := m.GetCodeAttribute()
			if code == nil {
				continue
			}
			insts, err := bytecode.Disassemble(code.Code)
			if err != nil {
				return nil, fmt.Errorf("failed to disassemble %s: %w", caller, err)
			}
			for j := range insts {
				callee, ok := resolve(&insts[j])
				if !ok {
					continue
				}
				g.Edges = append(g.Edges, lattice.Edge{Caller: caller, Callee: callee})
			}
		}
	}
	g.Dedup()
	return g, nil
}
