// Package flow builds control-flow and call graphs over disassembled
// JVM methods, expressed in lattice types so they can be rendered with
// lattice/render.
package flow

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/zboralski/lattice"
)

// Resolver names the callee of an invoke instruction. It reports false
// when the instruction cannot be resolved.
type Resolver func(in *bytecode.Instruction) (string, bool)

// PoolResolver resolves invoke operands through a constant pool.
func PoolResolver(cp classfile.ConstantPool) Resolver {
	return func(in *bytecode.Instruction) (string, bool) {
		if !in.IsInvoke() {
			return "", false
		}
		idx, ok := in.ConstantIndex()
		if !ok {
			return "", false
		}
		if class, name, desc, ok := cp.MemberRef(idx); ok {
			return MemberName(class, name, desc), true
		}
		if s := cp.Describe(idx); s != "" {
			return s, true
		}
		return "", false
	}
}

// MemberName formats a method reference the way graph nodes are named.
func MemberName(class, name, desc string) string {
	return class + "." + name + ":" + desc
}

// BuildCFG partitions insts into basic blocks and links them. Block
// Start and End are instruction indices (End exclusive); call sites
// carry the code offset of the invoke instruction.
//
// Leaders are the first instruction, every branch and switch target,
// the instruction after any branch or terminator, and the start, end
// and handler of every exception range. Conditional branches produce
// "T" and "F" edges, switch arms are labelled with their keys, and
// blocks inside a protected range get an "E" edge to its handler.
func BuildCFG(name string, insts []bytecode.Instruction, handlers []classfile.ExceptionTableEntry, resolve Resolver) *lattice.FuncCFG {
	fn := &lattice.FuncCFG{Name: name}
	if len(insts) == 0 {
		return fn
	}

	offsetToIdx := make(map[int]int, len(insts))
	for i := range insts {
		offsetToIdx[insts[i].Offset] = i
	}

	// Pass 1: leaders.
	leaders := map[int]bool{0: true}
	mark := func(offset int) {
		if idx, ok := offsetToIdx[offset]; ok {
			leaders[idx] = true
		}
	}
	for i := range insts {
		in := &insts[i]
		if !in.IsBranch() && !in.IsTerminal() {
			continue
		}
		if i+1 < len(insts) {
			leaders[i+1] = true
		}
		for _, target := range in.BranchTargets() {
			mark(target)
		}
	}
	for _, h := range handlers {
		mark(int(h.StartPC))
		mark(int(h.EndPC))
		mark(int(h.HandlerPC))
	}

	sorted := make([]int, 0, len(leaders))
	for idx := range leaders {
		sorted = append(sorted, idx)
	}
	sort.Ints(sorted)

	// Pass 2: partition.
	leaderToBlock := make(map[int]int, len(sorted))
	for i, start := range sorted {
		end := len(insts)
		if i+1 < len(sorted) {
			end = sorted[i+1]
		}
		fn.Blocks = append(fn.Blocks, &lattice.BasicBlock{ID: i, Start: start, End: end})
		leaderToBlock[start] = i
	}
	blockAt := func(offset int) (int, bool) {
		idx, ok := offsetToIdx[offset]
		if !ok {
			return 0, false
		}
		id, ok := leaderToBlock[idx]
		return id, ok
	}

	// Pass 3: successors and call sites.
	for _, blk := range fn.Blocks {
		last := &insts[blk.End-1]
		next, hasNext := leaderToBlock[blk.End]

		switch {
		case last.IsTerminal():
			blk.Term = true
		case last.IsSwitch():
			linkSwitch(blk, last, blockAt)
		case last.IsConditional():
			if target, ok := blockAt(last.BranchTargets()[0]); ok {
				blk.Succs = append(blk.Succs, lattice.Successor{BlockID: target, Cond: "T"})
			}
			if hasNext {
				blk.Succs = append(blk.Succs, lattice.Successor{BlockID: next, Cond: "F"})
			}
		case last.IsJump(), last.IsSubroutineCall():
			if target, ok := blockAt(last.BranchTargets()[0]); ok {
				blk.Succs = append(blk.Succs, lattice.Successor{BlockID: target})
			}
			if last.IsSubroutineCall() && hasNext {
				blk.Succs = append(blk.Succs, lattice.Successor{BlockID: next, Cond: "ret"})
			}
		default:
			if hasNext {
				blk.Succs = append(blk.Succs, lattice.Successor{BlockID: next})
			}
		}

		startOffset := insts[blk.Start].Offset
		for _, h := range handlers {
			if startOffset < int(h.StartPC) || startOffset >= int(h.EndPC) {
				continue
			}
			if target, ok := blockAt(int(h.HandlerPC)); ok {
				blk.Succs = append(blk.Succs, lattice.Successor{BlockID: target, Cond: "E"})
			}
		}
		if len(blk.Succs) == 0 {
			blk.Term = true
		}

		if resolve == nil {
			continue
		}
		for i := blk.Start; i < blk.End; i++ {
			if callee, ok := resolve(&insts[i]); ok {
				blk.Calls = append(blk.Calls, lattice.CallSite{Offset: insts[i].Offset, Callee: callee})
			}
		}
	}
	return fn
}

// linkSwitch adds one successor per distinct switch target, labelled
// with the keys that reach it.
func linkSwitch(blk *lattice.BasicBlock, in *bytecode.Instruction, blockAt func(int) (int, bool)) {
	cases, def, _ := in.SwitchCases()
	labels := make(map[int][]string)
	var order []int
	add := func(target int, label string) {
		if _, seen := labels[target]; !seen {
			order = append(order, target)
		}
		labels[target] = append(labels[target], label)
	}
	for _, c := range cases {
		add(c.Target, strconv.Itoa(int(c.Key)))
	}
	add(def, "default")

	for _, target := range order {
		id, ok := blockAt(target)
		if !ok {
			continue
		}
		blk.Succs = append(blk.Succs, lattice.Successor{BlockID: id, Cond: strings.Join(labels[target], ",")})
	}
}

// MethodCFG disassembles one method and builds its graph. Methods
// without a Code attribute yield an empty graph.
func MethodCFG(cf *classfile.ClassFile, m *classfile.MethodInfo) (*lattice.FuncCFG, error) {
	name := MemberName(cf.ClassName(), m.Name(cf.ConstantPool), m.Descriptor(cf.ConstantPool))
	code := m.GetCodeAttribute()
	if code == nil {
		return &lattice.FuncCFG{Name: name}, nil
	}
	insts, err := bytecode.Disassemble(code.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to disassemble %s: %w", name, err)
	}
	return BuildCFG(name, insts, code.ExceptionTable, PoolResolver(cf.ConstantPool)), nil
}

// ClassCFG builds a graph for every method of cf that has code.
func ClassCFG(cf *classfile.ClassFile) (*lattice.CFGGraph, error) {
	g := &lattice.CFGGraph{}
	for i := range cf.Methods {
		m := &cf.Methods[i]
		if m.GetCodeAttribute() == nil {
			continue
		}
		fn, err := MethodCFG(cf, m)
		if err != nil {
			return nil, err
		}
		g.Funcs = append(g.Funcs, fn)
	}
	return g, nil
}
