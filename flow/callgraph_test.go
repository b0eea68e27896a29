package flow

import (
	"errors"
	"testing"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/dhamidi/jvmdecode/internal/classtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zboralski/lattice"
	"github.com/zboralski/lattice/render"
)

func invoke(op byte, index uint16) []byte {
	return []byte{op, byte(index >> 8), byte(index)}
}

func sampleBuilder() *classtest.Builder {
	b := classtest.New()
	b.This("demo/A")
	b.Super("java/lang/Object")

	helper := b.Methodref("demo/A", "helper", "()V")
	printRef := b.Methodref("java/io/PrintStream", "println", "()V")
	code := classtest.Cat(
		invoke(0xb8, helper),
		invoke(0xb8, helper),
		[]byte{0x01},
		invoke(0xb6, printRef),
		[]byte{0xb1},
	)
	b.Method(0x0001, "run", "()V", b.Code(1, 1, code, nil))
	b.Method(0x0009, "helper", "()V", b.Code(0, 0, []byte{0xb1}, nil))
	b.Method(0x0401, "hook", "()V")
	return b
}

func decodeSample(t *testing.T) *classfile.ClassFile {
	t.Helper()
	cf, err := classfile.Decode(sampleBuilder().Bytes())
	require.NoError(t, err)
	return cf
}

func TestBuildCallGraph(t *testing.T) {
	g, err := BuildCallGraph(decodeSample(t))
	require.NoError(t, err)

	assert.Subset(t, g.Nodes, []string{"demo/A.run:()V", "demo/A.helper:()V", "demo/A.hook:()V"})
	assert.ElementsMatch(t, []lattice.Edge{
		{Caller: "demo/A.run:()V", Callee: "demo/A.helper:()V"},
		{Caller: "demo/A.run:()V", Callee: "java/io/PrintStream.println:()V"},
	}, g.Edges)

	assert.NotEmpty(t, render.DOT(g, "demo/A"))
}

func TestBuildCallGraphAcrossClasses(t *testing.T) {
	other := classtest.New()
	other.This("demo/B")
	other.Super("java/lang/Object")
	run := other.Methodref("demo/A", "run", "()V")
	other.Method(0x0009, "main", "()V", other.Code(0, 0, classtest.Cat(invoke(0xb8, run), []byte{0xb1}), nil))
	b, err := classfile.Decode(other.Bytes())
	require.NoError(t, err)

	g, err := BuildCallGraph(decodeSample(t), b)
	require.NoError(t, err)
	assert.Contains(t, g.Nodes, "demo/B.main:()V")
	assert.Contains(t, g.Edges, lattice.Edge{Caller: "demo/B.main:()V", Callee: "demo/A.run:()V"})
}

func TestBuildCallGraphReportsBadCode(t *testing.T) {
	b := classtest.New()
	b.This("demo/Bad")
	b.Super("java/lang/Object")
	b.Method(0x0001, "broken", "()V", b.Code(0, 0, []byte{0xcb}, nil))
	cf, err := classfile.Decode(b.Bytes())
	require.NoError(t, err)

	_, err = BuildCallGraph(cf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, classfile.ErrUnknownOpcode))
	assert.Contains(t, err.Error(), "demo/Bad.broken:()V")
}

func TestPoolResolver(t *testing.T) {
	cf := decodeSample(t)
	resolve := PoolResolver(cf.ConstantPool)
	insts, err := bytecode.Disassemble(cf.GetMethod("run", "()V").GetCodeAttribute().Code)
	require.NoError(t, err)

	var resolved []string
	for i := range insts {
		if callee, ok := resolve(&insts[i]); ok {
			resolved = append(resolved, callee)
		}
	}
	assert.Equal(t, []string{
		"demo/A.helper:()V",
		"demo/A.helper:()V",
		"java/io/PrintStream.println:()V",
	}, resolved)

	fn, err := MethodCFG(cf, cf.GetMethod("run", "()V"))
	require.NoError(t, err)
	require.Len(t, fn.Blocks, 1)
	var offsets []int
	for _, c := range fn.Blocks[0].Calls {
		offsets = append(offsets, c.Offset)
	}
	assert.Equal(t, []int{0, 3, 7}, offsets)
}
