package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dhamidi/jvmdecode/classfile"
	"github.com/dhamidi/jvmdecode/internal/classtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	class      *classfile.ClassFile
	objectInit uint16
}

func decodeSample(t *testing.T) sample {
	t.Helper()
	b := classtest.New()
	b.This("demo/Greeter")
	b.Super("java/lang/Object")
	b.Interface("java/lang/Runnable")
	b.Field(0x0019, "GREETING", "Ljava/lang/String;", b.Attr("ConstantValue", classtest.U2(b.String("hi"))))

	objectInit := b.Methodref("java/lang/Object", "<init>", "()V")
	code := []byte{0x2a, 0xb7, byte(objectInit >> 8), byte(objectInit), 0xb1}
	handlers := []classtest.Handler{{StartPC: 0, EndPC: 4, HandlerPC: 4}}
	b.Method(0x0001, "<init>", "()V", b.Code(1, 1, code, handlers))
	b.Method(0x0401, "run", "()V")
	b.Attribute(b.Attr("SourceFile", classtest.U2(b.Utf8("Greeter.java"))))
	b.Attribute(b.Attr("Custom", []byte{1, 2, 3}))

	cf, err := classfile.Decode(b.Bytes())
	require.NoError(t, err)
	return sample{class: cf, objectInit: objectInit}
}

func brokenClass(t *testing.T) *classfile.ClassFile {
	t.Helper()
	b := classtest.New()
	b.This("demo/Bad")
	b.Super("java/lang/Object")
	b.Method(0x0001, "broken", "()V", b.Code(0, 0, []byte{0xcb}, nil))
	cf, err := classfile.Decode(b.Bytes())
	require.NoError(t, err)
	return cf
}

func TestLineEncoder(t *testing.T) {
	s := decodeSample(t)
	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(s.class))
	lines := strings.Split(buf.String(), "\n")

	for _, want := range []string{
		"class\tdemo/Greeter\tACC_PUBLIC,ACC_SUPER\t52.0",
		"super\tjava/lang/Object",
		"interface\tjava/lang/Runnable",
		"field\tGREETING\tLjava/lang/String;\tACC_PUBLIC,ACC_STATIC,ACC_FINAL",
		"attr\tGREETING\tConstantValue\t2\thi",
		"method\t<init>\t()V\tACC_PUBLIC",
		"attr\t<init>:()V\tCode\t25\t-",
		"code\t<init>:()V\tstack=1\tlocals=1\tlength=5",
		"handler\t<init>:()V\t0\t4\t4\tany",
		"method\trun\t()V\tACC_PUBLIC,ACC_ABSTRACT",
		"attr\tdemo/Greeter\tSourceFile\t2\tGreeter.java",
		"attr\tdemo/Greeter\tCustom\t3\topaque",
		fmt.Sprintf("const\t#%d\tMethodref\tjava/lang/Object.<init>:()V", s.objectInit),
	} {
		assert.Contains(t, lines, want)
	}
	assert.NotContains(t, buf.String(), "insn\t")
}

func TestLineEncoderCode(t *testing.T) {
	s := decodeSample(t)
	enc := NewLineEncoder(nil)
	enc.Code = true
	enc.class = s.class
	text, err := enc.MarshalText()
	require.NoError(t, err)
	lines := strings.Split(string(text), "\n")

	assert.Contains(t, lines, "insn\t<init>:()V\t0\taload_0\t-")
	assert.Contains(t, lines, fmt.Sprintf("insn\t<init>:()V\t1\tinvokespecial #%d\tMethodref java/lang/Object.<init>:()V", s.objectInit))
	assert.Contains(t, lines, "insn\t<init>:()V\t4\treturn\t-")
}

func TestLineEncoderReportsBadCode(t *testing.T) {
	cf := brokenClass(t)

	var buf bytes.Buffer
	require.NoError(t, NewLineEncoder(&buf).Encode(cf))

	enc := NewLineEncoder(&buf)
	enc.Code = true
	err := enc.Encode(cf)
	require.Error(t, err)
	assert.True(t, errors.Is(err, classfile.ErrUnknownOpcode))
	assert.Contains(t, err.Error(), "demo/Bad.broken:()V")
}

func decodeJSON(t *testing.T, enc *JSONEncoder, cf *classfile.ClassFile) jsonClass {
	t.Helper()
	var buf bytes.Buffer
	enc.w = &buf
	require.NoError(t, enc.Encode(cf))
	var out jsonClass
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestJSONEncoder(t *testing.T) {
	s := decodeSample(t)
	out := decodeJSON(t, NewJSONEncoder(nil), s.class)

	assert.Equal(t, "demo/Greeter", out.Name)
	assert.Equal(t, "class", out.Kind)
	assert.Equal(t, "0xCAFEBABE", out.Magic)
	assert.Equal(t, jsonVersion{Major: 52}, out.Version)
	assert.Equal(t, jsonFlags{Value: 0x21, Names: []string{"ACC_PUBLIC", "ACC_SUPER"}}, out.AccessFlags)
	assert.Equal(t, "java/lang/Object", out.SuperClass)
	assert.Equal(t, []string{"java/lang/Runnable"}, out.Interfaces)
	assert.Len(t, out.ConstantPool, s.class.ConstantPool.PhysicalCount())
	assert.Contains(t, out.ConstantPool, jsonConstant{Index: s.objectInit, Tag: "Methodref", Value: "java/lang/Object.<init>:()V"})

	require.Len(t, out.Fields, 1)
	assert.Equal(t, "java.lang.String", out.Fields[0].Type)
	assert.Equal(t, []jsonAttribute{{Name: "ConstantValue", Length: 2, Recognized: true, Value: "hi"}}, out.Fields[0].Attributes)

	require.Len(t, out.Methods, 2)
	ctor := out.Methods[0]
	assert.Equal(t, "<init>", ctor.Name)
	assert.Equal(t, "() void", ctor.Type)
	require.Len(t, ctor.Attributes, 1)
	code := ctor.Attributes[0].Code
	require.NotNil(t, code)
	assert.Equal(t, 5, code.CodeLength)
	assert.Equal(t, []jsonHandler{{StartPC: 0, EndPC: 4, HandlerPC: 4}}, code.ExceptionTable)
	assert.Empty(t, code.Instructions)
	assert.Empty(t, out.Methods[1].Attributes)

	assert.Equal(t, []jsonAttribute{
		{Name: "SourceFile", Length: 2, Recognized: true, Value: "Greeter.java"},
		{Name: "Custom", Length: 3},
	}, out.Attributes)
}

func TestJSONEncoderCode(t *testing.T) {
	s := decodeSample(t)
	enc := NewJSONEncoder(nil)
	enc.Code = true
	out := decodeJSON(t, enc, s.class)

	code := out.Methods[0].Attributes[0].Code
	require.NotNil(t, code)
	assert.Equal(t, []jsonInstruction{
		{Offset: 0, Text: "aload_0"},
		{Offset: 1, Text: fmt.Sprintf("invokespecial #%d", s.objectInit), Comment: "Methodref java/lang/Object.<init>:()V"},
		{Offset: 4, Text: "return"},
	}, code.Instructions)
}

func TestJSONEncoderReportsBadCode(t *testing.T) {
	cf := brokenClass(t)
	enc := NewJSONEncoder(&bytes.Buffer{})
	enc.Code = true
	err := enc.Encode(cf)
	assert.True(t, errors.Is(err, classfile.ErrUnknownOpcode))
}
