package classfile

import (
	"fmt"
	"strings"
)

// FieldType is a parsed field descriptor. Exactly one of BaseType and
// ClassName is set; ClassName is in internal form (java/lang/String).
type FieldType struct {
	BaseType   string
	ClassName  string
	ArrayDepth int
}

// String renders the type in source form with array brackets
// trailing, e.g. java.lang.String[][].
func (ft *FieldType) String() string {
	var sb strings.Builder
	if ft.BaseType != "" {
		sb.WriteString(ft.BaseType)
	} else {
		sb.WriteString(InternalToSourceName(ft.ClassName))
	}
	for i := 0; i < ft.ArrayDepth; i++ {
		sb.WriteString("[]")
	}
	return sb.String()
}

func (ft *FieldType) IsArray() bool     { return ft.ArrayDepth > 0 }
func (ft *FieldType) IsPrimitive() bool { return ft.BaseType != "" && !ft.IsArray() }

// Slots returns the number of local variable slots a value of this type
// occupies.
func (ft *FieldType) Slots() int {
	if ft.IsPrimitive() && (ft.BaseType == "long" || ft.BaseType == "double") {
		return 2
	}
	return 1
}

// MethodDescriptor is a parsed method descriptor. ReturnType is nil for
// void methods.
type MethodDescriptor struct {
	Parameters []FieldType
	ReturnType *FieldType
}

func (md *MethodDescriptor) String() string {
	params := make([]string, len(md.Parameters))
	for i := range md.Parameters {
		params[i] = md.Parameters[i].String()
	}
	ret := "void"
	if md.ReturnType != nil {
		ret = md.ReturnType.String()
	}
	return "(" + strings.Join(params, ", ") + ") " + ret
}

// ParameterSlots returns the local variable slots taken by the
// parameters, not counting the receiver of instance methods.
func (md *MethodDescriptor) ParameterSlots() int {
	n := 0
	for i := range md.Parameters {
		n += md.Parameters[i].Slots()
	}
	return n
}

var baseTypes = map[byte]string{
	'B': "byte",
	'C': "char",
	'D': "double",
	'F': "float",
	'I': "int",
	'J': "long",
	'S': "short",
	'Z': "boolean",
}

// JVM limit on array dimensions.
const maxArrayDepth = 255

type descriptorParser struct {
	desc string
	pos  int
}

func (p *descriptorParser) errorf(format string, args ...any) error {
	return fmt.Errorf("invalid descriptor %q at %d: %s", p.desc, p.pos, fmt.Sprintf(format, args...))
}

func (p *descriptorParser) fieldType() (*FieldType, error) {
	ft := &FieldType{}
	for p.pos < len(p.desc) && p.desc[p.pos] == '[' {
		ft.ArrayDepth++
		p.pos++
	}
	if ft.ArrayDepth > maxArrayDepth {
		return nil, p.errorf("%d array dimensions", ft.ArrayDepth)
	}
	if p.pos >= len(p.desc) {
		return nil, p.errorf("missing type")
	}

	c := p.desc[p.pos]
	if name, ok := baseTypes[c]; ok {
		ft.BaseType = name
		p.pos++
		return ft, nil
	}
	if c != 'L' {
		return nil, p.errorf("unexpected %q", c)
	}

	end := strings.IndexByte(p.desc[p.pos:], ';')
	if end < 0 {
		return nil, p.errorf("unterminated class name")
	}
	if end == 1 {
		return nil, p.errorf("empty class name")
	}
	ft.ClassName = p.desc[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return ft, nil
}

// ParseFieldDescriptor parses a descriptor such as "[Ljava/lang/String;".
func ParseFieldDescriptor(desc string) (*FieldType, error) {
	p := &descriptorParser{desc: desc}
	ft, err := p.fieldType()
	if err != nil {
		return nil, err
	}
	if p.pos != len(desc) {
		return nil, p.errorf("trailing characters")
	}
	return ft, nil
}

// ParseMethodDescriptor parses a descriptor such as "(IJ)V".
func ParseMethodDescriptor(desc string) (*MethodDescriptor, error) {
	p := &descriptorParser{desc: desc}
	if !strings.HasPrefix(desc, "(") {
		return nil, p.errorf("missing '('")
	}
	p.pos++

	md := &MethodDescriptor{}
	for p.pos < len(desc) && desc[p.pos] != ')' {
		ft, err := p.fieldType()
		if err != nil {
			return nil, err
		}
		md.Parameters = append(md.Parameters, *ft)
	}
	if p.pos >= len(desc) {
		return nil, p.errorf("missing ')'")
	}
	p.pos++

	if p.pos < len(desc) && desc[p.pos] == 'V' {
		p.pos++
	} else {
		ret, err := p.fieldType()
		if err != nil {
			return nil, err
		}
		md.ReturnType = ret
	}
	if p.pos != len(desc) {
		return nil, p.errorf("trailing characters")
	}
	return md, nil
}

func InternalToSourceName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}

func SourceToInternalName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}
