package format

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dhamidi/jvmdecode/bytecode"
	"github.com/dhamidi/jvmdecode/classfile"
)

// JSONEncoder writes the decoded tree as indented JSON. When Code is
// set, every Code attribute also carries its disassembly.
type JSONEncoder struct {
	w     io.Writer
	class *classfile.ClassFile
	Code  bool
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(class *classfile.ClassFile) error {
	e.class = class
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	data, err := e.buildClassData()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(data, "", "  ")
}

type jsonClass struct {
	Name         string          `json:"name"`
	Kind         string          `json:"kind"`
	Magic        string          `json:"magic"`
	Version      jsonVersion     `json:"version"`
	AccessFlags  jsonFlags       `json:"accessFlags"`
	SuperClass   string          `json:"superClass,omitempty"`
	Interfaces   []string        `json:"interfaces,omitempty"`
	ConstantPool []jsonConstant  `json:"constantPool"`
	Fields       []jsonMember    `json:"fields,omitempty"`
	Methods      []jsonMember    `json:"methods,omitempty"`
	Attributes   []jsonAttribute `json:"attributes,omitempty"`
}

type jsonVersion struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

type jsonFlags struct {
	Value uint16   `json:"value"`
	Names []string `json:"names,omitempty"`
}

type jsonConstant struct {
	Index uint16 `json:"index"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

type jsonMember struct {
	Name        string          `json:"name"`
	Descriptor  string          `json:"descriptor"`
	Type        string          `json:"type,omitempty"`
	AccessFlags jsonFlags       `json:"accessFlags"`
	Attributes  []jsonAttribute `json:"attributes,omitempty"`
}

type jsonAttribute struct {
	Name       string    `json:"name"`
	Length     uint32    `json:"length"`
	Recognized bool      `json:"recognized"`
	Value      string    `json:"value,omitempty"`
	Code       *jsonCode `json:"code,omitempty"`
}

type jsonCode struct {
	MaxStack       uint16            `json:"maxStack"`
	MaxLocals      uint16            `json:"maxLocals"`
	CodeLength     int               `json:"codeLength"`
	ExceptionTable []jsonHandler     `json:"exceptionTable,omitempty"`
	Instructions   []jsonInstruction `json:"instructions,omitempty"`
	Attributes     []jsonAttribute   `json:"attributes,omitempty"`
}

type jsonHandler struct {
	StartPC   uint16 `json:"startPc"`
	EndPC     uint16 `json:"endPc"`
	HandlerPC uint16 `json:"handlerPc"`
	CatchType string `json:"catchType,omitempty"`
}

type jsonInstruction struct {
	Offset  int    `json:"offset"`
	Text    string `json:"text"`
	Comment string `json:"comment,omitempty"`
}

func (e *JSONEncoder) buildClassData() (jsonClass, error) {
	c := e.class
	data := jsonClass{
		Name:  c.ClassName(),
		Kind:  classKind(c),
		Magic: fmt.Sprintf("0x%08X", c.Magic),
		Version: jsonVersion{
			Major: c.MajorVersion,
			Minor: c.MinorVersion,
		},
		AccessFlags:  flags(c.AccessFlags, classfile.ClassFlags),
		SuperClass:   c.SuperClassName(),
		Interfaces:   c.InterfaceNames(),
		ConstantPool: e.buildConstantPool(),
	}

	cp := c.ConstantPool
	for i := range c.Fields {
		f := &c.Fields[i]
		attrs, err := e.buildAttributes(f.Attributes)
		if err != nil {
			return data, err
		}
		data.Fields = append(data.Fields, jsonMember{
			Name:        f.Name(cp),
			Descriptor:  f.Descriptor(cp),
			Type:        typeString(f.ParsedDescriptor(cp)),
			AccessFlags: flags(f.AccessFlags, classfile.FieldFlags),
			Attributes:  attrs,
		})
	}

	for i := range c.Methods {
		m := &c.Methods[i]
		attrs, err := e.buildAttributes(m.Attributes)
		if err != nil {
			return data, fmt.Errorf("failed to encode %s: %w", memberName(c, m.Name(cp), m.Descriptor(cp)), err)
		}
		member := jsonMember{
			Name:        m.Name(cp),
			Descriptor:  m.Descriptor(cp),
			AccessFlags: flags(m.AccessFlags, classfile.MethodFlags),
			Attributes:  attrs,
		}
		if md := m.ParsedDescriptor(cp); md != nil {
			member.Type = md.String()
		}
		data.Methods = append(data.Methods, member)
	}

	attrs, err := e.buildAttributes(c.Attributes)
	if err != nil {
		return data, err
	}
	data.Attributes = attrs
	return data, nil
}

func typeString(ft *classfile.FieldType) string {
	if ft == nil {
		return ""
	}
	return ft.String()
}

func flags(f classfile.AccessFlags, ctx classfile.FlagContext) jsonFlags {
	return jsonFlags{Value: uint16(f), Names: f.Names(ctx)}
}

func (e *JSONEncoder) buildConstantPool() []jsonConstant {
	cp := e.class.ConstantPool
	result := make([]jsonConstant, 0, cp.PhysicalCount())
	for i := range cp {
		idx := uint16(i + 1)
		entry, ok := cp.Entry(idx)
		if !ok {
			continue
		}
		result = append(result, jsonConstant{
			Index: idx,
			Tag:   entry.Tag().String(),
			Value: cp.Describe(idx),
		})
	}
	return result
}

func (e *JSONEncoder) buildAttributes(attrs []classfile.AttributeInfo) ([]jsonAttribute, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	cp := e.class.ConstantPool
	result := make([]jsonAttribute, len(attrs))
	for i := range attrs {
		a := &attrs[i]
		result[i] = jsonAttribute{
			Name:       a.Name,
			Length:     a.Length(),
			Recognized: a.IsRecognized(),
			Value:      attributeSummary(cp, a),
		}
		if code := a.AsCode(); code != nil {
			jc, err := e.buildCode(code)
			if err != nil {
				return nil, err
			}
			result[i].Code = jc
		}
	}
	return result, nil
}

func (e *JSONEncoder) buildCode(code *classfile.CodeAttribute) (*jsonCode, error) {
	cp := e.class.ConstantPool
	jc := &jsonCode{
		MaxStack:   code.MaxStack,
		MaxLocals:  code.MaxLocals,
		CodeLength: len(code.Code),
	}
	for _, h := range code.ExceptionTable {
		handler := jsonHandler{StartPC: h.StartPC, EndPC: h.EndPC, HandlerPC: h.HandlerPC}
		if h.CatchType != 0 {
			handler.CatchType = cp.GetClassName(h.CatchType)
		}
		jc.ExceptionTable = append(jc.ExceptionTable, handler)
	}

	if e.Code {
		insts, err := bytecode.Disassemble(code.Code)
		if err != nil {
			return nil, err
		}
		jc.Instructions = make([]jsonInstruction, len(insts))
		for i := range insts {
			jc.Instructions[i] = jsonInstruction{
				Offset:  insts[i].Offset,
				Text:    insts[i].String(),
				Comment: instructionComment(cp, &insts[i]),
			}
		}
	}

	attrs, err := e.buildAttributes(code.Attributes)
	if err != nil {
		return nil, err
	}
	jc.Attributes = attrs
	return jc, nil
}
