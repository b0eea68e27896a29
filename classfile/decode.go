package classfile

import (
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Decode decodes a complete class file held in data. The returned tree
// aliases data for raw payloads (attribute info and code arrays), so
// data must not be modified afterwards.
func Decode(data []byte) (*ClassFile, error) {
	start := time.Now()
	c := NewCursor(data)

	magic, err := c.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if magic != Magic {
		return nil, &DecodeError{Kind: KindBadMagic, Offset: 0, Magic: magic}
	}

	cf := &ClassFile{Magic: magic}
	if cf.MinorVersion, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}
	if cf.MajorVersion, err = c.ReadU16(); err != nil {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}

	constantPoolCount, err := c.ReadU16()
	if err != nil {
		return nil, fmt.Errorf("failed to read constant pool count: %w", err)
	}
	if cf.ConstantPool, err = readConstantPool(c, constantPoolCount); err != nil {
		return nil, err
	}

	head, err := c.ReadU16Array(3)
	if err != nil {
		return nil, fmt.Errorf("failed to read class info: %w", err)
	}
	cf.AccessFlags = AccessFlags(head[0])
	cf.ThisClass = head[1]
	cf.SuperClass = head[2]

	if cf.Interfaces, err = readU16Table(c); err != nil {
		return nil, fmt.Errorf("failed to read interfaces: %w", err)
	}

	if cf.Fields, err = readMembers(c, cf.ConstantPool, "field", func(m Member) FieldInfo { return FieldInfo{m} }); err != nil {
		return nil, err
	}
	if cf.Methods, err = readMembers(c, cf.ConstantPool, "method", func(m Member) MethodInfo { return MethodInfo{m} }); err != nil {
		return nil, err
	}

	if cf.Attributes, err = readAttributeList(c, cf.ConstantPool); err != nil {
		return nil, fmt.Errorf("failed to read class attributes: %w", err)
	}

	if c.Remaining() != 0 {
		Logger().Debug("trailing bytes after class file",
			zap.Int("offset", c.Position()),
			zap.Int("count", c.Remaining()))
	}

	Logger().Debug("decoded class file",
		zap.String("class", cf.ClassName()),
		zap.Uint16("major", cf.MajorVersion),
		zap.Int("fields", len(cf.Fields)),
		zap.Int("methods", len(cf.Methods)),
		zap.Duration("elapsed", time.Since(start)))
	return cf, nil
}

// DecodeReader reads rd to completion and decodes the result.
func DecodeReader(rd io.Reader) (*ClassFile, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read class file: %w", err)
	}
	return Decode(data)
}
