package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/jvmdecode/classfile"
)

// loadClass decodes a .class file. The path "-" reads standard input.
func loadClass(path string, stdin io.Reader) (*classfile.ClassFile, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cf, err := classfile.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	log.Debugf("decoded %s (%s, %d bytes)", path, cf.ClassName(), len(data))
	return cf, nil
}
