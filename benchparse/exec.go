// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchparse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Exec is an Adapter that runs an external parser. The command is
// run with the result file appended as its last argument and must
// print an Output as JSON on standard output.
type Exec struct {
	// Command is the program and its leading arguments.
	Command []string
}

var errNoCommand = errors.New("exec adapter has no command")

func (e Exec) Parse(path string) (*Output, error) {
	if len(e.Command) == 0 {
		return nil, errNoCommand
	}
	args := append(append([]string(nil), e.Command[1:]...), path)
	cmd := exec.Command(e.Command[0], args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, &ParseError{File: path, Err: err}
		}
		return nil, &ParseError{File: path, Err: fmt.Errorf("%v: %s", err, msg)}
	}

	out := new(Output)
	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return nil, &ParseError{File: path, Err: fmt.Errorf("decoding output of %s: %w", e.Command[0], err)}
	}
	return out, nil
}

func (e Exec) String() string {
	return strings.Join(e.Command, " ")
}
