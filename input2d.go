package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Input2d holds the numeric parameters and structure name of an IB2d
// input2d file
type Input2d struct {
	Params     map[string]float64
	Order      []string // parameter names in file order
	StructName string
}

// Float looks up a numeric parameter
func (in *Input2d) Float(name string) (float64, bool) {
	v, ok := in.Params[name]
	return v, ok
}

// Int looks up a numeric parameter and truncates it like the simulator does
func (in *Input2d) Int(name string) (int, bool) {
	v, ok := in.Params[name]
	return int(v), ok
}

// ParseInput2d reads "name = value % comment" lines. Lines without '=' and
// pure comment lines are ignored; string_name carries the structure name.
func ParseInput2d(r io.Reader) (*Input2d, error) {
	in := &Input2d{Params: make(map[string]float64)}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}

		if name == "string_name" {
			words := strings.Fields(value)
			if len(words) == 0 {
				return nil, fmt.Errorf("line %d: empty string_name", lineNo)
			}
			in.StructName = strings.Trim(words[0], `'"`)
			continue
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid value for %s: %w", lineNo, name, err)
		}
		if _, dup := in.Params[name]; !dup {
			in.Order = append(in.Order, name)
		}
		in.Params[name] = v
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input2d: %w", err)
	}

	return in, nil
}

// LoadInput2d parses the input2d file at path
func LoadInput2d(path string) (*Input2d, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input2d: %w", err)
	}
	defer f.Close()

	return ParseInput2d(f)
}
