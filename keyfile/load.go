package keyfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var (
	// ErrEmptyKeyList is returned if a key file does not contain any key.
	ErrEmptyKeyList = errors.New("keyfile: no keys found")
	// ErrBadKey is returned if a field is not a decimal integer.
	ErrBadKey = errors.New("keyfile: malformed key")
)

// Load reads the keys of the file at path.
func Load(path string) ([]int, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	} else if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("keyfile: %s is not a regular file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	keys, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	tracer().Infof("loaded %d keys from %s", len(keys), path)
	return keys, nil
}

// Parse reads keys from r.
func Parse(r io.Reader) ([]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // lines may hold any number of keys
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	cr.ReuseRecord = true
	var keys []int
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		for _, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			k, err := strconv.Atoi(field)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w %q", line, ErrBadKey, field)
			}
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, ErrEmptyKeyList
	}
	return keys, nil
}
