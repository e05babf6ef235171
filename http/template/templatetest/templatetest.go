/*
Package templatetest exposes a mock fs.FS that implements basic file operations.
Used in unit tests for the purposes of avoiding the use of testdata/ directories when unit testing template rendering.

Cribbed from Mark Bates: https://www.gopherguides.com/articles/golang-1.16-io-fs-improve-test-performance
*/
package templatetest

import (
	"bytes"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/xy-planning-network/wayfarer/http/template"
)

// NewParser constructs a *template.Parser with the mocked files.
func NewParser(tmpls ...*MockFile) *template.Parser {
	return template.NewParser([]fs.FS{NewMockFS(tmpls...)})
}

type MockFS []*MockFile

func NewMockFS(tmpls ...*MockFile) fs.FS { return append(MockFS{}, tmpls...) }

// Glob checks whether the pattern matches the file after removing all directory paths from
// the respective parts.
//
// Buyer beware: Glob is a simplistic implementation of fs.GlobFS.
//
// i.e., pattern: some/long/path/*
// will match all of the following
// - some/long/path/myfile.txt
// - some/long/otherfile.txt
// - totally/different/tree/somefile.txt
// - /rootfile.txt
// ... etc.
func (mfs MockFS) Glob(pattern string) ([]string, error) {
	_, pattern = path.Split(pattern)
	matches := []string{}
	for _, f := range mfs {
		_, filename := path.Split(f.name)
		matched, err := path.Match(pattern, filename)
		if err != nil {
			return nil, err
		}

		if matched {
			matches = append(matches, f.name)
		}
	}

	return matches, nil
}

// Open returns a fresh handle on the file named, so a file may be read more than once.
func (mfs MockFS) Open(name string) (fs.File, error) {
	for _, f := range mfs {
		if f.name == name {
			return &openFile{MockFile: f, r: bytes.NewReader(f.data)}, nil
		}
	}

	return nil, &fs.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
}

// A MockFile is both an in-memory file and its fs.FileInfo.
type MockFile struct {
	data    []byte
	modTime time.Time
	name    string
}

func NewMockFile(name string, data []byte) *MockFile {
	return &MockFile{data: data, name: name}
}

func (m *MockFile) IsDir() bool        { return false }
func (m *MockFile) Mode() fs.FileMode  { return 0o444 }
func (m *MockFile) ModTime() time.Time { return m.modTime }
func (m *MockFile) Name() string       { return path.Base(m.name) }
func (m *MockFile) Size() int64        { return int64(len(m.data)) }
func (m *MockFile) Sys() any           { return nil }

type openFile struct {
	*MockFile
	r *bytes.Reader
}

func (f *openFile) Close() error               { return nil }
func (f *openFile) Read(p []byte) (int, error) { return f.r.Read(p) }
func (f *openFile) Stat() (fs.FileInfo, error) { return f.MockFile, nil }
