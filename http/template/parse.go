package template

import (
	"fmt"
	html "html/template"
	"io/fs"
	"path"
)

// Parser parses HTML templates with the functions provided,
// with a focus on utilizing embedded HTML templates through fs.FS.
//
// Files are searched for in the directories provided to NewParser, in order,
// before falling back to the layouts this package embeds.
type Parser struct {
	fs  fs.FS
	fns html.FuncMap
}

// NewParser constructs a *Parser with the provided functional options.
func NewParser(dirs []fs.FS, opts ...ParserOptFn) *Parser {
	p := &Parser{fs: newMergeFS(dirs), fns: defaultFns()}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// AddFn returns a copy of the *Parser including the named function in its function map.
//
// The original *Parser is unchanged,
// so request-specific functions never leak between requests.
func (p *Parser) AddFn(name string, fn any) *Parser {
	fns := make(html.FuncMap, len(p.fns)+1)
	for k, v := range p.fns {
		fns[k] = v
	}

	if name != "" {
		fns[name] = fn
	}

	return &Parser{fs: p.fs, fns: fns}
}

// Parse parses files found in the *Parser's directories with those functions provided previously.
// The first file names the returned template.
func (p *Parser) Parse(fps ...string) (*html.Template, error) {
	files := make([]string, 0, len(fps))
	for _, fp := range fps {
		if fp != "" {
			files = append(files, fp)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w", ErrNoFiles)
	}

	return html.New(path.Base(files[0])).Funcs(p.fns).ParseFS(p.fs, files...)
}
