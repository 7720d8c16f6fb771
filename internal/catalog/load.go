package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
)

// LoadMode controls how errors are handled while loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// Load error codes (E001-E099), shared with the CLI.
const (
	ErrCodeGeneric     = "E001"
	ErrCodeScanError   = "E002"
	ErrCodeNoFiles     = "E003"
	ErrCodeLoadFailed  = "E004"
	ErrCodeNotFound    = "E005"
	ErrCodeBuildFailed = "E006"
	ErrCodeCompile     = "E007"
)

// LoadError is an error raised while reading a catalog directory.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads every table declared under the top-level "table" field of the
// CUE package in dir. Tables that fail to compile are skipped; in
// LoadModeFailFast the first failure ends the load. The returned Catalog
// holds the tables that compiled, and is nil only when nothing could be
// read at all.
func Load(dir string, mode LoadMode) (*Catalog, []error) {
	info, err := os.Stat(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(files) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	tables, errs := compileTables(value, mode)
	cat, err := New(tables...)
	if err != nil {
		return nil, append(errs, &LoadError{Code: ErrCodeGeneric, Message: err.Error()})
	}
	return cat, errs
}

// LoadString compiles a catalog from CUE source text.
func LoadString(src string) (*Catalog, error) {
	value := cuecontext.New().CompileString(src)
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	tables, errs := compileTables(value, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return New(tables...)
}

func compileTables(value cue.Value, mode LoadMode) ([]Table, []error) {
	var tables []Table
	var errs []error

	tablesVal := value.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: "no tables declared"}}
	}
	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating tables: %v", err)}}
	}
	for iter.Next() {
		t, err := CompileTable(iter.Value())
		if err != nil {
			errs = append(errs, convertCompileError(err, "table."+iter.Selector().String()))
			if mode == LoadModeFailFast {
				return tables, errs
			}
			continue
		}
		tables = append(tables, *t)
	}
	return tables, errs
}

// FindCUEFiles walks dir and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func convertCompileError(err error, context string) *LoadError {
	var compileErr *CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompile,
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: %v", context, err)}
}
