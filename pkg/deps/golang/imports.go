// Package golang discovers task dependencies from the import graph of a Go
// module.
package golang

import (
	"context"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/mod/modfile"

	"github.com/matzehuels/taskwave/pkg/dag"
	"github.com/matzehuels/taskwave/pkg/deps"
)

// Imports discovers the packages of a Go module and the imports between
// them.
//
// Every package directory below the module root becomes a task whose ID is
// the import path relative to the module. The root package uses the last
// element of the module path, or "." when a subdirectory already has that
// name. An import of package P by package Q becomes
// the dependency P → Q: P must be built before Q. Only imports within the
// module are considered.
//
// Task durations are the number of non-test Go files in the package, scaled
// by Options.DefaultDuration, as a rough proxy for build cost. The "files"
// and "import_path" metadata keys record the raw values.
type Imports struct{}

// Name implements [deps.Discoverer].
func (Imports) Name() string { return "go-imports" }

// Supports implements [deps.Discoverer]: root must contain a go.mod file.
func (Imports) Supports(root string) bool {
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	return err == nil
}

type pkgInfo struct {
	importPath string
	files      int
	imports    map[string]bool
}

// Discover implements [deps.Discoverer].
func (Imports) Discover(ctx context.Context, root string, opts deps.Options) (*deps.Result, error) {
	opts = opts.WithDefaults()

	modPath, err := modulePath(root)
	if err != nil {
		return nil, err
	}

	pkgs := make(map[string]*pkgInfo) // keyed by import path
	fset := token.NewFileSet()
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			// Nested modules are separate build units.
			if p != root {
				if _, err := os.Stat(filepath.Join(p, "go.mod")); err == nil {
					return filepath.SkipDir
				}
			}
			if excluded(rel, opts.Exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		if excluded(rel, opts.Exclude) {
			return nil
		}

		f, err := parser.ParseFile(fset, p, nil, parser.ImportsOnly)
		if err != nil {
			opts.Logger("skipping %s: %v", rel, err)
			return nil
		}

		importPath := modPath
		if dir := path.Dir(rel); dir != "." {
			importPath = modPath + "/" + dir
		}
		info := pkgs[importPath]
		if info == nil {
			info = &pkgInfo{importPath: importPath, imports: make(map[string]bool)}
			pkgs[importPath] = info
		}
		info.files++
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			if imp == modPath || strings.HasPrefix(imp, modPath+"/") {
				info.imports[imp] = true
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	res := &deps.Result{Source: Imports{}.Name()}
	paths := make([]string, 0, len(pkgs))
	for p := range pkgs {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	rootID := path.Base(modPath)
	if _, clash := pkgs[modPath+"/"+rootID]; clash {
		rootID = "."
	}

	for _, p := range paths {
		info := pkgs[p]
		res.Tasks = append(res.Tasks, dag.Task{
			ID:       taskID(modPath, rootID, p),
			Duration: float64(info.files) * opts.DefaultDuration,
			Meta:     dag.Metadata{"files": info.files, "import_path": p},
		})
		imports := make([]string, 0, len(info.imports))
		for imp := range info.imports {
			// Imports of directories without Go files (or excluded ones)
			// cannot become tasks.
			if _, ok := pkgs[imp]; ok && imp != p {
				imports = append(imports, imp)
			}
		}
		slices.Sort(imports)
		for _, imp := range imports {
			res.Dependencies = append(res.Dependencies, dag.Dependency{
				From: taskID(modPath, rootID, imp),
				To:   taskID(modPath, rootID, p),
			})
		}
	}
	opts.Logger("discovered %d packages, %d imports in %s", len(res.Tasks), len(res.Dependencies), modPath)
	return res, nil
}

// modulePath reads the module path from root/go.mod.
func modulePath(root string) (string, error) {
	name := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(name)
	if err != nil {
		return "", err
	}
	f, err := modfile.ParseLax(name, data, nil)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", name, err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return "", fmt.Errorf("%s: missing module directive", name)
	}
	return f.Module.Mod.Path, nil
}

// taskID shortens an import path to its module-relative form. The root
// package becomes rootID.
func taskID(modPath, rootID, importPath string) string {
	if importPath == modPath {
		return rootID
	}
	return strings.TrimPrefix(importPath, modPath+"/")
}

// skipDir reports directories the go tool ignores.
func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" ||
		strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func excluded(rel string, patterns []string) bool {
	for _, pat := range patterns {
		if ok, _ := path.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

var _ deps.Discoverer = Imports{}
