package errors

import (
	"encoding/json"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

// TestErrorCodesAreUnique parses the package sources, collects every var
// initialized with an Error{...} composite literal and fails on duplicate
// Code fields. Reflection can't list package-level vars, so the AST is the
// only way.
func TestErrorCodesAreUnique(t *testing.T) {
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, ".", func(info fs.FileInfo) bool {
		return strings.HasSuffix(info.Name(), ".go") && !strings.HasSuffix(info.Name(), "_test.go")
	}, 0)
	if err != nil {
		t.Fatalf("parse dir: %v", err)
	}
	pkg, ok := pkgs["errors"]
	if !ok {
		t.Fatal("package 'errors' not found")
	}

	seen := map[int]string{}
	for _, f := range pkg.Files {
		ast.Inspect(f, func(n ast.Node) bool {
			gd, ok := n.(*ast.GenDecl)
			if !ok || gd.Tok != token.VAR {
				return true
			}
			for _, spec := range gd.Specs {
				vs, ok := spec.(*ast.ValueSpec)
				if !ok {
					continue
				}
				for i, name := range vs.Names {
					if i >= len(vs.Values) {
						continue
					}
					cl, ok := vs.Values[i].(*ast.CompositeLit)
					if !ok {
						continue
					}
					for _, elt := range cl.Elts {
						kv, ok := elt.(*ast.KeyValueExpr)
						if !ok {
							continue
						}
						key, ok := kv.Key.(*ast.Ident)
						if !ok || key.Name != "Code" {
							continue
						}
						lit, ok := kv.Value.(*ast.BasicLit)
						if !ok || lit.Kind != token.INT {
							continue
						}
						code, err := strconv.Atoi(lit.Value)
						if err != nil {
							continue
						}
						if prev, dup := seen[code]; dup {
							t.Errorf("error code %d used by both %s and %s", code, prev, name.Name)
						}
						seen[code] = name.Name
					}
				}
			}
			return true
		})
	}
	if len(seen) == 0 {
		t.Fatal("no error codes found")
	}
}

func TestErrorWrite(t *testing.T) {
	c := qt.New(t)

	w := httptest.NewRecorder()
	ErrMalformedBody.Withf("order number is %s", "empty").Write(w)

	c.Assert(w.Code, qt.Equals, ErrMalformedBody.HTTPstatus)
	c.Assert(w.Header().Get("Content-Type"), qt.Equals, "application/json")

	var body struct {
		Error string `json:"error"`
		Code  int    `json:"code"`
	}
	c.Assert(json.Unmarshal(w.Body.Bytes(), &body), qt.IsNil)
	c.Assert(body.Code, qt.Equals, ErrMalformedBody.Code)
	c.Assert(body.Error, qt.Contains, "invalid JSON request body")
	c.Assert(body.Error, qt.Contains, "empty")
}
