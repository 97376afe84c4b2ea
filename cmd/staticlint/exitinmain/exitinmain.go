// Package exitinmain reports process exits issued directly from main.main.
//
// main in this repository returns after deferred cleanup (logger sync, signal
// stop), so exiting from its body skips them.
package exitinmain

import (
	"fmt"
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

var Analyzer = &analysis.Analyzer{
	Name:     "exitinmain",
	Doc:      "reports os.Exit and syscall.Exit calls in the body of main.main",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// exits lists the functions that terminate the process without running defers.
var exits = map[string]map[string]bool{
	"os":      {"Exit": true},
	"syscall": {"Exit": true},
}

func run(pass *analysis.Pass) (any, error) {
	if pass.Pkg.Name() != "main" {
		return nil, nil
	}

	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("inspect result has type %T", pass.ResultOf[inspect.Analyzer])
	}
	insp.Preorder([]ast.Node{(*ast.FuncDecl)(nil)}, func(n ast.Node) {
		fd, ok := n.(*ast.FuncDecl)
		if !ok || fd.Recv != nil || fd.Name.Name != "main" || fd.Body == nil {
			return
		}
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			switch x := n.(type) {
			case *ast.FuncLit:
				return false
			case *ast.CallExpr:
				if fn := exitFunc(pass.TypesInfo, x); fn != nil {
					pass.Reportf(x.Pos(), "%s.%s called in main skips deferred calls; return from main instead",
						fn.Pkg().Name(), fn.Name())
				}
			}
			return true
		})
	})
	return nil, nil
}

func exitFunc(info *types.Info, call *ast.CallExpr) *types.Func {
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	if !ok || fn.Pkg() == nil {
		return nil
	}
	if !exits[fn.Pkg().Path()][fn.Name()] {
		return nil
	}
	return fn
}
