// Package singlewrap reports fmt.Errorf calls that wrap more than one error.
//
// Parse anomalies are collected with errors.Join and flattened again before
// logging. An error built with several %w verbs unwraps to a slice as well and
// would be split into unrelated pieces, so each anomaly wraps exactly one
// sentinel and formats its cause with %v.
package singlewrap

import (
	"fmt"
	"go/ast"
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
	"golang.org/x/tools/go/types/typeutil"
)

var Analyzer = &analysis.Analyzer{
	Name:     "singlewrap",
	Doc:      "reports fmt.Errorf format strings with more than one %w verb",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

func run(pass *analysis.Pass) (any, error) {
	insp, ok := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("inspect result has type %T", pass.ResultOf[inspect.Analyzer])
	}

	insp.Preorder([]ast.Node{(*ast.CallExpr)(nil)}, func(n ast.Node) {
		call, ok := n.(*ast.CallExpr)
		if !ok || len(call.Args) == 0 || !isErrorf(pass.TypesInfo, call) {
			return
		}
		tv, ok := pass.TypesInfo.Types[call.Args[0]]
		if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
			return
		}
		if n := CountWrapVerbs(constant.StringVal(tv.Value)); n > 1 {
			pass.Reportf(call.Pos(), "fmt.Errorf wraps %d errors; wrap one with %%w and format the rest with %%v", n)
		}
	})
	return nil, nil
}

func isErrorf(info *types.Info, call *ast.CallExpr) bool {
	fn, ok := typeutil.Callee(info, call).(*types.Func)
	return ok && fn.Pkg() != nil && fn.Pkg().Path() == "fmt" && fn.Name() == "Errorf"
}

// CountWrapVerbs counts %w verbs in a format string, flags and widths included.
func CountWrapVerbs(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		j := i + 1
		for j < len(format) && isVerbPrefix(format[j]) {
			j++
		}
		if j >= len(format) {
			break
		}
		if format[j] == 'w' {
			n++
		}
		i = j
	}
	return n
}

func isVerbPrefix(c byte) bool {
	switch {
	case c == '+', c == '-', c == '#', c == ' ', c == '0', c == '.', c == '*', c == '[', c == ']':
		return true
	case c >= '1' && c <= '9':
		return true
	}
	return false
}
