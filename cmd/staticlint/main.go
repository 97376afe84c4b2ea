// Command staticlint runs the analyzers this repository is checked with.
//
//	go run ./cmd/staticlint ./...
package main

import (
	"strings"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/multichecker"

	"golang.org/x/tools/go/analysis/passes/assign"
	"golang.org/x/tools/go/analysis/passes/atomic"
	"golang.org/x/tools/go/analysis/passes/bools"
	"golang.org/x/tools/go/analysis/passes/buildtag"
	"golang.org/x/tools/go/analysis/passes/cgocall"
	"golang.org/x/tools/go/analysis/passes/composite"
	"golang.org/x/tools/go/analysis/passes/copylock"
	"golang.org/x/tools/go/analysis/passes/errorsas"
	"golang.org/x/tools/go/analysis/passes/httpresponse"
	"golang.org/x/tools/go/analysis/passes/loopclosure"
	"golang.org/x/tools/go/analysis/passes/lostcancel"
	"golang.org/x/tools/go/analysis/passes/nilfunc"
	"golang.org/x/tools/go/analysis/passes/printf"
	"golang.org/x/tools/go/analysis/passes/shift"
	"golang.org/x/tools/go/analysis/passes/stdmethods"
	"golang.org/x/tools/go/analysis/passes/structtag"
	"golang.org/x/tools/go/analysis/passes/tests"
	"golang.org/x/tools/go/analysis/passes/unmarshal"
	"golang.org/x/tools/go/analysis/passes/unreachable"
	"golang.org/x/tools/go/analysis/passes/unsafeptr"
	"golang.org/x/tools/go/analysis/passes/unusedresult"

	"honnef.co/go/tools/analysis/lint"
	"honnef.co/go/tools/staticcheck"
	"honnef.co/go/tools/stylecheck"

	"github.com/gostaticanalysis/forcetypeassert"
	"github.com/gostaticanalysis/nilerr"

	"github.com/vshulcz/bees-exporter/cmd/staticlint/exitinmain"
	"github.com/vshulcz/bees-exporter/cmd/staticlint/singlewrap"
)

// Only package comments are enforced from stylecheck.
var stylecheckChecks = map[string]bool{"ST1000": true}

func main() {
	multichecker.Main(analyzers()...)
}

func analyzers() []*analysis.Analyzer {
	out := []*analysis.Analyzer{
		assign.Analyzer,
		atomic.Analyzer,
		bools.Analyzer,
		buildtag.Analyzer,
		cgocall.Analyzer,
		composite.Analyzer,
		copylock.Analyzer,
		errorsas.Analyzer,
		httpresponse.Analyzer,
		loopclosure.Analyzer,
		lostcancel.Analyzer,
		nilfunc.Analyzer,
		printf.Analyzer,
		shift.Analyzer,
		stdmethods.Analyzer,
		structtag.Analyzer,
		tests.Analyzer,
		unmarshal.Analyzer,
		unreachable.Analyzer,
		unsafeptr.Analyzer,
		unusedresult.Analyzer,
	}

	out = append(out, pick(staticcheck.Analyzers, func(name string) bool {
		return strings.HasPrefix(name, "SA")
	})...)
	out = append(out, pick(stylecheck.Analyzers, func(name string) bool {
		return stylecheckChecks[name]
	})...)

	return append(out,
		nilerr.Analyzer,
		forcetypeassert.Analyzer,
		exitinmain.Analyzer,
		singlewrap.Analyzer,
	)
}

func pick(all []*lint.Analyzer, keep func(name string) bool) []*analysis.Analyzer {
	var out []*analysis.Analyzer
	for _, a := range all {
		if a == nil || a.Analyzer == nil || !keep(a.Analyzer.Name) {
			continue
		}
		out = append(out, a.Analyzer)
	}
	return out
}
