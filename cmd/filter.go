package cmd

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

type filterProgram struct {
	program *vm.Program
}

// compileHostFilter compiles a --filter expression against the hostRow
// environment. The expression must yield a boolean.
func compileHostFilter(filter string) (*filterProgram, error) {
	program, err := expr.Compile(filter, expr.Env(hostRow{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
	}
	return &filterProgram{program: program}, nil
}

func (p *filterProgram) match(row hostRow) (bool, error) {
	out, err := expr.Run(p.program, row)
	if err != nil {
		return false, fmt.Errorf("filter evaluation failed: %w", err)
	}
	result, ok := out.(bool)
	if !ok {
		return false, fmt.Errorf("filter must return a boolean, got %T", out)
	}
	return result, nil
}
