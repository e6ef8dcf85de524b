package navigation

import (
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"fithub/internal/domain/identity"
)

// Rule is a visibility predicate written as an expr-lang expression, e.g.
// `role in ["trainer", "admin"]` or `authenticated && firstName != ""`.
type Rule struct {
	script string

	compileOnce sync.Once
	program     *vm.Program
	compileErr  error
}

// NewRule returns a rule for script. Compilation is deferred to first use.
func NewRule(script string) *Rule {
	return &Rule{script: script}
}

// Compile checks the script, so configuration errors surface at load time.
func (r *Rule) Compile() error {
	_, err := r.getProgram()
	return err
}

// Eval evaluates the rule against id.
func (r *Rule) Eval(id identity.Identity) (bool, error) {
	program, err := r.getProgram()
	if err != nil {
		return false, errors.WithStack(err)
	}

	result, err := expr.Run(program, ruleEnv(id))
	if err != nil {
		return false, errors.WithStack(err)
	}

	visible, ok := result.(bool)
	if !ok {
		return false, errors.Errorf("unexpected rule '%s' result type '%T', expected boolean", r.script, result)
	}
	return visible, nil
}

// Predicate adapts the rule to a Predicate. Evaluation errors hide the entry.
func (r *Rule) Predicate() Predicate {
	return func(id identity.Identity) bool {
		visible, err := r.Eval(id)
		if err != nil {
			slog.Warn("nav_rule_failed", "rule", r.script, "error", err)
			return false
		}
		return visible
	}
}

func (r *Rule) String() string {
	return r.script
}

func (r *Rule) getProgram() (*vm.Program, error) {
	r.compileOnce.Do(func() {
		program, err := expr.Compile(r.script, expr.Env(ruleEnv(identity.Empty())), expr.AsBool())
		if err != nil {
			r.compileErr = errors.Wrapf(err, "could not compile rule '%s'", r.script)
			return
		}
		r.program = program
	})
	if r.compileErr != nil {
		return nil, r.compileErr
	}
	return r.program, nil
}

func ruleEnv(id identity.Identity) map[string]any {
	return map[string]any{
		"role":          string(id.Role),
		"firstName":     id.FirstName,
		"lastName":      id.LastName,
		"authenticated": id.IsAuthenticated(),
	}
}
