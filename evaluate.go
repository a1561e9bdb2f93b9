package variation

import (
	"fmt"
	"time"
)

// EvaluatorKind names a built-in expression engine.
type EvaluatorKind string

const (
	EvaluatorExpr EvaluatorKind = "expr"
	EvaluatorCEL  EvaluatorKind = "cel"
	EvaluatorJS   EvaluatorKind = "js"
)

// NewEvaluator builds one of the built-in evaluators sharing cache and
// registry. The JS engine is only available with the js_eval build tag.
func NewEvaluator(kind EvaluatorKind, cache ProgramCache, registry *FunctionRegistry) (Evaluator, error) {
	switch kind {
	case "", EvaluatorExpr:
		return NewExprEvaluator(ExprWithProgramCache(cache), ExprWithFunctionRegistry(registry)), nil
	case EvaluatorCEL:
		return NewCELEvaluator(CELWithProgramCache(cache), CELWithFunctionRegistry(registry)), nil
	case EvaluatorJS:
		evaluator := NewJSEvaluator(JSWithProgramCache(cache), JSWithFunctionRegistry(registry))
		if evaluator == nil {
			return nil, fmt.Errorf("variation: js evaluator requires the js_eval build tag")
		}
		return evaluator, nil
	default:
		return nil, fmt.Errorf("variation: unknown evaluator %q", kind)
	}
}

func evaluatorEngineName(e Evaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEvaluator:
		return "expr"
	case *celEvaluator:
		return "cel"
	default:
		if fmt.Sprintf("%T", e) == "*variation.jsEvaluator" {
			return "js"
		}
		return "custom"
	}
}

// predicate is a compiled boolean rule with timing and error logging.
type predicate struct {
	engine     string
	expression string
	rule       CompiledRule
	logger     Logger
}

func compilePredicate(evaluator Evaluator, expression string, logger Logger) (*predicate, error) {
	engine := evaluatorEngineName(evaluator)
	rule, err := evaluator.Compile(expression)
	if err != nil {
		return nil, wrapEvaluationError(engine, expression, 0, err)
	}
	return &predicate{
		engine:     engine,
		expression: expression,
		rule:       rule,
		logger:     loggerOrNop(logger),
	}, nil
}

// match evaluates the predicate. Errors and non-boolean results are logged
// and treated as "no match".
func (p *predicate) match(ctx RuleContext) bool {
	start := time.Now()
	value, err := p.rule.Evaluate(ctx)
	duration := time.Since(start)
	if err == nil {
		if _, ok := value.(bool); !ok {
			err = fmt.Errorf("expected bool result, got %T", value)
		}
	}
	if err != nil {
		err = wrapEvaluationError(p.engine, p.expression, ctx.Seed, err)
		p.logger.Log(LogEvent{
			Level:     LogLevelWarn,
			Component: "evaluator",
			Message:   "layout rule evaluation failed",
			Seed:      ctx.Seed,
			Duration:  duration,
			Err:       err,
			Fields:    map[string]any{"engine": p.engine, "expr": p.expression},
		})
		return false
	}
	p.logger.Log(LogEvent{
		Level:     LogLevelDebug,
		Component: "evaluator",
		Message:   "layout rule evaluated",
		Seed:      ctx.Seed,
		Duration:  duration,
		Fields:    map[string]any{"engine": p.engine, "expr": p.expression, "result": value},
	})
	return value.(bool)
}
