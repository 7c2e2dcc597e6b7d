// Package dsl 提供基于 CEL (Common Expression Language) 的属性谓词求值器，
// 用于以表达式描述候选剧集的过滤规则。
//
// 表达式语法（CEL 标准语法）：
//   - 属性比较：series.status == "Ended" / series.origin_country == "US"
//   - 数值：series.popularity > 10.0 / series.number_of_seasons <= 3
//   - 逻辑：series.status == "Running" && !series.adult
//   - 标签：label.recall_source.contains("popular")
//   - 分数：item.score > 0.7
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvOnce sync.Once
	celEnvErr  error
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("series", cel.DynType),
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的布尔谓词，可并发复用；编译一次，逐条求值。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译 CEL 表达式。表达式必须求值为 bool。
// 编译失败属于配置错误，应在装配阶段暴露，而不是在打分过程中。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("init cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expr, iss.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build program %q: %w", expr, err)
	}

	return &Program{expr: expr, prg: prg}, nil
}

// Eval 在给定变量上求值，vars 的 key 对应环境中声明的变量名
// （series / item / label）。
func (p *Program) Eval(vars map[string]any) (bool, error) {
	out, _, err := p.prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("eval %q: %w", p.expr, err)
	}

	b, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression %q did not evaluate to bool", p.expr)
	}
	return b, nil
}

// Expr 返回原始表达式文本（用于日志/标签）。
func (p *Program) Expr() string {
	return p.expr
}
