package service

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/playforge/studio/cmd/studio/models"
)

// PublishPolicy gates publication with a CEL expression evaluated over the
// game's name, description and the requested target. The expression is
// compiled once at startup; a nil policy (empty expression) allows everything.
type PublishPolicy struct {
	program cel.Program
}

// NewPublishPolicy compiles a publish-policy expression. An empty expression
// returns a nil policy, which Allows every publish.
func NewPublishPolicy(expression string) (*PublishPolicy, error) {
	if expression == "" {
		return nil, nil
	}

	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("target", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create policy environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("invalid publish policy expression: %w", issues.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("publish policy expression must evaluate to bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to build policy program: %w", err)
	}

	return &PublishPolicy{program: program}, nil
}

// Allows evaluates the policy for one publish request. Evaluation errors are
// treated as denials; a policy that cannot be evaluated must not publish.
func (p *PublishPolicy) Allows(game *models.Game, target models.Target) (bool, error) {
	if p == nil {
		return true, nil
	}

	description := ""
	if game.Description != nil {
		description = *game.Description
	}

	out, _, err := p.program.Eval(map[string]any{
		"name":        game.Name,
		"description": description,
		"target":      string(target),
	})
	if err != nil {
		return false, fmt.Errorf("publish policy evaluation failed: %w", err)
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("publish policy returned non-bool value %v", out.Value())
	}

	return allowed, nil
}
