// Package security provides report access policies.
// Companies configure who may run sales reports for which channels and
// customers; the rule is a CEL expression evaluated per request.
package security

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"salesreports/internal/core/apperror"
	appctx "salesreports/internal/core/context"
)

// PolicyInput is the filter slice a policy decides on.
// Empty strings mean the corresponding filter was not supplied.
type PolicyInput struct {
	ChannelID  string
	CustomerID string
	ProductID  string
	RangeDays  int
}

// ReportPolicy decides whether a user may run a report with the given filters.
type ReportPolicy interface {
	CanRunReport(ctx context.Context, user *appctx.UserContext, input PolicyInput) error
}

// AllowAllPolicy permits every report run. Used when no expression is configured.
type AllowAllPolicy struct{}

func (AllowAllPolicy) CanRunReport(ctx context.Context, user *appctx.UserContext, input PolicyInput) error {
	return nil
}

// CELPolicy evaluates a configured CEL expression against the requesting
// user and the report filters. The expression must evaluate to bool; true
// allows the run.
//
// Available variables:
//
//	user   map: id, company_id, current_channel_id, roles (list)
//	filter map: channel_id, customer_id, product_id, range_days
//
// Example: restrict non-managers to their own channel:
//
//	"manager" in user.roles || filter.channel_id == "" || filter.channel_id == user.current_channel_id
type CELPolicy struct {
	expr    string
	program cel.Program
}

// NewCELPolicy compiles the expression once; evaluation is per request.
func NewCELPolicy(expr string) (*CELPolicy, error) {
	env, err := cel.NewEnv(
		cel.Variable("user", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("filter", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, fmt.Errorf("compile policy expression: %w", iss.Err())
	}
	if ast.OutputType() != cel.BoolType {
		return nil, fmt.Errorf("policy expression must return bool, got %s", ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("build policy program: %w", err)
	}

	return &CELPolicy{expr: expr, program: program}, nil
}

func (p *CELPolicy) CanRunReport(ctx context.Context, user *appctx.UserContext, input PolicyInput) error {
	if user == nil {
		return apperror.NewUnauthorized("missing user context")
	}

	roles := make([]string, len(user.Roles))
	copy(roles, user.Roles)

	out, _, err := p.program.ContextEval(ctx, map[string]any{
		"user": map[string]any{
			"id":                 user.UserID,
			"company_id":         user.CompanyID,
			"current_channel_id": user.CurrentChannelID,
			"roles":              roles,
		},
		"filter": map[string]any{
			"channel_id":  input.ChannelID,
			"customer_id": input.CustomerID,
			"product_id":  input.ProductID,
			"range_days":  input.RangeDays,
		},
	})
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("evaluate report policy: %w", err))
	}

	allowed, ok := out.Value().(bool)
	if !ok {
		return apperror.NewInternal(fmt.Errorf("report policy returned %T, want bool", out.Value()))
	}
	if !allowed {
		return apperror.NewForbidden("report filters not permitted for this user").
			WithDetail("channel_id", input.ChannelID)
	}
	return nil
}
