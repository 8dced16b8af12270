package salesreport

import (
	"context"
	"time"

	"salesreports/internal/core/apperror"
	appctx "salesreports/internal/core/context"
	"salesreports/internal/core/id"
	"salesreports/internal/core/security"
	"salesreports/internal/core/tx"
)

// WizardStart holds the parameters collected before a report run.
// Mirrors the two-state flow of the host suite: a start form with defaults,
// then generation.
type WizardStart struct {
	CustomerID *id.ID
	ProductID  *id.ID
	ChannelID  *id.ID

	StartDate time.Time
	EndDate   time.Time

	DetailedPayments bool
}

// Filter converts the collected parameters into the aggregation filter.
func (w WizardStart) Filter() Filter {
	return Filter{
		StartDate:        w.StartDate,
		EndDate:          w.EndDate,
		CustomerID:       w.CustomerID,
		ProductID:        w.ProductID,
		ChannelID:        w.ChannelID,
		DetailedPayments: w.DetailedPayments,
	}
}

// DocumentRenderer turns an aggregation result into a document.
// Layout is derived from the scope (footer carries the company name).
type DocumentRenderer interface {
	Render(ctx context.Context, scope Scope, result *AggregationResult) ([]byte, error)
	ContentType() string
}

// DocumentArchive retains rendered report documents.
type DocumentArchive interface {
	Store(ctx context.Context, scope Scope, f Filter, contentType string, body []byte) error
}

// GeneratedReport is the outcome of a wizard run.
type GeneratedReport struct {
	Result      *AggregationResult
	Document    []byte
	ContentType string
}

// Wizard drives the two-state report flow: Start produces the prefilled
// form, Generate validates, checks policy, aggregates and renders.
type Wizard struct {
	service  *Service
	renderer DocumentRenderer
	archive  DocumentArchive
	policy   security.ReportPolicy
	txm      tx.ReadOnlyManager
}

// NewWizard creates the report wizard. archive may be nil when document
// retention is disabled; txm may be nil when the repository needs no
// transaction scope (in-memory fakes).
func NewWizard(service *Service, renderer DocumentRenderer, archive DocumentArchive, policy security.ReportPolicy, txm tx.ReadOnlyManager) *Wizard {
	if policy == nil {
		policy = security.AllowAllPolicy{}
	}
	return &Wizard{service: service, renderer: renderer, archive: archive, policy: policy, txm: txm}
}

// Start returns the prefilled wizard form: both dates default to today,
// the channel defaults to the user's current channel.
func (w *Wizard) Start(scope Scope, user *appctx.UserContext) WizardStart {
	start := WizardStart{
		StartDate: scope.Today,
		EndDate:   scope.Today,
	}
	if user != nil && user.CurrentChannelID != "" {
		if channelID, err := id.Parse(user.CurrentChannelID); err == nil {
			start.ChannelID = &channelID
		}
	}
	return start
}

// Aggregate runs policy checks and the aggregation without rendering.
// The aggregation runs inside one read-only transaction so the order query
// and the top-products query see the same snapshot.
func (w *Wizard) Aggregate(ctx context.Context, scope Scope, start WizardStart) (*AggregationResult, error) {
	f := start.Filter()
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if err := w.policy.CanRunReport(ctx, appctx.GetUser(ctx), policyInput(f)); err != nil {
		return nil, err
	}

	if w.txm == nil {
		return w.service.Aggregate(ctx, scope, f)
	}

	var result *AggregationResult
	err := w.txm.ReadOnly(ctx, func(ctx context.Context) error {
		var aggErr error
		result, aggErr = w.service.Aggregate(ctx, scope, f)
		return aggErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Generate runs the full flow: aggregate, render, archive.
// Rendering and archive failures surface to the caller; there is no
// partial-success mode.
func (w *Wizard) Generate(ctx context.Context, scope Scope, start WizardStart) (*GeneratedReport, error) {
	result, err := w.Aggregate(ctx, scope, start)
	if err != nil {
		return nil, err
	}

	document, err := w.renderer.Render(ctx, scope, result)
	if err != nil {
		return nil, apperror.NewRenderFailed(err)
	}

	if w.archive != nil {
		if err := w.archive.Store(ctx, scope, start.Filter(), w.renderer.ContentType(), document); err != nil {
			return nil, err
		}
	}

	return &GeneratedReport{
		Result:      result,
		Document:    document,
		ContentType: w.renderer.ContentType(),
	}, nil
}

func policyInput(f Filter) security.PolicyInput {
	input := security.PolicyInput{RangeDays: f.RangeDays()}
	if f.ChannelID != nil {
		input.ChannelID = f.ChannelID.String()
	}
	if f.CustomerID != nil {
		input.CustomerID = f.CustomerID.String()
	}
	if f.ProductID != nil {
		input.ProductID = f.ProductID.String()
	}
	return input
}
