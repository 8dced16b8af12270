package salesreport

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreports/internal/core/apperror"
	appctx "salesreports/internal/core/context"
	"salesreports/internal/core/id"
	"salesreports/internal/core/security"
	"salesreports/internal/domain/orders"
)

type fakeRenderer struct {
	document  []byte
	err       error
	lastScope Scope
}

func (r *fakeRenderer) Render(_ context.Context, scope Scope, _ *AggregationResult) ([]byte, error) {
	r.lastScope = scope
	if r.err != nil {
		return nil, r.err
	}
	return r.document, nil
}

func (r *fakeRenderer) ContentType() string { return "text/html; charset=utf-8" }

type fakeArchive struct {
	err error

	stored          bool
	lastContentType string
	lastBody        []byte
	lastFilter      Filter
}

func (a *fakeArchive) Store(_ context.Context, _ Scope, f Filter, contentType string, body []byte) error {
	if a.err != nil {
		return a.err
	}
	a.stored = true
	a.lastContentType = contentType
	a.lastBody = body
	a.lastFilter = f
	return nil
}

type denyPolicy struct {
	lastInput security.PolicyInput
}

func (p *denyPolicy) CanRunReport(_ context.Context, _ *appctx.UserContext, input security.PolicyInput) error {
	p.lastInput = input
	return apperror.NewForbidden("report access denied")
}

type fakeTxManager struct {
	calls int
}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (m *fakeTxManager) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestWizard(repo *fakeRepo, renderer *fakeRenderer, archive DocumentArchive, policy security.ReportPolicy) *Wizard {
	svc := NewService(repo, &fakeResolver{})
	return NewWizard(svc, renderer, archive, policy, nil)
}

func TestWizardStart_Defaults(t *testing.T) {
	scope := testScope()
	channelID := id.New()
	user := &appctx.UserContext{
		UserID:           scope.UserID,
		CompanyID:        scope.CompanyID,
		CurrentChannelID: channelID.String(),
	}

	w := newTestWizard(&fakeRepo{}, &fakeRenderer{}, nil, nil)
	start := w.Start(scope, user)

	assert.Equal(t, scope.Today, start.StartDate)
	assert.Equal(t, scope.Today, start.EndDate)
	require.NotNil(t, start.ChannelID)
	assert.Equal(t, channelID, *start.ChannelID)
	assert.Nil(t, start.CustomerID)
	assert.Nil(t, start.ProductID)
	assert.False(t, start.DetailedPayments)
}

func TestWizardStart_NoCurrentChannel(t *testing.T) {
	scope := testScope()

	w := newTestWizard(&fakeRepo{}, &fakeRenderer{}, nil, nil)

	start := w.Start(scope, &appctx.UserContext{UserID: scope.UserID})
	assert.Nil(t, start.ChannelID)

	start = w.Start(scope, nil)
	assert.Nil(t, start.ChannelID)
	assert.Equal(t, scope.Today, start.StartDate)
}

func TestWizardGenerate_FullFlow(t *testing.T) {
	order := testOrder("USD", "100.00", "10.00", "90.00", "0.00")
	repo := &fakeRepo{orders: []*orders.Order{order}}
	renderer := &fakeRenderer{document: []byte("<html>report</html>")}
	archive := &fakeArchive{}

	w := newTestWizard(repo, renderer, archive, nil)
	scope := testScope()

	report, err := w.Generate(context.Background(), scope, WizardStart{
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 31),
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("<html>report</html>"), report.Document)
	assert.Equal(t, "text/html; charset=utf-8", report.ContentType)
	require.NotNil(t, report.Result)
	assert.Len(t, report.Result.Orders, 1)

	assert.Equal(t, scope, renderer.lastScope)

	require.True(t, archive.stored)
	assert.Equal(t, "text/html; charset=utf-8", archive.lastContentType)
	assert.Equal(t, report.Document, archive.lastBody)
	assert.Equal(t, date(2026, 8, 1), archive.lastFilter.StartDate)
}

func TestWizardGenerate_NilArchive(t *testing.T) {
	repo := &fakeRepo{orders: []*orders.Order{testOrder("USD", "1", "0", "1", "0")}}
	renderer := &fakeRenderer{document: []byte("doc")}

	w := newTestWizard(repo, renderer, nil, nil)

	report, err := w.Generate(context.Background(), testScope(), WizardStart{
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 31),
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("doc"), report.Document)
}

func TestWizardGenerate_RenderFailure(t *testing.T) {
	repo := &fakeRepo{orders: []*orders.Order{testOrder("USD", "1", "0", "1", "0")}}
	renderErr := errors.New("template exploded")
	renderer := &fakeRenderer{err: renderErr}
	archive := &fakeArchive{}

	w := newTestWizard(repo, renderer, archive, nil)

	_, err := w.Generate(context.Background(), testScope(), WizardStart{
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 31),
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeRender, appErr.Code)
	assert.ErrorIs(t, err, renderErr)

	// Nothing archived on render failure.
	assert.False(t, archive.stored)
}

func TestWizardGenerate_ArchiveFailure(t *testing.T) {
	repo := &fakeRepo{orders: []*orders.Order{testOrder("USD", "1", "0", "1", "0")}}
	renderer := &fakeRenderer{document: []byte("doc")}
	archiveErr := errors.New("disk full")
	archive := &fakeArchive{err: archiveErr}

	w := newTestWizard(repo, renderer, archive, nil)

	_, err := w.Generate(context.Background(), testScope(), WizardStart{
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 31),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, archiveErr)
}

func TestWizardAggregate_PolicyDenied(t *testing.T) {
	repo := &fakeRepo{orders: []*orders.Order{testOrder("USD", "1", "0", "1", "0")}}
	policy := &denyPolicy{}

	w := newTestWizard(repo, &fakeRenderer{}, nil, policy)

	channelID := id.New()
	_, err := w.Aggregate(context.Background(), testScope(), WizardStart{
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 3),
		ChannelID: &channelID,
	})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)

	// Policy input carries the filter terms.
	assert.Equal(t, channelID.String(), policy.lastInput.ChannelID)
	assert.Equal(t, 3, policy.lastInput.RangeDays)

	// Denial happens before any data access.
	assert.Equal(t, OrderQuery{}, repo.lastQuery)
}

func TestWizardAggregate_RunsInReadOnlyTransaction(t *testing.T) {
	repo := &fakeRepo{orders: []*orders.Order{testOrder("USD", "1", "0", "1", "0")}}
	txm := &fakeTxManager{}
	svc := NewService(repo, &fakeResolver{})
	w := NewWizard(svc, &fakeRenderer{}, nil, nil, txm)

	result, err := w.Aggregate(context.Background(), testScope(), WizardStart{
		StartDate: date(2026, 8, 1),
		EndDate:   date(2026, 8, 31),
	})
	require.NoError(t, err)
	assert.Len(t, result.Orders, 1)
	assert.Equal(t, 1, txm.calls)
}

func TestWizardAggregate_InvalidDates(t *testing.T) {
	w := newTestWizard(&fakeRepo{}, &fakeRenderer{}, nil, nil)

	_, err := w.Aggregate(context.Background(), testScope(), WizardStart{})
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}
