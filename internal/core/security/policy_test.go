package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salesreports/internal/core/apperror"
	appctx "salesreports/internal/core/context"
)

func TestNewCELPolicy_CompileErrors(t *testing.T) {
	_, err := NewCELPolicy("this is not cel ((")
	assert.Error(t, err)

	// Well-formed but non-boolean result.
	_, err = NewCELPolicy(`filter.range_days`)
	assert.Error(t, err)
}

func TestCELPolicy_ChannelRestriction(t *testing.T) {
	policy, err := NewCELPolicy(
		`"manager" in user.roles || filter.channel_id == "" || filter.channel_id == user.current_channel_id`,
	)
	require.NoError(t, err)

	ctx := context.Background()
	clerk := &appctx.UserContext{
		UserID:           "u1",
		CurrentChannelID: "chan-1",
		Roles:            []string{"clerk"},
	}
	manager := &appctx.UserContext{
		UserID: "u2",
		Roles:  []string{"manager"},
	}

	// Clerk on own channel: allowed.
	assert.NoError(t, policy.CanRunReport(ctx, clerk, PolicyInput{ChannelID: "chan-1"}))

	// Clerk without a channel filter: allowed.
	assert.NoError(t, policy.CanRunReport(ctx, clerk, PolicyInput{}))

	// Clerk on a foreign channel: denied.
	err = policy.CanRunReport(ctx, clerk, PolicyInput{ChannelID: "chan-2"})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)

	// Manager anywhere: allowed.
	assert.NoError(t, policy.CanRunReport(ctx, manager, PolicyInput{ChannelID: "chan-2"}))
}

func TestCELPolicy_RangeLimit(t *testing.T) {
	policy, err := NewCELPolicy(`filter.range_days <= 92`)
	require.NoError(t, err)

	ctx := context.Background()
	user := &appctx.UserContext{UserID: "u1"}

	assert.NoError(t, policy.CanRunReport(ctx, user, PolicyInput{RangeDays: 31}))
	assert.Error(t, policy.CanRunReport(ctx, user, PolicyInput{RangeDays: 365}))
}

func TestCELPolicy_MissingUser(t *testing.T) {
	policy, err := NewCELPolicy(`true`)
	require.NoError(t, err)

	err = policy.CanRunReport(context.Background(), nil, PolicyInput{})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestAllowAllPolicy(t *testing.T) {
	policy := AllowAllPolicy{}
	assert.NoError(t, policy.CanRunReport(context.Background(), nil, PolicyInput{ChannelID: "any"}))
}
