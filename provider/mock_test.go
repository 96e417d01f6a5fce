package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/randalmurphal/tagkit/model"
	"github.com/randalmurphal/tagkit/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_ScriptedPerTier(t *testing.T) {
	mock := provider.NewMockGateway().
		On(model.TierFast, "first", "second").
		On(model.TierMax, "top")

	ctx := context.Background()
	texts := []string{}
	for _, tier := range []model.Tier{model.TierFast, model.TierFast, model.TierFast, model.TierMax} {
		c, err := mock.Complete(ctx, "p", provider.Options{}, tier)
		require.NoError(t, err)
		text, err := c.Text()
		require.NoError(t, err)
		texts = append(texts, text)
	}

	// The last scripted reply repeats once exhausted.
	assert.Equal(t, []string{"first", "second", "second", "top"}, texts)
	assert.Equal(t, []model.Tier{model.TierFast, model.TierFast, model.TierFast, model.TierMax}, mock.TiersCalled())
}

func TestMockGateway_UnscriptedTierReturnsEmpty(t *testing.T) {
	mock := provider.NewMockGateway()

	c, err := mock.Complete(context.Background(), "p", provider.Options{}, model.TierStrong)
	require.NoError(t, err)
	text, err := c.Text()
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestMockGateway_ErrorsAndEnvelopes(t *testing.T) {
	boom := errors.New("boom")
	mock := provider.NewMockGateway().
		OnError(model.TierFast, boom).
		OnCompletion(model.TierDefault, &provider.Completion{})

	_, err := mock.Complete(context.Background(), "p", provider.Options{}, model.TierFast)
	assert.Equal(t, boom, err)

	c, err := mock.Complete(context.Background(), "p", provider.Options{}, model.TierDefault)
	require.NoError(t, err)
	_, err = c.Text()
	assert.True(t, provider.IsMalformed(err))
}

func TestMockGateway_CanceledContext(t *testing.T) {
	mock := provider.NewMockGateway().On(model.TierFast, "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Complete(ctx, "p", provider.Options{}, model.TierFast)
	require.Error(t, err)
	assert.True(t, provider.IsCanceled(err))
	assert.Equal(t, 1, mock.CallCount())
}

func TestMockGateway_CallTrackingAndReset(t *testing.T) {
	mock := provider.NewMockGateway().On(model.TierFast, "a", "b")
	assert.Nil(t, mock.LastCall())

	opts := provider.Options{MaxTokens: 12}
	_, _ = mock.Complete(context.Background(), "first", opts, model.TierFast)
	_, _ = mock.Complete(context.Background(), "second", opts, model.TierFast)

	last := mock.LastCall()
	require.NotNil(t, last)
	assert.Equal(t, "second", last.Prompt)
	assert.Equal(t, 12, last.Options.MaxTokens)

	mock.Reset()
	assert.Equal(t, 0, mock.CallCount())

	c, err := mock.Complete(context.Background(), "again", opts, model.TierFast)
	require.NoError(t, err)
	text, _ := c.Text()
	assert.Equal(t, "a", text)
}

func TestMockGateway_CompleteFunc(t *testing.T) {
	mock := provider.NewMockGateway().On(model.TierFast, "scripted").
		WithCompleteFunc(func(ctx context.Context, prompt string, opts provider.Options, tier model.Tier) (*provider.Completion, error) {
			return &provider.Completion{Choices: []provider.Choice{{Text: "custom " + tier.String()}}}, nil
		})

	c, err := mock.Complete(context.Background(), "p", provider.Options{}, model.TierFast)
	require.NoError(t, err)
	text, _ := c.Text()
	assert.Equal(t, "custom fast", text)
}
