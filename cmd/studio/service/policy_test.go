package service

import (
	"testing"

	"github.com/playforge/studio/cmd/studio/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPolicy_EmptyExpressionAllowsAll(t *testing.T) {
	policy, err := NewPublishPolicy("")
	require.NoError(t, err)
	require.Nil(t, policy)

	allowed, err := policy.Allows(&models.Game{Name: "anything"}, models.TargetCommunity)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestPublishPolicy_Evaluation(t *testing.T) {
	policy, err := NewPublishPolicy(`name.size() > 2 && target != "marketplace"`)
	require.NoError(t, err)

	allowed, err := policy.Allows(&models.Game{Name: "Pong"}, models.TargetCommunity)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = policy.Allows(&models.Game{Name: "Pong"}, models.TargetMarketplace)
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = policy.Allows(&models.Game{Name: "ab"}, models.TargetCommunity)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestPublishPolicy_DescriptionVariable(t *testing.T) {
	policy, err := NewPublishPolicy(`!description.contains("spam")`)
	require.NoError(t, err)

	desc := "pure spam"
	allowed, err := policy.Allows(&models.Game{Name: "Pong", Description: &desc}, models.TargetCommunity)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Nil description evaluates as the empty string
	allowed, err = policy.Allows(&models.Game{Name: "Pong"}, models.TargetCommunity)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestPublishPolicy_CompileErrors(t *testing.T) {
	_, err := NewPublishPolicy(`name +`)
	assert.Error(t, err)

	_, err = NewPublishPolicy(`name`)
	assert.Error(t, err, "non-bool expressions are rejected at startup")
}
