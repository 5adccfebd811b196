package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTarget(t *testing.T) {
	target, ok := ParseTarget("marketplace")
	assert.True(t, ok)
	assert.Equal(t, TargetMarketplace, target)

	target, ok = ParseTarget("community")
	assert.True(t, ok)
	assert.Equal(t, TargetCommunity, target)

	_, ok = ParseTarget("billboard")
	assert.False(t, ok)

	_, ok = ParseTarget("")
	assert.False(t, ok)
}

func TestPublicationState(t *testing.T) {
	g := &Game{IsPrivate: true}
	assert.Equal(t, StatePrivate, g.PublicationState())

	g.SetPublished(TargetMarketplace, true)
	assert.Equal(t, StateMarketplace, g.PublicationState())
	assert.False(t, g.IsPrivate)

	g.SetPublished(TargetCommunity, true)
	assert.Equal(t, StateBoth, g.PublicationState())

	g.SetPublished(TargetMarketplace, false)
	assert.Equal(t, StateCommunity, g.PublicationState())

	g.SetPublished(TargetCommunity, false)
	assert.Equal(t, StatePrivate, g.PublicationState())
	assert.True(t, g.IsPrivate, "unpublishing both targets returns the game to private")
}

func TestIsPublishedTo(t *testing.T) {
	g := &Game{PublishedCommunity: true}
	assert.True(t, g.IsPublishedTo(TargetCommunity))
	assert.False(t, g.IsPublishedTo(TargetMarketplace))
	assert.False(t, g.IsPublishedTo(Target("billboard")))
}
