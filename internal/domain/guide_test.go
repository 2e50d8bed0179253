package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGuideLifecycle_StartsIdle(t *testing.T) {
	l := NewGuideLifecycle()
	assert.Equal(t, GuideIdle{}, l.State())
	_, ok := l.Topic()
	assert.False(t, ok)
}

func TestGuideLifecycle_LoadAndResolve(t *testing.T) {
	l := NewGuideLifecycle()
	ticket := l.Begin("Urinalysis")
	assert.Equal(t, GuideLoading{Topic: "Urinalysis"}, l.State())

	assert.True(t, l.Resolve(ticket, "# Urinalysis", nil))
	assert.Equal(t, GuideLoaded{Topic: "Urinalysis", Content: "# Urinalysis"}, l.State())
}

func TestGuideLifecycle_FailureUsesFixedMessage(t *testing.T) {
	l := NewGuideLifecycle()
	ticket := l.Begin("ECG")

	assert.True(t, l.Resolve(ticket, "", errors.New("HTTP 503: overloaded")))
	assert.Equal(t, GuideFailed{Topic: "ECG", Message: GuideFailureMessage}, l.State())
}

func TestGuideLifecycle_StaleResultDiscarded(t *testing.T) {
	l := NewGuideLifecycle()
	a := l.Begin("A")
	b := l.Begin("B")

	// B resolves first, A arrives late.
	assert.True(t, l.Resolve(b, "guide B", nil))
	assert.False(t, l.Resolve(a, "guide A", nil))
	assert.Equal(t, GuideLoaded{Topic: "B", Content: "guide B"}, l.State())
}

func TestGuideLifecycle_StaleResultWhileNewerInFlight(t *testing.T) {
	l := NewGuideLifecycle()
	a := l.Begin("A")
	l.Begin("B")

	assert.False(t, l.Resolve(a, "guide A", nil))
	assert.False(t, l.Resolve(a, "", errors.New("boom")))
	assert.Equal(t, GuideLoading{Topic: "B"}, l.State())
}

func TestGuideLifecycle_ReselectSameTopicRefetches(t *testing.T) {
	l := NewGuideLifecycle()
	first := l.Begin("A")
	assert.True(t, l.Resolve(first, "v1", nil))

	second := l.Begin("A")
	assert.NotEqual(t, first, second)
	assert.Equal(t, GuideLoading{Topic: "A"}, l.State())

	// The earlier request for the same topic cannot clobber the new one.
	assert.False(t, l.Resolve(first, "v1 again", nil))
	assert.True(t, l.Resolve(second, "v2", nil))
	assert.Equal(t, GuideLoaded{Topic: "A", Content: "v2"}, l.State())
}

func TestGuideLifecycle_ReselectDuringFlightSupersedes(t *testing.T) {
	l := NewGuideLifecycle()
	a1 := l.Begin("A")
	l.Begin("B")
	a2 := l.Begin("A")

	assert.False(t, l.Resolve(a1, "old", nil))
	assert.True(t, l.Resolve(a2, "new", nil))
	assert.Equal(t, GuideLoaded{Topic: "A", Content: "new"}, l.State())
}

func TestGuideLifecycle_ResolveTwiceIgnored(t *testing.T) {
	l := NewGuideLifecycle()
	ticket := l.Begin("A")
	assert.True(t, l.Resolve(ticket, "first", nil))
	assert.False(t, l.Resolve(ticket, "second", nil))

	topic, ok := l.Topic()
	assert.True(t, ok)
	assert.Equal(t, "A", topic)
}
