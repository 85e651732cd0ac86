package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildPropertyConverts(t *testing.T) {
	props := Properties{
		"X":       "12",
		"Scale":   "1.5",
		"Visible": "true",
		"Glyph":   "@",
	}

	var (
		x       int
		scale   float64
		visible bool
		glyph   string
	)
	assert.True(t, BuildProperty(nil, props, "X", func(v int) { x = v }))
	assert.True(t, BuildProperty(nil, props, "Scale", func(v float64) { scale = v }))
	assert.True(t, BuildProperty(nil, props, "Visible", func(v bool) { visible = v }))
	assert.True(t, BuildProperty(nil, props, "Glyph", func(v string) { glyph = v }))

	assert.Equal(t, 12, x)
	assert.InDelta(t, 1.5, scale, 1e-9)
	assert.True(t, visible)
	assert.Equal(t, "@", glyph)
}

func TestBuildPropertyMissingKeyIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	called := false
	ok := BuildProperty(zap.New(core), Properties{}, "X", func(int) { called = true })
	assert.False(t, ok)
	assert.False(t, called)
	assert.Zero(t, logs.Len())
}

func TestBuildPropertyBadValueLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	called := false
	ok := BuildProperty(zap.New(core), Properties{"X": "twelve"}, "X", func(int) { called = true })
	assert.False(t, ok)
	assert.False(t, called)

	entries := logs.FilterMessage("unable to build property").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "X", fields["key"])
		assert.Equal(t, "twelve", fields["value"])
	}
}

func TestPropertiesMergeAndArg(t *testing.T) {
	base := Properties{"a": "1", "b": "2"}
	merged := base.Merge(Properties{"b": "3", "c": "4"})
	assert.Equal(t, Properties{"a": "1", "b": "3", "c": "4"}, merged)
	assert.Equal(t, "2", base["b"])

	assert.Nil(t, PropertiesArg(nil))
	assert.Nil(t, PropertiesArg([]any{1, "x"}))
	assert.Equal(t, Properties{"k": "v"}, PropertiesArg([]any{1, map[string]string{"k": "v"}}))
}
