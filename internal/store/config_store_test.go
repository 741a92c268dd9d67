package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiwari-pos/pricebook/internal/pricing"
	"github.com/kiwari-pos/pricebook/internal/theme"
)

func TestConfigStoreLoadDefaultsWhenEmpty(t *testing.T) {
	s := NewConfigStore(NewMemoryKV())
	cfg := s.Load(context.Background())

	assert.Len(t, cfg.Buckets, len(pricing.DefaultBuckets()))
	assert.Empty(t, cfg.PerSheet)
	assert.Equal(t, theme.Default, s.Theme(context.Background()))
}

func TestConfigStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	s := NewConfigStore(NewMemoryKV())

	cfg := pricing.DefaultConfig().WithRule("Phones", "470+", pricing.Rule{
		Flat: decimal.NewNullDecimal(decimal.NewFromInt(25)),
	})
	require.NoError(t, s.Save(ctx, cfg))

	got := s.Load(ctx)
	rule := got.PerSheet["Phones"]["470+"]
	assert.False(t, rule.Pct.Valid)
	require.True(t, rule.Flat.Valid)
	assert.True(t, rule.Flat.Decimal.Equal(decimal.NewFromInt(25)))
}

func TestConfigStoreLoadCorruptFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	require.NoError(t, kv.Put(ctx, ConfigKey, []byte("{not json")))

	cfg := NewConfigStore(kv).Load(ctx)
	assert.Len(t, cfg.Buckets, len(pricing.DefaultBuckets()))
}

func TestConfigStoreReset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewConfigStore(kv)
	require.NoError(t, s.Save(ctx, pricing.Config{Buckets: []pricing.Bucket{pricing.NewBucket("X", 1, 2)}}))

	cfg, err := s.Reset(ctx)
	require.NoError(t, err)
	assert.Len(t, cfg.Buckets, len(pricing.DefaultBuckets()))

	_, err = kv.Get(ctx, ConfigKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfigStoreSaveThemeResolvesUnknown(t *testing.T) {
	ctx := context.Background()
	s := NewConfigStore(NewMemoryKV())

	name, err := s.SaveTheme(ctx, "aurora")
	require.NoError(t, err)
	assert.Equal(t, "aurora", name)
	assert.Equal(t, "aurora", s.Theme(ctx))

	name, err = s.SaveTheme(ctx, "bogus")
	require.NoError(t, err)
	assert.Equal(t, theme.Default, name)
}

func TestConfigStoreDocumentIncludesTheme(t *testing.T) {
	ctx := context.Background()
	s := NewConfigStore(NewMemoryKV())
	_, err := s.SaveTheme(ctx, "mocha")
	require.NoError(t, err)

	doc, err := s.Document(ctx)
	require.NoError(t, err)

	p, err := pricing.DecodePatch(doc)
	require.NoError(t, err)
	assert.Equal(t, "mocha", p.Theme)
}
