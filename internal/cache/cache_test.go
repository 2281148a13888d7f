package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/rgehrsitz/taxsavvy/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.TaxReport {
	return &domain.TaxReport{
		CalculationID: "calc-1",
		GeneratedAt:   time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
		Profile:       domain.TaxpayerProfile{Income: decimal.NewFromInt(1000000), Age: 30},
		Comparison: domain.RegimeComparison{
			OptimalRegime: domain.NewRegime,
			Advantage:     decimal.RequireFromString("54600"),
		},
		Recommendations: []string{"choose the new regime"},
	}
}

func TestFingerprint_StableAndNormalized(t *testing.T) {
	a := domain.TaxpayerProfile{Income: decimal.RequireFromString("1000000"), Age: 30}
	b := domain.TaxpayerProfile{Income: decimal.RequireFromString("1000000.001"), Age: 30}

	ka, err := Fingerprint(a, 1)
	require.NoError(t, err)
	kb, err := Fingerprint(b, 1)
	require.NoError(t, err)

	assert.Equal(t, ka, kb, "amounts are rounded before hashing")
	assert.Contains(t, ka, keyPrefix)

	again, _ := Fingerprint(a, 1)
	assert.Equal(t, ka, again)
}

func TestFingerprint_Differs(t *testing.T) {
	base := domain.TaxpayerProfile{Income: decimal.NewFromInt(1000000), Age: 30}
	k1, _ := Fingerprint(base, 1)

	k2, _ := Fingerprint(base, 2)
	assert.NotEqual(t, k1, k2, "a slab reload changes the key")

	older := base
	older.Age = 61
	k3, _ := Fingerprint(older, 1)
	assert.NotEqual(t, k1, k3)
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0, 0)

	got, ok, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)

	report := sampleReport()
	require.NoError(t, c.Set(ctx, "k", report))
	assert.Equal(t, 1, c.Len())

	got, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "calc-1", got.CalculationID)
	assert.True(t, got.Comparison.Advantage.Equal(report.Comparison.Advantage))

	// callers get their own copy
	got.Recommendations[0] = "changed"
	again, _, _ := c.Get(ctx, "k")
	assert.Equal(t, "choose the new regime", again.Recommendations[0])

	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour, 10)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", sampleReport()))
	now = now.Add(59 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestMemoryCache_BoundedSize(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Hour, 3)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, c.Set(ctx, key, sampleReport()))
		now = now.Add(time.Second)
	}

	// overwriting an existing key never evicts
	require.NoError(t, c.Set(ctx, "b", sampleReport()))
	assert.Equal(t, 3, c.Len())

	require.NoError(t, c.Set(ctx, "d", sampleReport()))
	assert.Equal(t, 3, c.Len())
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok, "oldest entry is evicted")
	for _, key := range []string{"b", "c", "d"} {
		_, ok, _ := c.Get(ctx, key)
		assert.True(t, ok, key)
	}

	for i := 0; i < 100; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), sampleReport()))
	}
	assert.Equal(t, 3, c.Len())

	// once everything has expired a single insert clears the lot
	now = now.Add(2 * time.Hour)
	require.NoError(t, c.Set(ctx, "fresh", sampleReport()))
	assert.Equal(t, 1, c.Len())
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("TAXSAVVY_TEST_REDIS")
	if addr == "" {
		t.Skip("TAXSAVVY_TEST_REDIS not set")
	}
	ctx := context.Background()
	c := NewRedisCache(addr, time.Minute)
	defer c.Close()
	require.NoError(t, c.Ping(ctx))

	key, err := Fingerprint(sampleReport().Profile, uint64(time.Now().UnixNano()))
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, sampleReport()))
	got, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.NewRegime, got.Comparison.OptimalRegime)
}
