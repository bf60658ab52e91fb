package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

func TestParseDuplicateHandle(t *testing.T) {
	tests := []struct {
		handle    string
		canonical string
		suffix    int
		ok        bool
	}{
		{"mochi-1", "mochi", 1, true},
		{"mochi-12", "mochi", 12, true},
		{"yokan-gift-box-2", "yokan-gift-box", 2, true},
		{"mochi", "", 0, false},
		{"mochi-", "", 0, false},
		{"-1", "", 0, false},
		{"mochi-1a", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.handle, func(t *testing.T) {
			canonical, suffix, ok := ParseDuplicateHandle(tt.handle)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.canonical, canonical)
			assert.Equal(t, tt.suffix, suffix)
		})
	}
}

func TestFindDuplicates(t *testing.T) {
	products := []model.Product{
		{ID: 1, Handle: "mochi", Title: "麻糬禮盒"},
		{ID: 2, Handle: "mochi-1", Title: "麻糬禮盒 副本"},
		{ID: 3, Handle: "mochi-2", Title: "麻糬禮盒 副本2"},
		{ID: 4, Handle: "dango-1", Title: "糰子 一號"}, // dango 不存在，正常商品
	}

	got, err := FindDuplicates(products)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "mochi-1", got[0].Handle)
	assert.Equal(t, "mochi", got[0].CanonicalHandle)
	assert.Equal(t, 1, got[0].Suffix)
	assert.Equal(t, int64(1), got[0].CanonicalID)
	assert.Equal(t, "麻糬禮盒", got[0].CanonicalTitle)

	assert.Equal(t, "mochi-2", got[1].Handle)
	assert.Equal(t, 2, got[1].Suffix)

	for _, c := range got {
		assert.NotEqual(t, "dango-1", c.Handle)
	}
}

func TestFindDuplicatesEmptySnapshot(t *testing.T) {
	_, err := FindDuplicates(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)

	_, err = FindDuplicates([]model.Product{})
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestFindDuplicatesDeterministicOrder(t *testing.T) {
	products := []model.Product{
		{ID: 10, Handle: "yokan-3"},
		{ID: 11, Handle: "anko-1"},
		{ID: 12, Handle: "yokan-1"},
		{ID: 13, Handle: "yokan"},
		{ID: 14, Handle: "anko"},
	}

	got, err := FindDuplicates(products)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "anko-1", got[0].Handle)
	assert.Equal(t, "yokan-1", got[1].Handle)
	assert.Equal(t, "yokan-3", got[2].Handle)
}

func TestFindDuplicatesRoundTrip(t *testing.T) {
	// 检出的副本 handle 重新解析应还原相同的原始 handle 与序号
	products := []model.Product{
		{ID: 1, Handle: "gift-set"},
		{ID: 2, Handle: "gift-set-7"},
	}

	got, err := FindDuplicates(products)
	require.NoError(t, err)
	require.Len(t, got, 1)

	canonical, suffix, ok := ParseDuplicateHandle(got[0].Handle)
	require.True(t, ok)
	assert.Equal(t, got[0].CanonicalHandle, canonical)
	assert.Equal(t, got[0].Suffix, suffix)
}
