package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPrefixLongestWins(t *testing.T) {
	// 短品牌名是长品牌名前缀时，不得抢先命中
	m := NewMatcher([]Candidate{
		{Name: "小倉"},
		{Name: "小倉山莊"},
	})

	c, ok := m.MatchPrefix("小倉山莊羊羹")
	require.True(t, ok)
	assert.Equal(t, "小倉山莊", c.Name)

	// 插入顺序相反结果一致
	m = NewMatcher([]Candidate{
		{Name: "小倉山莊"},
		{Name: "小倉"},
	})
	c, ok = m.MatchPrefix("小倉山莊羊羹")
	require.True(t, ok)
	assert.Equal(t, "小倉山莊", c.Name)
}

func TestMatchPrefix(t *testing.T) {
	m := NewMatcher([]Candidate{
		{Name: "虎屋羊羹", ID: 1},
		{Name: "YOKUMOKU", ID: 2},
	})

	tests := []struct {
		name    string
		subject string
		want    string
		ok      bool
	}{
		{"命中", "虎屋羊羹 夜之梅", "虎屋羊羹", true},
		{"英文品牌命中", "YOKUMOKU 雪茄蛋捲", "YOKUMOKU", true},
		{"品牌在中间不算前缀", "限定 虎屋羊羹", "", false},
		{"无命中", "砂糖奶油樹 夾心餅", "", false},
		{"空主词", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := m.MatchPrefix(tt.subject)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, c.Name)
		})
	}
}

func TestMatchPrefixEmptyCandidates(t *testing.T) {
	m := NewMatcher(nil)
	_, ok := m.MatchPrefix("ACME Widget")
	assert.False(t, ok)
}

func TestMatchContains(t *testing.T) {
	m := NewMatcher([]Candidate{
		{Name: "餅乾", Target: "餅乾"},
		{Name: "夾心餅乾", Target: "夾心餅乾"},
		{Name: "羊羹", Target: "和菓子"},
	})

	// 最长关键字优先
	c, ok := m.MatchContains("砂糖奶油樹 夾心餅乾 12入")
	require.True(t, ok)
	assert.Equal(t, "夾心餅乾", c.Name)
	assert.Equal(t, "夾心餅乾", c.Target)

	// 包含匹配不要求前缀
	c, ok = m.MatchContains("虎屋 小形羊羹 5入")
	require.True(t, ok)
	assert.Equal(t, "和菓子", c.Target)

	_, ok = m.MatchContains("保冷袋")
	assert.False(t, ok)
}

func TestMatcherStableTieBreak(t *testing.T) {
	// 同长度候选保持插入顺序
	m := NewMatcher([]Candidate{
		{Name: "AB", ID: 1},
		{Name: "AC", ID: 2},
		{Name: "ABCD", ID: 3},
	})

	got := m.Candidates()
	require.Len(t, got, 3)
	assert.Equal(t, "ABCD", got[0].Name)
	assert.Equal(t, int64(1), got[1].ID)
	assert.Equal(t, int64(2), got[2].ID)
}

func TestMatcherDoesNotMutateInput(t *testing.T) {
	in := []Candidate{{Name: "A"}, {Name: "BB"}}
	NewMatcher(in)
	assert.Equal(t, "A", in[0].Name)
	assert.Equal(t, "BB", in[1].Name)
}
