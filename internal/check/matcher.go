package check

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Candidate 候选分组（品牌 Collection 或分类关键字）
type Candidate struct {
	Name   string // 匹配用名称（品牌名 / 分类关键字）
	ID     int64  // 分组 ID（0 表示未知）
	Target string // 命中后的建议目标（分类场景为建议分类名，品牌场景与 Name 相同）
}

// Matcher 分组匹配器
// 候选项构造时按名称长度降序排序一次，之后依序扫描返回首个命中，
// 保证最长名称优先：短名称是长名称前缀时不会抢先命中
// （例如「小倉」不得抢在「小倉山莊」之前）。
// 同长度候选保持插入顺序（稳定排序）。
type Matcher struct {
	candidates []Candidate
}

// NewMatcher 创建匹配器（内部复制候选列表，不持有调用方切片）
func NewMatcher(candidates []Candidate) *Matcher {
	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i].Name) > utf8.RuneCountInString(sorted[j].Name)
	})
	return &Matcher{candidates: sorted}
}

// MatchPrefix 前缀匹配（商品标题开头 → 品牌 Collection）
func (m *Matcher) MatchPrefix(subject string) (Candidate, bool) {
	for _, c := range m.candidates {
		if c.Name != "" && strings.HasPrefix(subject, c.Name) {
			return c, true
		}
	}
	return Candidate{}, false
}

// MatchContains 包含匹配（商品标题任意位置 → 分类关键字）
func (m *Matcher) MatchContains(subject string) (Candidate, bool) {
	for _, c := range m.candidates {
		if c.Name != "" && strings.Contains(subject, c.Name) {
			return c, true
		}
	}
	return Candidate{}, false
}

// Candidates 返回排序后的候选列表（只读用途）
func (m *Matcher) Candidates() []Candidate {
	return m.candidates
}
