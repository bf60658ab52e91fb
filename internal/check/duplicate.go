package check

import (
	"errors"
	"regexp"
	"sort"
	"strconv"

	"github.com/omishoninjp-sys/shopifychecker/internal/model"
)

// ErrEmptyCatalog 商品快照为空或不可用
// 显式区分「没有问题」与「无法检查」，避免调用方误判
var ErrEmptyCatalog = errors.New("catalog snapshot is empty")

// 副本 handle 格式：非空前缀 + 连字符 + 结尾数字
var duplicateHandleRe = regexp.MustCompile(`^(.+)-([0-9]+)$`)

// ParseDuplicateHandle 解析疑似副本 handle
// 返回推断出的原始 handle 与副本序号
func ParseDuplicateHandle(handle string) (canonical string, suffix int, ok bool) {
	m := duplicateHandleRe.FindStringSubmatch(handle)
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}

// FindDuplicates 找出自动复制产生的副本商品
// 安全闸门：仅当推断出的原始 handle 在快照中确实存在时才判定为副本，
// 防止本名就带数字结尾的正常商品（如 "dango-1" 而 "dango" 不存在）被误删。
// 结果按（原始 handle, 副本序号）升序排序，保证输出可复核。
func FindDuplicates(products []model.Product) ([]model.DuplicateCandidate, error) {
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}

	byHandle := make(map[string]*model.Product, len(products))
	for i := range products {
		byHandle[products[i].Handle] = &products[i]
	}

	candidates := make([]model.DuplicateCandidate, 0)
	for i := range products {
		p := &products[i]

		canonical, suffix, ok := ParseDuplicateHandle(p.Handle)
		if !ok {
			continue
		}

		original, exists := byHandle[canonical]
		if !exists {
			continue
		}

		candidates = append(candidates, model.DuplicateCandidate{
			ProductID:       p.ID,
			Handle:          p.Handle,
			CanonicalHandle: canonical,
			Suffix:          suffix,
			CanonicalID:     original.ID,
			CanonicalTitle:  original.Title,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].CanonicalHandle != candidates[j].CanonicalHandle {
			return candidates[i].CanonicalHandle < candidates[j].CanonicalHandle
		}
		return candidates[i].Suffix < candidates[j].Suffix
	})

	return candidates, nil
}
