package check

// ContainsJapanese 检查文字是否包含日文假名
// 只判定平假名（U+3040-U+309F）与片假名（U+30A0-U+30FF）两个区段；
// CJK 统一汉字区段中日共用，刻意排除以避免误判
func ContainsJapanese(text string) bool {
	for _, r := range text {
		if (r >= 0x3040 && r <= 0x309F) || (r >= 0x30A0 && r <= 0x30FF) {
			return true
		}
	}
	return false
}

// IsAcceptableTag 检查 tag 是否为有效标签（不含日文假名）
// 空标签视为有效
func IsAcceptableTag(tag string) bool {
	return !ContainsJapanese(tag)
}
