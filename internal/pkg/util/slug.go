package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9\p{Han}]+`)
	slugDashes       = regexp.MustCompile(`-{2,}`)
)

// Slugify 由名称派生 slug：小写、非法字符折叠为连字符。
// 对同一输入结果是确定的。
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "untitled"
	}
	return s
}

// PostSlug 文章 slug 需要全局唯一，追加创建时间毫秒值作为去重后缀。
// 标题变更后用同一个创建时间重新生成，后缀保持稳定。
func PostSlug(title string, createdAt time.Time) string {
	return Slugify(title) + "-" + strconv.FormatInt(createdAt.UnixMilli(), 10)
}

// ReadTime 预计阅读分钟数，按每分钟 200 词向上取整；无正文为 0
func ReadTime(content string) int {
	words := len(strings.Fields(content))
	return (words + 199) / 200
}
