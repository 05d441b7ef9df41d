package util

import (
	"strings"
	"testing"
	"time"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"基本标题", "Hello World", "hello-world"},
		{"大小写归一", "Go Web 开发", "go-web-开发"},
		{"特殊字符折叠", "A!!B??C", "a-b-c"},
		{"首尾修剪", "  --Edge--  ", "edge"},
		{"空输入", "   ", "untitled"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Slugify(tc.in); got != tc.want {
				t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	a := Slugify("Same Title Here")
	b := Slugify("Same Title Here")
	if a != b {
		t.Errorf("same input produced different slugs: %q vs %q", a, b)
	}
}

func TestPostSlugSuffixStable(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	first := PostSlug("My First Post", createdAt)
	if !strings.HasPrefix(first, "my-first-post-") {
		t.Fatalf("unexpected slug prefix: %q", first)
	}

	// 标题变更后重新生成，后缀（创建时间毫秒值）不变
	renamed := PostSlug("Renamed Post", createdAt)
	suffix := first[strings.LastIndex(first, "-"):]
	if !strings.HasSuffix(renamed, suffix) {
		t.Errorf("suffix changed after rename: %q vs %q", first, renamed)
	}
}

func TestReadTime(t *testing.T) {
	cases := []struct {
		name  string
		words int
		want  int
	}{
		{"空内容为0", 0, 0},
		{"不足200词", 150, 1},
		{"整除", 400, 2},
		{"向上取整", 401, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			content := strings.TrimSpace(strings.Repeat("word ", tc.words))
			if got := ReadTime(content); got != tc.want {
				t.Errorf("ReadTime(%d words) = %d, want %d", tc.words, got, tc.want)
			}
		})
	}
}
