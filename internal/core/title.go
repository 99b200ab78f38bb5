package core

import (
	"regexp"
	"strings"
)

// TitleTransform 标题规范化的单个步骤
type TitleTransform func(string) string

var (
	quoteReplacer = strings.NewReplacer("‘", "'", "’", "'")
	// 连字符、en dash、em dash 统一替换为空格
	dashReplacer = strings.NewReplacer("-", " ", "–", " ", "—", " ")
	// 路径分隔符会让目录创建落到子目录中
	separatorReplacer = strings.NewReplacer("/", " ", "\\", " ")
	whitespaceRun     = regexp.MustCompile(`\s{2,}|[\t\n\r\f\v]`)
)

// TitleTransforms 按顺序应用的规范化步骤
var TitleTransforms = []TitleTransform{
	CutSiteSuffix,
	strings.ToLower,
	quoteReplacer.Replace,
	dashReplacer.Replace,
	separatorReplacer.Replace,
	CollapseSpaces,
	strings.TrimSpace,
}

// NormalizeTitle 将浏览器页面标题转换为可读、可用作文件名的形式
func NormalizeTitle(title string) string {
	for _, transform := range TitleTransforms {
		title = transform(title)
	}
	return title
}

// CutSiteSuffix 截掉第一个 "|" 及其之后的站点名
func CutSiteSuffix(title string) string {
	before, _, _ := strings.Cut(title, "|")
	return before
}

// CollapseSpaces 将连续空白折叠为一个空格
func CollapseSpaces(title string) string {
	return whitespaceRun.ReplaceAllString(title, " ")
}
