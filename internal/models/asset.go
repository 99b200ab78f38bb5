package models

// AssetDescriptor 一张待下载图片: 来源URL和目标文件路径
type AssetDescriptor struct {
	URL  string `json:"url"`
	Path string `json:"path"`
}

// AssetOutcome 图片下载结果
type AssetOutcome struct {
	AssetDescriptor
	Bytes int64 `json:"bytes"`
	Err   error `json:"-"`
}
