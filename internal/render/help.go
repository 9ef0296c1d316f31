package render

import "strings"

// SearchingText is sent before a search is issued.
const SearchingText = "🔍 正在搜索动漫场景，请稍候..."

const helpTemplate = `🎌 TraceMoe 动漫场景识别

📝 功能说明：
通过图片识别动漫截图出处，基于 trace.moe API

🎯 使用方法：
• {p}tracemoe + 图片 - 标准图片搜索
• {p}tracemoe cut + 图片 - 自动裁切黑边后搜索
• {p}tracemoe me - 查询 API 配额（仅管理员）

📊 结果说明：
• 相似度 ≥90% - 结果较准确
• 相似度 <90% - 仅供参考
• 显示时间戳、集数、文件名等信息

💡 支持格式：
• 静态图片：jpg, png, gif, webp
• 推荐尺寸：640x360px
• 文件大小限制：25MB

⚙️ 高级选项：
• cut - 自动裁切黑边，提高识别准确度
• 适用于手机截图等包含黑边的图片`

const usageTemplate = `🖼️ 请发送图片来搜索动漫！

使用方法：
• 发送 {p}tracemoe 并附带图片
• 发送 {p}tracemoe cut 并附带图片（自动裁切黑边）

💡 支持的图片格式：jpg, png, gif, webp 等
📏 推荐尺寸：640x360px
📦 文件大小限制：25MB
🔧 需要帮助请发送：{p}tracemoe help`

// Help returns the help text for the given command prefix.
func Help(prefix string) string {
	return strings.ReplaceAll(helpTemplate, "{p}", prefix)
}

// UsageHint is the reply to a search command without an image.
func UsageHint(prefix string) string {
	return strings.ReplaceAll(usageTemplate, "{p}", prefix)
}
