package rag

// Fragment 表示分块后的文本结构
type Fragment struct {
	Index int
	Text  string
}

// Chunker 文本分块器
// 固定长度切分，无重叠无遗漏：所有分块拼接后等于原文
type Chunker struct {
	chunkSize int
}

// NewChunker 创建分块器
func NewChunker(chunkSize int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &Chunker{chunkSize: chunkSize}
}

// ChunkSize 返回分块长度
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Split 将文本切分为连续、不重叠的分块，每块至多chunkSize个字符
// 空输入返回零个分块，最后一块可以更短
func (c *Chunker) Split(text string) []Fragment {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	fragments := make([]Fragment, 0, (len(runes)+c.chunkSize-1)/c.chunkSize)

	for start := 0; start < len(runes); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		fragments = append(fragments, Fragment{
			Index: len(fragments),
			Text:  string(runes[start:end]),
		})
	}

	return fragments
}

// Texts 提取分块文本，保持顺序
func Texts(fragments []Fragment) []string {
	texts := make([]string, len(fragments))
	for i, f := range fragments {
		texts[i] = f.Text
	}
	return texts
}
