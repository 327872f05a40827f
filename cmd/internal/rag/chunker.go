package rag

import (
	"fmt"
	"strings"
)

// SplitText 는 text 를 단어 기준 size 개씩 자르고, 이웃 청크끼리 overlap 개 단어를 겹친다.
// 단어 수는 토큰 수의 근사치로 쓴다.
func SplitText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		return []string{strings.Join(words, " ")}
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	var chunks []string
	step := size - overlap
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}

// ChunkDocuments 는 문서들을 청크로 나눈다. 임베딩은 비어있는 상태로 반환된다.
func ChunkDocuments(docs []Document, size, overlap int) []Chunk {
	var chunks []Chunk
	for _, d := range docs {
		for i, text := range SplitText(d.Content, size, overlap) {
			chunks = append(chunks, Chunk{
				ID:         fmt.Sprintf("%s-%04d", d.ID, i),
				DocumentID: d.ID,
				Source:     d.Name,
				Index:      i,
				Content:    text,
			})
		}
	}
	return chunks
}
