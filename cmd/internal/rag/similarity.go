package rag

import (
	"math"
	"sort"
)

// CosineSimilarity 는 두 벡터의 코사인 유사도(-1~1)를 반환한다. 길이가 다르면 0.
func CosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// vectorIndex 는 로드된 청크 전체를 메모리에 두고 전수 비교로 검색한다.
// 초기화 이후에는 읽기 전용이라 잠금이 필요 없다.
type vectorIndex struct {
	chunks []Chunk
}

func newVectorIndex(chunks []Chunk) *vectorIndex {
	return &vectorIndex{chunks: chunks}
}

func (v *vectorIndex) Len() int {
	return len(v.chunks)
}

func (v *vectorIndex) Search(query []float32, topK int) []ScoredChunk {
	scored := make([]ScoredChunk, 0, len(v.chunks))
	for _, c := range v.chunks {
		if len(c.Embedding) == 0 {
			continue
		}
		scored = append(scored, ScoredChunk{Chunk: c, Score: CosineSimilarity(query, c.Embedding)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
