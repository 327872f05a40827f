package services

import "lisa/models"

type OutcomeKind int

const (
	OutcomeFailed OutcomeKind = iota
	OutcomeRetrieved
	OutcomeDirect
)

func (k OutcomeKind) String() string {
	return string(k.Route())
}

// Route 는 chat_logs 에 기록되는 경로 이름이다.
func (k OutcomeKind) Route() models.ChatRoute {
	switch k {
	case OutcomeRetrieved:
		return models.ChatRouteRetrieval
	case OutcomeDirect:
		return models.ChatRouteDirect
	default:
		return models.ChatRouteFailed
	}
}

// Outcome 은 한 턴의 라우팅 결과다.
// RetrievalErr 는 검색을 시도했다가 실패해 직접 응답으로 넘어간 경우에만 채워진다.
type Outcome struct {
	Kind         OutcomeKind
	Text         string
	RetrievalErr error
	Err          error
}

func Retrieved(text string) Outcome {
	return Outcome{Kind: OutcomeRetrieved, Text: text}
}

func Direct(text string, retrievalErr error) Outcome {
	return Outcome{Kind: OutcomeDirect, Text: text, RetrievalErr: retrievalErr}
}

func Failed(err, retrievalErr error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: err, RetrievalErr: retrievalErr}
}
