package parser

import (
	"errors"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// ErrNoText 는 어떤 추출기로도 본문 텍스트를 얻지 못했을 때 반환된다.
var ErrNoText = errors.New("no readable text in html document")

type ParsedDocument struct {
	Title     string
	PlainText string
}

// ParseHTMLDocument 는 데이터셋 디렉토리의 HTML 문서에서 본문 텍스트를 추출한다.
// readability 를 먼저 시도하고, 실패하거나 본문이 비면 trafilatura 로 재시도한다.
func ParseHTMLDocument(htmlStr string) (*ParsedDocument, error) {
	if doc, err := ParseHtmlWithReadability(htmlStr); err == nil && strings.TrimSpace(doc.PlainText) != "" {
		return doc, nil
	}
	doc, err := ParseHtmlWithTrafilatura(htmlStr)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(doc.PlainText) == "" {
		return nil, ErrNoText
	}
	return doc, nil
}

func ParseHtmlWithReadability(htmlStr string) (*ParsedDocument, error) {
	node, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil, err
	}

	article, err := readability.FromDocument(node, nil)
	if err != nil {
		return nil, err
	}
	return &ParsedDocument{
		Title:     article.Title,
		PlainText: strings.TrimSpace(article.TextContent),
	}, nil
}

func ParseHtmlWithTrafilatura(htmlStr string) (*ParsedDocument, error) {
	result, err := trafilatura.Extract(strings.NewReader(htmlStr), trafilatura.Options{})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, ErrNoText
	}
	return &ParsedDocument{
		Title:     result.Metadata.Title,
		PlainText: strings.TrimSpace(result.ContentText),
	}, nil
}
