package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"lisa/parser"
)

// SupportedExtensions 는 데이터셋 디렉토리에서 인덱싱하는 파일 확장자다.
var SupportedExtensions = []string{".txt", ".md", ".json", ".html", ".htm"}

func isSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ListDocumentFiles 는 dir 바로 아래의 지원 파일 이름을 정렬해 반환한다.
// 디렉토리가 없으면 os.ErrNotExist 를 감싼 에러를 반환한다.
func ListDocumentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !isSupported(e.Name()) {
			continue
		}
		files = append(files, e.Name())
	}
	sort.Strings(files)
	return files, nil
}

// LoadDocuments 는 files 를 읽어 NFC 정규화된 Document 목록으로 만든다.
// 본문이 비어있는 파일은 건너뛴다.
func LoadDocuments(ctx context.Context, dir string, files []string) ([]Document, error) {
	docs := make([]Document, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := filepath.Join(dir, name)
		content, err := readDocument(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		content = strings.TrimSpace(norm.NFC.String(content))
		if content == "" {
			continue
		}
		docs = append(docs, Document{
			ID:      documentID(name),
			Name:    name,
			Path:    path,
			Content: content,
		})
	}
	return docs, nil
}

func readDocument(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		parsed, err := parser.ParseHTMLDocument(string(raw))
		if err != nil {
			return "", err
		}
		if parsed.Title != "" {
			return parsed.Title + "\n\n" + parsed.PlainText, nil
		}
		return parsed.PlainText, nil
	default:
		// .txt, .md, .json 은 원문 그대로 인덱싱한다.
		return string(raw), nil
	}
}

func documentID(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:8])
}
