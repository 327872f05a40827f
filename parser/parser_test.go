package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lisa/parser"
)

const tardigradeHTML = `<!DOCTYPE html>
<html>
<head><title>Tardigrades in low Earth orbit</title></head>
<body>
  <nav><a href="/">Home</a> | <a href="/datasets">Datasets</a></nav>
  <article>
    <h1>Tardigrades in low Earth orbit</h1>
    <p>Tardigrades are microscopic animals known for surviving desiccation, radiation and vacuum.
    In the FOTON-M3 mission, dehydrated specimens were exposed to open space for ten days and
    a significant fraction recovered after rehydration back on Earth.</p>
    <p>Researchers attribute this resilience to trehalose accumulation and damage suppressor
    proteins that shield DNA from ionizing radiation. These findings inform the BIOS team's work
    on biological payloads for long-duration missions beyond low Earth orbit.</p>
  </article>
  <footer>Copyright BIOS</footer>
</body>
</html>`

func TestParseHTMLDocumentExtractsArticleText(t *testing.T) {
	doc, err := parser.ParseHTMLDocument(tardigradeHTML)
	require.NoError(t, err)

	assert.Contains(t, doc.PlainText, "FOTON-M3")
	assert.Contains(t, doc.PlainText, "trehalose")
}

func TestParseHTMLDocumentEmptyBody(t *testing.T) {
	_, err := parser.ParseHTMLDocument(`<html><head></head><body></body></html>`)
	assert.Error(t, err)
}
