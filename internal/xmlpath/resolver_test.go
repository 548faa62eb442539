package xmlpath_test

import (
	"testing"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fiscalia/nfe-auditor/internal/xmlpath"
)

func parseDoc(t *testing.T, text string) *etree.Element {
	t.Helper()
	doc, err := xmlpath.Parse(text)
	require.NoError(t, err)
	return doc.Root()
}

func TestParse_Invalid(t *testing.T) {
	_, err := xmlpath.Parse(`<invalid`)
	require.Error(t, err)
}

func TestParse_Empty(t *testing.T) {
	_, err := xmlpath.Parse(`   `)
	require.Error(t, err)
}

func TestText_FirstMatchWins(t *testing.T) {
	root := parseDoc(t, `<doc><a>first</a><b>second</b></doc>`)

	// Both paths match; whichever is listed first must win.
	assert.Equal(t, "first", xmlpath.Text(root, []string{"a", "b"}, ""))
	assert.Equal(t, "second", xmlpath.Text(root, []string{"b", "a"}, ""))
}

func TestText_SecondaryPathFallback(t *testing.T) {
	root := parseDoc(t, `<doc><alt><num>42</num></alt></doc>`)

	got := xmlpath.Text(root, []string{"primary/num", "alt/num"}, "none")
	assert.Equal(t, "42", got)
}

func TestText_Default(t *testing.T) {
	root := parseDoc(t, `<doc><a>x</a></doc>`)

	assert.Equal(t, "fallback", xmlpath.Text(root, []string{"missing", "also/missing"}, "fallback"))
}

func TestText_EmptyElementNotAMatch(t *testing.T) {
	root := parseDoc(t, `<doc><a></a><b>value</b></doc>`)

	// An empty element does not satisfy a path; resolution moves on.
	assert.Equal(t, "value", xmlpath.Text(root, []string{"a", "b"}, ""))
}

func TestFind_DeepSearch(t *testing.T) {
	root := parseDoc(t, `<doc><wrap><inner><target>deep</target></inner></wrap></doc>`)

	el := xmlpath.Find(root, "//target")
	require.NotNil(t, el)
	assert.Equal(t, "deep", el.Text())
}

func TestFind_DeepWithChildSteps(t *testing.T) {
	root := parseDoc(t, `<doc><x><tot><vNF>100</vNF></tot></x></doc>`)

	el := xmlpath.Find(root, "//tot/vNF")
	require.NotNil(t, el)
	assert.Equal(t, "100", el.Text())
}

func TestFind_IgnoresNamespacePrefixes(t *testing.T) {
	root := parseDoc(t, `<nfe:doc><nfe:ide><nfe:nNF>77</nfe:nNF></nfe:ide></nfe:doc>`)

	el := xmlpath.Find(root, "ide/nNF")
	require.NotNil(t, el)
	assert.Equal(t, "77", el.Text())
}

func TestFind_Wildcard(t *testing.T) {
	root := parseDoc(t, `<doc><ICMS00><vICMS>18.00</vICMS></ICMS00></doc>`)

	el := xmlpath.Find(root, "*/vICMS")
	require.NotNil(t, el)
	assert.Equal(t, "18.00", el.Text())
}

func TestFindAll_FirstSuccessStops(t *testing.T) {
	root := parseDoc(t, `<doc>
		<det><n>1</n></det>
		<det><n>2</n></det>
		<item><n>3</n></item>
	</doc>`)

	// "det" yields elements, so "item" is never probed.
	els := xmlpath.FindAll(root, "det", "item")
	require.Len(t, els, 2)
	assert.Equal(t, "1", els[0].FindElement("n").Text())
	assert.Equal(t, "2", els[1].FindElement("n").Text())

	// Reversed order: "item" wins.
	els = xmlpath.FindAll(root, "item", "det")
	require.Len(t, els, 1)
}

func TestFindAll_DocumentOrder(t *testing.T) {
	root := parseDoc(t, `<doc><a><det>x</det></a><det>y</det><b><det>z</det></b></doc>`)

	els := xmlpath.FindAll(root, "//det")
	require.Len(t, els, 3)
	assert.Equal(t, "x", els[0].Text())
	assert.Equal(t, "y", els[1].Text())
	assert.Equal(t, "z", els[2].Text())
}

func TestFindDescendant(t *testing.T) {
	root := parseDoc(t, `<doc><a><b><c>hit</c></b></a></doc>`)

	el := xmlpath.FindDescendant(root, "c")
	require.NotNil(t, el)
	assert.Equal(t, "hit", el.Text())

	assert.Nil(t, xmlpath.FindDescendant(root, "zzz"))
}
