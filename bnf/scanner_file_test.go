package bnf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_LoadScannerFile_ParsesRulesAndIgnore(t *testing.T) {
	src := `
		// leading comment
		A ::= "a"; /* inline block comment */
		NUM ::= "\d+(\.\d+)?";
		ignore WS ::= "\s+";
	`
	rules, err := LoadScannerFile(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, rules, 3)

	assert.Equal(t, ScannerRule{Name: "A", Pattern: "a", Ignore: false}, rules[0])
	assert.Equal(t, ScannerRule{Name: "NUM", Pattern: `\d+(\.\d+)?`, Ignore: false}, rules[1])
	assert.Equal(t, ScannerRule{Name: "WS", Pattern: `\s+`, Ignore: true}, rules[2])
}

func Test_LoadScannerFile_EmptyFileIsError(t *testing.T) {
	_, err := LoadScannerFile(strings.NewReader("   \n // just a comment\n"))
	assert.Error(t, err)
}

func Test_LoadScannerFile_MalformedRuleIsError(t *testing.T) {
	_, err := LoadScannerFile(strings.NewReader(`::= "a";`))
	assert.Error(t, err)
}

func Test_LoadScannerFile_SemicolonInsidePatternIsNotAStatementBreak(t *testing.T) {
	rules, err := LoadScannerFile(strings.NewReader(`SEMI ::= ";";`))
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, ";", rules[0].Pattern)
}
