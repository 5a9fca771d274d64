package serialize

import (
	"strings"
	"testing"

	"github.com/dekarrin/pgen/lex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestScanner(t *testing.T) *lex.Scanner {
	t.Helper()
	s, err := lex.Build([]lex.Rule{
		{Name: "id", Pattern: `\w[\w\d]*`},
		{Name: "num", Pattern: `\d\d*`},
		{Name: "WS", Pattern: " ", Ignore: true},
	})
	require.NoError(t, err)
	return s
}

func scanAll(t *testing.T, s *lex.Scanner, src string) []lex.Token {
	t.Helper()
	in := lex.NewReader("t", strings.NewReader(src))
	var toks []lex.Token
	for {
		tok, ok, err := s.Next(in)
		require.NoError(t, err)
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

func Test_ScannerBlob_RoundTrip(t *testing.T) {
	s := buildTestScanner(t)

	data, err := NewScannerBlob(s).MarshalBinary()
	require.NoError(t, err)
	require.NotEmpty(t, data)

	var decoded ScannerBlob
	require.NoError(t, decoded.UnmarshalBinary(data))

	want := scanAll(t, s, "foo 42 bar7")
	got := scanAll(t, decoded.Scanner(), "foo 42 bar7")

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Lexeme, got[i].Lexeme)
	}
}

func Test_ScannerBlob_RoundTrip_PreservesIgnoredSet(t *testing.T) {
	s := buildTestScanner(t)

	data, err := NewScannerBlob(s).MarshalBinary()
	require.NoError(t, err)

	var decoded ScannerBlob
	require.NoError(t, decoded.UnmarshalBinary(data))

	// WS was declared Ignore: true; "a b" must still scan as two tokens,
	// not three, after a round trip.
	toks := scanAll(t, decoded.Scanner(), "a b")
	require.Len(t, toks, 2)
	assert.Equal(t, "a", toks[0].Lexeme)
	assert.Equal(t, "b", toks[1].Lexeme)
}
