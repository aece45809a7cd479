package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromStringShapes(t *testing.T) {
	t.Parallel()
	short := FromString("hi")
	assert.Equal(t, kindShortASCII, short.tag)
	assert.Equal(t, int64(2), short.Len())

	long := FromString("this is more than eight bytes")
	assert.Equal(t, kindASCII, long.tag)
	assert.Equal(t, int64(29), long.Len())

	uni := FromString("héllo")
	assert.Equal(t, kindGraphemes, uni.tag)
	assert.Equal(t, int64(5), uni.Len())

	two := FromString("é!")
	assert.Equal(t, kindShortGraphemes, two.tag)
	assert.Equal(t, int64(2), two.Len())
}

func TestInvalidUTF8(t *testing.T) {
	t.Parallel()
	bad := FromString("ok\xff\xfebad")
	assert.Equal(t, int64(0), bad.Len())
}

func TestNFGSyntheticGrapheme(t *testing.T) {
	t.Parallel()
	// U+0329 is a combining mark: "e" + mark is one grapheme cluster.
	cluster := FromString("e̩")
	require.Equal(t, int64(1), cluster.Len())
	code := cluster.GraphemeAt(1)
	assert.Less(t, code, int32(0), "multi-codepoint cluster must intern to a negative id")
	assert.Equal(t, []rune{0x65, 0x0329}, cluster.UTF32Codepoints())

	// Concatenating two such clusters keeps them as two graphemes.
	both := Concat(cluster, cluster)
	assert.Equal(t, int64(2), both.Len())

	// Same cluster -> same interned id.
	again := FromString("e̩")
	assert.Equal(t, code, again.GraphemeAt(1))
}

func TestUTF8RoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"", "plain", "héllo wörld", "e̩xyz", "日本語テキスト", "mixed ascii と 日本語"} {
		orig := FromString(s)
		back := FromBytes(orig.UTF8Bytes())
		assert.True(t, Equal(orig, back), "round trip failed for %q", s)
	}
}

func TestCodepointRoundTrip(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"plain", "héllo", "e̩combined"} {
		orig := FromString(s)
		back := FromCodepoints(orig.UTF32Codepoints())
		assert.True(t, Equal(orig, back), "codepoint round trip failed for %q", s)
	}
}

func TestConcatAssociativity(t *testing.T) {
	t.Parallel()
	a, b, c := FromString("foo"), FromString("bar"), FromString("baz")
	left := Concat(Concat(a, b), c)
	right := Concat(a, Concat(b, c))
	assert.True(t, Equal(left, right))
	assert.Equal(t, "foobarbaz", left.String())
}

func TestConcatManyMatchesBinaryFold(t *testing.T) {
	t.Parallel()
	items := []Text{FromString("a"), FromString("́b"), FromString("c"), FromString("e"), FromString("̩")}
	folded := items[0]
	for _, item := range items[1:] {
		folded = Concat(folded, item)
	}
	bulk := ConcatMany(items)
	assert.True(t, Equal(folded, bulk), "fold %q != bulk %q", folded.String(), bulk.String())
}

func TestConcatUnstableBoundary(t *testing.T) {
	t.Parallel()
	// "e" followed by a combining mark merges into one grapheme.
	joined := Concat(FromString("abce"), FromString("̩xyz"))
	assert.Equal(t, int64(7), joined.Len())
	assert.Equal(t, FromString("abce̩xyz").String(), joined.String())
}

func TestConcatSliceInverse(t *testing.T) {
	t.Parallel()
	a, b := FromString("hello "), FromString("world")
	joined := Concat(a, b)
	assert.True(t, Equal(a, Slice(joined, 1, a.Len())))
	assert.True(t, Equal(b, Slice(joined, a.Len()+1, joined.Len())))
}

func TestSliceIndexing(t *testing.T) {
	t.Parallel()
	t5 := FromString("abcde")
	assert.Equal(t, "bcd", Slice(t5, 2, 4).String())
	assert.Equal(t, "e", Slice(t5, -1, -1).String())
	assert.Equal(t, "cde", Slice(t5, -3, -1).String())
	assert.Equal(t, "abcde", Slice(t5, 1, 99).String())
	assert.Equal(t, int64(0), Slice(t5, 9, 10).Len())
	assert.Equal(t, int64(0), Slice(t5, 3, 2).Len())
}

func TestSliceSharesLeafStorage(t *testing.T) {
	t.Parallel()
	long := FromString("a long ascii buffer here")
	sub := Slice(long, 3, 20)
	assert.Equal(t, kindASCII, sub.tag)
}

func TestRopeFold(t *testing.T) {
	t.Parallel()
	folded := Empty
	for i := 0; i < 1000; i++ {
		folded = Concat(folded, FromString(string(rune('a'+i%26))))
	}
	assert.Equal(t, int64(1000), folded.Len())
	assert.Equal(t, int32('a'+(500%26)), folded.GraphemeAt(501))
	assert.LessOrEqual(t, folded.NumSubtexts(), 1000)

	// Iterator sweeps forward in amortized constant time.
	it := NewIter(folded)
	for i := int64(0); i < folded.Len(); i++ {
		assert.Equal(t, int32('a'+i%26), it.GraphemeAt(i))
	}
}

func TestRepeat(t *testing.T) {
	t.Parallel()
	r := Repeat(FromString("ab"), 3)
	assert.Equal(t, "ababab", r.String())
	assert.Equal(t, int64(6), r.Len())
	assert.Equal(t, int64(0), Repeat(FromString("x"), 0).Len())
	assert.Panics(t, func() { Repeat(FromString("xy"), MaxGraphemes) })
}

func TestHashEqualTexts(t *testing.T) {
	t.Parallel()
	a := FromString("hello world, this is long enough to be interesting")
	b := Concat(FromString("hello world, this is long"), FromString(" enough to be interesting"))
	require.True(t, Equal(a, b))
	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotZero(t, a.Hash())

	c := FromString("hello world, this is long enough to be different!!")
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestCompare(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, Compare(FromString("abc"), FromString("abc")))
	assert.Negative(t, Compare(FromString("abc"), FromString("abd")))
	assert.Positive(t, Compare(FromString("abd"), FromString("abc")))
	assert.Negative(t, Compare(FromString("ab"), FromString("abc")))
	// Synthetic cluster compares by codepoint sequence.
	assert.Positive(t, Compare(FromString("e̩"), FromString("e")))
}

func TestEqualIgnoringCase(t *testing.T) {
	t.Parallel()
	assert.True(t, EqualIgnoringCase(FromString("Hello"), FromString("hELLO"), ""))
	assert.False(t, EqualIgnoringCase(FromString("Hello"), FromString("Hellp"), ""))
	assert.True(t, EqualIgnoringCase(FromString("STRASSE"), FromString("strasse"), ""))
	assert.False(t, EqualIgnoringCase(FromString("abc"), FromString("abcd"), ""))
}

func TestCaseMapping(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "HELLO", Upper(FromString("hello"), "").String())
	assert.Equal(t, "hello", Lower(FromString("HELLO"), "").String())
	assert.Equal(t, "Hello World", Title(FromString("hello world"), "").String())
	// Turkic dotless i.
	assert.Equal(t, "İSTANBUL", Upper(FromString("istanbul"), "tr").String())

	// upper(lower(t)) preserves grapheme length.
	for _, s := range []string{"MixedCase", "ümläut", "e̩X"} {
		orig := FromString(s)
		roundTripped := Upper(Lower(orig, ""), "")
		assert.Equal(t, orig.Len(), roundTripped.Len(), "length changed for %q", s)
	}
}

func TestLines(t *testing.T) {
	t.Parallel()
	ls := Lines(FromString("one\ntwo\r\nthree"))
	require.Len(t, ls, 3)
	assert.Equal(t, "one", ls[0].String())
	assert.Equal(t, "two", ls[1].String())
	assert.Equal(t, "three", ls[2].String())

	ls = Lines(FromString("terminated\n"))
	require.Len(t, ls, 1)
	assert.Equal(t, "terminated", ls[0].String())
}

func TestFindReplace(t *testing.T) {
	t.Parallel()
	hay := FromString("one two one three")
	i, ok := Find(hay, FromString("one"), 1)
	require.True(t, ok)
	assert.Equal(t, int64(1), i)
	i, ok = Find(hay, FromString("one"), 2)
	require.True(t, ok)
	assert.Equal(t, int64(9), i)
	_, ok = Find(hay, FromString("four"), 1)
	assert.False(t, ok)

	assert.Equal(t, []int64{1, 9}, FindAll(hay, FromString("one")))
	assert.True(t, Has(hay, FromString("two")))

	replaced := Replace(hay, FromString("one"), FromString("1"))
	assert.Equal(t, "1 two 1 three", replaced.String())
}

func TestSplit(t *testing.T) {
	t.Parallel()
	parts := Split(FromString("a,b,,c"), FromString(","))
	require.Len(t, parts, 4)
	assert.Equal(t, "", parts[2].String())

	words := SplitAny(FromString("  one\ttwo  three "), FromString(" \t"))
	require.Len(t, words, 3)
	assert.Equal(t, "two", words[1].String())
}

func TestTrimAndPad(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "core", Trim(FromString("  core\n"), Empty, true, true).String())
	assert.Equal(t, "xxcore", Trim(FromString("xxcorexx"), FromString("x"), false, true).String())
	assert.Equal(t, "--abc", LeftPad(FromString("abc"), FromString("-"), 5).String())
	assert.Equal(t, "abc..", RightPad(FromString("abc"), FromString("."), 5).String())
	assert.Equal(t, " abc  ", Center(FromString("abc"), FromString(" "), 6).String())
}

func TestStartsEndsWith(t *testing.T) {
	t.Parallel()
	assert.True(t, StartsWith(FromString("hello"), FromString("he")))
	assert.False(t, StartsWith(FromString("hello"), FromString("el")))
	assert.True(t, EndsWith(FromString("hello"), FromString("lo")))
	// "e" alone is not a grapheme-boundary prefix of "e" + combining mark.
	assert.False(t, StartsWith(FromString("e̩x"), FromString("e")))
}

func TestCodepointNames(t *testing.T) {
	t.Parallel()
	names := CodepointNames(FromString("A!"))
	require.Len(t, names, 2)
	assert.Equal(t, "LATIN CAPITAL LETTER A", names[0].String())

	back := FromCodepointNames([]Text{FromString("LATIN SMALL LETTER A"), FromString("EXCLAMATION MARK")})
	assert.Equal(t, "a!", back.String())
}

func TestQuoted(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"a\"b\n\t\x01"`, Quoted(FromString("a\"b\n\t\x01")))
}

func TestPendingPrinter(t *testing.T) {
	t.Parallel()
	var pp PendingPrinter
	type node struct{ next *node }
	n := &node{}
	n.next = n

	marker, first := pp.Enter(n)
	require.True(t, first)
	require.Empty(t, marker)
	marker, again := pp.Enter(n)
	assert.False(t, again)
	assert.Equal(t, "@~1", marker)
	pp.Exit(n)
	_, fresh := pp.Enter(n)
	assert.True(t, fresh)
}

func TestClusters(t *testing.T) {
	t.Parallel()
	cs := FromString("ae̩i").Clusters()
	require.Len(t, cs, 3)
	assert.Equal(t, "e̩", cs[1].String())
}

func TestLongRopeString(t *testing.T) {
	t.Parallel()
	var pieces []Text
	for i := 0; i < 100; i++ {
		pieces = append(pieces, FromString("chunk-"))
	}
	joined := ConcatMany(pieces)
	assert.Equal(t, strings.Repeat("chunk-", 100), joined.String())
	assert.Equal(t, int64(600), joined.Len())
}
