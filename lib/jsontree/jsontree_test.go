package jsontree

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKinds(t *testing.T) {
	v, err := Parse([]byte(`{"a": "x", "b": 1.5, "c": true, "d": null, "e": [1, 2]}`))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, Object, v.Kind())

	a, ok := v.Get("a")
	require.True(t, ok)
	require.Equal(t, String, a.Kind())
	require.Equal(t, "x", a.Str())

	b, ok := v.Get("b")
	require.True(t, ok)
	num, ok := b.Number()
	require.True(t, ok)
	require.Equal(t, "1.5", num.String())

	c, ok := v.Get("c")
	require.True(t, ok)
	flag, ok := c.Bool()
	require.True(t, ok)
	require.True(t, flag)

	d, ok := v.Get("d")
	require.True(t, ok)
	require.Equal(t, Null, d.Kind())

	e, ok := v.Get("e")
	require.True(t, ok)
	require.Equal(t, Array, e.Kind())
	require.Len(t, e.Items(), 2)
}

func TestParsePreservesMemberOrder(t *testing.T) {
	v, err := Parse([]byte(`{"z": 1, "a": 2, "m": 3}`))
	if err != nil {
		t.Fatal(err)
	}

	var keys []string
	for _, m := range v.Members() {
		keys = append(keys, m.Key)
	}
	require.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestParsePreservesNumberText(t *testing.T) {
	v, err := Parse([]byte(`{"price": 24.90}`))
	if err != nil {
		t.Fatal(err)
	}
	price, _ := v.Get("price")
	require.Equal(t, "24.90", price.Scalar())
}

func TestParseRejectsTrailingData(t *testing.T) {
	_, err := Parse([]byte(`{"a": 1} var x = 2;`))
	require.Error(t, err)
}

func TestParseRejectsPathologicalNesting(t *testing.T) {
	deep := strings.Repeat("[", MaxDepth+10) + strings.Repeat("]", MaxDepth+10)
	_, err := Parse([]byte(deep))
	require.Error(t, err)
}

func TestParseMalformed(t *testing.T) {
	for _, input := range []string{"", "{", `{"a":}`, "not json"} {
		_, err := Parse([]byte(input))
		require.Error(t, err, "input %q", input)
	}
}
