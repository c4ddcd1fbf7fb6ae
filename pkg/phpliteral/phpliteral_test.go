package phpliteral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	got := Export([]string{"app/code/Acme/Foo/registration.php", "it's\\here"})
	want := "array (\n" +
		"  0 => 'app/code/Acme/Foo/registration.php',\n" +
		"  1 => 'it\\'s\\\\here',\n" +
		")"
	assert.Equal(t, want, got)
}

func TestExportEmpty(t *testing.T) {
	assert.Equal(t, "array (\n)", Export(nil))
}

func TestExportRoundTrip(t *testing.T) {
	inputs := [][]string{
		{},
		{"vendor/a/b/registration.php"},
		{"quote'inside", `back\slash`, `trailing\`, "ümlaut/ñ", "tab\tchar"},
	}
	for _, in := range inputs {
		out, err := ParseArray([]byte("<?php\n$list = " + Export(in) + ";\n"))
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestParseReturn(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "short syntax with trailing comma",
			src:  "<?php\nreturn [\n    'app/code/*/*/registration.php',\n    'vendor/*/*/registration.php',\n];\n",
			want: []string{"app/code/*/*/registration.php", "vendor/*/*/registration.php"},
		},
		{
			name: "long syntax with keys",
			src:  "<?php return array(0 => 'a', 'x' => \"b\");",
			want: []string{"a", "b"},
		},
		{
			name: "comments everywhere",
			src: "<?php\n// header\n# hash comment\n/* block\n comment */\nreturn [ // inline\n" +
				"  'Acme/Foo', /* between */ 'Acme/Bar'\n];",
			want: []string{"Acme/Foo", "Acme/Bar"},
		},
		{
			name: "double quoted escapes",
			src:  `<?php return ["a\tb", "c\"d", "\$e", "\x41\101", "\q"];`,
			want: []string{"a\tb", `c"d`, "$e", "AA", `\q`},
		},
		{
			name: "single quoted keeps unknown escapes",
			src:  `<?php return ['a\nb', 'c\'d', 'e\\f'];`,
			want: []string{`a\nb`, "c'd", `e\f`},
		},
		{
			name: "empty",
			src:  "<?php return [];",
			want: []string{},
		},
		{
			name: "uppercase keywords",
			src:  "<?php RETURN ARRAY ('x');",
			want: []string{"x"},
		},
		{
			name: "constant concatenation",
			src:  "<?php return ['vendor/' . 'acme' . '/*/registration.php', ('app/' . \"code/*/*/registration.php\")];",
			want: []string{"vendor/acme/*/registration.php", "app/code/*/*/registration.php"},
		},
		{
			name: "unicode escape",
			src:  `<?php return ["caf\u{e9}/*/registration.php", "\u{1F600}"];`,
			want: []string{"café/*/registration.php", "\U0001F600"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseReturn([]byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseReturnErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"no return", "<?php $x = ['a'];"},
		{"return scalar", "<?php return 'a';"},
		{"non string value", "<?php return [FOO];"},
		{"nested array", "<?php return [['a']];"},
		{"magic constant", "<?php return [__DIR__ . '/a'];"},
		{"constant fetch", "<?php return [BP . '/vendor/*/*/registration.php'];"},
		{"class constant", "<?php return [Acme\\Paths::VENDOR];"},
		{"interpolation", `<?php return ["vendor/$dir/registration.php"];`},
		{"integer value", "<?php return [1, 2];"},
		{"unterminated array", "<?php return ['a'"},
		{"unterminated string", "<?php return ['a];"},
		{"missing comma", "<?php return ['a' 'b'];"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseReturn([]byte(tt.src))
			assert.Error(t, err)
		})
	}
}

func TestParseArrayNotFound(t *testing.T) {
	_, err := ParseArray([]byte("<?php echo 'hi';"))
	assert.ErrorIs(t, err, ErrNoArrayLiteral)
}

func TestParseVariable(t *testing.T) {
	src := []byte("<?php\n\n$other = ['skip'];\n$registrationFiles = array (\n  0 => 'vendor/a/b/registration.php',\n);\n\n" +
		"foreach ($registrationFiles as $registrationFile) {\n    require_once __DIR__ . '/../../' . $registrationFile;\n}")

	got, err := ParseVariable(src, "registrationFiles")
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor/a/b/registration.php"}, got)

	got, err = ParseVariable(src, "$other")
	require.NoError(t, err)
	assert.Equal(t, []string{"skip"}, got)

	_, err = ParseVariable(src, "missing")
	assert.ErrorIs(t, err, ErrNoArrayLiteral)
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`'plain'`, "plain"},
		{`b'binary'`, "binary"},
		{`'a\'b\\c\n'`, `a'b\c\n`},
		{`"a\tb\x41\101\$"`, "a\tbAA$"},
		{`"\u{48}\u{49}"`, "HI"},
		{`"\u0041"`, `\u0041`},
		{`"\q"`, `\q`},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := Unquote([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{`plain`, `'open`, `"\u{zz}"`, `"\u{41"`} {
		_, err := Unquote([]byte(bad))
		assert.Error(t, err, bad)
	}
}
