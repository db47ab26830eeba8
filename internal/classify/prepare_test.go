package classify

import "testing"

func TestPrepareCode(t *testing.T) {
	cases := []struct {
		name, raw, want string
	}{
		{"empty", "", ""},
		{"escape", "if (a < b && c > d) {}\n", "if (a &lt; b &amp;&amp; c &gt; d) {}\n"},
		{
			"leading pos comment dropped",
			"/* \"m.pyx\":2\n * y = f(x)\n */\nx = 1;\n",
			"x = 1;\n",
		},
		{
			"inner pos comment collapsed",
			"a();\n  /* \"m.pyx\":3\n * z\n */\nb();\n",
			"a();\n/* … */\nb();\n",
		},
		{"single line comment kept", "/* note */ a();\n", "/* note */ a();\n"},
		{"only comment", "/* \"m.pyx\":1\n * x\n */\n", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PrepareCode(tc.raw); got != tc.want {
				t.Fatalf("PrepareCode(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}
