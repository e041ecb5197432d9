// Copyright © 2024 The pystyle authors

package rdparser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/pystyle/parser/ast"
	"github.com/luthersystems/pystyle/parser/token"
)

func parse(t *testing.T, src string) (*ast.Module, error) {
	t.Helper()
	p := New(token.NewScanner("test.py", []byte(src)))
	return p.ParseModule()
}

func mustParse(t *testing.T, src string) *ast.Module {
	t.Helper()
	mod, err := parse(t, src)
	require.NoError(t, err, "source:\n%s", src)
	require.NotNil(t, mod)
	return mod
}

// storedNames returns the identifiers bound in a store context, in traversal
// order.
func storedNames(mod *ast.Module) []string {
	var names []string
	ast.Inspect(mod, func(n ast.Node) bool {
		if name, ok := n.(*ast.Name); ok && name.Ctx == ast.Store {
			names = append(names, name.ID)
		}
		return true
	})
	return names
}

func TestParser_valid(t *testing.T) {
	tests := []string{
		"",
		"# only a comment\n",
		"pass\n",
		"x = 1\n",
		"x = y = 2\n",
		"a, b = b, a\n",
		"x, = f()\n",
		"[a, *rest] = items\n",
		"x += 1; y -= 2;\n",
		"x: int = 5\n",
		"self.value: str\n",
		"d[k] **= 2\n",
		"print('hi', end='', *args, **kwargs)\n",
		"f(x for x in y)\n",
		"f(a)(b)[c].d\n",
		"x = a if b else c\n",
		"x = lambda a, *b, c=1, **d: a\n",
		"x = lambda: 0\n",
		"x = [i * 2 for i in range(10) if i % 2 if i]\n",
		"x = {k: v for k, v in pairs}\n",
		"x = {a for a in b}\n",
		"x = {**a, 'b': 1, **c}\n",
		"x = {1, 2, *rest}\n",
		"x = (1,)\n",
		"x = ()\n",
		"x = a[1:2, ::3, :]\n",
		"x = not a and b or c\n",
		"x = a is not b and c not in d\n",
		"x = 1 < y <= 3 != z\n",
		"x = -a ** -b\n",
		"x = a | b ^ c & d << 2 >> 1 + 3 - 4 * 5 / 6 // 7 % 8 @ m\n",
		"x = ...\n",
		"x = 'a' \"b\" '''c'''\n",
		"x = b'a' b'b'\n",
		"if (n := len(a)) > 10:\n    pass\n",
		"if a:\n    pass\nelif b:\n    pass\nelse:\n    pass\n",
		"while x:\n    break\nelse:\n    continue\n",
		"for i, (a, b) in enumerate(pairs):\n    pass\nelse:\n    pass\n",
		"for x in *a, b:\n    pass\n",
		"with open(a) as f, open(b) as g:\n    pass\n",
		"with (open(a) as f, open(b) as g,):\n    pass\n",
		"with (yield):\n    pass\n",
		"try:\n    pass\nexcept ValueError as e:\n    pass\nexcept:\n    pass\nelse:\n    pass\nfinally:\n    pass\n",
		"try:\n    pass\nexcept* (A, B):\n    pass\n",
		"try:\n    pass\nfinally:\n    pass\n",
		"def f(a, b=1, /, c=2, *args, d, e=3, **kw) -> int:\n    return a\n",
		"def f(*, a):\n    pass\n",
		"def f[T: int, *Ts, **P](x: T) -> T: return x\n",
		"@decorator\n@other.one(arg)\ndef f():\n    pass\n",
		"@dataclass\nclass A(Base, metaclass=Meta):\n    x: int = 0\n",
		"class A[T]:\n    pass\n",
		"class A:\n    def m(self):\n        pass\n\n    async def n(self):\n        await self.m()\n",
		"async def f():\n    async for x in y:\n        pass\n    async with a as b:\n        pass\n",
		"import os, sys as system\nimport a.b.c\n",
		"from . import x\nfrom ..pkg.mod import (a, b as c,)\nfrom ...x import *\n",
		"global a, b\n",
		"def f():\n    nonlocal x\n",
		"del a, b[0], c.d\n",
		"assert x, 'message'\n",
		"raise ValueError('x') from err\n",
		"raise\n",
		"def gen():\n    yield\n    yield 1, 2\n    x = yield from other()\n",
		"type Alias = list[int]\n",
		"type Pair[T] = tuple[T, T]\n",
		"type = 5\nprint(type(x))\n",
		"match = 1\nmatch(x)\nmatch.group()\n",
		"match command:\n    case 'quit':\n        pass\n    case [x, y, *rest]:\n        pass\n    case {'k': v, **others}:\n        pass\n    case Point(x=0, y=yy) | Other():\n        pass\n    case (1 | 2) as n if n > 0:\n        pass\n    case -1 | 1+2j | None | mod.CONST:\n        pass\n    case _:\n        pass\n",
		"match a, b:\n    case x, y:\n        pass\n",
		"x = \\\n    1\n",
		"x = (1 +\n     2)\n",
		"if True: x = 1; y = 2\n",
		"f(a)\n",
		"x = f'{a!r:>10}'\n",
		"x = [*a, *b]\n",
		"print(*a)\n",
		"x = a[b:=1]\n",
		"no_newline = 1",
	}
	for _, src := range tests {
		mustParse(t, src)
	}
}

func TestParser_invalid(t *testing.T) {
	tests := []struct {
		source string
		msg    string
		line   int
	}{
		{"x = = 1\n", "invalid syntax", 1},
		{"def f(:\n    pass\n", "invalid syntax", 1},
		{"f() = 1\n", "cannot assign to function call", 1},
		{"1 = x\n", "cannot assign to literal", 1},
		{"None = 1\n", "cannot assign to None", 1},
		{"x + 1 = 2\n", "cannot assign to expression", 1},
		{"for f() in x:\n    pass\n", "cannot assign to function call", 1},
		{"del f()\n", "cannot delete function call", 1},
		{"(a, b) += 1\n", "'tuple' is an illegal expression for augmented assignment", 1},
		{"a, b: int\n", "only single target (not tuple) can be annotated", 1},
		{"  x = 1\n", "unexpected indent", 1},
		{"if x:\npass\n", "expected an indented block", 2},
		{"if x\n    pass\n", "expected ':'", 1},
		{"x := 1\n", "invalid syntax", 1},
		{"print 'hello'\n", "invalid syntax", 1},
		{"def f(a=1, b):\n    pass\n", "parameter without a default follows parameter with a default", 1},
		{"def f(*):\n    pass\n", "named arguments must follow bare *", 1},
		{"f(a=1, b)\n", "positional argument follows keyword argument", 1},
		{"f(x for x in y, 1)\n", "Generator expression must be parenthesized", 1},
		{"try:\n    pass\n", "expected 'except' or 'finally' block", 3},
		{"try:\n    pass\nexcept:\n    pass\nexcept E:\n    pass\n", "default 'except:' must be last", 5},
		{"x = 'abc\n", "unterminated string literal", 1},
		{"x = (1,\n", "'(' was never closed", 1},
		{"class = 1\n", "invalid syntax", 1},
		{"x = b'a' 'b'\n", "cannot mix bytes and nonbytes literals", 1},
		{"def f[]():\n    pass\n", "type parameter list cannot be empty", 1},
		{"x = (*a)\n", "cannot use starred expression here", 1},
		{"if x:\n    y = 1\n  z = 2\n", "unindent does not match any outer indentation level", 3},
		{"x = 1 +\n", "invalid syntax", 1},
	}
	for _, test := range tests {
		t.Run(test.source, func(t *testing.T) {
			mod, err := parse(t, test.source)
			require.Error(t, err)
			assert.Nil(t, mod)
			var locErr *token.LocationError
			require.True(t, errors.As(err, &locErr))
			assert.Equal(t, test.msg, locErr.Err.Error())
			assert.Equal(t, test.line, locErr.Source.Line)
			assert.Equal(t, "test.py", locErr.Source.File)
		})
	}
}

func TestParser_functionDef(t *testing.T) {
	mod := mustParse(t, "@decorator\n@other\ndef compute(a, b=[], /, c={}, *args, d=set(), **kw):\n    pass\n")
	require.Len(t, mod.Body, 1)
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "compute", fn.Name)
	assert.False(t, fn.Async)
	assert.Equal(t, 3, fn.Source.Line, "location is the def keyword, not the first decorator")
	assert.Len(t, fn.Decorators, 2)

	require.Len(t, fn.Args.PosOnly, 2)
	assert.Equal(t, "a", fn.Args.PosOnly[0].Name)
	require.Len(t, fn.Args.Args, 1)
	assert.Equal(t, "c", fn.Args.Args[0].Name)
	require.NotNil(t, fn.Args.Vararg)
	assert.Equal(t, "args", fn.Args.Vararg.Name)
	require.Len(t, fn.Args.KwOnly, 1)
	assert.Equal(t, "d", fn.Args.KwOnly[0].Name)
	require.NotNil(t, fn.Args.Kwarg)
	assert.Equal(t, "kw", fn.Args.Kwarg.Name)

	require.Len(t, fn.Args.Defaults, 2)
	assert.IsType(t, &ast.List{}, fn.Args.Defaults[0])
	assert.IsType(t, &ast.Dict{}, fn.Args.Defaults[1])
	require.Len(t, fn.Args.KwDefaults, 1)
	assert.IsType(t, &ast.Call{}, fn.Args.KwDefaults[0])
}

func TestParser_asyncFunctionDef(t *testing.T) {
	mod := mustParse(t, "async def fetch(url):\n    return await get(url)\n")
	fn, ok := mod.Body[0].(*ast.FunctionDef)
	require.True(t, ok)
	assert.True(t, fn.Async)
	assert.Equal(t, "fetch", fn.Name)
}

func TestParser_storeContext(t *testing.T) {
	src := `a = 1
b, [c, *d] = x
e += 1
f: int = 2
for g in h:
    pass
with open(p) as i:
    pass
j = [k for k in l]
if (m := 3):
    pass
type N = int
obj.attr = 4
del o
import q
try:
    pass
except E as r:
    pass
def s(t):
    global u
match v:
    case w:
        pass
f2 = lambda lam: lam
`
	mod := mustParse(t, src)
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f", "g", "i", "j", "k", "m", "N", "f2"}, storedNames(mod))
}

func TestParser_deleteContext(t *testing.T) {
	mod := mustParse(t, "del a, b\n")
	del, ok := mod.Body[0].(*ast.Delete)
	require.True(t, ok)
	require.Len(t, del.Targets, 2)
	for _, target := range del.Targets {
		name, ok := target.(*ast.Name)
		require.True(t, ok)
		assert.Equal(t, ast.Del, name.Ctx)
	}
}

func TestParser_nameLocations(t *testing.T) {
	mod := mustParse(t, "x = 1\n\nif x:\n    total = (\n        2)\n")
	var lines []int
	ast.Inspect(mod, func(n ast.Node) bool {
		if name, ok := n.(*ast.Name); ok && name.Ctx == ast.Store {
			lines = append(lines, ast.Line(name))
		}
		return true
	})
	assert.Equal(t, []int{1, 4}, lines)
}

func TestParser_softKeywords(t *testing.T) {
	mod := mustParse(t, "match = re.match(p, s)\nmatch match:\n    case _:\n        pass\n")
	require.Len(t, mod.Body, 2)
	assert.IsType(t, &ast.Assign{}, mod.Body[0])
	m, ok := mod.Body[1].(*ast.Match)
	require.True(t, ok)
	require.Len(t, m.Cases, 1)
	as, ok := m.Cases[0].Pattern.(*ast.MatchAs)
	require.True(t, ok)
	assert.Empty(t, as.Name)
	assert.Nil(t, as.Pattern)
}

func TestParser_matchPatterns(t *testing.T) {
	mod := mustParse(t, "match p:\n    case Point(x=0, y=y) as pt:\n        pass\n    case [first, *others]:\n        pass\n")
	m := mod.Body[0].(*ast.Match)
	require.Len(t, m.Cases, 2)

	as, ok := m.Cases[0].Pattern.(*ast.MatchAs)
	require.True(t, ok)
	assert.Equal(t, "pt", as.Name)
	class, ok := as.Pattern.(*ast.MatchClass)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, class.KwdAttrs)
	assert.IsType(t, &ast.MatchValue{}, class.KwdPatterns[0])

	seq, ok := m.Cases[1].Pattern.(*ast.MatchSequence)
	require.True(t, ok)
	require.Len(t, seq.Patterns, 2)
	star, ok := seq.Patterns[1].(*ast.MatchStar)
	require.True(t, ok)
	assert.Equal(t, "others", star.Name)
}

func TestParser_chainedAssign(t *testing.T) {
	mod := mustParse(t, "a = b = c\n")
	assign := mod.Body[0].(*ast.Assign)
	require.Len(t, assign.Targets, 2)
	assert.Equal(t, "c", assign.Value.(*ast.Name).ID)
	assert.Equal(t, ast.Load, assign.Value.(*ast.Name).Ctx)
}

func TestParser_tokenGenerator(t *testing.T) {
	loc := &token.Location{File: "gen", Line: 1, Col: 1}
	toks := []*token.Token{
		{Type: token.NAME, Text: "x", Source: loc},
		{Type: token.COMMENT, Text: "# ignored", Source: loc},
		{Type: token.ERROR, Text: "broken stream", Source: loc},
	}
	src := NewTokenStreamSource(TokenGenerator(func() []*token.Token {
		tok := toks[0]
		if len(toks) > 1 {
			toks = toks[1:]
		}
		return []*token.Token{tok}
	}))
	_, err := NewFromSource(src).ParseModule()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken stream")
}

func TestTokenSource_markReset(t *testing.T) {
	src := NewTokenSource(token.NewScanner("test.py", []byte("a b c")))
	require.True(t, src.Scan())
	mark := src.Mark()
	require.True(t, src.Scan())
	assert.Equal(t, "b", src.Token.Text)
	src.Reset(mark)
	assert.Equal(t, "a", src.Token.Text)
	assert.Equal(t, "b", src.Peek().Text)
	assert.Equal(t, "c", src.PeekN(1).Text)
	assert.Equal(t, token.EOF, src.PeekN(10).Type)
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		source     string
		incomplete bool
	}{
		{"x = 1\n", false},
		{"x = (1,\n", true},
		{"s = '''abc\n", true},
		{"x = 1 + \\\n", true},
		{"def f():\n", true},
		{"def f():\n    return 1\n", true},
		{"def f():\n    return 1\n\n", false},
		{"if x: pass\n", false},
		{"x = $\n", false},
		{"class A:  # comment\n", true},
	}
	for _, test := range tests {
		assert.Equal(t, test.incomplete, Incomplete([]byte(test.source)), "source: %q", test.source)
	}
}
