package codegen

import (
	goast "go/ast"
	goparser "go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
	"github.com/abdul-hamid-achik/apitestc/packages/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const getUserProgram = `config { base_url "http://api.example.com" header "X-Key" "abc" }
var id = 42
test "GetUser" {
  request GET "/users/$id"
  expect status 200
  expect body contains "name"
}`

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(input, "gen.test")
	require.NoError(t, err)
	return prog
}

func generateGo(t *testing.T, input string, opts ...Option) (string, *goast.File) {
	t.Helper()
	out, err := New(opts...).GenerateProgram(mustParse(t, input))
	require.NoError(t, err)
	file, err := goparser.ParseFile(token.NewFileSet(), "generated_test.go", out, goparser.ParseComments)
	require.NoError(t, err, "generated source:\n%s", out)
	return string(out), file
}

func findFunc(file *goast.File, name string) *goast.FuncDecl {
	for _, decl := range file.Decls {
		if fn, ok := decl.(*goast.FuncDecl); ok && fn.Name.Name == name {
			return fn
		}
	}
	return nil
}

// countCalls counts calls of the form pkg.Fn(...) inside n.
func countCalls(n goast.Node, pkg string) int {
	count := 0
	goast.Inspect(n, func(node goast.Node) bool {
		call, ok := node.(*goast.CallExpr)
		if !ok {
			return true
		}
		if sel, ok := call.Fun.(*goast.SelectorExpr); ok {
			if id, ok := sel.X.(*goast.Ident); ok && id.Name == pkg {
				count++
			}
		}
		return true
	})
	return count
}

func imports(file *goast.File) []string {
	var paths []string
	for _, imp := range file.Imports {
		p, _ := strconv.Unquote(imp.Path.Value)
		paths = append(paths, p)
	}
	return paths
}

func TestGenerate_GetUser(t *testing.T) {
	out, file := generateGo(t, getUserProgram, WithSource("users.test"))

	assert.Equal(t, "apitest", file.Name.Name)
	assert.True(t, strings.HasPrefix(out, "// Code generated by apitestc from users.test. DO NOT EDIT.\n"))
	assert.Contains(t, out, `"http://api.example.com"`)
	assert.Contains(t, out, `{"X-Key", "abc"}`)
	assert.Contains(t, out, `"/users/42"`)
	assert.NotContains(t, out, "$id")

	require.NotNil(t, findFunc(file, "TestMain"))
	require.NotNil(t, findFunc(file, "setup"))
	fn := findFunc(file, "TestGetUser")
	require.NotNil(t, fn)
	assert.Equal(t, 2, countCalls(fn, "assert"))
	assert.Contains(t, out, "assert.Equal(t, 200, resp1.StatusCode)")
	assert.Contains(t, out, `assert.Contains(t, body1, "name")`)
}

func TestGenerate_EveryAssertionAfterEveryRequest(t *testing.T) {
	_, file := generateGo(t, `test "Multi" {
  request GET "/a"
  request DELETE "/b"
  expect status 200
  expect header "Content-Type" contains "json"
}`)
	fn := findFunc(file, "TestMulti")
	require.NotNil(t, fn)
	assert.Equal(t, 4, countCalls(fn, "assert"))

	var sends int
	goast.Inspect(fn, func(n goast.Node) bool {
		if call, ok := n.(*goast.CallExpr); ok {
			if id, ok := call.Fun.(*goast.Ident); ok && id.Name == "send" {
				sends++
			}
		}
		return true
	})
	assert.Equal(t, 2, sends)
}

func TestGenerate_SuiteChecks(t *testing.T) {
	prog := mustParse(t, `test "T" {
  request GET "/1"
  request GET "/2"
  request GET "/3"
  expect status 200
  expect status 201
}`)
	s := New().Suite(prog.Config(), prog.Variables(), prog.Tests())
	require.Len(t, s.Tests, 1)
	require.Len(t, s.Tests[0].Calls, 3)
	for i, c := range s.Tests[0].Calls {
		assert.Equal(t, i+1, c.Index)
		assert.Len(t, c.Checks, 2)
	}
	assert.Equal(t, 6, s.CheckCount())
}

func TestGenerate_FallbackBaseURL(t *testing.T) {
	input := `test "T" { request GET "/ping" expect status 200 expect status 201 }`

	out, _ := generateGo(t, input)
	assert.Contains(t, out, `"http://localhost:8080"`)

	out, _ = generateGo(t, input, WithFallbackBaseURL("http://staging:9000"))
	assert.Contains(t, out, `"http://staging:9000"`)

	out, _ = generateGo(t, `config { base_url "http://cfg" }`+input, WithFallbackBaseURL("http://staging:9000"))
	assert.Contains(t, out, `"http://cfg"`)
	assert.NotContains(t, out, "staging")
}

func TestGenerate_AbsolutePathIsNotJoined(t *testing.T) {
	out, _ := generateGo(t, `test "T" { request GET "https://other.example.com/x" expect status 200 expect status 201 }`)
	assert.Contains(t, out, `newRequest(t, http.MethodGet, "https://other.example.com/x", nil)`)
}

func TestGenerate_Bodies(t *testing.T) {
	out, file := generateGo(t, `var name = "ann"
test "Bodies" {
  request GET "/get" body "dropped"
  request POST "/post" body "{\"name\": \"$name\"}"
  request PUT "/put"
  request DELETE "/delete"
  expect status 200
  expect status 201
}`)
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, `strings.NewReader("{\"name\": \"ann\"}")`)
	assert.Contains(t, out, `newRequest(t, http.MethodPut, baseURL+"/put", http.NoBody)`)
	assert.Contains(t, imports(file), "strings")
}

func TestGenerate_NoBodyNoStringsImport(t *testing.T) {
	_, file := generateGo(t, getUserProgram)
	assert.NotContains(t, imports(file), "strings")
	assert.Contains(t, imports(file), "github.com/stretchr/testify/assert")
	assert.Contains(t, imports(file), "github.com/stretchr/testify/require")
}

func TestGenerate_HeaderOrder(t *testing.T) {
	out, _ := generateGo(t, `config { header "Accept" "text/plain" }
var tok = "secret"
test "H" {
  request GET "/h"
    header "Accept" "application/json"
    header "Authorization" "Bearer $tok"
  expect status 200
  expect header "Content-Type" "application/json"
}`)
	defaults := strings.Index(out, `{"Accept", "text/plain"}`)
	specific := strings.Index(out, `req1.Header.Add("Accept", "application/json")`)
	auth := strings.Index(out, `req1.Header.Add("Authorization", "Bearer secret")`)
	require.True(t, defaults >= 0 && specific >= 0 && auth >= 0, out)
	assert.Less(t, defaults, specific)
	assert.Less(t, specific, auth)
	assert.Contains(t, out, `assert.Equal(t, "application/json", resp1.Header.Get("Content-Type"))`)
}

func TestGenerate_UnusedResultsAreDiscarded(t *testing.T) {
	out, _ := generateGo(t, `test "S" { request GET "/" expect status 200 expect status range 200 299 }`)
	assert.Contains(t, out, "resp1, _ := send(t, req1)")
	assert.Contains(t, out, `resp1.StatusCode >= 200 && resp1.StatusCode <= 299`)

	out, _ = generateGo(t, `test "B" { request GET "/" expect body contains "a" expect body contains "b" }`)
	assert.Contains(t, out, "_, body1 := send(t, req1)")
}

func TestGenerate_EscapedLiteralsRoundTrip(t *testing.T) {
	body := "line one\nline \"two\"\twith \\ and \r"
	_, file := generateGo(t, `test "E" { request POST "/e" body "line one\nline \"two\"\twith \\ and \r" expect status 200 expect status 201 }`)

	var found bool
	goast.Inspect(file, func(n goast.Node) bool {
		call, ok := n.(*goast.CallExpr)
		if !ok {
			return true
		}
		sel, ok := call.Fun.(*goast.SelectorExpr)
		if !ok || sel.Sel.Name != "NewReader" || len(call.Args) != 1 {
			return true
		}
		lit, ok := call.Args[0].(*goast.BasicLit)
		require.True(t, ok)
		got, err := strconv.Unquote(lit.Value)
		require.NoError(t, err)
		assert.Equal(t, body, got)
		found = true
		return false
	})
	assert.True(t, found)
}

func TestGenerate_TestNames(t *testing.T) {
	prog := mustParse(t, `
test "get user" { }
test "Get-User" { }
test "Main" { }
test "über prüfung 2" { }
test "!!!" { }`)
	s := New().Suite(nil, nil, prog.Tests())

	idents := make([]string, 0, len(s.Tests))
	for _, f := range s.Tests {
		idents = append(idents, f.Ident)
	}
	assert.Equal(t, []string{"TestGetUser", "TestGetUser_2", "TestMain_2", "TestÜberPrüfung2", "TestUnnamed"}, idents)
}

func TestGenerate_Timeouts(t *testing.T) {
	out, _ := generateGo(t, getUserProgram, WithTimeouts(1500*time.Millisecond, 2*time.Second))
	assert.Contains(t, out, "1500 * time.Millisecond")
	assert.Contains(t, out, "2 * time.Second")

	out, _ = generateGo(t, getUserProgram)
	assert.Contains(t, out, "5 * time.Second")
	assert.Contains(t, out, "10 * time.Second")
}

func TestGenerate_PackageName(t *testing.T) {
	_, file := generateGo(t, getUserProgram, WithPackage("usersapi"))
	assert.Equal(t, "usersapi", file.Name.Name)
}

func TestGenerate_Deterministic(t *testing.T) {
	prog := mustParse(t, getUserProgram)
	g := New()
	first, err := g.GenerateProgram(prog)
	require.NoError(t, err)
	second, err := g.GenerateProgram(prog)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerate_NilConfigAndVariables(t *testing.T) {
	prog := mustParse(t, `test "T" { request GET "/$id" expect status 200 expect status 201 }`)
	out, err := New().Generate(nil, nil, prog.Tests())
	require.NoError(t, err)
	assert.Contains(t, string(out), `"/$id"`)
}

func TestGenerate_FormatErrorIsReported(t *testing.T) {
	_, err := New(WithPackage("not a package")).GenerateProgram(mustParse(t, getUserProgram))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "formatting go output")
}

func TestJUnitTarget(t *testing.T) {
	g := New(WithTarget(JUnit), WithClassName("UserApiTests"))
	out, err := g.GenerateProgram(mustParse(t, `config { base_url "http://api.example.com" header "X-Key" "abc" }
var id = 42
test "GetUser" {
  request GET "/users/$id"
  request POST "/users" body "{\"id\": $id}"
  expect status 200
  expect body contains "name"
}`))
	require.NoError(t, err)
	src := string(out)

	assert.Contains(t, src, "public class UserApiTests {")
	assert.Contains(t, src, "@BeforeAll")
	assert.Contains(t, src, `DEFAULT_HEADERS.put("X-Key", "abc");`)
	assert.Contains(t, src, `static final String BASE = "http://api.example.com";`)
	assert.Contains(t, src, `@DisplayName("GetUser")`)
	assert.Contains(t, src, "void test_GetUser() throws Exception {")
	assert.Contains(t, src, `URI.create(BASE + "/users/42")`)
	assert.Contains(t, src, `.POST(HttpRequest.BodyPublishers.ofString("{\"id\": 42}", StandardCharsets.UTF_8))`)
	assert.Contains(t, src, "HttpResponse<String> resp2 =")
	assert.Contains(t, src, "Duration.ofSeconds(5)")
	assert.Equal(t, 4, strings.Count(src, "        assert"))
	assert.Equal(t, "junit", g.Target().Name)
}

func TestGenerate_HeaderSourceIsCommentSafe(t *testing.T) {
	source := "evil\npackage main\\u000a\x00.test"
	want := "from evil_package main_u000a_.test."

	out, _ := generateGo(t, getUserProgram, WithSource(source), WithVersion("v1\r\n"))
	assert.True(t, strings.HasPrefix(out, "// Code generated by apitestc v1__ "+want+" DO NOT EDIT.\n"), out)

	java, err := New(WithTarget(JUnit), WithSource(source)).GenerateProgram(mustParse(t, getUserProgram))
	require.NoError(t, err)
	firstLine, _, _ := strings.Cut(string(java), "\n")
	assert.Equal(t, "// Generated by apitestc "+want+" Do not edit.", firstLine)
}

func TestLookupTarget(t *testing.T) {
	tgt, err := LookupTarget("go")
	require.NoError(t, err)
	assert.Same(t, Go, tgt)

	_, err = LookupTarget("python")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "python"`)
	assert.Equal(t, []string{"go", "junit"}, Targets())
}
