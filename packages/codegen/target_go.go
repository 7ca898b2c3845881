package codegen

import (
	"fmt"
	"go/format"
	"text/template"
	"time"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

// Go emits a _test.go file for the testing package with testify
// assertions.
var Go = (&Target{
	Name:     "go",
	FileName: "generated_test.go",
	Source:   goTemplate,
	Ident:    goTestName,
	Reserved: []string{"TestMain"},
	Format:   format.Source,
	FuncMap: template.FuncMap{
		"quote":     goQuote,
		"duration":  goDuration,
		"method":    goMethod,
		"url":       goURL,
		"body":      goBody,
		"receivers": goReceivers,
		"check":     goCheck,
	},
}).build()

const goTemplate = `// Code generated by apitestc{{with .Version}} {{.}}{{end}}{{with .Source}} from {{.}}{{end}}. DO NOT EDIT.

package {{.Package}}

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
{{- if .UsesBody}}
	"strings"
{{- end}}
	"testing"
	"time"

{{if .HasChecks}}	"github.com/stretchr/testify/assert"
{{end}}	"github.com/stretchr/testify/require"
)

const (
	baseURL        = {{quote .BaseURL}}
	connectTimeout = {{duration .ConnectTimeout}}
	requestTimeout = {{duration .RequestTimeout}}
)

var (
	client         *http.Client
	defaultHeaders [][2]string
)

func TestMain(m *testing.M) {
	setup()
	os.Exit(m.Run())
}

// setup runs once before any test.
func setup() {
	client = &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
		},
	}
	defaultHeaders = [][2]string{
{{- range .DefaultHeaders}}
		{ {{- quote .Name}}, {{quote .Value -}} },
{{- end}}
	}
}

// newRequest builds a request bounded by requestTimeout and carrying the
// default headers.
func newRequest(t *testing.T, method, url string, body io.Reader) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	require.NoError(t, err)
	for _, h := range defaultHeaders {
		req.Header.Add(h[0], h[1])
	}
	return req
}

// send performs req and returns the response with its body read as text.
func send(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(raw)
}
{{range .Tests}}
// {{.Ident}} runs test {{quote .Name}}.
func {{.Ident}}(t *testing.T) {
{{- range .Calls}}
{{- $i := .Index}}
	req{{$i}} := newRequest(t, {{method .Method}}, {{url .}}, {{body .}})
{{- range .Headers}}
	req{{$i}}.Header.Add({{quote .Name}}, {{quote .Value}})
{{- end}}
	{{receivers .}}send(t, req{{$i}})
{{- range .Checks}}
	{{check $i .}}
{{- end}}
{{end -}}
}
{{end}}`

func goDuration(d time.Duration) string {
	n, secs := splitDuration(d)
	if secs {
		return fmt.Sprintf("%d * time.Second", n)
	}
	return fmt.Sprintf("%d * time.Millisecond", n)
}

func goMethod(m ast.Method) string {
	switch m {
	case ast.MethodGet:
		return "http.MethodGet"
	case ast.MethodPost:
		return "http.MethodPost"
	case ast.MethodPut:
		return "http.MethodPut"
	case ast.MethodDelete:
		return "http.MethodDelete"
	}
	return goQuote(string(m))
}

func goURL(c Call) string {
	if c.BaseRelative {
		return "baseURL + " + goQuote(c.Path)
	}
	return goQuote(c.Path)
}

func goBody(c Call) string {
	switch {
	case c.HasBody:
		return "strings.NewReader(" + goQuote(c.Body) + ")"
	case c.Method.TakesBody():
		return "http.NoBody"
	default:
		return "nil"
	}
}

// goReceivers names only the send results the checks read, so the
// generated code has no unused variables.
func goReceivers(c Call) string {
	resp, body := "_", "_"
	if c.UsesResponse() {
		resp = fmt.Sprintf("resp%d", c.Index)
	}
	if c.UsesBody() {
		body = fmt.Sprintf("body%d", c.Index)
	}
	if resp == "_" && body == "_" {
		return ""
	}
	return resp + ", " + body + " := "
}

func goCheck(i int, c Check) string {
	resp := fmt.Sprintf("resp%d", i)
	switch c.Kind {
	case CheckStatusEquals:
		return fmt.Sprintf("assert.Equal(t, %d, %s.StatusCode)", c.Status, resp)
	case CheckStatusInRange:
		return fmt.Sprintf("assert.True(t, %[1]s.StatusCode >= %[2]d && %[1]s.StatusCode <= %[3]d, \"status %%d not in [%[2]d, %[3]d]\", %[1]s.StatusCode)",
			resp, c.Start, c.End)
	case CheckHeaderEquals:
		return fmt.Sprintf("assert.Equal(t, %s, %s.Header.Get(%s))", goQuote(c.Text), resp, goQuote(c.Name))
	case CheckHeaderContains:
		return fmt.Sprintf("assert.Contains(t, %s.Header.Get(%s), %s)", resp, goQuote(c.Name), goQuote(c.Text))
	case CheckBodyContains:
		return fmt.Sprintf("assert.Contains(t, body%d, %s)", i, goQuote(c.Text))
	}
	return ""
}
