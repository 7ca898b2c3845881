package codegen

import (
	"fmt"
	"text/template"
	"time"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

// JUnit emits a JUnit 5 class built on java.net.http.
var JUnit = (&Target{
	Name:     "junit",
	FileName: "GeneratedTests.java",
	Source:   junitTemplate,
	Ident:    javaTestName,
	FuncMap: template.FuncMap{
		"quote":    javaQuote,
		"duration": javaDuration,
		"url":      javaURL,
		"verb":     javaVerb,
		"check":    javaCheck,
	},
}).build()

const junitTemplate = `// Generated by apitestc{{with .Version}} {{.}}{{end}}{{with .Source}} from {{.}}{{end}}. Do not edit.
import org.junit.jupiter.api.*;
import static org.junit.jupiter.api.Assertions.*;
import java.net.http.*;
import java.net.*;
import java.time.Duration;
import java.nio.charset.StandardCharsets;
import java.util.*;

public class {{.ClassName}} {
    static final String BASE = {{quote .BaseURL}};
    static final Duration REQUEST_TIMEOUT = {{duration .RequestTimeout}};
    static final Map<String, String> DEFAULT_HEADERS = new LinkedHashMap<>();
    static HttpClient client;

    @BeforeAll
    static void setup() {
        client = HttpClient.newBuilder()
            .connectTimeout({{duration .ConnectTimeout}})
            .build();
{{- range .DefaultHeaders}}
        DEFAULT_HEADERS.put({{quote .Name}}, {{quote .Value}});
{{- end}}
    }
{{range .Tests}}
    @Test
    @DisplayName({{quote .Name}})
    void {{.Ident}}() throws Exception {
{{- range .Calls}}
{{- $i := .Index}}
        HttpRequest.Builder b{{$i}} = HttpRequest.newBuilder(URI.create({{url .}}))
            .timeout(REQUEST_TIMEOUT)
            .{{verb .}};
        for (Map.Entry<String, String> e : DEFAULT_HEADERS.entrySet()) {
            b{{$i}}.header(e.getKey(), e.getValue());
        }
{{- range .Headers}}
        b{{$i}}.header({{quote .Name}}, {{quote .Value}});
{{- end}}
        HttpResponse<String> resp{{$i}} = client.send(b{{$i}}.build(), HttpResponse.BodyHandlers.ofString(StandardCharsets.UTF_8));
{{- range .Checks}}
        {{check $i .}}
{{- end}}
{{- end}}
    }
{{end -}}
}
`

func javaDuration(d time.Duration) string {
	n, secs := splitDuration(d)
	if secs {
		return fmt.Sprintf("Duration.ofSeconds(%d)", n)
	}
	return fmt.Sprintf("Duration.ofMillis(%d)", n)
}

func javaURL(c Call) string {
	if c.BaseRelative {
		return "BASE + " + javaQuote(c.Path)
	}
	return javaQuote(c.Path)
}

func javaVerb(c Call) string {
	switch c.Method {
	case ast.MethodGet:
		return "GET()"
	case ast.MethodDelete:
		return "DELETE()"
	}
	publisher := "HttpRequest.BodyPublishers.noBody()"
	if c.HasBody {
		publisher = "HttpRequest.BodyPublishers.ofString(" + javaQuote(c.Body) + ", StandardCharsets.UTF_8)"
	}
	return string(c.Method) + "(" + publisher + ")"
}

func javaCheck(i int, c Check) string {
	resp := fmt.Sprintf("resp%d", i)
	switch c.Kind {
	case CheckStatusEquals:
		return fmt.Sprintf("assertEquals(%d, %s.statusCode());", c.Status, resp)
	case CheckStatusInRange:
		return fmt.Sprintf("assertTrue(%[1]s.statusCode() >= %[2]d && %[1]s.statusCode() <= %[3]d, \"status \" + %[1]s.statusCode() + \" not in [%[2]d, %[3]d]\");",
			resp, c.Start, c.End)
	case CheckHeaderEquals:
		return fmt.Sprintf("assertEquals(%s, %s.headers().firstValue(%s).orElse(\"\"));", javaQuote(c.Text), resp, javaQuote(c.Name))
	case CheckHeaderContains:
		return fmt.Sprintf("assertTrue(%s.headers().firstValue(%s).orElse(\"\").contains(%s));", resp, javaQuote(c.Name), javaQuote(c.Text))
	case CheckBodyContains:
		return fmt.Sprintf("assertTrue(%s.body().contains(%s));", resp, javaQuote(c.Text))
	}
	return ""
}
