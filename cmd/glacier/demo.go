package main

import (
	"bytes"
	"html/template"
	"runtime"
)

var demoTemplate = template.Must(template.New("demo").Parse(`<html>
  <body>
    <h1>Glacier</h1>
    <p>Hello from Glacier</p>
    <pre>Go version: <code>{{.GoVersion}}</code></pre>
    <pre>Engine version: <code>{{.EngineVersion}}</code></pre>
    <pre>glacier lib version: <code>{{.LibVersion}}</code></pre>
    <script>
      window.ipc.postMessage('ping');
    </script>
  </body>
</html>
`))

// demoPage renders the page `glacier open` shows when given no content.
// Loading it round-trips a "ping" message through the bridge.
func demoPage(libVersion, engineVersion string) string {
	var buf bytes.Buffer
	err := demoTemplate.Execute(&buf, struct {
		GoVersion     string
		EngineVersion string
		LibVersion    string
	}{runtime.Version(), engineVersion, libVersion})
	if err != nil {
		// The template only interpolates strings.
		panic(err)
	}
	return buf.String()
}
