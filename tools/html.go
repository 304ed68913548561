package tools

import (
	"fmt"
	"html"
	"io"

	"github.com/Comcast/p3/core"

	md "github.com/russross/blackfriday/v2"
)

// RenderHTML writes the P3's objects and rule tables as HTML.  The
// doc, which is Markdown, comes first.
func RenderHTML(p *core.P3, out io.Writer, doc string) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if doc != "" {
		f(`<div class="p3Doc doc">%s</div>`, md.Run([]byte(doc)))
	}

	d := Describe(p)

	{ // Objects
		f(`<div class="objects"><table>`)
		for _, id := range p.Keys() {
			f(`<tr class="object"><td><span id="%s" class="objectId">%s</span></td><td><code>%s</code></td></tr>`,
				html.EscapeString(id), html.EscapeString(id), html.EscapeString(d.Objects[id]))
		}
		f(`</table></div>`)
	}

	for _, t := range d.Tables {
		f(`<div class="rules"><h2 class="event">%s</h2>`, html.EscapeString(t.Event))
		f(`<table>`)
		for i, r := range t.Rules {
			f(`<tr><td><div class="ruleNum">%d</div></td>`, i)
			f(`<td><code>%s</code></td><td>`, html.EscapeString(r.Match))
			for _, proc := range r.Processors {
				f(`<div class="processor"><code>%s</code></div>`, html.EscapeString(proc))
			}
			f(`</td></tr>`)
		}
		f(`</table></div>`)
	}

	if 0 < len(d.Diagnostics) {
		f(`<div class="diagnostics"><ul>`)
		for _, diag := range d.Diagnostics {
			f(`<li>%s</li>`, html.EscapeString(diag))
		}
		f(`</ul></div>`)
	}

	return nil
}

// RenderPage writes a complete HTML page.
func RenderPage(p *core.P3, out io.Writer, title, doc string, cssFiles []string) error {

	if cssFiles == nil {
		cssFiles = []string{"/static/p3-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, html.EscapeString(title))

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, html.EscapeString(title))

	if err := RenderHTML(p, out, doc); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}
