package web

import (
	"bytes"
	"fmt"
	"html/template"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// alternativeKey is the catalog key of the text browsers without WebGL
// show in place of a surface that cannot be rendered on the server either.
const alternativeKey = "Your browser does not support WebGL."

var translations = []struct {
	tag  language.Tag
	text string
}{
	{language.English, alternativeKey},
	{language.German, "Ihr Browser unterstützt kein WebGL."},
	{language.French, "Votre navigateur ne prend pas en charge WebGL."},
	{language.Spanish, "Su navegador no es compatible con WebGL."},
	{language.Dutch, "Uw browser ondersteunt geen WebGL."},
}

// catalogSet holds the alternative-content translations and the matcher
// over their languages.
type catalogSet struct {
	mu      sync.Mutex
	builder *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

func newCatalogSet() *catalogSet {
	c := &catalogSet{builder: catalog.NewBuilder(catalog.Fallback(language.English))}
	for _, t := range translations {
		c.set(t.tag, t.text)
	}
	return c
}

func (c *catalogSet) set(tag language.Tag, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.builder.SetString(tag, alternativeKey, text)
	for _, t := range c.tags {
		if t == tag {
			return
		}
	}
	c.tags = append(c.tags, tag)
	c.matcher = language.NewMatcher(c.tags)
}

// alternative returns the alternative text for an Accept-Language header.
func (c *catalogSet) alternative(acceptLanguage string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, i, _ := c.matcher.Match(tags...)
	p := message.NewPrinter(c.tags[i], message.Catalog(c.builder))
	return p.Sprintf(alternativeKey)
}

var pageTemplate = template.Must(template.New("surface").Parse(
	`<canvas id="{{.ID}}" width="{{.Width}}" height="{{.Height}}"></canvas>
<div id="{{.ID}}-alt" style="display:none">{{.Alternative}}</div>
<script src="/glsurface.js"></script>
<script>glsurface.attach({{.ID}}, (location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws/" + {{.ID}});</script>
`))

// Page renders the HTML fragment of a surface: its canvas, the hidden
// alternative content in the language best matching acceptLanguage, and
// the script tags that load the runtime and connect the websocket.
func (h *Host) Page(id, acceptLanguage string) (template.HTML, error) {
	e, ok := h.entry(id)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSurface, id)
	}
	e.mu.Lock()
	width, height := e.s.Size()
	e.mu.Unlock()

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		ID            string
		Width, Height int
		Alternative   string
	}{id, width, height, h.catalog.alternative(acceptLanguage)})
	if err != nil {
		return "", fmt.Errorf("web: page: %w", err)
	}
	return template.HTML(buf.String()), nil // #nosec G203 -- rendered by html/template
}
