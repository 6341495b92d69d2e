package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/abhisek/papergen/internal/questiongen"
)

const (
	docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	emuPerInch    = 914400
	docxLogoWidth = emuPerInch * 3 / 2 // 1.5in
)

// DOCXRenderer renders question papers as Word documents.
type DOCXRenderer struct {
	opts Options
}

// NewDOCXRenderer creates a DOCXRenderer.
func NewDOCXRenderer(opts Options) *DOCXRenderer {
	return &DOCXRenderer{opts: opts}
}

func (r *DOCXRenderer) ContentType() string { return docxContentType }

func (r *DOCXRenderer) Filename() string { return "question_paper.docx" }

type docxLogo struct {
	Ext    string
	Mime   string
	Width  int64 // EMU
	Height int64 // EMU
}

type docxData struct {
	Institution string
	Heading     string
	Name        string
	USN         string
	Questions   []string
	Logo        *docxLogo
}

func (r *DOCXRenderer) Render(w io.Writer, qs *questiongen.QuestionSet) error {
	branding := qs.Branding.WithDefaults()

	data := docxData{
		Institution: branding.Institution,
		Heading:     heading(branding),
		Name:        placeholder("Name", nameUnderscoresDOCX),
		USN:         placeholder("USN", nameUnderscoresDOCX),
		Questions:   numbered(qs),
	}

	var logo *Logo
	if len(branding.Logo) > 0 {
		l, err := PrepareLogo(branding.Logo)
		if err != nil {
			r.opts.logger().Warn("skipping logo", "error", err)
		} else {
			logo = l
			data.Logo = &docxLogo{
				Ext:    l.Ext(),
				Mime:   "image/" + l.Format,
				Width:  docxLogoWidth,
				Height: int64(docxLogoWidth) * int64(l.Height) / int64(l.Width),
			}
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	parts := []struct {
		name string
		tmpl *template.Template
	}{
		{"[Content_Types].xml", contentTypesTmpl},
		{"_rels/.rels", rootRelsTmpl},
		{"docProps/core.xml", corePropsTmpl},
		{"word/document.xml", documentTmpl},
		{"word/styles.xml", stylesTmpl},
		{"word/_rels/document.xml.rels", documentRelsTmpl},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("create %s: %w", p.name, err)
		}
		if err := p.tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("render %s: %w", p.name, err)
		}
	}

	if logo != nil {
		f, err := zw.Create("word/media/logo." + logo.Ext())
		if err != nil {
			return fmt.Errorf("create logo part: %w", err)
		}
		if _, err := f.Write(logo.Data); err != nil {
			return fmt.Errorf("write logo part: %w", err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("close docx: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func escapeXML(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func parseTemplate(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(template.FuncMap{"xml": escapeXML}).Parse(text))
}

var contentTypesTmpl = parseTemplate("content-types", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
{{- with .Logo}}
<Default Extension="{{.Ext}}" ContentType="{{.Mime}}"/>
{{- end}}
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>
`)

var rootRelsTmpl = parseTemplate("rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>
`)

var corePropsTmpl = parseTemplate("core", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>{{xml .Heading}}</dc:title>
<dc:creator>papergen</dc:creator>
</cp:coreProperties>
`)

var documentRelsTmpl = parseTemplate("document-rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rIdStyles" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
{{- with .Logo}}
<Relationship Id="rIdLogo" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/logo.{{.Ext}}"/>
{{- end}}
</Relationships>
`)

var stylesTmpl = parseTemplate("styles", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:docDefaults>
<w:rPrDefault><w:rPr><w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:cs="Calibri"/><w:sz w:val="22"/></w:rPr></w:rPrDefault>
<w:pPrDefault><w:pPr><w:spacing w:after="160" w:line="259" w:lineRule="auto"/></w:pPr></w:pPrDefault>
</w:docDefaults>
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:rPr><w:sz w:val="56"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="heading 1"/><w:basedOn w:val="Normal"/><w:next w:val="Normal"/><w:pPr><w:keepNext/><w:spacing w:before="240"/><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
</w:styles>
`)

var documentTmpl = parseTemplate("document", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">
<w:body>
{{- with .Logo}}
<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0"><wp:extent cx="{{.Width}}" cy="{{.Height}}"/><wp:docPr id="1" name="Logo"/><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture"><pic:pic><pic:nvPicPr><pic:cNvPr id="0" name="logo.{{.Ext}}"/><pic:cNvPicPr/></pic:nvPicPr><pic:blipFill><a:blip r:embed="rIdLogo"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill><pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="{{.Width}}" cy="{{.Height}}"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr></pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>
{{- end}}
<w:p><w:pPr><w:pStyle w:val="Title"/><w:jc w:val="center"/></w:pPr><w:r><w:t xml:space="preserve">{{xml .Institution}}</w:t></w:r></w:p>
<w:p><w:pPr><w:pStyle w:val="Heading1"/><w:jc w:val="center"/></w:pPr><w:r><w:t xml:space="preserve">{{xml .Heading}}</w:t></w:r></w:p>
<w:p><w:r><w:t>{{.Name}}</w:t></w:r><w:r><w:tab/><w:tab/><w:tab/><w:tab/></w:r><w:r><w:t>{{.USN}}</w:t></w:r></w:p>
<w:p/>
{{- range .Questions}}
<w:p><w:r><w:t xml:space="preserve">{{xml .}}</w:t></w:r></w:p>
{{- end}}
<w:sectPr><w:pgSz w:w="11906" w:h="16838"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>
</w:body>
</w:document>
`)
