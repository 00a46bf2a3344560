// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// DocumentVersion is the version written to the root element of scene
// documents. Documents with a newer major version are read on a
// best-effort basis.
const DocumentVersion = "1.0.0"

// RootTag is the tag of the root element of scene documents.
const RootTag = "Scene"

// Element is one node element of a scene document.
type Element struct {

	// Tag is the element tag, which identifies the node class.
	Tag string

	// Attributes are the serialized fields of the node.
	Attributes Attributes
}

// Document is a parsed scene document: an ordered list of node
// elements inside a root element.
//
//	<Scene version="1.0.0">
//	 <LinearTransform id="LinearTransformNode1" name="T" matrixTransformToParent="1 0 0 0 ..." />
//	 <Model id="ModelNode1" name="M" transformNodeRef="LinearTransformNode1" />
//	</Scene>
type Document struct {

	// Version is the version of the document, or nil if missing or invalid.
	Version *semver.Version

	// Elements are the node elements in document order.
	Elements []*Element
}

// ExpectedNodeCount returns the number of node elements in the document,
// including those whose class is not registered.
func (d *Document) ExpectedNodeCount() int {
	return len(d.Elements)
}

// ParseDocument parses a scene document. Node elements nested inside
// other node elements are ignored.
func ParseDocument(r io.Reader) (*Document, error) {
	l := xml.NewLexer(parse.NewInput(r))
	d := &Document{}
	depth := 0
	var cur *Element
	inRoot := false
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() != io.EOF {
				return nil, fmt.Errorf("scene.ParseDocument: %w", l.Err())
			}
			if !inRoot {
				return nil, fmt.Errorf("scene.ParseDocument: missing <%s> root element", RootTag)
			}
			return d, nil
		case xml.StartTagToken:
			tag := string(l.Text())
			switch {
			case depth == 0:
				if tag != RootTag {
					return nil, fmt.Errorf("scene.ParseDocument: root element is <%s>, not <%s>", tag, RootTag)
				}
				inRoot = true
				cur = &Element{Tag: tag}
			case depth == 1:
				cur = &Element{Tag: tag}
				d.Elements = append(d.Elements, cur)
			default:
				slog.Debug("scene.ParseDocument: ignoring nested element", "tag", tag)
				cur = nil
			}
		case xml.AttributeToken:
			if cur == nil {
				continue
			}
			cur.Attributes.Set(string(l.Text()), unescapeAttr(unquote(l.AttrVal())))
		case xml.StartTagCloseToken:
			if depth == 0 && cur != nil {
				d.setVersion(cur.Attributes.Value("version"))
			}
			depth++
			cur = nil
		case xml.StartTagCloseVoidToken:
			if depth == 0 && cur != nil {
				d.setVersion(cur.Attributes.Value("version"))
			}
			cur = nil
		case xml.EndTagToken:
			depth--
		}
	}
}

func (d *Document) setVersion(v string) {
	if v == "" {
		return
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		slog.Warn("scene.ParseDocument: invalid document version", "version", v, "err", err)
		return
	}
	d.Version = sv
	supported := semver.MustParse(DocumentVersion)
	if sv.Major() > supported.Major() {
		slog.Warn("scene.ParseDocument: document version is newer than supported, reading what is known", "version", sv.String(), "supported", DocumentVersion, "err", ErrUnsupportedVersion)
	}
}

// Write writes the document to the given writer, with one element
// per line if indent is set.
func (d *Document) Write(w io.Writer, indent bool) error {
	bw := bufio.NewWriter(w)
	nl := ""
	if indent {
		nl = "\n"
	}
	version := DocumentVersion
	if d.Version != nil {
		version = d.Version.String()
	}
	bw.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + nl)
	bw.WriteString("<" + RootTag + ` version="` + escapeAttr(version) + `">` + nl)
	for _, el := range d.Elements {
		if indent {
			bw.WriteString(" ")
		}
		bw.WriteString("<" + el.Tag)
		for k, v := range el.Attributes.All() {
			bw.WriteString(" " + k + `="` + escapeAttr(v) + `"`)
		}
		bw.WriteString(" />" + nl)
	}
	bw.WriteString("</" + RootTag + ">" + nl)
	return bw.Flush()
}

// String returns the document as indented text.
func (d *Document) String() string {
	var b strings.Builder
	d.Write(&b, true)
	return b.String()
}

func unquote(b []byte) string {
	if len(b) >= 2 && (b[0] == '"' || b[0] == '\'') && b[len(b)-1] == b[0] {
		b = b[1 : len(b)-1]
	}
	return string(b)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

var namedEntities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
}

// unescapeAttr replaces the named and numeric character references in
// an attribute value. Unknown references are kept as they are.
func unescapeAttr(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(s, '&')
		if i < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i:]
		j := strings.IndexByte(s, ';')
		if j < 0 {
			b.WriteString(s)
			return b.String()
		}
		ent := s[1:j]
		if r, ok := namedEntities[ent]; ok {
			b.WriteString(r)
		} else if code, ok := parseCharRef(ent); ok {
			b.WriteRune(code)
		} else {
			b.WriteString(s[:j+1])
		}
		s = s[j+1:]
	}
}

func parseCharRef(ent string) (rune, bool) {
	num, ok := strings.CutPrefix(ent, "#")
	if !ok {
		return 0, false
	}
	base := 10
	if h, ok := strings.CutPrefix(num, "x"); ok {
		num, base = h, 16
	}
	v, err := strconv.ParseInt(num, base, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
