// Copyright (c) 2025, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/Masterminds/semver/v3"

	"cogentcore.org/vizscene/base/errors"
	"cogentcore.org/vizscene/base/iox"
)

var (
	// ErrNoSource is returned when a document is loaded from a scene
	// that has neither a URL nor an in-memory source.
	ErrNoSource = errors.New("scene: no document source")

	// ErrUnsupportedVersion is reported for documents whose major
	// version is newer than [DocumentVersion].
	ErrUnsupportedVersion = errors.New("scene: unsupported document version")

	errNumberCount = errors.New("wrong number of values")
)

// Decoder decodes a scene document from a reader into a [*Document],
// or imports it into a [*Scene]. It is an [iox.Decoder].
type Decoder struct {
	r io.Reader
}

// NewDecoder returns a new [Decoder] for the given reader.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode decodes into v, which must be a *Document or a *Scene.
func (dc *Decoder) Decode(v any) error {
	switch v := v.(type) {
	case *Document:
		d, err := ParseDocument(dc.r)
		if err != nil {
			return err
		}
		*v = *d
		return nil
	case *Scene:
		_, err := v.ImportReader(dc.r)
		return err
	}
	return fmt.Errorf("scene.Decoder: cannot decode into %T", v)
}

// Encoder encodes a [*Scene] or a [*Document] to a writer.
// It is an [iox.Encoder].
type Encoder struct {
	w io.Writer

	// Indent is whether to write one element per line.
	Indent bool
}

// NewEncoder returns a new [Encoder] for the given writer.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, Indent: true}
}

// Encode encodes v, which must be a *Scene or a *Document.
func (ec *Encoder) Encode(v any) error {
	switch v := v.(type) {
	case *Document:
		return v.Write(ec.w, ec.Indent)
	case *Scene:
		return v.Document(false).Write(ec.w, ec.Indent)
	}
	return fmt.Errorf("scene.Encoder: cannot encode %T", v)
}

// OpenDocument reads the scene document in the given file.
func OpenDocument(filename string) (*Document, error) {
	d := &Document{}
	err := iox.Open(d, filename, iox.NewDecoderFunc(NewDecoder))
	return d, err
}

// SetURL sets the file that [Scene.Connect], [Scene.Import] and
// [Scene.Commit] use.
func (sc *Scene) SetURL(url string) {
	sc.url = url
}

// URL returns the file set with [Scene.SetURL].
func (sc *Scene) URL() string {
	return sc.url
}

// SetLoadFromString sets whether [Scene.Connect] and [Scene.Import]
// read the in-memory scene string instead of the URL.
func (sc *Scene) SetLoadFromString(on bool) {
	sc.loadFromString = on
}

// SetSaveToString sets whether [Scene.Commit] writes the in-memory
// scene string instead of a file.
func (sc *Scene) SetSaveToString(on bool) {
	sc.saveToString = on
}

// SetSceneString sets the in-memory scene string.
func (sc *Scene) SetSceneString(s string) {
	sc.sceneString = s
}

// SceneString returns the in-memory scene string.
func (sc *Scene) SceneString() string {
	return sc.sceneString
}

// LastLoadedVersion returns the version of the last document that
// was read, or nil.
func (sc *Scene) LastLoadedVersion() *semver.Version {
	return sc.lastVersion
}

// Document returns the document of the nodes of the scene in insertion
// order. Unless all is set, nodes with SaveWithScene off are skipped.
func (sc *Scene) Document(all bool) *Document {
	d := &Document{Version: semver.MustParse(DocumentVersion)}
	for _, n := range sc.order {
		nb := n.AsNode()
		if !all && !nb.SaveWithScene {
			continue
		}
		el := &Element{Tag: n.TagName()}
		n.WriteAttributes(&el.Attributes)
		d.Elements = append(d.Elements, el)
	}
	return d
}

// Write writes the scene document to the given writer.
func (sc *Scene) Write(w io.Writer) error {
	return sc.Document(false).Write(w, sc.Indent)
}

// Serialize returns the scene document as a string.
func (sc *Scene) Serialize() (string, error) {
	var b strings.Builder
	err := sc.Write(&b)
	return b.String(), err
}

// Commit writes the scene document to the given file, or to the URL
// of the scene if it is empty, or to the in-memory scene string if
// [Scene.SetSaveToString] is on.
func (sc *Scene) Commit(url string) error {
	if sc.saveToString {
		s, err := sc.Serialize()
		if err != nil {
			return err
		}
		sc.sceneString = s
		return nil
	}
	if url == "" {
		url = sc.url
	}
	if url == "" {
		return fmt.Errorf("scene.Scene.Commit: %w", ErrNoSource)
	}
	ec := func(w io.Writer) *Encoder {
		e := NewEncoder(w)
		e.Indent = sc.Indent
		return e
	}
	if err := iox.Save(sc, url, iox.NewEncoderFunc(ec)); err != nil {
		return fmt.Errorf("scene.Scene.Commit: %w", err)
	}
	return nil
}

// loadDocument reads the document from the in-memory string or the URL.
func (sc *Scene) loadDocument() (*Document, error) {
	if sc.loadFromString {
		return ParseDocument(strings.NewReader(sc.sceneString))
	}
	if sc.url == "" {
		return nil, ErrNoSource
	}
	return OpenDocument(sc.url)
}

// Connect clears the scene and loads the document from the in-memory
// string or the URL.
func (sc *Scene) Connect() (ImportResult, error) {
	d, err := sc.loadDocument()
	if err != nil {
		return ImportResult{}, fmt.Errorf("scene.Scene.Connect: %w", err)
	}
	sc.Clear(false)
	return sc.ImportDocument(d), nil
}

// Import merges the document from the in-memory string or the URL into
// the scene. See [Scene.ImportDocument].
func (sc *Scene) Import() (ImportResult, error) {
	d, err := sc.loadDocument()
	if err != nil {
		return ImportResult{}, fmt.Errorf("scene.Scene.Import: %w", err)
	}
	return sc.ImportDocument(d), nil
}

// ImportReader merges the document read from the given reader into the scene.
func (sc *Scene) ImportReader(r io.Reader) (ImportResult, error) {
	d, err := ParseDocument(r)
	if err != nil {
		return ImportResult{}, err
	}
	return sc.ImportDocument(d), nil
}

// ImportString merges the given document text into the scene.
func (sc *Scene) ImportString(s string) (ImportResult, error) {
	return sc.ImportReader(strings.NewReader(s))
}

// ImportResult reports what [Scene.ImportDocument] did.
type ImportResult struct {

	// Expected is the number of node elements in the document.
	Expected int

	// Imported is the number of nodes added to the scene.
	Imported int

	// Skipped is the number of elements whose class is not registered.
	Skipped int

	// Adopted is the number of singleton elements whose content was
	// adopted by a singleton already in the scene.
	Adopted int

	// Renamed maps the document IDs of nodes that got a new ID to the new ID.
	Renamed map[string]string

	// Duplicates maps the IDs that more than one node of the document
	// has to the new IDs of the nodes after the first.
	Duplicates map[string][]string
}

// ImportDocument merges the given document into the scene, within
// [ImportState].
//
// Nodes are created by tag; elements of unregistered classes are skipped
// and counted. Incoming nodes whose ID is used by a node already in the
// scene get a new unique ID that also avoids every other incoming ID, and
// the references of all incoming nodes are rewritten to the new IDs.
// References of nodes already in the scene are not rewritten, because
// their targets keep their IDs. When several nodes of the document have
// the same ID, the first keeps it and the others get new IDs; a reference
// to that ID targets the last of those nodes that is not after the
// referring node in the document, or the first one. Singletons adopt into a singleton with
// the same ID that is already in the scene. Nodes are then added in
// document order, and references resolve as both ends become present.
func (sc *Scene) ImportDocument(d *Document) ImportResult {
	res := ImportResult{Expected: d.ExpectedNodeCount(), Renamed: map[string]string{}, Duplicates: map[string][]string{}}
	sc.lastVersion = d.Version
	sc.StartState(ImportState)
	defer sc.EndState(ImportState)

	avoid := map[string]bool{}
	for _, el := range d.Elements {
		if id := el.Attributes.Value("id"); id != "" {
			avoid[id] = true
		}
	}
	var incoming []Node
	for _, el := range d.Elements {
		n := sc.CreateNodeByTag(el.Tag)
		if n == nil {
			res.Skipped++
			continue
		}
		n.ReadAttributes(&el.Attributes)
		incoming = append(incoming, n)
	}

	// defs are the positions in incoming of the nodes with each ID
	defs := map[string][]int{}
	for i, n := range incoming {
		nb := n.AsNode()
		if nb.SingletonTag != "" {
			if sid := SingletonID(n.ClassName(), nb.SingletonTag); sid != nb.ID && nb.ID != "" {
				res.Renamed[nb.ID] = sid
			}
			continue
		}
		if nb.ID == "" {
			continue
		}
		defs[nb.ID] = append(defs[nb.ID], i)
		if len(defs[nb.ID]) > 1 || sc.nodes[nb.ID] == nil {
			continue
		}
		nid := sc.generateUniqueID(n.ClassName(), avoid)
		avoid[nid] = true
		slog.Info("scene.Scene.Import: node ID collision, renaming incoming node", "id", nb.ID, "newID", nid)
		res.Renamed[nb.ID] = nid
	}

	// later nodes with the ID of an earlier node in the document get new
	// IDs, and references to that ID go to the nearest node with it that
	// is not after the referring node
	newIDs := map[int]string{}
	for id, pos := range defs {
		for _, i := range pos[1:] {
			nid := sc.generateUniqueID(incoming[i].ClassName(), avoid)
			avoid[nid] = true
			slog.Warn("scene.Scene.Import: duplicate node ID in document, renaming node", "id", id, "newID", nid)
			newIDs[i] = nid
			res.Duplicates[id] = append(res.Duplicates[id], nid)
		}
	}
	idAt := func(id string, pos []int, i int) string {
		j := 0
		for k, p := range pos {
			if p <= i {
				j = k
			}
		}
		if j == 0 {
			if nid, ok := res.Renamed[id]; ok {
				return nid
			}
			return id
		}
		return newIDs[pos[j]]
	}
	if len(res.Renamed) > 0 || len(newIDs) > 0 {
		for i, n := range incoming {
			nb := n.AsNode()
			ids := res.Renamed
			if len(res.Duplicates) > 0 {
				ids = maps.Clone(res.Renamed)
				for id := range res.Duplicates {
					ids[id] = idAt(id, defs[id], i)
				}
			}
			nb.remapReferenceIDs(ids)
			if nid, ok := newIDs[i]; ok {
				nb.ID = nid
			} else if nid, ok := res.Renamed[nb.ID]; ok && nb.SingletonTag == "" {
				nb.ID = nid
			}
		}
	}

	for _, n := range incoming {
		if sc.AddNode(n) == n {
			res.Imported++
		} else {
			res.Adopted++
		}
	}
	for _, ref := range sc.DanglingReferences() {
		slog.Warn("scene.Scene.Import: reference does not resolve", "node", ref.Node.AsNode().ID, "role", ref.Role, "target", ref.TargetID)
	}
	return res
}
