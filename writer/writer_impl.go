package writer

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	"github.com/crfcave/cavereport/ir/raw"
	"github.com/crfcave/cavereport/ir/semantic"
)

type impl struct{}

func (w *impl) Write(doc *semantic.Document, out io.Writer) error {
	objects := make(map[raw.ObjectRef]raw.Object)
	objNum := 1
	alloc := func() raw.ObjectRef {
		ref := raw.ObjectRef{Num: objNum, Gen: 0}
		objNum++
		return ref
	}

	catalogRef := alloc()
	pagesRef := alloc()

	// Fonts are shared document-wide: one object per resource name.
	fontRefs := make(map[string]raw.ObjectRef)
	fontNames := collectFontNames(doc)
	for _, name := range fontNames {
		font := findFont(doc, name)
		ref := alloc()
		fontRefs[name] = ref
		objects[ref] = fontDict(font)
	}

	pageRefs := make([]raw.ObjectRef, 0, len(doc.Pages))
	for _, p := range doc.Pages {
		contentRef := alloc()
		objects[contentRef] = contentStreamObj(p)

		// Image XObjects are per page; soft masks get their own object.
		xobjRefs := make(map[string]raw.ObjectRef)
		if p.Resources != nil {
			names := make([]string, 0, len(p.Resources.XObjects))
			for name := range p.Resources.XObjects {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				xo := p.Resources.XObjects[name]
				var smaskRef *raw.ObjectRef
				if xo.SMask != nil {
					ref := alloc()
					objects[ref] = imageDict(*xo.SMask, nil)
					smaskRef = &ref
				}
				ref := alloc()
				objects[ref] = imageDict(xo, smaskRef)
				xobjRefs[name] = ref
			}
		}

		pageRef := alloc()
		pageRefs = append(pageRefs, pageRef)
		objects[pageRef] = pageDict(p, pagesRef, contentRef, fontRefs, xobjRefs)
	}

	kids := raw.NewArray()
	for _, r := range pageRefs {
		kids.Append(raw.Ref(r.Num, r.Gen))
	}
	pagesDict := raw.Dict()
	pagesDict.Set("Type", raw.NameLiteral("Pages"))
	pagesDict.Set("Count", raw.NumberInt(int64(len(pageRefs))))
	pagesDict.Set("Kids", kids)
	objects[pagesRef] = pagesDict

	catalogDict := raw.Dict()
	catalogDict.Set("Type", raw.NameLiteral("Catalog"))
	catalogDict.Set("Pages", raw.Ref(pagesRef.Num, pagesRef.Gen))
	objects[catalogRef] = catalogDict

	var infoRef *raw.ObjectRef
	if doc.Info != nil {
		ref := alloc()
		objects[ref] = infoDict(doc.Info)
		infoRef = &ref
	}

	// Serialize objects in ascending number order, recording offsets.
	var buf bytes.Buffer
	buf.WriteString("%PDF-1.7\n%\xE2\xE3\xCF\xD3\n")
	offsets := make(map[int]int64)

	ordered := make([]raw.ObjectRef, 0, len(objects))
	for ref := range objects {
		ordered = append(ordered, ref)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Num < ordered[j].Num })
	for _, ref := range ordered {
		offsets[ref.Num] = int64(buf.Len())
		buf.Write(serializeObject(ref, objects[ref]))
	}

	xrefOffset := buf.Len()
	maxObjNum := ordered[len(ordered)-1].Num
	fmt.Fprintf(&buf, "xref\n0 %d\n", maxObjNum+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= maxObjNum; i++ {
		if off, ok := offsets[i]; ok {
			fmt.Fprintf(&buf, "%010d 00000 n \n", off)
		} else {
			buf.WriteString("0000000000 65535 f \n")
		}
	}

	buf.WriteString("trailer\n<<")
	fmt.Fprintf(&buf, "/Size %d ", maxObjNum+1)
	fmt.Fprintf(&buf, "/Root %d 0 R", catalogRef.Num)
	if infoRef != nil {
		fmt.Fprintf(&buf, " /Info %d 0 R", infoRef.Num)
	}
	fmt.Fprintf(&buf, ">>\nstartxref\n%d\n%%%%EOF\n", xrefOffset)

	_, err := out.Write(buf.Bytes())
	return err
}

// collectFontNames returns the union of font resource names used on any
// page, in stable order.
func collectFontNames(doc *semantic.Document) []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range doc.Pages {
		if p.Resources == nil {
			continue
		}
		for name := range p.Resources.Fonts {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}

func findFont(doc *semantic.Document, name string) *semantic.Font {
	for _, p := range doc.Pages {
		if p.Resources == nil {
			continue
		}
		if f, ok := p.Resources.Fonts[name]; ok {
			return f
		}
	}
	return &semantic.Font{Subtype: "Type1", BaseFont: "Helvetica"}
}

func fontDict(f *semantic.Font) raw.Object {
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("Font"))
	subtype := f.Subtype
	if subtype == "" {
		subtype = "Type1"
	}
	d.Set("Subtype", raw.NameLiteral(subtype))
	d.Set("BaseFont", raw.NameLiteral(f.BaseFont))
	if f.Encoding != "" {
		d.Set("Encoding", raw.NameLiteral(f.Encoding))
	}
	return d
}

func contentStreamObj(p *semantic.Page) raw.Object {
	var data []byte
	for _, cs := range p.Contents {
		data = append(data, serializeContentStream(cs)...)
	}
	dict := raw.Dict()
	dict.Set("Length", raw.NumberInt(int64(len(data))))
	return raw.NewStream(dict, data)
}

func imageDict(img semantic.XObject, smask *raw.ObjectRef) raw.Object {
	data := flateEncode(img.Data)
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("XObject"))
	d.Set("Subtype", raw.NameLiteral("Image"))
	d.Set("Width", raw.NumberInt(int64(img.Width)))
	d.Set("Height", raw.NumberInt(int64(img.Height)))
	d.Set("ColorSpace", raw.NameLiteral(img.ColorSpace))
	d.Set("BitsPerComponent", raw.NumberInt(int64(img.BitsPerComponent)))
	d.Set("Filter", raw.NameLiteral("FlateDecode"))
	d.Set("Length", raw.NumberInt(int64(len(data))))
	if img.Interpolate {
		d.Set("Interpolate", raw.Bool(true))
	}
	if smask != nil {
		d.Set("SMask", raw.Ref(smask.Num, smask.Gen))
	}
	return raw.NewStream(d, data)
}

func pageDict(p *semantic.Page, parent, content raw.ObjectRef, fontRefs map[string]raw.ObjectRef, xobjRefs map[string]raw.ObjectRef) raw.Object {
	d := raw.Dict()
	d.Set("Type", raw.NameLiteral("Page"))
	d.Set("Parent", raw.Ref(parent.Num, parent.Gen))
	d.Set("MediaBox", raw.NewArray(
		raw.NumberInt(int64(p.MediaBox.LLX)),
		raw.NumberInt(int64(p.MediaBox.LLY)),
		raw.NumberInt(int64(p.MediaBox.URX)),
		raw.NumberInt(int64(p.MediaBox.URY)),
	))

	res := raw.Dict()
	fontRes := raw.Dict()
	for name, ref := range fontRefs {
		fontRes.Set(name, raw.Ref(ref.Num, ref.Gen))
	}
	res.Set("Font", fontRes)
	if len(xobjRefs) > 0 {
		xoRes := raw.Dict()
		for name, ref := range xobjRefs {
			xoRes.Set(name, raw.Ref(ref.Num, ref.Gen))
		}
		res.Set("XObject", xoRes)
	}
	d.Set("Resources", res)
	d.Set("Contents", raw.Ref(content.Num, content.Gen))
	return d
}

func infoDict(info *semantic.DocumentInfo) raw.Object {
	d := raw.Dict()
	if info.Title != "" {
		d.Set("Title", raw.Str([]byte(info.Title)))
	}
	if info.Author != "" {
		d.Set("Author", raw.Str([]byte(info.Author)))
	}
	if info.Subject != "" {
		d.Set("Subject", raw.Str([]byte(info.Subject)))
	}
	if info.Creator != "" {
		d.Set("Creator", raw.Str([]byte(info.Creator)))
	}
	if info.Producer != "" {
		d.Set("Producer", raw.Str([]byte(info.Producer)))
	}
	return d
}
