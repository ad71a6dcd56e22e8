package writer

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/crfcave/cavereport/builder"
	"github.com/crfcave/cavereport/ir/raw"
	"github.com/crfcave/cavereport/ir/semantic"
)

func TestSerializePrimitives(t *testing.T) {
	cases := []struct {
		obj  raw.Object
		want string
	}{
		{raw.NameLiteral("Type"), "/Type"},
		{raw.NumberInt(42), "42"},
		{raw.NumberFloat(1.5), "1.5000"},
		{raw.Bool(true), "true"},
		{raw.NullObj{}, "null"},
		{raw.Str([]byte("a(b)c")), `(a\(b\)c)`},
		{raw.NewArray(raw.NumberInt(1), raw.NumberInt(2)), "[1 2]"},
		{raw.Ref(7, 0), "7 0 R"},
	}
	for _, c := range cases {
		if got := string(serializePrimitive(c.obj)); got != c.want {
			t.Fatalf("serialize %v = %q, want %q", c.obj, got, c.want)
		}
	}
}

func TestSerializeDictSortsKeys(t *testing.T) {
	d := raw.Dict()
	d.Set("Zebra", raw.NumberInt(1))
	d.Set("Alpha", raw.NumberInt(2))
	got := string(serializePrimitive(d))
	if got != "<</Alpha 2/Zebra 1>>" {
		t.Fatalf("dict serialization: %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	if got := formatFloat(36); got != "36" {
		t.Fatalf("integral float = %q", got)
	}
	if got := formatFloat(10.5); got != "10.5000" {
		t.Fatalf("fractional float = %q", got)
	}
	if strings.ContainsAny(formatFloat(0.0000001), "eE") {
		t.Fatalf("exponent notation leaked into output")
	}
}

func TestEscapeLiteralString(t *testing.T) {
	got := string(escapeLiteralString([]byte("line1\nline2\t(x)\\y")))
	want := `(line1\nline2\t\(x\)\\y)`
	if got != want {
		t.Fatalf("escaped = %q, want %q", got, want)
	}
}

func TestSerializeContentStream(t *testing.T) {
	cs := semantic.ContentStream{Operations: []semantic.Operation{
		{Operator: "BT"},
		{Operator: "Tf", Operands: []semantic.Operand{semantic.NameOperand{Value: "F1"}, semantic.NumberOperand{Value: 12}}},
		{Operator: "ET"},
	}}
	got := string(serializeContentStream(cs))
	want := "BT\n/F1 12 Tf\nET\n"
	if got != want {
		t.Fatalf("content stream = %q, want %q", got, want)
	}
}

func TestWrite_MinimalDocument(t *testing.T) {
	b := builder.NewBuilder()
	b.SetInfo(&semantic.DocumentInfo{Title: "CUMA Export"})
	b.NewPage(612, 792).
		DrawText("Crystal Cave", 36, 740, builder.TextOptions{FontSize: 18, Font: "Helvetica-Bold"}).
		Finish()
	doc, err := b.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var buf bytes.Buffer
	if err := New().Write(doc, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-1.7\n") {
		t.Fatalf("missing header: %q", out[:16])
	}
	if !strings.HasSuffix(out, "%%EOF\n") {
		t.Fatalf("missing EOF marker")
	}
	for _, want := range []string{"/Type /Catalog", "/Type /Pages", "/Type /Page", "/BaseFont /Helvetica-Bold", "/Title (CUMA Export)", "startxref"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q", want)
		}
	}
}

func TestWrite_XRefOffsetsPointAtObjects(t *testing.T) {
	b := builder.NewBuilder()
	b.NewPage(100, 100).DrawText("x", 10, 50, builder.TextOptions{}).Finish()
	doc, _ := b.Build()

	var buf bytes.Buffer
	if err := New().Write(doc, &buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.Bytes()

	idx := bytes.Index(out, []byte("xref\n"))
	if idx < 0 {
		t.Fatalf("no xref table")
	}
	lines := strings.Split(string(out[idx:]), "\n")
	// lines[0] is "xref", lines[1] is "0 N", lines[2] is the free entry;
	// entry i at lines[3+i] describes object i+1 and must point at
	// "<num> 0 obj".
	for i, line := range lines[3:] {
		fields := strings.Fields(line)
		if len(fields) != 3 || fields[2] != "n" {
			break
		}
		off, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			t.Fatalf("bad xref line %q: %v", line, err)
		}
		want := fmt.Sprintf("%d 0 obj", i+1)
		if !bytes.HasPrefix(out[off:], []byte(want)) {
			t.Fatalf("xref entry %d offset %d does not start an object: %q", i+1, off, out[off:off+16])
		}
	}
}
