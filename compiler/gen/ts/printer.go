package ts

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// A Printer renders a File.
type Printer interface {
	Print(w io.Writer, f *File) error
}

// Formatter is the default Printer. Imports come first, then the body statements
// separated by blank lines.
type Formatter struct {
	// IndentSize is the number of spaces per level. Zero means 2.
	IndentSize int
	// SingleQuote switches string literals to single quotes.
	SingleQuote bool
}

// DefaultPrinter is the Printer used when none is configured.
var DefaultPrinter Printer = Formatter{IndentSize: 2}

// Render renders f with the DefaultPrinter.
func Render(f *File) ([]byte, error) {
	var buf bytes.Buffer
	if err := DefaultPrinter.Print(&buf, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Print implements Printer.
func (p Formatter) Print(w io.Writer, f *File) error {
	if f == nil {
		return fmt.Errorf("ts: nil file")
	}
	pr := &printer{unit: strings.Repeat(" ", p.indentSize()), quote: '"'}
	if p.SingleQuote {
		pr.quote = '\''
	}
	if f.Header != "" {
		pr.printf("// %s\n", f.Header)
	}
	for _, imp := range f.Imports {
		pr.importDecl(imp)
	}
	for i, s := range f.Body {
		if i > 0 || len(f.Imports) > 0 || f.Header != "" {
			pr.buf.WriteByte('\n')
		}
		pr.stmt(s)
	}
	if pr.err != nil {
		return fmt.Errorf("ts: print %s: %w", f.Path, pr.err)
	}
	_, err := w.Write(pr.buf.Bytes())
	return err
}

func (p Formatter) indentSize() int {
	if p.IndentSize <= 0 {
		return 2
	}
	return p.IndentSize
}

type printer struct {
	buf   bytes.Buffer
	unit  string
	level int
	quote byte
	err   error
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(&p.buf, format, args...)
}

func (p *printer) newline() {
	p.buf.WriteByte('\n')
	p.buf.WriteString(strings.Repeat(p.unit, p.level))
}

func (p *printer) importDecl(imp *Import) {
	p.buf.WriteString("import ")
	if imp.TypeOnly {
		p.buf.WriteString("type ")
	}
	switch {
	case imp.Namespace != "":
		p.printf("* as %s from ", imp.Namespace)
	case imp.Default != "" && len(imp.Named) > 0:
		p.printf("%s, { %s } from ", imp.Default, strings.Join(imp.Named, ", "))
	case imp.Default != "":
		p.printf("%s from ", imp.Default)
	case len(imp.Named) > 0:
		p.printf("{ %s } from ", strings.Join(imp.Named, ", "))
	}
	p.buf.WriteString(p.str(imp.Module))
	p.buf.WriteString(";\n")
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *Const:
		if s.Export {
			p.buf.WriteString("export ")
		}
		p.printf("const %s = ", s.Name)
		p.expr(s.Value)
		p.buf.WriteString(";\n")
	case *Return:
		p.buf.WriteString("return")
		if s.Value != nil {
			p.buf.WriteByte(' ')
			p.expr(s.Value)
		}
		p.buf.WriteString(";\n")
	case *Comment:
		p.printf("// %s\n", s.Text)
	default:
		p.fail("unknown statement %T", s)
	}
}

// block prints statements one level deeper, each on its own line.
func (p *printer) block(stmts []Stmt) {
	if len(stmts) == 0 {
		p.buf.WriteString("{}")
		return
	}
	p.buf.WriteByte('{')
	p.level++
	for _, s := range stmts {
		p.newline()
		p.stmt(s)
		// stmt terminates with a newline, drop it so the next newline() indents.
		p.buf.Truncate(p.buf.Len() - 1)
	}
	p.level--
	p.newline()
	p.buf.WriteByte('}')
}

func (p *printer) expr(e Expr) {
	switch e := e.(type) {
	case nil:
		p.fail("nil expression")
	case Ident:
		p.buf.WriteString(string(e))
	case *Call:
		p.expr(e.Fn)
		p.args(e.Args)
	case *As:
		p.expr(e.Value)
		p.printf(" as %s", e.Type)
	case *Chain:
		p.expr(e.Recv)
		multi := e.Multiline && len(e.Links) > 1
		if multi {
			p.level++
		}
		for _, l := range e.Links {
			if multi {
				p.newline()
			}
			p.buf.WriteByte('.')
			p.buf.WriteString(l.Name)
			if !l.Member {
				p.args(l.Args)
			}
		}
		if multi {
			p.level--
		}
	case *Object:
		if len(e.Entries) == 0 {
			p.buf.WriteString("{}")
			return
		}
		p.buf.WriteByte('{')
		p.level++
		for _, en := range e.Entries {
			p.newline()
			p.buf.WriteString(p.key(en.Key))
			p.buf.WriteString(": ")
			p.expr(en.Value)
			p.buf.WriteByte(',')
		}
		p.level--
		p.newline()
		p.buf.WriteByte('}')
	case *Func:
		if e.Async {
			p.buf.WriteString("async ")
		}
		p.printf("(%s) => ", e.Params)
		p.block(e.Body)
	default:
		p.fail("unknown expression %T", e)
	}
}

func (p *printer) args(args []Expr) {
	p.buf.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			p.buf.WriteString(", ")
		}
		p.expr(a)
	}
	p.buf.WriteByte(')')
}

func (p *printer) key(k string) string {
	if IsIdentifier(k) {
		return k
	}
	return p.str(k)
}

func (p *printer) str(s string) string {
	q := string(p.quote)
	r := strings.NewReplacer(`\`, `\\`, q, `\`+q, "\n", `\n`)
	return q + r.Replace(s) + q
}

func (p *printer) fail(format string, args ...any) {
	if p.err == nil {
		p.err = fmt.Errorf(format, args...)
	}
}

// IsIdentifier reports whether s can be used unquoted as an object key.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
