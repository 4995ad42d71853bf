package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	dslLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Color", Pattern: `#(?:[0-9A-Fa-f]{8}|[0-9A-Fa-f]{6}|[0-9A-Fa-f]{3})`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `-?(?:\d+\.\d+|\d+|\.\d+)(?:pt|mm|cm|in|x)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Symbol", Pattern: `[][(),=;:]`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	// tokenNames maps token types back to rule names for Lexeme.
	tokenNames = func() map[lexer.TokenType]string {
		out := map[lexer.TokenType]string{}
		for name, tt := range dslLexer.Symbols() {
			out[tt] = name
		}
		return out
	}()

	documentParser = participle.MustBuild[Document](
		participle.Lexer(dslLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment", "HashComment"),
	)
)

// Document is the root AST node for a paralayout document.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'doc' @Ident"`
	Version  string         `parser:"@Ident"`
	Sections []*Section     `parser:"'{' Newline* ( @@ Newline* )* '}' Newline*"`
}

// Section represents a top-level section (meta/resources/layout/page/para).
type Section struct {
	Meta      *MetaSection      `parser:"  @@"`
	Resources *ResourcesSection `parser:"| @@"`
	Layout    *LayoutSection    `parser:"| @@"`
	Page      *PageSection      `parser:"| @@"`
	Para      *ParaSection      `parser:"| @@"`
}

// Kind returns the human-readable section type.
func (s *Section) Kind() string {
	switch {
	case s == nil:
		return "unknown"
	case s.Meta != nil:
		return "meta"
	case s.Resources != nil:
		return "resources"
	case s.Layout != nil:
		return "layout"
	case s.Page != nil:
		return "page"
	case s.Para != nil:
		return "para"
	default:
		return "unknown"
	}
}

// MetaSection captures metadata assignments.
type MetaSection struct {
	Block *Block `parser:"'meta' @@"`
}

// ResourcesSection groups resource declarations.
type ResourcesSection struct {
	Block *Block `parser:"'resources' @@"`
}

// LayoutSection holds the paragraph layout options.
type LayoutSection struct {
	Block *Block `parser:"'layout' @@"`
}

// PageSection describes the output page.
type PageSection struct {
	Spec  PageSpec `parser:"'page' @@"`
	Block *Block   `parser:"@@?"`
}

// PageSpec stores header tokens (eg: size, orientation).
type PageSpec struct {
	Size   string    `parser:"@Ident"`
	Params []*Lexeme `parser:"@@*"`
}

// ParaSection is one paragraph: style arguments followed by its content.
type ParaSection struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Args  []*Lexeme      `parser:"'para' @@*"`
	Block *Block         `parser:"Newline* @@"`
}

// Block is a delimited list of statements.
type Block struct {
	Statements []*Statement `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// Statement inside a block (assignment/command/text literal).
type Statement struct {
	Assignment *Assignment  `parser:"  @@"`
	Command    *Command     `parser:"| @@"`
	Text       *TextLiteral `parser:"| @@"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident"`
	Value *Value `parser:"':' Newline* @@"`
}

// Command describes resource declarations and inline content.
type Command struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Name  string         `parser:"@Ident"`
	Args  []*Lexeme      `parser:"@@*"`
	Block *Block         `parser:"( Newline* @@ )?"`
}

// TextLiteral encapsulates raw string statements within blocks.
type TextLiteral struct {
	Value StringLiteral `parser:"@String"`
}

// Value represents generic property values. Values are single tokens so
// several assignments may share a line.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
	Color  *string        `parser:"| @Color"`
	Ident  *string        `parser:"| @Ident"`
	Array  *ArrayValue    `parser:"| @@"`
}

// Text returns the value as written, strings unquoted. Arrays yield "".
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	default:
		return ""
	}
}

// ArrayValue captures `[ ... ]` expressions.
type ArrayValue struct {
	Values []*Value `parser:"'[' Newline* ( @@ ( (',' | ';' | Newline+) Newline* @@ )* )? Newline* ']'"`
}

// Lexeme is one raw token of a section header or command.
type Lexeme struct {
	Type  string         `json:"type"`
	Value string         `json:"value"`
	Pos   lexer.Position `json:"-"`
}

// Parse implements participle.Parseable. Arguments run until the end of the
// line, a brace or ';'. Strings are unquoted.
func (l *Lexeme) Parse(lex *lexer.PeekingLexer) error {
	tok := lex.Peek()
	if tok == nil || tok.EOF() {
		return participle.NextMatch
	}
	kind := tokenNames[tok.Type]
	switch {
	case kind == "Newline", kind == "LBrace", kind == "RBrace":
		return participle.NextMatch
	case kind == "Symbol" && tok.Value == ";":
		return participle.NextMatch
	}
	lex.Next()

	value := tok.Value
	if kind == "String" {
		var err error
		if value, err = strconv.Unquote(tok.Value); err != nil {
			return fmt.Errorf("%s: 无效的字符串 %s: %w", tok.Pos, tok.Value, err)
		}
	}
	*l = Lexeme{Type: kind, Value: value, Pos: tok.Pos}
	return nil
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) != 1 {
		return fmt.Errorf("字符串字面量应为单个记号")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Parse parses a document; name is used in error positions.
func Parse(name string, r io.Reader) (*Document, error) {
	return documentParser.Parse(name, r)
}

// ParseString parses a document from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
