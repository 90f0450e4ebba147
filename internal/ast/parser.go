// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import (
	"fmt"
	"strconv"
)

// ParseError is one accumulated syntax error.
type ParseError struct {
	Message string
	Span    Span
}

func (e ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Span, e.Message) }

// Parser turns one named source blob into a File plus any accumulated
// ParseErrors. A Parser is single-use: call Parse once.
type Parser struct {
	lex    *Lexer
	source string
	tok    Token
	errs   []ParseError
}

func NewParser(source, text string) *Parser {
	p := &Parser{lex: NewLexer(source, text), source: source}
	p.advance()
	return p
}

func (p *Parser) advance() {
	for {
		p.tok = p.lex.Next()
		if p.tok.Kind == TokLineComment {
			continue
		}
		return
	}
}

// advanceKeepDoc is like advance but returns any doc comment text
// skipped over, for attaching to the next declaration.
func (p *Parser) advanceKeepDoc() string {
	var doc string
	for {
		p.tok = p.lex.Next()
		switch p.tok.Kind {
		case TokLineComment:
			continue
		case TokDocComment:
			if doc != "" {
				doc += "\n"
			}
			doc += p.tok.Text
			continue
		default:
			return doc
		}
	}
}

func (p *Parser) errorf(span Span, format string, args ...any) {
	p.errs = append(p.errs, ParseError{Message: fmt.Sprintf(format, args...), Span: span})
}

func (p *Parser) expect(kind TokenKind) Token {
	if p.tok.Kind != kind {
		p.errorf(p.tok.Span, "expected %s, found %s %q", kind, p.tok.Kind, p.tok.Text)
		return p.tok
	}
	tok := p.tok
	p.advance()
	return tok
}

// Parse parses the whole file: use* decl*.
func (p *Parser) Parse() (*File, []ParseError) {
	file := &File{Source: p.source}

	// Doc comments before the first token are kept and attached to the
	// first declaration.
	leadingDoc := ""
	for p.tok.Kind == TokDocComment {
		leadingDoc = p.tok.Text
		if more := p.advanceKeepDoc(); more != "" {
			leadingDoc += "\n" + more
		}
	}

	for p.tok.Kind == TokUse {
		file.Uses = append(file.Uses, p.parseUse())
	}

	for p.tok.Kind != TokEOF {
		if p.tok.Kind == TokHash || p.tok.Kind == TokPattern || p.tok.Kind == TokDocComment {
			decl := p.parseDecl(leadingDoc)
			leadingDoc = ""
			file.Decls = append(file.Decls, decl)
			continue
		}
		p.errorf(p.tok.Span, "expected attribute or pattern declaration, found %s %q", p.tok.Kind, p.tok.Text)
		p.advance()
	}

	return file, p.errs
}

func (p *Parser) parseUse() Use {
	start := p.tok.Span
	p.expect(TokUse)
	var path []string
	path = append(path, p.expect(TokIdent).Text)
	for p.tok.Kind == TokDoubleColon {
		p.advance()
		path = append(path, p.expect(TokIdent).Text)
	}
	alias := ""
	if p.tok.Kind == TokAs {
		p.advance()
		alias = p.expect(TokIdent).Text
	}
	return Use{Path: path, Alias: alias, Span: start.Cover(p.tok.Span)}
}

// parseDecl parses `meta 'pattern' ident type_params? '=' pattern`,
// where meta is any attribute lines plus a doc comment collected by the
// caller or inline here.
func (p *Parser) parseDecl(leadingDoc string) Decl {
	doc := leadingDoc
	var attrs []Attribute
	for p.tok.Kind == TokHash {
		attrs = append(attrs, p.parseAttribute())
		// doc comments between attributes and 'pattern' still attach
		for p.tok.Kind == TokDocComment {
			if doc != "" {
				doc += "\n"
			}
			doc += p.tok.Text
			p.advance()
		}
	}
	for p.tok.Kind == TokDocComment {
		if doc != "" {
			doc += "\n"
		}
		doc += p.tok.Text
		p.advance()
	}

	start := p.tok.Span
	p.expect(TokPattern)
	name := p.expect(TokIdent).Text

	var typeParams []string
	if p.tok.Kind == TokLAngle {
		p.advance()
		if p.tok.Kind != TokRAngle {
			typeParams = append(typeParams, p.expect(TokIdent).Text)
			for p.tok.Kind == TokComma {
				p.advance()
				typeParams = append(typeParams, p.expect(TokIdent).Text)
			}
		}
		p.expect(TokRAngle)
	}

	p.expect(TokEquals)
	body := p.parsePattern()

	return Decl{
		Doc:        doc,
		Attributes: attrs,
		Name:       name,
		TypeParams: typeParams,
		Body:       body,
		Span:       start.Cover(body.Span),
	}
}

// parseAttribute parses "#[key]" or "#[key(sub=value, flag)]".
func (p *Parser) parseAttribute() Attribute {
	start := p.tok.Span
	p.expect(TokHash)
	p.expect(TokLBracket)
	key := p.expect(TokIdent).Text
	args := map[string]*string{}
	if p.tok.Kind == TokLParen {
		p.advance()
		for p.tok.Kind != TokRParen && p.tok.Kind != TokEOF {
			argName := p.expect(TokIdent).Text
			if p.tok.Kind == TokEquals {
				p.advance()
				val := p.expect(TokString).Text
				args[argName] = &val
			} else {
				args[argName] = nil
			}
			if p.tok.Kind == TokComma {
				p.advance()
				continue
			}
			break
		}
		p.expect(TokRParen)
	}
	end := p.tok.Span
	p.expect(TokRBracket)
	return Attribute{Key: key, Args: args, Span: start.Cover(end)}
}

// parsePattern := union
func (p *Parser) parsePattern() Pattern {
	return p.parseUnion()
}

// union := inter ('|' inter)*
func (p *Parser) parseUnion() Pattern {
	first := p.parseIntersection()
	if p.tok.Kind != TokPipe {
		return first
	}
	operands := []Pattern{first}
	start := first.Span
	for p.tok.Kind == TokPipe {
		p.advance()
		operands = append(operands, p.parseIntersection())
	}
	last := operands[len(operands)-1]
	return Pattern{Kind: PatUnion, Operands: operands, Span: start.Cover(last.Span)}
}

// inter := refined ('&' refined)*
func (p *Parser) parseIntersection() Pattern {
	first := p.parseRefinement()
	if p.tok.Kind != TokAmp {
		return first
	}
	operands := []Pattern{first}
	start := first.Span
	for p.tok.Kind == TokAmp {
		p.advance()
		operands = append(operands, p.parseRefinement())
	}
	last := operands[len(operands)-1]
	return Pattern{Kind: PatIntersection, Operands: operands, Span: start.Cover(last.Span)}
}

// refined := primary ('(' pattern ')')?
func (p *Parser) parseRefinement() Pattern {
	primary := p.parsePrimary()
	if p.tok.Kind != TokLParen {
		return primary
	}
	// A name_app already consumed "(" as its own argument list delimiter
	// only when it used '<...>'; refinement parens are distinct and only
	// apply when the primary wasn't already a call with type args using
	// this same token — since name_app uses '<' for args, '(' here is
	// unambiguously a refinement.
	p.advance()
	refinement := p.parsePattern()
	end := p.tok.Span
	p.expect(TokRParen)
	prim := primary
	ref := refinement
	return Pattern{
		Kind:       PatRefinement,
		Primary:    &prim,
		Refinement: &ref,
		Span:       primary.Span.Cover(end),
	}
}

// primary := '!' primary | object | list | const | name_app | expression_block
func (p *Parser) parsePrimary() Pattern {
	start := p.tok.Span
	switch p.tok.Kind {
	case TokBang:
		p.advance()
		inner := p.parsePrimary()
		return Pattern{Kind: PatNot, Inner: &inner, Span: start.Cover(inner.Span)}
	case TokLBrace:
		return p.parseObject()
	case TokLBracket:
		return p.parseList()
	case TokString:
		text := p.tok.Text
		p.advance()
		return Pattern{Kind: PatConstString, StringValue: text, Span: start}
	case TokInteger:
		n, _ := strconv.ParseInt(p.tok.Text, 10, 64)
		p.advance()
		return Pattern{Kind: PatConstInteger, IntegerValue: n, Span: start}
	case TokDecimal:
		f, _ := strconv.ParseFloat(p.tok.Text, 64)
		p.advance()
		return Pattern{Kind: PatConstDecimal, DecimalValue: f, Span: start}
	case TokTrue:
		p.advance()
		return Pattern{Kind: PatConstBool, BoolValue: true, Span: start}
	case TokFalse:
		p.advance()
		return Pattern{Kind: PatConstBool, BoolValue: false, Span: start}
	case TokLParen:
		return p.parseExpressionBlock()
	case TokIdent:
		return p.parseNameApplicationOrTraverse()
	default:
		p.errorf(p.tok.Span, "expected a pattern, found %s %q", p.tok.Kind, p.tok.Text)
		tok := p.tok
		p.advance()
		return Pattern{Kind: PatConstBool, BoolValue: false, Span: tok.Span}
	}
}

// object := '{' (field (',' field)*)? '}'
func (p *Parser) parseObject() Pattern {
	start := p.tok.Span
	p.expect(TokLBrace)
	var fields []ObjectField
	for p.tok.Kind != TokRBrace && p.tok.Kind != TokEOF {
		fields = append(fields, p.parseField())
		if p.tok.Kind == TokComma {
			p.advance()
			continue
		}
		break
	}
	end := p.tok.Span
	p.expect(TokRBrace)
	return Pattern{Kind: PatObject, Fields: fields, Span: start.Cover(end)}
}

// field := ident '?'? ':' pattern
func (p *Parser) parseField() ObjectField {
	nameTok := p.expect(TokIdent)
	optional := false
	if p.tok.Kind == TokQuestion {
		optional = true
		p.advance()
	}
	p.expect(TokColon)
	pat := p.parsePattern()
	return ObjectField{Name: nameTok.Text, Optional: optional, Pattern: pat, Span: nameTok.Span.Cover(pat.Span)}
}

// list := '[' pattern (';' range)? ']'
func (p *Parser) parseList() Pattern {
	start := p.tok.Span
	p.expect(TokLBracket)
	elem := p.parsePattern()
	var card *Cardinality
	if p.tok.Kind == TokSemicolon {
		p.advance()
		card = p.parseCardinality()
	}
	end := p.tok.Span
	p.expect(TokRBracket)
	return Pattern{Kind: PatList, Element: &elem, Cardinality: card, Span: start.Cover(end)}
}

// parseCardinality parses "min", "min..", "..max", or "min..max".
func (p *Parser) parseCardinality() *Cardinality {
	var card Cardinality
	if p.tok.Kind == TokInteger {
		n, _ := strconv.ParseInt(p.tok.Text, 10, 64)
		card.Min = &n
		p.advance()
	}
	if p.tok.Kind == TokDot {
		p.advance()
		if p.tok.Kind == TokDot {
			p.advance()
		}
		if p.tok.Kind == TokInteger {
			n, _ := strconv.ParseInt(p.tok.Text, 10, 64)
			card.Max = &n
			p.advance()
		}
	} else if card.Min != nil {
		// bare "N" means exactly N
		card.Max = card.Min
	}
	return &card
}

// name_app := path ('<' pattern (',' pattern)* '>')?
// Also recognizes the "x.y" traversal sugar when a plain (unqualified,
// no type-arguments) identifier is immediately followed by '.' idents.
func (p *Parser) parseNameApplicationOrTraverse() Pattern {
	start := p.tok.Span
	first := p.expect(TokIdent).Text
	path := first

	for p.tok.Kind == TokDoubleColon {
		p.advance()
		path += "::" + p.expect(TokIdent).Text
	}

	if p.tok.Kind == TokDot {
		var segments []string
		segments = append(segments, path)
		for p.tok.Kind == TokDot {
			p.advance()
			segments = append(segments, p.expect(TokIdent).Text)
		}
		return Pattern{Kind: PatTraverseChain, TraversePath: segments, Span: start.Cover(p.prevSpan())}
	}

	var args []Pattern
	if p.tok.Kind == TokLAngle {
		p.advance()
		args = append(args, p.parsePattern())
		for p.tok.Kind == TokComma {
			p.advance()
			args = append(args, p.parsePattern())
		}
		end := p.tok.Span
		p.expect(TokRAngle)
		return Pattern{Kind: PatNameApplication, Path: path, Args: args, Span: start.Cover(end)}
	}

	return Pattern{Kind: PatNameApplication, Path: path, Span: start.Cover(p.prevSpan())}
}

// prevSpan approximates "the span up to, but not including, the current
// token" for nodes that don't consume a trailing delimiter themselves.
func (p *Parser) prevSpan() Span {
	return Span{Source: p.source, Start: p.tok.Span.Start, End: p.tok.Span.Start}
}

// parseExpressionBlock parses "(" expr ")" into PatExpr.
func (p *Parser) parseExpressionBlock() Pattern {
	start := p.tok.Span
	p.expect(TokLParen)
	e := p.parseExprCompare()
	end := p.tok.Span
	p.expect(TokRParen)
	return Pattern{Kind: PatExpr, ExprNode: &e, Span: start.Cover(end)}
}

// parseExprCompare parses a single comparison: primary (op primary)?.
// The surface grammar's punctuation set has no distinct '+'/'-'/'*'/'/'
// tokens ('-' is a valid identifier character in the token regex), so
// arithmetic is exposed through named built-ins rather than infix
// operators; only the comparison operators built from existing
// punctuation (=, !, <, >) are parsed here.
func (p *Parser) parseExprCompare() Expr {
	left := p.parseExprPrimary()
	op, ok := p.exprCompareOp()
	if !ok {
		return left
	}
	p.advance()
	right := p.parseExprPrimary()
	l, r := left, right
	return Expr{Kind: ExprBinary, Op: op, Left: &l, Right: &r, Span: l.Span.Cover(r.Span)}
}

func (p *Parser) exprCompareOp() (ExprOp, bool) {
	switch p.tok.Kind {
	case TokEquals:
		return OpEq, true
	case TokBang:
		return OpNe, true
	case TokLAngle:
		return OpLt, true
	case TokRAngle:
		return OpGt, true
	default:
		return 0, false
	}
}

func (p *Parser) parseExprPrimary() Expr {
	start := p.tok.Span
	switch p.tok.Kind {
	case TokString:
		text := p.tok.Text
		p.advance()
		return Expr{Kind: ExprLiteral, LiteralKind: PatConstString, StringValue: text, Span: start}
	case TokInteger:
		n, _ := strconv.ParseInt(p.tok.Text, 10, 64)
		p.advance()
		return Expr{Kind: ExprLiteral, LiteralKind: PatConstInteger, IntegerValue: n, Span: start}
	case TokDecimal:
		f, _ := strconv.ParseFloat(p.tok.Text, 64)
		p.advance()
		return Expr{Kind: ExprLiteral, LiteralKind: PatConstDecimal, DecimalValue: f, Span: start}
	case TokTrue:
		p.advance()
		return Expr{Kind: ExprLiteral, LiteralKind: PatConstBool, BoolValue: true, Span: start}
	case TokFalse:
		p.advance()
		return Expr{Kind: ExprLiteral, LiteralKind: PatConstBool, BoolValue: false, Span: start}
	case TokLParen:
		p.advance()
		inner := p.parseExprCompare()
		end := p.tok.Span
		p.expect(TokRParen)
		inner.Span = start.Cover(end)
		return inner
	case TokIdent:
		name := p.tok.Text
		p.advance()
		if name != "self" {
			p.errorf(start, "expected 'self' or a literal in an expression block, found %q", name)
		}
		e := Expr{Kind: ExprSelf, Span: start}
		for p.tok.Kind == TokDot {
			p.advance()
			field := p.expect(TokIdent).Text
			inner := e
			e = Expr{Kind: ExprField, Field: field, Inner: &inner, Span: start.Cover(p.prevSpan())}
		}
		return e
	default:
		p.errorf(p.tok.Span, "expected an expression, found %s %q", p.tok.Kind, p.tok.Text)
		tok := p.tok
		p.advance()
		return Expr{Kind: ExprLiteral, LiteralKind: PatConstBool, BoolValue: false, Span: tok.Span}
	}
}
