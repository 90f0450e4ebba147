// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package ast

import "testing"

func collectKinds(t *testing.T, src string) []TokenKind {
	t.Helper()
	lex := NewLexer("test.dog", src)
	var kinds []TokenKind
	for {
		tok := lex.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == TokEOF {
			return kinds
		}
	}
}

func TestLexerBasicTokens(t *testing.T) {
	kinds := collectKinds(t, `pattern foo<T> = { a?: "x", b: 3, c: 1.5 }`)
	want := []TokenKind{
		TokPattern, TokIdent, TokLAngle, TokIdent, TokRAngle, TokEquals,
		TokLBrace, TokIdent, TokQuestion, TokColon, TokString, TokComma,
		TokIdent, TokColon, TokInteger, TokComma, TokIdent, TokColon,
		TokDecimal, TokRBrace, TokEOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(kinds), len(want), kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLexerDoubleColon(t *testing.T) {
	kinds := collectKinds(t, `csaf::csaf`)
	want := []TokenKind{TokIdent, TokDoubleColon, TokIdent, TokEOF}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("token[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLexerDocCommentVsLineComment(t *testing.T) {
	lex := NewLexer("test.dog", "/// doc\n// plain\nident")
	doc := lex.Next()
	if doc.Kind != TokDocComment || doc.Text != "doc" {
		t.Fatalf("doc = %+v", doc)
	}
	plain := lex.Next()
	if plain.Kind != TokLineComment {
		t.Fatalf("plain = %+v", plain)
	}
	ident := lex.Next()
	if ident.Kind != TokIdent || ident.Text != "ident" {
		t.Fatalf("ident = %+v", ident)
	}
}

func TestLexerStringEscapes(t *testing.T) {
	lex := NewLexer("test.dog", `"a\nb\"c"`)
	tok := lex.Next()
	if tok.Kind != TokString {
		t.Fatalf("Kind = %v", tok.Kind)
	}
	want := "a\nb\"c"
	if tok.Text != want {
		t.Fatalf("Text = %q, want %q", tok.Text, want)
	}
}

func TestLexerUnterminatedStringIsIllegal(t *testing.T) {
	lex := NewLexer("test.dog", `"unterminated`)
	tok := lex.Next()
	if tok.Kind != TokIllegal {
		t.Fatalf("Kind = %v, want TokIllegal", tok.Kind)
	}
}

func TestLexerIdentifierAllowsDash(t *testing.T) {
	lex := NewLexer("test.dog", `delay-ms`)
	tok := lex.Next()
	if tok.Kind != TokIdent || tok.Text != "delay-ms" {
		t.Fatalf("tok = %+v", tok)
	}
}
