// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package lir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kennel-lang/kennel/internal/value"
)

// Arena owns every Node built for one World. Nodes are appended once and
// never mutated in place; Ref resolution at evaluation time goes through
// the World's name table, not through Arena handles, which is what lets
// the same Arena represent a graph that's a DAG at build time but gets
// traversed cyclically at evaluation time through Ref.
type Arena struct {
	nodes  []Node
	intern map[string]Handle // structural key -> handle, for anonymous-node dedup
}

func NewArena() *Arena {
	return &Arena{intern: make(map[string]Handle)}
}

// Anything and Nothing are added once per Arena on first request and
// then shared — every Arena has at most one of each.
func (a *Arena) Anything() Handle { return a.internLeaf(Node{Kind: KindAnything}, "anything") }
func (a *Arena) Nothing() Handle  { return a.internLeaf(Node{Kind: KindNothing}, "nothing") }

func (a *Arena) internLeaf(n Node, key string) Handle {
	if h, ok := a.intern[key]; ok {
		return h
	}
	h := a.push(n)
	a.intern[key] = h
	return h
}

// push appends a node unconditionally and returns its handle. Named
// (Ref-reachable) pattern bodies are always pushed, not interned, since
// distinct declarations may happen to be structurally identical but
// must still be addressable as distinct World entries via their own
// wrapping Ref.
func (a *Arena) push(n Node) Handle {
	a.nodes = append(a.nodes, n)
	return Handle(len(a.nodes) - 1)
}

// Get dereferences a handle.
func (a *Arena) Get(h Handle) Node {
	return a.nodes[h]
}

// NewPrimordial interns a scalar-type check node.
func (a *Arena) NewPrimordial(kind PrimordialKind) Handle {
	key := fmt.Sprintf("primordial:%d", kind)
	return a.internLeaf(Node{Kind: KindPrimordial, Primordial: kind}, key)
}

// NewFunction interns (by fully-qualified name) a Function-backed node.
// Functions are registered once per name; every Ref to the same builtin
// shares the same node.
func (a *Arena) NewFunction(name string, sugar FunctionSugar, fn Function) Handle {
	key := "func:" + name
	if h, ok := a.intern[key]; ok {
		return h
	}
	h := a.push(Node{Kind: KindPrimordial, Primordial: PrimordialFunction, FuncName: name, Sugar: sugar, Func: fn})
	a.intern[key] = h
	return h
}

// NewConst interns a literal-equality node, keyed by its kind-tagged
// debug rendering so e.g. the integer 3 and the decimal 3.0 stay
// distinct nodes.
func (a *Arena) NewConst(v value.Value) Handle {
	key := "const:" + strconv.Itoa(int(v.Kind())) + ":" + v.GoString()
	return a.internLeaf(Node{Kind: KindConst, Const: v}, key)
}

// NewObject always pushes: object field sets are rarely repeated
// verbatim and structural-equality checking a field list isn't worth
// the cost: only scalar/function leaves are deduped here.
func (a *Arena) NewObject(fields []ObjectField) Handle {
	return a.push(Node{Kind: KindObject, Fields: fields})
}

func (a *Arena) NewList(element Handle, card *Cardinality) Handle {
	return a.push(Node{Kind: KindList, Element: element, Cardinality: card})
}

func (a *Arena) NewExpr(e *Expr) Handle {
	return a.push(Node{Kind: KindExpr, ExprNode: e})
}

func (a *Arena) NewArgument(index int) Handle {
	key := "arg:" + strconv.Itoa(index)
	return a.internLeaf(Node{Kind: KindArgument, ArgIndex: index}, key)
}

func (a *Arena) NewDeref() Handle {
	return a.internLeaf(Node{Kind: KindDeref}, "deref")
}

func (a *Arena) NewRef(name string, args []Handle) Handle {
	return a.push(Node{Kind: KindRef, RefName: name, RefArgs: args})
}

func (a *Arena) NewBound(inner Handle, bindings Bindings) Handle {
	return a.push(Node{Kind: KindBound, Inner: inner, Bindings: bindings})
}

// Size returns the number of nodes allocated, used by builder
// diagnostics and tests.
func (a *Arena) Size() int { return len(a.nodes) }

// Describe renders a short debug string for a handle, used by the
// diagnostics printer and tests.
func (a *Arena) Describe(h Handle) string {
	n := a.Get(h)
	var b strings.Builder
	switch n.Kind {
	case KindAnything:
		b.WriteString("anything")
	case KindNothing:
		b.WriteString("nothing")
	case KindPrimordial:
		if n.Func != nil {
			b.WriteString("fn:" + n.FuncName)
		} else {
			fmt.Fprintf(&b, "primordial:%d", n.Primordial)
		}
	case KindConst:
		b.WriteString("const")
	case KindObject:
		fmt.Fprintf(&b, "object(%d fields)", len(n.Fields))
	case KindList:
		b.WriteString("list")
	case KindExpr:
		b.WriteString("expr")
	case KindArgument:
		fmt.Fprintf(&b, "argument(%d)", n.ArgIndex)
	case KindRef:
		fmt.Fprintf(&b, "ref(%s)", n.RefName)
	case KindDeref:
		b.WriteString("deref")
	case KindBound:
		b.WriteString("bound")
	}
	return b.String()
}
