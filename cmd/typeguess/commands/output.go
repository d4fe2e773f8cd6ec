package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	gfn "github.com/panyam/goutils/fn"
	"github.com/panyam/typeguess/guess"
	"github.com/panyam/typeguess/syntax"
	"github.com/panyam/typeguess/typesys"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	labelColor = color.New(color.FgCyan, color.Bold)
	typeColor  = color.New(color.FgGreen)
	noneColor  = color.New(color.FgYellow)
)

var titleCase = cases.Title(language.English)

// KindLabels renders a kind set as title-cased names, e.g. "Classes, Type-Variables".
func KindLabels(k guess.TypeKinds) string {
	return strings.Join(gfn.Map(k.Names(), titleCase.String), ", ")
}

// TypeList renders types one per line, numbered from 1.
func TypeList(types []*typesys.Type) []string {
	out := gfn.Map(types, (*typesys.Type).String)
	for i := range out {
		out[i] = fmt.Sprintf("%2d. %s", i+1, out[i])
	}
	return out
}

func printNode(w io.Writer, n syntax.Ref) {
	labelColor.Fprint(w, "node: ")
	fmt.Fprintf(w, "%s [%d,%d)\n", n.Kind(), n.Pos(), n.End())
}

func printResult(w io.Writer, res guess.Result) {
	switch {
	case res.HasType():
		labelColor.Fprint(w, "expected type: ")
		typeColor.Fprintln(w, res.Type.String())
	case res.HasKinds():
		labelColor.Fprint(w, "expected kinds: ")
		typeColor.Fprintln(w, KindLabels(res.Kinds))
	default:
		noneColor.Fprintln(w, "no information")
	}
}

func printTypes(w io.Writer, label string, types []*typesys.Type) {
	labelColor.Fprintf(w, "%s:\n", label)
	if len(types) == 0 {
		noneColor.Fprintln(w, "  none")
		return
	}
	for _, line := range TypeList(types) {
		typeColor.Fprintln(w, "  "+line)
	}
}
