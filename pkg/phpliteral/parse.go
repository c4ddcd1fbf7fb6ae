package phpliteral

import (
	"errors"
	"fmt"
	"strings"

	"github.com/VKCOM/php-parser/pkg/ast"
	"github.com/VKCOM/php-parser/pkg/conf"
	phperrors "github.com/VKCOM/php-parser/pkg/errors"
	"github.com/VKCOM/php-parser/pkg/parser"
	"github.com/VKCOM/php-parser/pkg/version"
)

// ErrNoArrayLiteral is returned when the source contains no array literal
// where one was expected.
var ErrNoArrayLiteral = errors.New("no array literal found")

// phpVersion is the language level list files and manifests are parsed at.
var phpVersion = &version.Version{Major: 8, Minor: 0}

// ParseArray returns the string values of the first array literal that a
// top-level statement returns or assigns. Both the short `[...]` and long
// `array(...)` forms are accepted, and any `key =>` prefixes are dropped.
func ParseArray(src []byte) ([]string, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	for _, stmt := range root.Stmts {
		var expr ast.Vertex
		switch s := stmt.(type) {
		case *ast.StmtReturn:
			expr = s.Expr
		case *ast.StmtExpression:
			if assign, ok := s.Expr.(*ast.ExprAssign); ok {
				expr = assign.Expr
			}
		}
		if arr, ok := unwrap(expr).(*ast.ExprArray); ok {
			return values(arr)
		}
	}
	return nil, ErrNoArrayLiteral
}

// ParseReturn parses a list file of the form `<?php return [...];`.
func ParseReturn(src []byte) ([]string, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	for _, stmt := range root.Stmts {
		ret, ok := stmt.(*ast.StmtReturn)
		if !ok {
			continue
		}
		return arrayValues(ret.Expr, "return statement")
	}
	return nil, fmt.Errorf("%w: missing return statement", ErrNoArrayLiteral)
}

// ParseVariable parses the array assigned to the PHP variable name
// (with or without the leading "$").
func ParseVariable(src []byte, name string) ([]string, error) {
	root, err := parse(src)
	if err != nil {
		return nil, err
	}
	want := strings.TrimPrefix(name, "$")
	for _, stmt := range root.Stmts {
		s, ok := stmt.(*ast.StmtExpression)
		if !ok {
			continue
		}
		assign, ok := s.Expr.(*ast.ExprAssign)
		if !ok || variableName(assign.Var) != want {
			continue
		}
		return arrayValues(assign.Expr, "assignment to $"+want)
	}
	return nil, fmt.Errorf("%w: missing assignment to $%s", ErrNoArrayLiteral, want)
}

func parse(src []byte) (*ast.Root, error) {
	var syntaxErrs []*phperrors.Error
	node, err := parser.Parse(src, conf.Config{
		Version: phpVersion,
		ErrorHandlerFunc: func(e *phperrors.Error) {
			syntaxErrs = append(syntaxErrs, e)
		},
	})
	if err != nil {
		return nil, err
	}
	if len(syntaxErrs) > 0 {
		return nil, fmt.Errorf("php syntax error: %s", syntaxErrs[0].String())
	}
	root, ok := node.(*ast.Root)
	if !ok || root == nil {
		return nil, fmt.Errorf("%w: empty source", ErrNoArrayLiteral)
	}
	return root, nil
}

func arrayValues(expr ast.Vertex, what string) ([]string, error) {
	arr, ok := unwrap(expr).(*ast.ExprArray)
	if !ok {
		return nil, fmt.Errorf("%w: %s is followed by %s", ErrNoArrayLiteral, what, describe(expr))
	}
	return values(arr)
}

func values(arr *ast.ExprArray) ([]string, error) {
	out := make([]string, 0, len(arr.Items))
	for _, v := range arr.Items {
		item, ok := v.(*ast.ExprArrayItem)
		if !ok || item == nil || item.Val == nil {
			continue
		}
		if item.EllipsisTkn != nil {
			return nil, fmt.Errorf("unsupported spread %s: only string values are supported", describe(item))
		}
		s, err := constString(item.Val)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// constString evaluates a string literal or a concatenation of string
// literals.
func constString(n ast.Vertex) (string, error) {
	switch v := unwrap(n).(type) {
	case *ast.ScalarString:
		return Unquote(v.Value)
	case *ast.ExprBinaryConcat:
		left, err := constString(v.Left)
		if err != nil {
			return "", err
		}
		right, err := constString(v.Right)
		if err != nil {
			return "", err
		}
		return left + right, nil
	default:
		return "", fmt.Errorf("unsupported %s: only string values are supported", describe(n))
	}
}

func unwrap(n ast.Vertex) ast.Vertex {
	for {
		b, ok := n.(*ast.ExprBrackets)
		if !ok {
			return n
		}
		n = b.Expr
	}
}

func variableName(n ast.Vertex) string {
	v, ok := n.(*ast.ExprVariable)
	if !ok {
		return ""
	}
	id, ok := v.Name.(*ast.Identifier)
	if !ok {
		return ""
	}
	return strings.TrimPrefix(string(id.Value), "$")
}

func describe(n ast.Vertex) string {
	if n == nil {
		return "nothing"
	}
	kind := strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
	if pos := n.GetPosition(); pos != nil {
		return fmt.Sprintf("%s on line %d", kind, pos.StartLine)
	}
	return kind
}
