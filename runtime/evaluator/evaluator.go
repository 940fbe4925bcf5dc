// Package evaluator evaluates guard and condition expressions against
// subject properties.
//
// Expressions use Go syntax, optionally wrapped in ${...}. Identifiers and
// selectors resolve against the supplied variables (maps, structs or pointers
// to structs). Single quoted literals are accepted as strings; len(x) and
// contains(list, value) are available, for example:
//
//	subject.published && len(subject.title) > 0
//	contains(marking, 'review') || subject.priority >= 3
package evaluator

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var singleQuoted = regexp.MustCompile(`'([^']*)'`)

// Evaluator evaluates expressions; parsed expressions are cached
type Evaluator struct {
	cache sync.Map
}

// New creates an evaluator
func New() *Evaluator {
	return &Evaluator{}
}

// IsTrue evaluates a boolean expression, an empty expression is true
func (e *Evaluator) IsTrue(expr string, variables map[string]interface{}) (bool, error) {
	if strings.TrimSpace(expr) == "" {
		return true, nil
	}
	value, err := e.Evaluate(expr, variables)
	if err != nil {
		return false, err
	}
	flag, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("expression %q: expected bool, got %T", expr, value)
	}
	return flag, nil
}

// Evaluate evaluates an expression
func (e *Evaluator) Evaluate(expr string, variables map[string]interface{}) (interface{}, error) {
	node, err := e.parse(expr)
	if err != nil {
		return nil, err
	}
	return (&scope{variables: variables}).eval(node)
}

func (e *Evaluator) parse(expr string) (ast.Expr, error) {
	if cached, ok := e.cache.Load(expr); ok {
		return cached.(ast.Expr), nil
	}
	source := strings.TrimSpace(expr)
	if strings.HasPrefix(source, "${") && strings.HasSuffix(source, "}") {
		source = source[2 : len(source)-1]
	}
	node, err := parser.ParseExpr(singleQuoted.ReplaceAllString(source, `"$1"`))
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	e.cache.Store(expr, node)
	return node, nil
}

type scope struct {
	variables map[string]interface{}
}

func (s *scope) eval(node ast.Expr) (interface{}, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		return literal(n)
	case *ast.Ident:
		switch n.Name {
		case "true":
			return true, nil
		case "false":
			return false, nil
		case "nil":
			return nil, nil
		}
		return s.variables[n.Name], nil
	case *ast.ParenExpr:
		return s.eval(n.X)
	case *ast.SelectorExpr:
		x, err := s.eval(n.X)
		if err != nil {
			return nil, err
		}
		return property(x, n.Sel.Name), nil
	case *ast.IndexExpr:
		x, err := s.eval(n.X)
		if err != nil {
			return nil, err
		}
		index, err := s.eval(n.Index)
		if err != nil {
			return nil, err
		}
		return element(x, index), nil
	case *ast.UnaryExpr:
		x, err := s.eval(n.X)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case token.NOT:
			return !truthy(x), nil
		case token.SUB:
			if isInt(x) {
				return -toInt(x), nil
			}
			return -toFloat(x), nil
		}
		return nil, fmt.Errorf("unsupported unary operator %v", n.Op)
	case *ast.BinaryExpr:
		return s.binary(n)
	case *ast.CallExpr:
		return s.call(n)
	}
	return nil, fmt.Errorf("unsupported expression %T", node)
}

func (s *scope) binary(n *ast.BinaryExpr) (interface{}, error) {
	x, err := s.eval(n.X)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.LAND:
		if !truthy(x) {
			return false, nil
		}
		y, err := s.eval(n.Y)
		return truthy(y), err
	case token.LOR:
		if truthy(x) {
			return true, nil
		}
		y, err := s.eval(n.Y)
		return truthy(y), err
	}
	y, err := s.eval(n.Y)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case token.EQL:
		return equal(x, y), nil
	case token.NEQ:
		return !equal(x, y), nil
	case token.LSS:
		return compare(x, y) < 0, nil
	case token.GTR:
		return compare(x, y) > 0, nil
	case token.LEQ:
		return compare(x, y) <= 0, nil
	case token.GEQ:
		return compare(x, y) >= 0, nil
	case token.ADD:
		if xs, ok := x.(string); ok {
			return xs + fmt.Sprint(y), nil
		}
		if isInt(x) && isInt(y) {
			return toInt(x) + toInt(y), nil
		}
		return toFloat(x) + toFloat(y), nil
	case token.SUB:
		if isInt(x) && isInt(y) {
			return toInt(x) - toInt(y), nil
		}
		return toFloat(x) - toFloat(y), nil
	case token.MUL:
		if isInt(x) && isInt(y) {
			return toInt(x) * toInt(y), nil
		}
		return toFloat(x) * toFloat(y), nil
	case token.QUO:
		if toFloat(y) == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return toFloat(x) / toFloat(y), nil
	case token.REM:
		if toInt(y) == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return toInt(x) % toInt(y), nil
	}
	return nil, fmt.Errorf("unsupported operator %v", n.Op)
}

func (s *scope) call(n *ast.CallExpr) (interface{}, error) {
	fn, ok := n.Fun.(*ast.Ident)
	if !ok {
		return nil, fmt.Errorf("unsupported call")
	}
	args := make([]interface{}, 0, len(n.Args))
	for _, arg := range n.Args {
		value, err := s.eval(arg)
		if err != nil {
			return nil, err
		}
		args = append(args, value)
	}
	switch fn.Name {
	case "len":
		if len(args) != 1 {
			return nil, fmt.Errorf("len expects 1 argument, got %d", len(args))
		}
		return length(args[0]), nil
	case "contains":
		if len(args) != 2 {
			return nil, fmt.Errorf("contains expects 2 arguments, got %d", len(args))
		}
		return contains(args[0], args[1]), nil
	}
	return nil, fmt.Errorf("unknown function %v", fn.Name)
}

func literal(n *ast.BasicLit) (interface{}, error) {
	switch n.Kind {
	case token.INT:
		return strconv.Atoi(n.Value)
	case token.FLOAT:
		return strconv.ParseFloat(n.Value, 64)
	case token.STRING, token.CHAR:
		if unquoted, err := strconv.Unquote(n.Value); err == nil {
			return unquoted, nil
		}
		return strings.Trim(n.Value, "\"'`"), nil
	}
	return nil, fmt.Errorf("unsupported literal %v", n.Value)
}

func property(value interface{}, name string) interface{} {
	if value == nil {
		return nil
	}
	if aMap, ok := value.(map[string]interface{}); ok {
		return aMap[name]
	}
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil
		}
		item := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
		if !item.IsValid() {
			return nil
		}
		return item.Interface()
	case reflect.Struct:
		field := rv.FieldByNameFunc(func(candidate string) bool { return strings.EqualFold(candidate, name) })
		if !field.IsValid() || !field.CanInterface() {
			return nil
		}
		return field.Interface()
	}
	return nil
}

func element(value interface{}, index interface{}) interface{} {
	if key, ok := index.(string); ok {
		return property(value, key)
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil
	}
	i := toInt(index)
	if i < 0 || i >= rv.Len() {
		return nil
	}
	return rv.Index(i).Interface()
}

func length(value interface{}) int {
	if value == nil {
		return 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len()
	}
	return 0
}

func contains(collection interface{}, value interface{}) bool {
	if text, ok := collection.(string); ok {
		return strings.Contains(text, fmt.Sprint(value))
	}
	rv := reflect.ValueOf(collection)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if equal(rv.Index(i).Interface(), value) {
				return true
			}
		}
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return rv.MapIndex(reflect.ValueOf(fmt.Sprint(value)).Convert(rv.Type().Key())).IsValid()
		}
	}
	return false
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	if isNumber(value) {
		return toFloat(value) != 0
	}
	return length(value) > 0 || reflect.ValueOf(value).Kind() == reflect.Struct
}

func equal(x, y interface{}) bool {
	if isNumber(x) && isNumber(y) {
		return toFloat(x) == toFloat(y)
	}
	return reflect.DeepEqual(x, y)
}

func compare(x, y interface{}) int {
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok {
			return strings.Compare(xs, ys)
		}
	}
	xf, yf := toFloat(x), toFloat(y)
	switch {
	case xf < yf:
		return -1
	case xf > yf:
		return 1
	}
	return 0
}

func isNumber(v interface{}) bool {
	return isInt(v) || isFloat(v)
}

func isInt(v interface{}) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

func isFloat(v interface{}) bool {
	switch v.(type) {
	case float32, float64:
		return true
	}
	return false
}

func toInt(v interface{}) int {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int(rv.Float())
	case reflect.String:
		i, _ := strconv.Atoi(rv.String())
		return i
	}
	return 0
}

func toFloat(v interface{}) float64 {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.String:
		f, _ := strconv.ParseFloat(rv.String(), 64)
		return f
	}
	return 0
}
