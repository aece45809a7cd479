package astutil

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tomo-lang/tomoc/internal/ast"
	"github.com/tomo-lang/tomoc/internal/text"
)

// ToXML renders a node as an XML debug dump. Nested nodes become nested
// elements; scalar payload fields become attributes. Only & < > are
// escaped, matching the convention of the %k printf extension this dump
// backs.
func ToXML(node ast.Node) string {
	var sb strings.Builder
	var pp text.PendingPrinter
	writeXML(&sb, &pp, reflect.ValueOf(node))
	return sb.String()
}

// TypeToXML renders a type-expression node the same way.
func TypeToXML(node ast.TypeNode) string {
	var sb strings.Builder
	var pp text.PendingPrinter
	writeXML(&sb, &pp, reflect.ValueOf(node))
	return sb.String()
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

func isNodeish(v reflect.Value) bool {
	if !v.IsValid() {
		return false
	}
	t := v.Type()
	nodeType := reflect.TypeOf((*ast.Node)(nil)).Elem()
	typeNodeType := reflect.TypeOf((*ast.TypeNode)(nil)).Elem()
	return t.Implements(nodeType) || t.Implements(typeNodeType)
}

func writeXML(sb *strings.Builder, pp *text.PendingPrinter, v reflect.Value) {
	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) ||
		(v.Kind() == reflect.Interface && v.IsNil()) {
		return
	}
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}
	if v.Kind() == reflect.Pointer {
		if marker, first := pp.Enter(v.Interface()); !first {
			sb.WriteString(marker)
			return
		}
		defer pp.Exit(v.Interface())
		v = v.Elem()
	}
	if tv, ok := v.Interface().(text.Text); ok {
		sb.WriteString(escapeXML(tv.String()))
		return
	}
	if v.Kind() != reflect.Struct {
		sb.WriteString(escapeXML(fmt.Sprint(v.Interface())))
		return
	}

	name := v.Type().Name()
	t := v.Type()

	var attrs []string
	type child struct {
		name  string
		value reflect.Value
	}
	var children []child

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Name == "Span" || field.Type == reflect.TypeOf(ast.Span{}) ||
			field.Type == reflect.TypeOf(ast.TypeSpanBase{}) {
			continue
		}
		fv := v.Field(i)
		switch fv.Kind() {
		case reflect.Slice:
			if fv.Len() > 0 {
				children = append(children, child{field.Name, fv})
			}
		case reflect.Interface, reflect.Pointer:
			if !fv.IsNil() {
				children = append(children, child{field.Name, fv})
			}
		case reflect.Struct:
			children = append(children, child{field.Name, fv})
		case reflect.Bool:
			if fv.Bool() {
				attrs = append(attrs, fmt.Sprintf("%s=%q", lowerFirst(field.Name), "yes"))
			}
		default:
			if !fv.IsZero() {
				attrs = append(attrs, fmt.Sprintf("%s=%q", lowerFirst(field.Name), escapeXML(fmt.Sprint(fv.Interface()))))
			}
		}
	}

	sb.WriteByte('<')
	sb.WriteString(name)
	for _, attr := range attrs {
		sb.WriteByte(' ')
		sb.WriteString(attr)
	}
	if len(children) == 0 {
		sb.WriteString("/>")
		return
	}
	sb.WriteByte('>')
	for _, c := range children {
		fv := c.value
		if fv.Kind() == reflect.Slice {
			sb.WriteByte('<')
			sb.WriteString(c.name)
			sb.WriteByte('>')
			for j := 0; j < fv.Len(); j++ {
				writeXML(sb, pp, fv.Index(j))
			}
			sb.WriteString("</")
			sb.WriteString(c.name)
			sb.WriteByte('>')
			continue
		}
		if isNodeish(fv) || fv.Kind() == reflect.Struct {
			writeXML(sb, pp, fv)
		} else {
			sb.WriteString(escapeXML(fmt.Sprint(fv.Interface())))
		}
	}
	sb.WriteString("</")
	sb.WriteString(name)
	sb.WriteByte('>')
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
