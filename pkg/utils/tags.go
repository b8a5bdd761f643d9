package utils

import (
	"reflect"
	"strings"
)

// TagNames returns the name part of the given struct tag for every
// exported field of s, in declaration order. Fields tagged "-" or
// ",squash" are skipped.
func TagNames(tag string, s any) []string {
	reflected := reflect.TypeOf(s)
	if reflected.Kind() == reflect.Ptr {
		reflected = reflected.Elem()
	}
	names := make([]string, 0, reflected.NumField())
	for i := 0; i < reflected.NumField(); i++ {
		field := reflected.Field(i)
		if !field.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// TagLookup maps a struct field name to the name part of its tag.
func TagLookup(tag string, field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get(tag), ",")
	if name == "-" {
		return ""
	}
	return name
}
