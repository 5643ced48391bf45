package entity

import (
	"reflect"
	"strings"
)

// DBTable marks the table an entity maps to. Embed it as a named field and
// put the table in its tags:
//
//	type User struct {
//		DBTable entity.DBTable `name:"users" schema:"dbo"`
//		ID      int            `db:"id,key"`
//	}
type DBTable struct{}

var dbTableType = reflect.TypeOf((*DBTable)(nil)).Elem()

// FieldTag holds the options parsed from a `db` struct tag.
type FieldTag struct {
	Name     string
	Ignore   bool
	IsKey    bool
	IsUnique bool
	IsAuto   bool
	WireType string
}

// ParseDBTag parses a `db` tag of the form "name,opt opt key=value".
// Options may be separated by commas or spaces. A name of "-" ignores the field.
func ParseDBTag(value string) FieldTag {
	var tag FieldTag
	tagArr := strings.SplitN(value, ",", 2)
	tag.Name = strings.TrimSpace(tagArr[0])
	if tag.Name == "-" && len(tagArr) == 1 {
		tag.Name = ""
		tag.Ignore = true
		return tag
	}

	if len(tagArr) == 1 {
		return tag
	}

	checkBool := func(varr []string) bool {
		if len(varr) < 2 {
			return true
		}

		return !strings.EqualFold(strings.TrimSpace(varr[1]), "false")
	}

	det := strings.FieldsFunc(tagArr[1], func(r rune) bool {
		return r == ',' || r == ' '
	})

	for _, v := range det {
		varr := strings.SplitN(v, "=", 2)
		key := strings.ToLower(strings.TrimSpace(varr[0]))
		switch key {
		case "key", "primary":
			tag.IsKey = checkBool(varr)
		case "unique":
			tag.IsUnique = checkBool(varr)
		case "auto":
			tag.IsAuto = checkBool(varr)
		case "ignore":
			tag.Ignore = checkBool(varr)
		case "type":
			if len(varr) > 1 {
				tag.WireType = strings.TrimSpace(varr[1])
			}
		}
	}

	return tag
}
