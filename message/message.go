// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package message

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"github.com/stockparfait/errors"
)

// Message is the primitive building block of a JSON-based configuration or a
// communication protocol. It typically represents a JSON object, and is
// typically implemented by a struct holding the expected fields.
//
// It is intended to be implemented by struct pointers, e.g.:
//
//   type Dog struct {
//     Name string `json:"name" required:"true"`
//     Good bool `json:"good"`  // default false (the zero value)
//     Weight float64 `default:"25.5"` // json key is "Weight"
//     Sex string `required:"true" choices:"male,female"`
//     Ignored int `json:"-"`
//     Parent *Dog              // recursively parse Message
//     Pups []Dog `json:"pups"` // note the lack of pointer:
//                              // *Dog implements Message, Dog doesn't,
//                              // but it's still correctly populated.
//   }
//
//   func (d *Dog) InitMessage(js any) error {
//     return message.Init(d, js)
//   }
type Message interface {
	// InitMessage converts a generic JSON read by the encoding/json package into
	// the specific message. In particular, this method typically checks for
	// required fields, sets the default values of optional fields, and makes sure
	// that no unrecognized fields are present.
	//
	// If a Message contains other Messages as fields, this method should be
	// called recursively on the nested Messages.
	InitMessage(js any) error
}

// Policy determines how InitPolicy treats fields not declared by the Message.
type Policy int

const (
	// Strict rejects unknown fields with *UnknownFieldsError.
	Strict Policy = iota
	// Permissive returns unknown fields to the caller unchanged.
	Permissive
)

func (p Policy) String() string {
	switch p {
	case Strict:
		return "strict"
	case Permissive:
		return "permissive"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// UnknownFieldsError is returned by Init and by InitPolicy under Strict policy
// when the JSON object contains fields not declared by the Message. Fields are
// sorted.
type UnknownFieldsError struct {
	Type   string
	Fields []string
}

func (e *UnknownFieldsError) Error() string {
	return fmt.Sprintf("unsupported fields for %s: %s",
		e.Type, strings.Join(e.Fields, ", "))
}

// rMessage is the reflected Message type. Since it's an interface, we cannot
// obtain it directly, thus have to create a pointer to it (which is a non-nil
// reflect.Value even if its value is nil), and thus TypeOf returns a valid
// type.
var rMessage = reflect.TypeOf((*Message)(nil)).Elem()

func convertToMessage(jv any, t reflect.Type) (reflect.Value, error) {
	var Nil reflect.Value
	if !t.Implements(rMessage) {
		return Nil, errors.Reason("type %s must implement Message", t.Name())
	}
	if t.Kind() != reflect.Ptr {
		return Nil, errors.Reason(
			"type %s implements Message but is not a pointer", t.Name())
	}
	ptr := reflect.New(t.Elem())
	if err := ptr.Interface().(Message).InitMessage(jv); err != nil {
		return Nil, errors.Annotate(err, "%s.InitMessage() failed", t.Name())
	}
	return ptr, nil
}

// toInt64 accepts integer and whole float Go values as well as numeric
// strings. TOML decodes integers as int64, JSON as float64.
func toInt64(jv any) (int64, error) {
	switch v := jv.(type) {
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, errors.Reason("not an integer: %v", jv)
		}
		return int64(v), nil
	case float32:
		return toInt64(float64(v))
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, errors.Reason("not an integer: %q", v)
		}
		return n, nil
	case bool:
		return 0, errors.Reason("not a numeric type: %v", jv)
	}
	rv := reflect.ValueOf(jv)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	}
	return 0, errors.Reason("not a numeric type: %v", jv)
}

func toFloat64(jv any) (float64, error) {
	switch v := jv.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, errors.Reason("not a number: %q", v)
		}
		return f, nil
	}
	n, err := toInt64(jv)
	if err != nil {
		return 0, errors.Reason("not a numeric type: %v", jv)
	}
	return float64(n), nil
}

// convertToType recursively converts raw JSON value to basic types, slices and
// map[string]* of the target type. Pointer types implementing Message are
// initialized with their InitMessage() method. If jv == nil, set to zero or
// default Message value, as appropriate.
//
// Besides the types produced by encoding/json, native Go values are accepted,
// so that messages can be built from TOML or from literal Go maps.
func convertToType(jv any, t reflect.Type) (reflect.Value, error) {
	var Nil reflect.Value
	if t.Implements(rMessage) {
		if jv == nil {
			return reflect.Zero(t), nil
		}
		ptr, err := convertToMessage(jv, t)
		if err != nil {
			return Nil, errors.Annotate(err, "failed to parse Message %s", t.Name())
		}
		return ptr, nil
	}
	if ptrTp := reflect.PtrTo(t); ptrTp.Implements(rMessage) {
		if jv == nil {
			jv = make(map[string]any) // force default values for t
		}
		ptr, err := convertToMessage(jv, ptrTp)
		if err != nil {
			return Nil, errors.Annotate(err, "failed to parse Message %s", t.Name())
		}
		return reflect.Indirect(ptr), nil
	}
	if jv == nil {
		return reflect.Zero(t), nil
	}
	switch t.Kind() {
	case reflect.Interface:
		v := reflect.ValueOf(jv)
		if !v.Type().AssignableTo(t) {
			return Nil, errors.Reason("%T cannot be assigned to %s", jv, t.String())
		}
		return v, nil

	case reflect.Ptr:
		v, err := convertToType(jv, t.Elem())
		if err != nil {
			return Nil, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil

	case reflect.Bool:
		switch v := jv.(type) {
		case bool:
			return reflect.ValueOf(v).Convert(t), nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return Nil, errors.Reason("not a bool type: %q", v)
			}
			return reflect.ValueOf(b).Convert(t), nil
		}
		return Nil, errors.Reason("not a bool type: %v", jv)

	case reflect.Int, reflect.Int64:
		n, err := toInt64(jv)
		if err != nil {
			return Nil, err
		}
		return reflect.ValueOf(n).Convert(t), nil

	case reflect.Float64:
		f, err := toFloat64(jv)
		if err != nil {
			return Nil, err
		}
		return reflect.ValueOf(f).Convert(t), nil

	case reflect.String:
		switch v := jv.(type) {
		case string:
			return reflect.ValueOf(v).Convert(t), nil
		case fmt.Stringer:
			return reflect.ValueOf(v.String()).Convert(t), nil
		}
		return Nil, errors.Reason("not a string type: %v", jv)

	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return Nil, errors.Reason(
				"map[%s] is not supported", t.Key().Kind().String())
		}
		rv := reflect.ValueOf(jv)
		if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
			return Nil, errors.Reason("not a map[string] type: %v", jv)
		}
		res := reflect.MakeMapWithSize(t, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			el, err := convertToType(iter.Value().Interface(), t.Elem())
			if err != nil {
				return Nil, errors.Annotate(err, "key %s", iter.Key().String())
			}
			res.SetMapIndex(reflect.ValueOf(iter.Key().String()).Convert(t.Key()), el)
		}
		return res, nil

	case reflect.Slice:
		rv := reflect.ValueOf(jv)
		if k := rv.Kind(); k != reflect.Slice && k != reflect.Array {
			return Nil, errors.Reason("not a slice type: %v", jv)
		}
		res := reflect.MakeSlice(t, rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			el, err := convertToType(rv.Index(i).Interface(), t.Elem())
			if err != nil {
				return Nil, errors.Annotate(err, "element %d", i)
			}
			res.Index(i).Set(el)
		}
		return res, nil

	default:
		return Nil, errors.Reason("unsupported type: %s", t.String())
	}
}

// fromString attempts to convert a string s to the type t. This is used to
// extract default values from struct tags.
func fromString(s string, t reflect.Type) (reflect.Value, error) {
	var Nil reflect.Value
	switch t.Kind() {
	case reflect.Ptr:
		v, err := fromString(s, t.Elem())
		if err != nil {
			return Nil, err
		}
		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		return ptr, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return Nil, errors.Annotate(err, "invalid bool value: %s", s)
		}
		return reflect.ValueOf(v).Convert(t), nil
	case reflect.Int, reflect.Int64:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Nil, errors.Annotate(err, "invalid int value: %s", s)
		}
		return reflect.ValueOf(v).Convert(t), nil
	case reflect.Float64:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Nil, errors.Annotate(err, "invalid float64 value: %s", s)
		}
		return reflect.ValueOf(v).Convert(t), nil
	case reflect.String:
		return reflect.ValueOf(s).Convert(t), nil
	case reflect.Slice:
		// Comma-separated list of elements.
		parts := strings.Split(s, ",")
		res := reflect.MakeSlice(t, len(parts), len(parts))
		for i, p := range parts {
			v, err := fromString(strings.TrimSpace(p), t.Elem())
			if err != nil {
				return Nil, err
			}
			res.Index(i).Set(v)
		}
		return res, nil
	}
	if ptrTp := reflect.PtrTo(t); ptrTp.Implements(rMessage) {
		ptr, err := convertToMessage(s, ptrTp)
		if err != nil {
			return Nil, err
		}
		return reflect.Indirect(ptr), nil
	}
	return Nil, errors.Reason("type %s is not supported", t.Name())
}

// checkSet sets the value fv of a struct field f to the value v and checks that
// the value is valid.
func checkSet(f reflect.StructField, fv reflect.Value, v reflect.Value) error {
	if choices, ok := f.Tag.Lookup("choices"); ok {
		if f.Type.Kind() != reflect.String {
			return errors.Reason(
				"choices tag applied to a non-string field: %s", f.Name)
		}
		s := v.String()
		if !StringIn(s, strings.Split(choices, ",")...) {
			return errors.Reason(
				"value for %s is not in its choice list: '%s'", f.Name, s)
		}
	}
	fv.Set(v)
	return nil
}

// JSONName returns the message key of the struct field, and false if the field
// is not part of a message.
func JSONName(f reflect.StructField) (string, bool) {
	firstChar, _ := utf8.DecodeRuneInString(f.Name)
	if !unicode.IsUpper(firstChar) {
		return "", false
	}
	jsonName := f.Name
	if jsonTag := f.Tag.Get("json"); jsonTag != "" {
		parts := strings.Split(jsonTag, ",")
		if parts[0] == "-" {
			return "", false
		}
		if parts[0] != "" {
			jsonName = parts[0]
		}
	}
	return jsonName, true
}

// Init is a generic method to be used by most Message.InitMessage
// implementations. It expects m to be a struct, and js to be a non-nil
// map[string]any. It uses struct tags to know if a field is required or if it
// has a simple default value (such as a string, number or bool).
//
// If the field type is another Message, it calls the Message's InitMessage()
// method. Otherwise, it converts whatever value it finds to the appropriate
// type and assigns it.
//
// It then checks the original JSON for any unrecognized fields and returns
// *UnknownFieldsError if there are any.
//
// Recognized struct tags:
// `json:"field_name" required:"true" default:"value" choices:"one,two,three"`
//
// The `json:` tag is compatible with the encoding/json package. In particular,
// only exported fields are considered part of a message; a missing json tag is
// equivalent to `json:"FieldName"`, and qualifiers like `json:",omitempty"` are
// accepted but ignored. This allows the struct to be marshaled into a
// message-compatible JSON directly.
//
// The "choices" tag is currently supported only for string fields.
func Init(m Message, js any) error {
	_, err := InitPolicy(m, js, Strict)
	return err
}

// InitPolicy is Init with an explicit unknown-field policy. Under Permissive
// policy the unknown fields are returned as a new map, nil when there are none.
func InitPolicy(m Message, js any, p Policy) (map[string]any, error) {
	rt := reflect.TypeOf(m)
	if !(rt.Kind() == reflect.Ptr && rt.Elem().Kind() == reflect.Struct) {
		return nil, errors.Reason(
			"expected Message instance to be a struct pointer, but got %s.",
			rt.Name())
	}
	if js == nil {
		return nil, errors.Reason("JSON object is nil")
	}
	jsMap, ok := js.(map[string]any)
	if !ok {
		return nil, errors.Reason("JSON object is not a map: %v.", js)
	}

	rt = rt.Elem() // we really need the original struct type and value
	rv := reflect.ValueOf(m).Elem()
	foundFields := make(map[string]struct{}) // to check for unknown fields
	missingRequired := []string{}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		rfv := rv.Field(i)
		jsonName, ok := JSONName(f)
		if !ok {
			continue
		}
		if jv, ok := jsMap[jsonName]; ok {
			foundFields[jsonName] = struct{}{}
			v, err := convertToType(jv, f.Type)
			if err != nil {
				return nil, errors.Annotate(err, "error assigning field %s", f.Name)
			}
			if err := checkSet(f, rfv, v); err != nil {
				return nil, err
			}
			continue
		}

		// No value in JSON, figure out what to do.
		if f.Tag.Get("required") == "true" {
			missingRequired = append(missingRequired, jsonName)
			continue
		}
		if defaultVal, ok := f.Tag.Lookup("default"); ok {
			v, err := fromString(defaultVal, f.Type)
			if err != nil {
				return nil, errors.Annotate(
					err, "error setting default value for %s", f.Name)
			}
			if err := checkSet(f, rfv, v); err != nil {
				return nil, err
			}
			continue
		}
		// Not required and no default: set it to default or zero value. Note, that
		// we still need to check its validity, e.g. in case there is a `choices`
		// tag.
		v, err := convertToType(nil, f.Type)
		if err != nil {
			return nil, errors.Annotate(err, "error creating default value for %s", f.Name)
		}
		if err := checkSet(f, rfv, v); err != nil {
			return nil, errors.Annotate(err, "error setting Go zero value for %s", f.Name)
		}
	}
	if len(missingRequired) != 0 {
		return nil, errors.Reason(
			"missing required fields: %s",
			strings.Join(missingRequired, ", "))
	}
	var extra map[string]any
	for k, v := range jsMap {
		if _, ok := foundFields[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	if len(extra) == 0 || p == Permissive {
		return extra, nil
	}
	fields := make([]string, 0, len(extra))
	for k := range extra {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return nil, &UnknownFieldsError{Type: rt.Name(), Fields: fields}
}

// FromFile reads a JSON or TOML file (by its ".toml" extension) and
// initializes m from its top-level object.
func FromFile(m Message, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Annotate(err, "failed to read %s", path)
	}
	var js any
	if strings.ToLower(filepath.Ext(path)) == ".toml" {
		var t map[string]any
		if err := toml.Unmarshal(data, &t); err != nil {
			return errors.Annotate(err, "failed to parse TOML in %s", path)
		}
		js = t
	} else if err := json.Unmarshal(data, &js); err != nil {
		return errors.Annotate(err, "failed to parse JSON in %s", path)
	}
	if err := m.InitMessage(js); err != nil {
		return errors.Annotate(err, "failed to init message from %s", path)
	}
	return nil
}

// StringIn checks that s equals one of the values.
func StringIn(s string, values ...string) bool {
	for _, v := range values {
		if s == v {
			return true
		}
	}
	return false
}
