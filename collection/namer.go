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
package collection

import (
	"github.com/stockparfait/fred/fred"
)

// Namer chooses the display name of a series, which becomes the name of its
// value column. An empty name means the series ID.
type Namer interface {
	Name(info *fred.SeriesInfo) string
}

// NameMap names series by their ID. Series not in the map keep their ID.
type NameMap map[string]string

func (m NameMap) Name(info *fred.SeriesInfo) string { return m[info.ID] }

// NameFunc derives the name from the series title.
type NameFunc func(title string) string

func (f NameFunc) Name(info *fred.SeriesInfo) string { return f(info.Title) }

// IDNamer names series by their ID.
type IDNamer struct{}

func (IDNamer) Name(info *fred.SeriesInfo) string { return info.ID }

// TitleNamer names series by their title.
type TitleNamer struct{}

func (TitleNamer) Name(info *fred.SeriesInfo) string { return info.Title }

var (
	_ Namer = NameMap{}
	_ Namer = NameFunc(nil)
	_ Namer = IDNamer{}
	_ Namer = TitleNamer{}
)

// NewNamer creates a Namer from a config value: nil or "id" for IDNamer,
// "title" for TitleNamer, a map of IDs to names, a func(string) string of the
// title, or a Namer itself.
func NewNamer(v any) (Namer, error) {
	switch x := v.(type) {
	case nil:
		return IDNamer{}, nil
	case Namer:
		if err := checkNamer(x); err != nil {
			return nil, err
		}
		return x, nil
	case string:
		switch x {
		case "id":
			return IDNamer{}, nil
		case "title":
			return TitleNamer{}, nil
		}
	case map[string]string:
		return NameMap(x), nil
	case map[string]any:
		m := make(NameMap, len(x))
		for id, name := range x {
			s, ok := name.(string)
			if !ok {
				return nil, &TypeMismatchError{Value: v}
			}
			m[id] = s
		}
		return m, nil
	case func(string) string:
		if x == nil {
			return nil, &TypeMismatchError{Value: v}
		}
		return NameFunc(x), nil
	}
	return nil, &TypeMismatchError{Value: v}
}

// checkNamer rejects a nil Namer and a nil NameFunc.
func checkNamer(n Namer) error {
	if f, ok := n.(NameFunc); n == nil || (ok && f == nil) {
		return &TypeMismatchError{Value: n}
	}
	return nil
}

func nameOf(n Namer, info *fred.SeriesInfo) string {
	if s := n.Name(info); s != "" {
		return s
	}
	return info.ID
}
