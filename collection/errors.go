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
	"fmt"
	"strings"
)

// NotFoundError is returned for series IDs not in the collection.
type NotFoundError struct {
	IDs []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no series in the collection: %s", strings.Join(e.IDs, ", "))
}

// TypeMismatchError is returned by NewNamer and Rename for a value they cannot
// name series with.
type TypeMismatchError struct {
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf(
		`rename must be a map of IDs to names, a function of the title, "id" or "title"; got %T: %v`,
		e.Value, e.Value)
}
