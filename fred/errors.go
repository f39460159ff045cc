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
package fred

import (
	"fmt"
	"strings"
)

// CredentialMissingError is returned when no API key is given explicitly or
// in the environment.
type CredentialMissingError struct{}

func (e *CredentialMissingError) Error() string {
	return "FRED API key is not given and FRED_API_KEY is not set"
}

// CredentialInvalidError is returned for an API key which is not exactly 32
// ASCII alphanumeric characters. The key itself is not reported.
type CredentialInvalidError struct {
	Length int
}

func (e *CredentialInvalidError) Error() string {
	return fmt.Sprintf(
		"FRED API key must be 32 alphanumeric characters, got %d characters", e.Length)
}

// UnknownParameterError is returned for options not recognized by a strict
// parameter family, and for credential fields in any family.
type UnknownParameterError struct {
	Family Family
	Names  []string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("unknown %s parameters: %s", e.Family, strings.Join(e.Names, ", "))
}

// InvalidParameterError is returned when an option has a wrong type or value.
type InvalidParameterError struct {
	Family Family
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid %s parameters: %s", e.Family, e.Reason)
}

// TransportError wraps a failure to reach the server or read its response.
type TransportError struct {
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to query %s: %s", e.Path, e.Err.Error())
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-200 response from the server, with the message from
// its error body.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("FRED error %d: %s", e.StatusCode, e.Message)
}
