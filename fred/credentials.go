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
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/stockparfait/errors"
)

// envPrefix of the environment variables read by this package.
const envPrefix = "FRED"

type envKey struct {
	APIKey string `envconfig:"API_KEY"`
}

var (
	validate = validator.New()

	keyCacheMu sync.Mutex
	keyCache   = make(map[string]string) // explicit argument -> resolved key
)

// ResolveAPIKey returns the explicit key when it is not empty, and the value
// of FRED_API_KEY otherwise. The key must be exactly 32 ASCII alphanumeric
// characters. Successful resolutions are cached per process until
// ClearAPIKeyCache is called; errors are not cached.
func ResolveAPIKey(explicit string) (string, error) {
	keyCacheMu.Lock()
	defer keyCacheMu.Unlock()

	if key, ok := keyCache[explicit]; ok {
		return key, nil
	}
	key := explicit
	if key == "" {
		var env envKey
		if err := envconfig.Process(envPrefix, &env); err != nil {
			return "", errors.Annotate(err, "failed to read the environment")
		}
		key = env.APIKey
	}
	if key == "" {
		return "", &CredentialMissingError{}
	}
	if err := validate.Var(key, "alphanum,len=32"); err != nil {
		return "", &CredentialInvalidError{Length: len(key)}
	}
	keyCache[explicit] = key
	return key, nil
}

// ClearAPIKeyCache forgets all the resolved keys, so the next ResolveAPIKey
// reads the environment again.
func ClearAPIKeyCache() {
	keyCacheMu.Lock()
	defer keyCacheMu.Unlock()
	keyCache = make(map[string]string)
}
