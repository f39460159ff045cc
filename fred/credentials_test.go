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
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const testKey = "abcdefghijklmnopqrstuvwxyz012345"

// Not parallel: modifies the environment.
func TestCredentials(t *testing.T) {
	Convey("ResolveAPIKey works", t, func() {
		ClearAPIKeyCache()
		defer ClearAPIKeyCache()

		Convey("valid explicit keys are returned unchanged", func() {
			for _, k := range []string{testKey, strings.ToUpper(testKey), strings.Repeat("7", 32)} {
				key, err := ResolveAPIKey(k)
				So(err, ShouldBeNil)
				So(key, ShouldEqual, k)
			}
		})

		Convey("invalid keys are rejected", func() {
			for _, k := range []string{
				testKey[:31],
				testKey + "6",
				testKey[:31] + "-",
				testKey[:30] + "é",
				strings.Repeat(" ", 32),
			} {
				_, err := ResolveAPIKey(k)
				So(err, ShouldHaveSameTypeAs, &CredentialInvalidError{})
				So(err.Error(), ShouldNotContainSubstring, k)
			}
		})

		Convey("the environment is used without an explicit key", func() {
			t.Setenv("FRED_API_KEY", testKey)
			key, err := ResolveAPIKey("")
			So(err, ShouldBeNil)
			So(key, ShouldEqual, testKey)

			Convey("and is cached until cleared", func() {
				other := strings.Repeat("x", 32)
				t.Setenv("FRED_API_KEY", other)
				key, err := ResolveAPIKey("")
				So(err, ShouldBeNil)
				So(key, ShouldEqual, testKey)

				ClearAPIKeyCache()
				key, err = ResolveAPIKey("")
				So(err, ShouldBeNil)
				So(key, ShouldEqual, other)
			})
		})

		Convey("the explicit key takes precedence", func() {
			t.Setenv("FRED_API_KEY", strings.Repeat("x", 32))
			key, err := ResolveAPIKey(testKey)
			So(err, ShouldBeNil)
			So(key, ShouldEqual, testKey)
		})

		Convey("a missing key is an error", func() {
			t.Setenv("FRED_API_KEY", "")
			_, err := ResolveAPIKey("")
			So(err, ShouldHaveSameTypeAs, &CredentialMissingError{})
		})

		Convey("an invalid environment key is an error", func() {
			t.Setenv("FRED_API_KEY", "short")
			_, err := ResolveAPIKey("")
			So(err, ShouldHaveSameTypeAs, &CredentialInvalidError{})
		})
	})

	Convey("NewClient and clientFrom use the environment", t, func() {
		ClearAPIKeyCache()
		defer ClearAPIKeyCache()
		t.Setenv("FRED_API_KEY", testKey)
		t.Setenv("FRED_URL", "http://localhost:1234/fred/")
		t.Setenv("FRED_TIMEOUT", "5s")

		cfg, err := LoadConfig()
		So(err, ShouldBeNil)
		c, err := NewClient(cfg)
		So(err, ShouldBeNil)
		So(c.apiKey, ShouldEqual, testKey)
		So(c.baseURL, ShouldEqual, "http://localhost:1234/fred")
		So(c.mapsURL, ShouldEqual, MapsURL)
		So(c.timeout.Seconds(), ShouldEqual, 5.0)

		Convey("with defaults", func() {
			c, err := NewClient(&Config{APIKey: testKey})
			So(err, ShouldBeNil)
			So(c.baseURL, ShouldEqual, URL)
			So(c.timeout, ShouldEqual, DefaultTimeout)
		})

		Convey("with a missing key", func() {
			t.Setenv("FRED_API_KEY", "")
			ClearAPIKeyCache()
			_, err := Category(ctxNoClient(), 125, nil)
			So(err, ShouldHaveSameTypeAs, &CredentialMissingError{})
		})
	})
}
