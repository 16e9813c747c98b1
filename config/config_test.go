/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package config_test

import (
	"testing"

	"dirpx.dev/introspect/config"
)

func TestDefaultConfigValues(t *testing.T) {
	got := config.DefaultConfig()

	if got.IncludeFallback != config.DefaultIncludeFallback {
		t.Fatalf("IncludeFallback = %v, want %v", got.IncludeFallback, config.DefaultIncludeFallback)
	}
	if got.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want %d", got.MaxUnwrap, config.DefaultMaxUnwrap)
	}
	if got.JSONOmitUnsupported != config.DefaultJSONOmitUnsupported {
		t.Fatalf("JSONOmitUnsupported = %v, want %v", got.JSONOmitUnsupported, config.DefaultJSONOmitUnsupported)
	}
}

func TestNewConfig_NoOptions_EqualsDefault(t *testing.T) {
	def := config.DefaultConfig()
	got := config.NewConfig()
	if got != def {
		t.Fatalf("NewConfig() = %+v, want default %+v", got, def)
	}
}

func TestWithIncludeFallback(t *testing.T) {
	c := config.NewConfig(config.WithIncludeFallback(false))
	if c.IncludeFallback {
		t.Fatalf("IncludeFallback = %v, want false", c.IncludeFallback)
	}

	c2 := config.NewConfig(config.WithIncludeFallback(true))
	if !c2.IncludeFallback {
		t.Fatalf("IncludeFallback = %v, want true", c2.IncludeFallback)
	}
}

func TestWithJSONOmitUnsupported(t *testing.T) {
	c := config.NewConfig(config.WithJSONOmitUnsupported(true))
	if !c.JSONOmitUnsupported {
		t.Fatalf("JSONOmitUnsupported = %v, want true", c.JSONOmitUnsupported)
	}
}

func TestWithMaxUnwrap_Positive(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(3))
	if c.MaxUnwrap != 3 {
		t.Fatalf("MaxUnwrap = %d, want 3", c.MaxUnwrap)
	}
}

func TestWithMaxUnwrap_Negative_ResetsToDefault(t *testing.T) {
	c := config.NewConfig(config.WithMaxUnwrap(-1))
	if c.MaxUnwrap != config.DefaultMaxUnwrap {
		t.Fatalf("MaxUnwrap = %d, want default %d", c.MaxUnwrap, config.DefaultMaxUnwrap)
	}
}

func TestOptionsOrder_LastWins(t *testing.T) {
	c := config.NewConfig(
		config.WithIncludeFallback(false),
		config.WithIncludeFallback(true),
		config.WithMaxUnwrap(2),
		config.WithMaxUnwrap(5),
		config.WithJSONOmitUnsupported(true),
		config.WithJSONOmitUnsupported(false),
	)

	if !c.IncludeFallback {
		t.Errorf("IncludeFallback = %v, want true (last option wins)", c.IncludeFallback)
	}
	if c.MaxUnwrap != 5 {
		t.Errorf("MaxUnwrap = %d, want 5 (last option wins)", c.MaxUnwrap)
	}
	if c.JSONOmitUnsupported {
		t.Errorf("JSONOmitUnsupported = %v, want false (last option wins)", c.JSONOmitUnsupported)
	}
}

func TestNewConfig_Guardrails_MaxUnwrapZeroAllowed(t *testing.T) {
	// The constructor only resets negative values; zero means "default" at use sites.
	c := config.NewConfig(config.WithMaxUnwrap(0))
	if c.MaxUnwrap != 0 {
		t.Fatalf("MaxUnwrap = %d, want 0", c.MaxUnwrap)
	}
}
