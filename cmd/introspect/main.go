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

// Command introspect runs a Starlark or Lua script against the demo classes.
//
//	introspect [-lang starlark|lua] [-class Person] [-log-level debug] [-log-json] script
//	introspect -dump [-class Person]
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	golua "github.com/yuin/gopher-lua"

	"dirpx.dev/introspect"
	"dirpx.dev/introspect/apis"
	"dirpx.dev/introspect/binding/luabind"
	"dirpx.dev/introspect/binding/starlarkbind"
	"dirpx.dev/introspect/catalogue"
	"dirpx.dev/introspect/internal/fixtures"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		exitf("%s", err)
	}
}

func exitf(s string, args ...any) {
	fmt.Fprintf(os.Stderr, "introspect: "+s+"\n", args...)
	os.Exit(1)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("introspect", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		lang     = starlark
		class    = fs.String("class", "", "bind only this class")
		level    = fs.String("log-level", "warn", "log level")
		jsonLogs = fs.Bool("log-json", false, "log as JSON")
		dump     = fs.Bool("dump", false, "print class information and exit")
	)
	fs.Var(&lang, "lang", "script runtime: starlark or lua")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(stderr)
	lvl, err := logrus.ParseLevel(*level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if *jsonLogs {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	fixtures.Output = stdout

	cats, err := selectClasses(*class)
	if err != nil {
		return err
	}

	if *dump {
		for _, cat := range cats {
			if err := introspect.PrintCatalogue(stdout, cat); err != nil {
				return err
			}
		}
		return nil
	}

	if fs.NArg() != 1 {
		return errors.New("expected exactly one script")
	}
	path := fs.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if lang == lua {
		return runLua(log, cats, path, string(src))
	}
	return runStarlark(log, stdout, cats, path, src)
}

// selectClasses returns every demo class, or only the one named.
func selectClasses(name string) ([]*catalogue.Catalogue, error) {
	all := fixtures.Catalogues()
	if name == "" {
		return all, nil
	}
	for _, cat := range all {
		if cat.ClassName() == name {
			return []*catalogue.Catalogue{cat}, nil
		}
	}
	return nil, &apis.NotFoundError{Kind: apis.KindClass, Name: name}
}

func runStarlark(log logrus.FieldLogger, stdout io.Writer, cats []*catalogue.Catalogue, path string, src []byte) error {
	g := starlarkbind.New(starlarkbind.WithLogger(log), starlarkbind.WithOutput(stdout))
	for _, cat := range cats {
		if err := g.BindCatalogue("", cat); err != nil {
			return err
		}
	}
	_, err := g.Exec(path, src)
	return err
}

func runLua(log logrus.FieldLogger, cats []*catalogue.Catalogue, path, src string) error {
	L := golua.NewState()
	defer L.Close()

	g := luabind.New(L, luabind.WithLogger(log))
	for _, cat := range cats {
		if err := g.BindCatalogue("", cat); err != nil {
			return err
		}
	}
	return g.Exec(path, src)
}
