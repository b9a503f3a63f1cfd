// Copyright 2026 The Postform Go authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package analyzer implements the build-time half of format validation: a
// go/analysis pass that rejects log sites whose constant format string does
// not match the static types of the arguments. Running it from CI gives
// mismatched sites the same fate as in the original design, where they did
// not link.
package analyzer

import (
	"go/ast"
	"go/constant"
	"go/types"

	"golang.org/x/tools/go/analysis"

	postform "github.com/postform-dev/postform-go"
)

const postformPath = "github.com/postform-dev/postform-go"

// Analyzer checks postform format strings against argument types.
var Analyzer = &analysis.Analyzer{
	Name: "postformfmt",
	Doc:  "check postform format strings against log argument types",
	Run:  run,
}

// helperNames are the printf-style logger helpers subject to validation.
var helperNames = map[string]bool{
	"Debugf":   true,
	"Infof":    true,
	"Warningf": true,
	"Errorf":   true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			checkCall(pass, call)
			return true
		})
	}
	return nil, nil
}

func checkCall(pass *analysis.Pass, call *ast.CallExpr) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || !helperNames[sel.Sel.Name] {
		return
	}
	obj, ok := pass.TypesInfo.Uses[sel.Sel].(*types.Func)
	if !ok {
		return
	}
	recv := obj.Type().(*types.Signature).Recv()
	if recv == nil || obj.Pkg() == nil || obj.Pkg().Path() != postformPath {
		return
	}
	if len(call.Args) == 0 || call.Ellipsis.IsValid() {
		// A spread argument list cannot be checked statically.
		return
	}

	format, ok := constFormat(pass, call.Args[0])
	if !ok {
		return
	}

	args := make([]postform.Argument, 0, len(call.Args)-1)
	for _, a := range call.Args[1:] {
		arg, ok := staticArg(pass, a)
		if !ok {
			// An argument whose kind is not statically known (an
			// interface, a prebuilt Argument) defers to the runtime
			// check.
			return
		}
		args = append(args, arg)
	}

	if err := postform.Validate(format, args...); err != nil {
		pass.Reportf(call.Lparen, "%v", err)
	}
}

// constFormat extracts a compile-time constant format string.
func constFormat(pass *analysis.Pass, e ast.Expr) (string, bool) {
	tv, ok := pass.TypesInfo.Types[e]
	if !ok || tv.Value == nil || tv.Value.Kind() != constant.String {
		return "", false
	}
	return constant.StringVal(tv.Value), true
}

// staticArg maps the static type of an argument expression to the carrier
// variant the runtime coercion rules would produce.
func staticArg(pass *analysis.Pass, e ast.Expr) (postform.Argument, bool) {
	tv, ok := pass.TypesInfo.Types[e]
	if !ok || tv.Type == nil {
		return postform.Argument{}, false
	}
	t := tv.Type

	if named, ok := t.(*types.Named); ok {
		if obj := named.Obj(); obj.Pkg() != nil && obj.Pkg().Path() == postformPath {
			switch obj.Name() {
			case "InternedString":
				return postform.Interned(postform.InternedString{}), true
			case "Argument":
				return postform.Argument{}, false
			}
		}
	}

	basic, ok := t.Underlying().(*types.Basic)
	if !ok {
		return postform.Argument{}, false
	}
	size := uint8(pass.TypesSizes.Sizeof(t))

	switch {
	case basic.Info()&types.IsString != 0:
		return postform.Str(""), true
	case basic.Kind() == types.UnsafePointer:
		return postform.Ptr(nil), true
	case basic.Info()&types.IsUnsigned != 0:
		return postform.ResizeArg(postform.Uint(uint64(0)), size), true
	case basic.Info()&types.IsInteger != 0:
		return postform.ResizeArg(postform.Int(int64(0)), size), true
	default:
		return postform.Argument{}, false
	}
}
