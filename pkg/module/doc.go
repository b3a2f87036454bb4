// SPDX-License-Identifier: MPL-2.0

// Package module defines the binary contract between the strus host and its
// dynamically loaded extension modules.
//
// Every module exports exactly one entry point: a versioned descriptor
// ([EntryPoint]) carrying the loader signature, the module-format minor
// version, the component family ([Kind]) and that family's major/minor
// version, followed by the factory tables the module contributes. Go plugins
// export it under [EntryPointSymbol]; C-ABI modules export a layout-compatible
// header under [NativeEntryPointSymbol] that is decoded with
// [DecodeNativeHeader].
//
// A module author builds the descriptor once, at package initialization:
//
//	var EntryPoint = module.NewAnalyzerModule(&module.AnalyzerModule{
//		Normalizers: []module.Constructor[module.Normalizer]{
//			{Name: "stem", Create: newStemmer},
//		},
//	}, module.WithThirdPartyLicense("snowball: BSD-3-Clause"))
//
// The host validates it with [Match] before any table is touched.
package module
