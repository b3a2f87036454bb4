// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"github.com/strus/strusmod/pkg/module"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	InvalidModuleNameId
	ModuleNotFoundId
	ModuleOpenFailedId
	NoEntryPointId
	SignatureMismatchId
	ModuleTooNewId
	UnknownModuleTypeId
	ComponentMajorMismatchId
	ComponentMinorTooOldId
	OutOfMemoryId
	ComponentNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id // ID used to lookup the issue
	code     module.ErrorCode
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

// Code returns the module error code the issue explains, or ErrorNone.
func (i *Issue) Code() module.ErrorCode {
	return i.code
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.extLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ strusmod config show
~~~
- Write a fresh default file and compare:
~~~
$ strusmod config init
~~~
- Check the values of ` + "`abi`" + ` ("go" or "native") and ` + "`log.level`" + `.`,
	}

	invalidModuleNameIssue = &Issue{
		id:   InvalidModuleNameId,
		code: module.ErrorInvalidFilePath,
		mdMsg: `
# Invalid module name!

Module names must not contain ".." path elements; they are resolved only
inside the module search directories.

## Things you can try:
- Pass the plain module name, e.g. ` + "`normalizer_snowball`" + `
- Or pass the full path of the module file to ` + "`strusmod info`" + ``,
	}

	moduleNotFoundIssue = &Issue{
		id:   ModuleNotFoundId,
		code: module.ErrorLoadModuleFailed,
		mdMsg: `
# Module not found!

No search directory contains the module file. Module files are named
` + "`modstrus_<name>.so`" + ` (` + "`.dll`" + ` on Windows).

## Search order:
1. Directories added with --module-path or ` + "`module_paths`" + `
2. Directories listed in ` + "`STRUS_MODULE_PATH`" + `
3. The system module directories, when no directory was added explicitly

## Things you can try:
~~~
$ strusmod paths <name>
~~~`,
	}

	moduleOpenFailedIssue = &Issue{
		id:   ModuleOpenFailedId,
		code: module.ErrorOpenModule,
		mdMsg: `
# The system loader rejected the module!

The file exists but could not be opened as a shared library.

## Things you can try:
- Go plugins must be built with the same Go version and dependency versions as strusmod
- For C modules, select the native binary interface with ` + "`--native`" + `
- Check the library dependencies of the module (` + "`ldd`" + ` on Linux)`,
	}

	noEntryPointIssue = &Issue{
		id:   NoEntryPointId,
		code: module.ErrorNoEntryPoint,
		mdMsg: `
# No module entry point!

The library does not export the entry point symbol: ` + "`EntryPoint`" + ` for
Go plugins, ` + "`entryPoint`" + ` for C modules.`,
	}

	signatureMismatchIssue = &Issue{
		id:   SignatureMismatchId,
		code: module.ErrorSignature,
		mdMsg: `
# Module signature mismatch!

The module was built for a different major version of the module interface.
Rebuild it against the current module package.`,
	}

	moduleTooNewIssue = &Issue{
		id:   ModuleTooNewId,
		code: module.ErrorModMinorVersion,
		mdMsg: `
# Module is newer than the loader!

The module uses a newer minor version of the module format and may contain
objects this loader cannot use. Upgrade strusmod or rebuild the module.`,
	}

	unknownModuleTypeIssue = &Issue{
		id:   UnknownModuleTypeId,
		code: module.ErrorUnknownModuleType,
		mdMsg: `
# Unknown module type!

The module declares a kind this loader does not know, or its payload does
not match the declared kind. Known kinds are analyzer, storage and trace.`,
	}

	componentMajorMismatchIssue = &Issue{
		id:   ComponentMajorMismatchId,
		code: module.ErrorCompMajorVersion,
		mdMsg: `
# Component major version mismatch!

The component interfaces of the module are binary incompatible with this
loader. Rebuild the module against the matching component version.`,
	}

	componentMinorTooOldIssue = &Issue{
		id:   ComponentMinorTooOldId,
		code: module.ErrorCompMinorVersion,
		mdMsg: `
# Component version too old!

The module implements an older minor version of the component interfaces
and may miss functions the loader requires. Rebuild the module.`,
	}

	outOfMemoryIssue = &Issue{
		id:   OutOfMemoryId,
		code: module.ErrorOutOfMemory,
		mdMsg: `
# Error buffer exhausted!

An error message exceeded the capacity of the error buffer and was truncated.
Run with --debug to see the complete log.`,
	}

	componentNotFoundIssue = &Issue{
		id: ComponentNotFoundId,
		mdMsg: `
# Component not defined!

No built-in component and no loaded module defines the requested name.

## Things you can try:
- List the extension points and their components:
~~~
$ strusmod load <module>...
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		invalidModuleNameIssue.Id():      invalidModuleNameIssue,
		moduleNotFoundIssue.Id():         moduleNotFoundIssue,
		moduleOpenFailedIssue.Id():       moduleOpenFailedIssue,
		noEntryPointIssue.Id():           noEntryPointIssue,
		signatureMismatchIssue.Id():      signatureMismatchIssue,
		moduleTooNewIssue.Id():           moduleTooNewIssue,
		unknownModuleTypeIssue.Id():      unknownModuleTypeIssue,
		componentMajorMismatchIssue.Id(): componentMajorMismatchIssue,
		componentMinorTooOldIssue.Id():   componentMinorTooOldIssue,
		outOfMemoryIssue.Id():            outOfMemoryIssue,
		componentNotFoundIssue.Id():      componentNotFoundIssue,
	}
)

// Values returns the catalog ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForCode returns the issue explaining a module error code, or nil.
func ForCode(code module.ErrorCode) *Issue {
	for _, iss := range issues {
		if iss.code != module.ErrorNone && iss.code == code {
			return iss
		}
	}
	return nil
}
