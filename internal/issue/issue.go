// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	WorkspaceNotFoundId Id = iota + 1
	PackageNotFoundId
	ConfigLoadFailedId
	ManifestInvalidId
	ProjectConfigInvalidId
	MissingModuleFormatId
	UnsupportedModuleId
	FormatConflictId
	UnsupportedCommandId
	DuplicateOutputId
	NoProducerId
	DependencyCycleId
	MissingDependenciesId
	AmbiguousCandidatesId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the issue as terminal Markdown using the glamour style at
// stylePath ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	tsconfigReference = HttpLink("https://www.typescriptlang.org/tsconfig")
	projectReferences = HttpLink("https://www.typescriptlang.org/docs/handbook/project-references.html")
	nodeModulesDoc    = HttpLink("https://nodejs.org/api/packages.html#conditional-exports")

	workspaceNotFoundIssue = &Issue{
		id: WorkspaceNotFoundId,
		mdMsg: `
# No workspace found!

taskdeps needs the root of a monorepo to index its packages.

## Search order:
1. ` + "`pnpm-workspace.yaml`" + ` with a ` + "`packages`" + ` list
2. ` + "`package.json`" + ` with a ` + "`workspaces`" + ` field
3. ` + "`workspaces`" + ` in ` + "`taskdeps.cue`" + `

## Things you can try:
- Run from inside the repository, or pass the root explicitly:
~~~
$ taskdeps --root /path/to/repo audit
~~~`,
	}

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

The package or manifest you named is not part of the indexed workspace.

## Things you can try:
- Check that its directory matches one of the workspace globs
- Make sure its ` + "`package.json`" + ` has a ` + "`name`" + ` field`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

` + "`taskdeps.cue`" + ` could not be read or does not match the schema.

## Example:
~~~cue
workspaces: ["packages/*", "tools/*"]
releaseGroups: [
  {name: "client", directory: "packages"},
]
defaultTasks: {
  tsc: ["^tsc"]
}
tsconfigCacheSize: 256
~~~

## Things you can try:
- Print the effective configuration:
~~~
$ taskdeps config show
~~~`,
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid package manifest!

A ` + "`package.json`" + ` could not be parsed, or its ` + "`fluidBuild.tasks`" + ` block is malformed.

## Expected task definition forms:
~~~json
"fluidBuild": {
  "tasks": {
    "tsc": ["^tsc", "build:genver"],
    "build:esnext": { "dependsOn": ["@scope/common#tsc"] }
  }
}
~~~`,
	}

	projectConfigInvalidIssue = &Issue{
		id: ProjectConfigInvalidId,
		mdMsg: `
# Invalid compiler project!

A ` + "`tsconfig.json`" + ` used by a build script (or referenced from one) could not be resolved.

## Common causes:
- The file or one of its ` + "`extends`" + ` bases does not exist
- An ` + "`extends`" + ` chain loops back on itself
- A ` + "`references`" + ` path points at a directory without ` + "`tsconfig.json`" + ``,
		docLinks: []HttpLink{tsconfigReference, projectReferences},
	}

	missingModuleFormatIssue = &Issue{
		id: MissingModuleFormatId,
		mdMsg: `
# Module format is not explicit!

Every project compiled by a build script must set ` + "`compilerOptions.module`" + `, so dependents can
be routed to a predecessor producing the same format.

## Things you can try:
~~~json
{ "compilerOptions": { "module": "Node16" } }
~~~`,
		docLinks: []HttpLink{tsconfigReference},
	}

	unsupportedModuleIssue = &Issue{
		id: UnsupportedModuleId,
		mdMsg: `
# Unsupported module kind!

Only CommonJS and ECMAScript module output can be audited.

## Supported values:
- ` + "`commonjs`" + `
- ` + "`es2015`" + `, ` + "`es2020`" + `, ` + "`es2022`" + `, ` + "`esnext`" + `, ` + "`preserve`" + `
- ` + "`node16`" + `, ` + "`node18`" + `, ` + "`nodenext`" + ` (format follows the package ` + "`type`" + `)`,
		docLinks: []HttpLink{tsconfigReference},
	}

	formatConflictIssue = &Issue{
		id: FormatConflictId,
		mdMsg: `
# One script produces two module formats!

A single script (or a single entrypoints invocation) would produce both CommonJS and ESM declarations.

## Things you can try:
- Split the script into one script per format, e.g. ` + "`build:cjs`" + ` and ` + "`build:esm`" + `
- Check the ` + "`import`" + `/` + "`require`" + ` conditions of the ` + "`exports`" + ` map`,
		docLinks: []HttpLink{nodeModulesDoc},
	}

	unsupportedCommandIssue = &Issue{
		id: UnsupportedCommandId,
		mdMsg: `
# Unsupported build command!

The compiler was invoked in a way whose outputs cannot be determined,
for example with explicit source files instead of a project.

## Things you can try:
- Move the file list into a project file and use ` + "`tsc --project <file>`" + ``,
	}

	duplicateOutputIssue = &Issue{
		id: DuplicateOutputId,
		mdMsg: `
# Output produced by two tasks!

Two scripts write the same declaration file. A parallel build would race on it.

## Things you can try:
- Give each script its own ` + "`outDir`" + ` (e.g. ` + "`dist`" + ` and ` + "`lib`" + `)
- Remove one of the duplicated scripts`,
	}

	noProducerIssue = &Issue{
		id: NoProducerId,
		mdMsg: `
# Required input has no producer!

A referenced project's declarations are not written by any script.

## Things you can try:
- Add a script compiling the referenced project
- Remove the stale project reference`,
		docLinks: []HttpLink{projectReferences},
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

Packages (or tasks) depend on each other in a loop, so no build order exists.

## Things you can try:
- Move the shared code into a new package both can depend on
- Drop the dependency that closes the loop (often a ` + "`devDependency`" + `)`,
	}

	missingDependenciesIssue = &Issue{
		id: MissingDependenciesId,
		mdMsg: `
# Task dependencies are missing!

Some tasks consume outputs of tasks they do not declare in ` + "`fluidBuild.tasks`" + `.

## Things you can try:
- Add the missing entries automatically:
~~~
$ taskdeps patch
~~~`,
	}

	ambiguousCandidatesIssue = &Issue{
		id: AmbiguousCandidatesId,
		mdMsg: `
# Pick a predecessor manually!

Several tasks of a dependency could provide the declarations a task needs.
Declaring one of them is enough; ` + "`taskdeps`" + ` will not guess which.

## Things you can try:
- Add the task you build with to ` + "`fluidBuild.tasks`" + `
- Or declare ` + "`^*`" + ` to wait for every task of each dependency`,
	}

	issues = map[Id]*Issue{
		workspaceNotFoundIssue.Id():    workspaceNotFoundIssue,
		packageNotFoundIssue.Id():      packageNotFoundIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		manifestInvalidIssue.Id():      manifestInvalidIssue,
		projectConfigInvalidIssue.Id(): projectConfigInvalidIssue,
		missingModuleFormatIssue.Id():  missingModuleFormatIssue,
		unsupportedModuleIssue.Id():    unsupportedModuleIssue,
		formatConflictIssue.Id():       formatConflictIssue,
		unsupportedCommandIssue.Id():   unsupportedCommandIssue,
		duplicateOutputIssue.Id():      duplicateOutputIssue,
		noProducerIssue.Id():           noProducerIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
		missingDependenciesIssue.Id():  missingDependenciesIssue,
		ambiguousCandidatesIssue.Id():  ambiguousCandidatesIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
