// Package core provides the PURL model, parser and registry resolver.
package core

import "sort"

// Type is a PURL package type such as "npm" or "maven".
type Type string

// The package types recognised by the viewer.
// https://github.com/package-url/purl-spec/blob/master/PURL-TYPES.rst
const (
	TypeAlpm            Type = "alpm"
	TypeApk             Type = "apk"
	TypeBazel           Type = "bazel"
	TypeBitbucket       Type = "bitbucket"
	TypeBitnami         Type = "bitnami"
	TypeCargo           Type = "cargo"
	TypeCocoapods       Type = "cocoapods"
	TypeComposer        Type = "composer"
	TypeConan           Type = "conan"
	TypeConda           Type = "conda"
	TypeCpan            Type = "cpan"
	TypeCran            Type = "cran"
	TypeDeb             Type = "deb"
	TypeDocker          Type = "docker"
	TypeGem             Type = "gem"
	TypeGeneric         Type = "generic"
	TypeGithub          Type = "github"
	TypeGolang          Type = "golang"
	TypeHackage         Type = "hackage"
	TypeHex             Type = "hex"
	TypeHuggingface     Type = "huggingface"
	TypeJulia           Type = "julia"
	TypeLuarocks        Type = "luarocks"
	TypeMaven           Type = "maven"
	TypeMlflow          Type = "mlflow"
	TypeNPM             Type = "npm"
	TypeNuget           Type = "nuget"
	TypeOCI             Type = "oci"
	TypeOpam            Type = "opam"
	TypeOTP             Type = "otp"
	TypePub             Type = "pub"
	TypePyPI            Type = "pypi"
	TypeQpkg            Type = "qpkg"
	TypeRPM             Type = "rpm"
	TypeSwid            Type = "swid"
	TypeSwift           Type = "swift"
	TypeVSCodeExtension Type = "vscode-extension"
	TypeYocto           Type = "yocto"
)

var knownTypes = map[Type]struct{}{
	TypeAlpm: {}, TypeApk: {}, TypeBazel: {}, TypeBitbucket: {}, TypeBitnami: {},
	TypeCargo: {}, TypeCocoapods: {}, TypeComposer: {}, TypeConan: {}, TypeConda: {},
	TypeCpan: {}, TypeCran: {}, TypeDeb: {}, TypeDocker: {}, TypeGem: {},
	TypeGeneric: {}, TypeGithub: {}, TypeGolang: {}, TypeHackage: {}, TypeHex: {},
	TypeHuggingface: {}, TypeJulia: {}, TypeLuarocks: {}, TypeMaven: {}, TypeMlflow: {},
	TypeNPM: {}, TypeNuget: {}, TypeOCI: {}, TypeOpam: {}, TypeOTP: {},
	TypePub: {}, TypePyPI: {}, TypeQpkg: {}, TypeRPM: {}, TypeSwid: {},
	TypeSwift: {}, TypeVSCodeExtension: {}, TypeYocto: {},
}

// IsKnownType reports whether t is one of the recognised package types.
// The comparison is exact: "NPM" is not a known type.
func IsKnownType(t string) bool {
	_, ok := knownTypes[Type(t)]
	return ok
}

// KnownTypes returns all recognised package types in lexical order.
func KnownTypes() []Type {
	types := make([]Type, 0, len(knownTypes))
	for t := range knownTypes {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// PackageURL is a decoded Package URL.
// Optional components are empty when absent. Qualifiers is nil rather than
// empty when the PURL carries no qualifiers.
type PackageURL struct {
	Type       string            `json:"type"`
	Namespace  string            `json:"namespace,omitempty"`
	Name       string            `json:"name"`
	Version    string            `json:"version,omitempty"`
	Qualifiers map[string]string `json:"qualifiers,omitempty"`
	Subpath    string            `json:"subpath,omitempty"`
}

// Qualifier returns the value of the named qualifier, or "" if unset.
func (p PackageURL) Qualifier(key string) string {
	return p.Qualifiers[key]
}

// Mapping describes the registry associated with a package type.
type Mapping struct {
	Type              Type   `json:"type"`
	RegistryName      string `json:"registry_name"`
	BaseURL           string `json:"base_url,omitempty"` // empty when the type has no fixed host
	HasRegistry       bool   `json:"has_registry"`
	RequiresQualifier bool   `json:"requires_qualifier,omitempty"`
}

// RegistryResult is the outcome of resolving a PURL to a registry page.
// URL is empty when no link can be derived; Message then explains why.
type RegistryResult struct {
	URL          string `json:"url,omitempty"`
	RegistryName string `json:"registry_name"`
	HasRegistry  bool   `json:"has_registry"`
	Message      string `json:"message,omitempty"`
}
