package core

import (
	"fmt"
	"sort"
)

// mappings holds the registry metadata for every known type.
// It is never modified after initialisation.
var mappings = map[Type]Mapping{
	// Types with central registries
	TypeBazel:           {Type: TypeBazel, RegistryName: "Bazel Central Registry", BaseURL: "https://registry.bazel.build", HasRegistry: true},
	TypeBitbucket:       {Type: TypeBitbucket, RegistryName: "Bitbucket", BaseURL: "https://bitbucket.org", HasRegistry: true},
	TypeBitnami:         {Type: TypeBitnami, RegistryName: "Bitnami", BaseURL: "https://bitnami.com", HasRegistry: true},
	TypeCargo:           {Type: TypeCargo, RegistryName: "crates.io", BaseURL: "https://crates.io", HasRegistry: true},
	TypeCocoapods:       {Type: TypeCocoapods, RegistryName: "CocoaPods", BaseURL: "https://cocoapods.org", HasRegistry: true},
	TypeComposer:        {Type: TypeComposer, RegistryName: "Packagist", BaseURL: "https://packagist.org", HasRegistry: true},
	TypeConan:           {Type: TypeConan, RegistryName: "Conan Center", BaseURL: "https://conan.io/center", HasRegistry: true},
	TypeConda:           {Type: TypeConda, RegistryName: "Anaconda", BaseURL: "https://anaconda.org", HasRegistry: true},
	TypeCpan:            {Type: TypeCpan, RegistryName: "MetaCPAN", BaseURL: "https://metacpan.org", HasRegistry: true},
	TypeCran:            {Type: TypeCran, RegistryName: "CRAN", BaseURL: "https://cran.r-project.org", HasRegistry: true},
	TypeDocker:          {Type: TypeDocker, RegistryName: "Docker Hub", BaseURL: "https://hub.docker.com", HasRegistry: true},
	TypeGem:             {Type: TypeGem, RegistryName: "RubyGems", BaseURL: "https://rubygems.org", HasRegistry: true},
	TypeGithub:          {Type: TypeGithub, RegistryName: "GitHub", BaseURL: "https://github.com", HasRegistry: true},
	TypeGolang:          {Type: TypeGolang, RegistryName: "Go Packages", BaseURL: "https://pkg.go.dev", HasRegistry: true},
	TypeHackage:         {Type: TypeHackage, RegistryName: "Hackage", BaseURL: "https://hackage.haskell.org", HasRegistry: true},
	TypeHex:             {Type: TypeHex, RegistryName: "Hex.pm", BaseURL: "https://hex.pm", HasRegistry: true},
	TypeHuggingface:     {Type: TypeHuggingface, RegistryName: "Hugging Face", BaseURL: "https://huggingface.co", HasRegistry: true},
	TypeJulia:           {Type: TypeJulia, RegistryName: "JuliaHub", BaseURL: "https://juliahub.com", HasRegistry: true},
	TypeLuarocks:        {Type: TypeLuarocks, RegistryName: "LuaRocks", BaseURL: "https://luarocks.org", HasRegistry: true},
	TypeMaven:           {Type: TypeMaven, RegistryName: "Maven Central", BaseURL: "https://central.sonatype.com", HasRegistry: true},
	TypeNPM:             {Type: TypeNPM, RegistryName: "npm", BaseURL: "https://www.npmjs.com", HasRegistry: true},
	TypeNuget:           {Type: TypeNuget, RegistryName: "NuGet", BaseURL: "https://www.nuget.org", HasRegistry: true},
	TypeOpam:            {Type: TypeOpam, RegistryName: "OPAM", BaseURL: "https://opam.ocaml.org", HasRegistry: true},
	TypePub:             {Type: TypePub, RegistryName: "pub.dev", BaseURL: "https://pub.dev", HasRegistry: true},
	TypePyPI:            {Type: TypePyPI, RegistryName: "PyPI", BaseURL: "https://pypi.org", HasRegistry: true},
	TypeSwift:           {Type: TypeSwift, RegistryName: "Swift Package Index", BaseURL: "https://swiftpackageindex.com", HasRegistry: true},
	TypeVSCodeExtension: {Type: TypeVSCodeExtension, RegistryName: "VS Marketplace", BaseURL: "https://marketplace.visualstudio.com", HasRegistry: true},

	// Types requiring qualifiers
	TypeAlpm:  {Type: TypeAlpm, RegistryName: "Arch Linux", HasRegistry: true, RequiresQualifier: true},
	TypeApk:   {Type: TypeApk, RegistryName: "Alpine Linux", HasRegistry: true, RequiresQualifier: true},
	TypeDeb:   {Type: TypeDeb, RegistryName: "Debian/Ubuntu", HasRegistry: true, RequiresQualifier: true},
	TypeOCI:   {Type: TypeOCI, RegistryName: "OCI Registry", HasRegistry: true, RequiresQualifier: true},
	TypeRPM:   {Type: TypeRPM, RegistryName: "RPM", HasRegistry: true, RequiresQualifier: true},
	TypeYocto: {Type: TypeYocto, RegistryName: "Yocto", HasRegistry: false, RequiresQualifier: true},

	// Types without browsable registry
	TypeGeneric: {Type: TypeGeneric, RegistryName: "Generic"},
	TypeMlflow:  {Type: TypeMlflow, RegistryName: "MLflow"},
	TypeOTP:     {Type: TypeOTP, RegistryName: "Erlang/OTP"},
	TypeQpkg:    {Type: TypeQpkg, RegistryName: "QNX"},
	TypeSwid:    {Type: TypeSwid, RegistryName: "SWID"},
}

// LookupMapping returns the registry mapping for a package type.
func LookupMapping(t string) (Mapping, bool) {
	m, ok := mappings[Type(t)]
	return m, ok
}

// Mappings returns every registry mapping ordered by type.
func Mappings() []Mapping {
	all := make([]Mapping, 0, len(mappings))
	for _, m := range mappings {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Type < all[j].Type })
	return all
}

// Resolve returns the registry page for purl, or an explanation of why
// there is none. It never fails.
func Resolve(purl PackageURL) RegistryResult {
	mapping, ok := LookupMapping(purl.Type)
	if !ok {
		return RegistryResult{
			RegistryName: "Unknown",
			HasRegistry:  false,
			Message:      fmt.Sprintf("Unknown package type: %s", purl.Type),
		}
	}

	url := registryURL(purl)

	if !mapping.HasRegistry {
		return RegistryResult{
			URL:          url,
			RegistryName: mapping.RegistryName,
			HasRegistry:  false,
			Message:      fmt.Sprintf("%s packages do not have a central browsable registry.", mapping.RegistryName),
		}
	}

	if mapping.RequiresQualifier && url == "" {
		return RegistryResult{
			RegistryName: mapping.RegistryName,
			HasRegistry:  true,
			Message:      fmt.Sprintf("%s packages require a repository_url or distro qualifier for direct linking.", mapping.RegistryName),
		}
	}

	return RegistryResult{
		URL:          url,
		RegistryName: mapping.RegistryName,
		HasRegistry:  true,
	}
}
