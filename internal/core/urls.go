package core

import (
	"fmt"
	"strings"
)

// registryURL derives the browsable page for purl, or "" when none can be
// built from the PURL alone. Path segments are inserted as decoded; the
// result is meant for display and navigation.
func registryURL(p PackageURL) string {
	name, ns, version := p.Name, p.Namespace, p.Version

	switch Type(p.Type) {
	case TypeNPM:
		pkg := name
		if ns != "" {
			scope := ns
			if !strings.HasPrefix(scope, "@") {
				scope = "@" + scope
			}
			pkg = scope + "/" + name
		}
		if version != "" {
			return fmt.Sprintf("https://www.npmjs.com/package/%s/v/%s", pkg, version)
		}
		return fmt.Sprintf("https://www.npmjs.com/package/%s", pkg)

	case TypePyPI:
		if version != "" {
			return fmt.Sprintf("https://pypi.org/project/%s/%s/", name, version)
		}
		return fmt.Sprintf("https://pypi.org/project/%s/", name)

	case TypeMaven:
		if ns == "" {
			return fmt.Sprintf("https://central.sonatype.com/search?q=%s", name)
		}
		if version != "" {
			return fmt.Sprintf("https://central.sonatype.com/artifact/%s/%s/%s", ns, name, version)
		}
		return fmt.Sprintf("https://central.sonatype.com/artifact/%s/%s", ns, name)

	case TypeCargo:
		if version != "" {
			return fmt.Sprintf("https://crates.io/crates/%s/%s", name, version)
		}
		return fmt.Sprintf("https://crates.io/crates/%s", name)

	case TypeGem:
		if version != "" {
			return fmt.Sprintf("https://rubygems.org/gems/%s/versions/%s", name, version)
		}
		return fmt.Sprintf("https://rubygems.org/gems/%s", name)

	case TypeNuget:
		if version != "" {
			return fmt.Sprintf("https://www.nuget.org/packages/%s/%s", name, version)
		}
		return fmt.Sprintf("https://www.nuget.org/packages/%s", name)

	case TypeGolang:
		module := name
		if ns != "" {
			module = ns + "/" + name
		}
		if version != "" {
			return fmt.Sprintf("https://pkg.go.dev/%s@%s", module, version)
		}
		return fmt.Sprintf("https://pkg.go.dev/%s", module)

	case TypeDocker:
		// Official images live under the "library" namespace.
		if ns == "" || ns == "library" {
			return fmt.Sprintf("https://hub.docker.com/_/%s", name)
		}
		return fmt.Sprintf("https://hub.docker.com/r/%s/%s", ns, name)

	case TypeGithub:
		if ns == "" {
			return ""
		}
		return fmt.Sprintf("https://github.com/%s/%s", ns, name)

	case TypeBitbucket:
		if ns == "" {
			return ""
		}
		return fmt.Sprintf("https://bitbucket.org/%s/%s", ns, name)

	case TypeHuggingface:
		if ns == "" {
			return fmt.Sprintf("https://huggingface.co/models?search=%s", name)
		}
		return fmt.Sprintf("https://huggingface.co/%s/%s", ns, name)

	case TypeHex:
		if version != "" {
			return fmt.Sprintf("https://hex.pm/packages/%s/%s", name, version)
		}
		return fmt.Sprintf("https://hex.pm/packages/%s", name)

	case TypePub:
		return fmt.Sprintf("https://pub.dev/packages/%s", name)

	case TypeComposer:
		if ns == "" {
			return fmt.Sprintf("https://packagist.org/?query=%s", name)
		}
		return fmt.Sprintf("https://packagist.org/packages/%s/%s", ns, name)

	case TypeCocoapods:
		return fmt.Sprintf("https://cocoapods.org/pods/%s", name)

	case TypeHackage:
		return fmt.Sprintf("https://hackage.haskell.org/package/%s", name)

	case TypeCran:
		return fmt.Sprintf("https://cran.r-project.org/package=%s", name)

	case TypeCpan:
		if ns != "" {
			return fmt.Sprintf("https://metacpan.org/release/%s/%s", ns, name)
		}
		return fmt.Sprintf("https://metacpan.org/pod/%s", name)

	case TypeOpam:
		return fmt.Sprintf("https://opam.ocaml.org/packages/%s/", name)

	case TypeSwift:
		if ns == "" {
			return ""
		}
		return fmt.Sprintf("https://swiftpackageindex.com/%s/%s", ns, name)

	case TypeJulia:
		return fmt.Sprintf("https://juliahub.com/ui/Packages/General/%s", strings.TrimSuffix(name, ".jl"))

	case TypeLuarocks:
		if ns == "" {
			return fmt.Sprintf("https://luarocks.org/search?q=%s", name)
		}
		return fmt.Sprintf("https://luarocks.org/modules/%s/%s", ns, name)

	case TypeBazel:
		return fmt.Sprintf("https://registry.bazel.build/modules/%s", name)

	case TypeConan:
		return fmt.Sprintf("https://conan.io/center/recipes/%s", name)

	case TypeConda:
		channel := ns
		if channel == "" {
			channel = "anaconda"
		}
		return fmt.Sprintf("https://anaconda.org/%s/%s", channel, name)

	case TypeBitnami:
		return fmt.Sprintf("https://bitnami.com/stack/%s", name)

	case TypeVSCodeExtension:
		if ns == "" {
			return ""
		}
		return fmt.Sprintf("https://marketplace.visualstudio.com/items?itemName=%s.%s", ns, name)

	case TypeAlpm:
		if u := p.Qualifier("repository_url"); u != "" {
			return u
		}
		return fmt.Sprintf("https://archlinux.org/packages/?q=%s", name)

	case TypeApk:
		if u := p.Qualifier("repository_url"); u != "" {
			return u
		}
		return fmt.Sprintf("https://pkgs.alpinelinux.org/packages?name=%s", name)

	case TypeDeb:
		if u := p.Qualifier("repository_url"); u != "" {
			return u
		}
		distro := p.Qualifier("distro")
		if distro == "" {
			distro = "sid"
		}
		return fmt.Sprintf("https://packages.debian.org/%s/%s", distro, name)

	case TypeRPM:
		if u := p.Qualifier("repository_url"); u != "" {
			return u
		}
		return fmt.Sprintf("https://packages.fedoraproject.org/pkgs/%s/", name)

	case TypeOCI:
		return p.Qualifier("repository_url")

	case TypeGeneric:
		return p.Qualifier("download_url")

	case TypeMlflow, TypeOTP, TypeQpkg, TypeSwid, TypeYocto:
		if u := p.Qualifier("repository_url"); u != "" {
			return u
		}
		return p.Qualifier("vcs_url")

	default:
		return ""
	}
}
