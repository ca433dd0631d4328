package core

import (
	"errors"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

const scheme = "pkg:"

// Decoder turns a "pkg:"-prefixed string into its decoded components.
// Failures are classified by the wording of the returned error: a reason
// mentioning "type" is a missing type, one mentioning "name" a missing name.
type Decoder interface {
	Decode(s string) (PackageURL, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(s string) (PackageURL, error)

func (f DecoderFunc) Decode(s string) (PackageURL, error) {
	return f(s)
}

// packageURLDecoder decodes with packageurl-go.
type packageURLDecoder struct{}

func (packageURLDecoder) Decode(s string) (PackageURL, error) {
	// packageurl-go reports "pkg:" and "pkg:npm" with the same
	// "missing type or name" message, so tell them apart first.
	if err := checkSegments(s); err != nil {
		return PackageURL{}, err
	}

	p, err := packageurl.FromString(s)
	if err != nil {
		return PackageURL{}, err
	}

	return PackageURL{
		Type:       p.Type,
		Namespace:  p.Namespace,
		Name:       p.Name,
		Version:    p.Version,
		Qualifiers: p.Qualifiers.Map(),
		Subpath:    p.Subpath,
	}, nil
}

func checkSegments(s string) error {
	rest := strings.TrimLeft(strings.TrimPrefix(s, scheme), "/")
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}

	typ, remainder, _ := strings.Cut(rest, "/")
	if typ == "" {
		return errors.New("purl is missing type")
	}
	if strings.Trim(remainder, "/") == "" {
		return errors.New("purl is missing name")
	}
	return nil
}

// Parser validates PURL strings against the known package types.
type Parser struct {
	decoder Decoder
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithDecoder replaces the grammar decoder used by the parser.
func WithDecoder(d Decoder) ParserOption {
	return func(p *Parser) {
		p.decoder = d
	}
}

// NewParser creates a parser backed by packageurl-go unless a decoder is given.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{decoder: packageURLDecoder{}}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes input into a PackageURL.
// Every failure is returned as a *ParseError.
func (p *Parser) Parse(input string) (PackageURL, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || !strings.HasPrefix(trimmed, scheme) {
		return PackageURL{}, newParseError(InvalidFormat, "")
	}

	decoded, err := p.decoder.Decode(trimmed)
	if err != nil {
		return PackageURL{}, classify(err)
	}

	if !IsKnownType(decoded.Type) {
		return PackageURL{}, newParseError(UnknownType, decoded.Type)
	}

	purl := PackageURL{
		Type:      decoded.Type,
		Namespace: decoded.Namespace,
		Name:      decoded.Name,
		Version:   decoded.Version,
		Subpath:   decoded.Subpath,
	}
	if len(decoded.Qualifiers) > 0 {
		purl.Qualifiers = decoded.Qualifiers
	}
	return purl, nil
}

func classify(err error) *ParseError {
	reason := err.Error()
	lower := strings.ToLower(reason)

	switch {
	case strings.Contains(lower, "type"):
		return newParseError(MissingType, "")
	case strings.Contains(lower, "name"):
		return newParseError(MissingName, "")
	default:
		return newParseError(InvalidComponent, reason)
	}
}

var defaultParser = NewParser()

// Parse decodes input with the default parser.
func Parse(input string) (PackageURL, error) {
	return defaultParser.Parse(input)
}

// ParseResult is the outcome of a parse as a single value.
// Exactly one of PURL and Error is set.
type ParseResult struct {
	Success bool        `json:"success"`
	PURL    *PackageURL `json:"purl,omitempty"`
	Error   *ParseError `json:"error,omitempty"`
}

// ParseToResult parses input with the default parser and wraps the outcome.
func ParseToResult(input string) ParseResult {
	purl, err := Parse(input)
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			pe = newParseError(InvalidComponent, err.Error())
		}
		return ParseResult{Error: pe}
	}
	return ParseResult{Success: true, PURL: &purl}
}
