package purldb

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Party is a contributor, author or maintainer.
type Party struct {
	Type  string `json:"type"`
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Package is one package record from the PurlDB API.
type Package struct {
	URL                           string       `json:"url"`
	PURL                          string       `json:"purl"`
	Type                          string       `json:"type"`
	Namespace                     string       `json:"namespace,omitempty"`
	Name                          string       `json:"name"`
	Version                       string       `json:"version,omitempty"`
	DeclaredLicenseExpression     string       `json:"declared_license_expression,omitempty"`
	DeclaredLicenseExpressionSPDX string       `json:"declared_license_expression_spdx,omitempty"`
	Description                   string       `json:"description,omitempty"`
	HomepageURL                   string       `json:"homepage_url,omitempty"`
	RepositoryHomepageURL         string       `json:"repository_homepage_url,omitempty"`
	ReleaseDate                   string       `json:"release_date,omitempty"`
	Keywords                      []string     `json:"keywords,omitempty"`
	Dependencies                  Dependencies `json:"dependencies"`
	Parties                       []Party      `json:"parties,omitempty"`
}

// Response is the paginated envelope returned by the packages endpoint.
type Response struct {
	Count    int       `json:"count"`
	Next     string    `json:"next,omitempty"`
	Previous string    `json:"previous,omitempty"`
	Results  []Package `json:"results"`
}

// Dependency is a package dependency.
type Dependency struct {
	PURL       string `json:"purl"`
	Scope      string `json:"scope"`
	IsRuntime  bool   `json:"is_runtime"`
	IsOptional bool   `json:"is_optional"`
}

// Dependencies holds a package's dependencies as PurlDB reports them:
// either inline or as a URL to fetch them from.
type Dependencies struct {
	URL   string
	Items []Dependency
}

func (d *Dependencies) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*d = Dependencies{}
		return nil
	case data[0] == '"':
		var u string
		if err := json.Unmarshal(data, &u); err != nil {
			return err
		}
		*d = Dependencies{URL: u}
		return nil
	case data[0] == '[':
		var items []Dependency
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*d = Dependencies{Items: items}
		return nil
	default:
		return fmt.Errorf("purldb: unexpected dependencies value %.20s", data)
	}
}

func (d Dependencies) MarshalJSON() ([]byte, error) {
	if d.URL != "" {
		return json.Marshal(d.URL)
	}
	if d.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(d.Items)
}
