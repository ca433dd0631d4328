package purldb

import "sync"

// cache holds lookups for the lifetime of a Client.
// A nil package is a cached miss.
type cache struct {
	mu       sync.RWMutex
	packages map[string]*Package
	versions map[string][]Package
}

func newCache() *cache {
	return &cache{
		packages: make(map[string]*Package),
		versions: make(map[string][]Package),
	}
}

func (c *cache) getPackage(purl string) (*Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pkg, ok := c.packages[purl]
	return pkg, ok
}

func (c *cache) setPackage(purl string, pkg *Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packages[purl] = pkg
}

func (c *cache) getVersions(key string) ([]Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.versions[key]
	return v, ok
}

func (c *cache) setVersions(key string, v []Package) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[key] = v
}

func (c *cache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.packages = make(map[string]*Package)
	c.versions = make(map[string][]Package)
}

func versionsKey(typ, namespace, name string) string {
	return typ + "/" + namespace + "/" + name
}
