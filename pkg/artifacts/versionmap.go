package artifacts

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/openbrine/brine/pkg/brinefile"
)

// VersionMapFile is the version-map artifact path relative to the
// working directory (and to the document's state tree path, which is
// how the manifest imports it).
const VersionMapFile = "maps/versions.yaml"

// VersionKey is the map key for one pinned package:
// "<document>.<package>". Keys are namespaced by document so maps from
// different roles and elements can share one file.
func VersionKey(docName, pkg string) string {
	return docName + "." + pkg
}

// VersionMap maps "<document>.<package>" keys to pinned version
// strings.
type VersionMap map[string]string

// CollectVersions gathers the version-map entries a document
// contributes: one per package carrying a version attribute.
func CollectVersions(doc *brinefile.Document) VersionMap {
	vm := VersionMap{}
	for _, p := range doc.VersionedPackages() {
		vm[VersionKey(doc.Name, p.Target)] = p.Attribute
	}
	return vm
}

// LoadVersionMap reads a prior version-map file. A missing file is not
// an error; it yields an empty map so first runs and re-runs share one
// code path.
func LoadVersionMap(path string) (VersionMap, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return VersionMap{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read version map: %w", err)
	}

	vm := VersionMap{}
	if err := yaml.Unmarshal(data, &vm); err != nil {
		return nil, fmt.Errorf("failed to decode version map %s: %w", path, err)
	}
	return vm, nil
}

// Merge folds other into the map additively: unrelated keys survive,
// matching keys take other's value.
func (vm VersionMap) Merge(other VersionMap) {
	for k, v := range other {
		vm[k] = v
	}
}

// Encode renders the map as YAML. yaml.v3 emits map keys sorted, which
// keeps the artifact stable across runs regardless of merge order.
func (vm VersionMap) Encode() ([]byte, error) {
	data, err := yaml.Marshal(vm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode version map: %w", err)
	}
	return data, nil
}
