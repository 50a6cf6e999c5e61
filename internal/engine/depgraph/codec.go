package depgraph

import (
	"encoding/json"

	"go.trai.ch/zerr"

	"go.trai.ch/zyphar/internal/core/ports"
)

type graphFile struct {
	Modules []moduleDeps `json:"modules"`
}

type moduleDeps struct {
	Name         string   `json:"name"`
	Dependencies []string `json:"dependencies"`
	Dependents   []string `json:"dependents"`
}

// ToJSON serializes the graph. Module and edge lists are sorted, so equal
// graphs serialize identically.
func (g *Graph) ToJSON() ([]byte, error) {
	file := graphFile{Modules: make([]moduleDeps, 0, len(g.all))}
	for _, name := range g.Modules() {
		file.Modules = append(file.Modules, moduleDeps{
			Name:         name,
			Dependencies: sortedSet(g.instantiates[name]),
			Dependents:   sortedSet(g.instantiatedBy[name]),
		})
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode dependency graph")
	}
	return data, nil
}

// FromJSON replaces the graph's contents with the parsed representation.
// A document without a modules key yields an empty, invalid graph.
func (g *Graph) FromJSON(data []byte) error {
	g.Clear()

	var file graphFile
	if err := json.Unmarshal(data, &file); err != nil {
		return zerr.Wrap(err, "failed to parse dependency graph")
	}

	for _, mod := range file.Modules {
		if mod.Name == "" {
			continue
		}
		g.addModule(mod.Name)
		for _, dep := range mod.Dependencies {
			if g.instantiates[mod.Name] == nil {
				g.instantiates[mod.Name] = make(map[string]struct{})
			}
			g.instantiates[mod.Name][dep] = struct{}{}
		}
		for _, dep := range mod.Dependents {
			g.instantiatedBy[mod.Name][dep] = struct{}{}
		}
	}

	g.valid = len(g.all) > 0
	return nil
}

// StoreScratchpad serializes the graph into the design's scratchpad under
// ScratchpadKey.
func (g *Graph) StoreScratchpad(design ports.Design) error {
	data, err := g.ToJSON()
	if err != nil {
		return err
	}
	design.ScratchpadSet(ScratchpadKey, string(data))
	return nil
}

// LoadScratchpad replaces the graph with the scratchpad copy. Returns false
// when no graph is stored or the stored one is empty.
func (g *Graph) LoadScratchpad(design ports.Design) bool {
	data := design.ScratchpadGet(ScratchpadKey)
	if data == "" {
		return false
	}
	if err := g.FromJSON([]byte(data)); err != nil {
		g.log.Warn("failed to parse dependency graph from scratchpad: " + err.Error())
		return false
	}
	return g.valid
}
