// Package resolver combines the content catalog and the configuration layers into an
// ordered, validated ActiveContentSet.
package resolver

import (
	"fmt"
	"slices"

	"go.trai.ch/navcache/internal/core/domain"
	"go.trai.ch/navcache/internal/core/ports"
)

// builtinPosition places builtin files ahead of anything a layer can position.
const builtinPosition = -1

// Resolver resolves content sets. It holds no state between calls.
type Resolver struct {
	hasher ports.Hasher
}

// New creates a Resolver that fingerprints sets with hasher.
func New(hasher ports.Hasher) *Resolver {
	return &Resolver{hasher: hasher}
}

type activation struct {
	active bool
	layer  string
}

type position struct {
	layer int
	pos   int
}

// outcome is the combined effect of a sequence of layers.
type outcome struct {
	activation map[domain.ContentID]activation
	position   map[domain.ContentID]position
	// activated lists every id some layer activated, in first-seen order.
	activated []domain.ContentID
	seen      map[domain.ContentID]bool
}

// Resolve computes the active set for files, listed in discovery order, under stack.
// Problems are reported as diagnostics on the result; Resolve never fails.
func (r *Resolver) Resolve(
	files []domain.ContentFile,
	stack *domain.LayerStack,
	shape domain.CollisionShape,
) *domain.ActiveContentSet {
	layers := stack.Layers()
	full := combine(files, layers)
	withoutUser := combine(files, stack.WithoutUser())

	set := &domain.ActiveContentSet{Profile: shape}

	catalog := make(map[domain.ContentID]int, len(files))
	for i := range files {
		catalog[files[i].ID] = i
	}

	for _, id := range full.activated {
		if _, ok := catalog[id]; ok || !full.activation[id].active {
			continue
		}
		set.Diagnostics = append(set.Diagnostics, domain.Diagnostic{
			Kind:     domain.DiagMissingContent,
			Severity: domain.SeverityError,
			File:     id,
			Layer:    full.activation[id].layer,
			Message:  "content file is enabled but was not found in any data directory",
		})
	}

	var positioned, unpositioned []domain.ResolvedContent
	for i := range files {
		act := full.activation[files[i].ID]
		if !act.active {
			continue
		}
		entry := domain.ResolvedContent{
			File:     files[i],
			Source:   act.layer,
			Lockable: withoutUser.activation[files[i].ID].active,
		}
		if _, ok := full.position[files[i].ID]; ok {
			positioned = append(positioned, entry)
		} else {
			unpositioned = append(unpositioned, entry)
		}
	}

	slices.SortStableFunc(positioned, func(a, b domain.ResolvedContent) int {
		pa, pb := full.position[a.File.ID], full.position[b.File.ID]
		if pa.layer != pb.layer {
			return pa.layer - pb.layer
		}
		return pa.pos - pb.pos
	})
	set.Entries = append(positioned, unpositioned...)

	set.Diagnostics = append(set.Diagnostics, validate(set.Entries, catalog)...)
	set.Fingerprint = r.hasher.Fingerprint(set.Entries, shape)
	return set
}

// combine applies layers lowest precedence first. Builtin files start active and in front.
// A layer that replaces content discards everything below it before its own directives apply.
func combine(files []domain.ContentFile, layers []domain.ConfigLayer) outcome {
	baseName := "base"
	if len(layers) > 0 && layers[0].Name != "" {
		baseName = layers[0].Name
	}

	out := outcome{}
	reset := func() {
		out.activation = make(map[domain.ContentID]activation)
		out.position = make(map[domain.ContentID]position)
		out.activated = nil
		out.seen = make(map[domain.ContentID]bool)
		for i := range files {
			if files[i].Origin == domain.OriginBuiltin {
				out.activation[files[i].ID] = activation{active: true, layer: baseName}
				out.position[files[i].ID] = position{layer: 0, pos: builtinPosition}
			}
		}
	}
	reset()

	for idx := range layers {
		layer := &layers[idx]
		if layer.ReplaceContent {
			reset()
		}
		for _, d := range layer.Directives {
			switch d.Kind {
			case domain.DirectiveActivate:
				if !out.seen[d.Content] {
					out.seen[d.Content] = true
					out.activated = append(out.activated, d.Content)
				}
				out.activation[d.Content] = activation{active: true, layer: layer.Name}
			case domain.DirectiveDeactivate:
				out.activation[d.Content] = activation{active: false, layer: layer.Name}
			case domain.DirectivePosition:
				out.position[d.Content] = position{layer: idx, pos: d.Position}
			}
		}
	}
	return out
}

// validate checks every dependency of every entry in load order. Only the first failing
// check is reported per dependency.
func validate(entries []domain.ResolvedContent, catalog map[domain.ContentID]int) []domain.Diagnostic {
	index := make(map[domain.ContentID]int, len(entries))
	for i := range entries {
		index[entries[i].File.ID] = i
	}

	var diags []domain.Diagnostic
	for i := range entries {
		file := &entries[i].File
		for _, dep := range file.Dependencies {
			diag := domain.Diagnostic{
				Severity:   domain.SeverityError,
				File:       file.ID,
				Dependency: dep.ID,
				Path:       file.Path,
			}
			pos, active := index[dep.ID]
			_, known := catalog[dep.ID]
			switch {
			case !known:
				diag.Kind = domain.DiagMissingDependency
				diag.Message = fmt.Sprintf("%s requires %s, which is not installed", file.Name, dep.ID)
			case !active:
				diag.Kind = domain.DiagInactiveDependency
				diag.Message = fmt.Sprintf("%s requires %s, which is not enabled", file.Name, dep.ID)
			case pos >= i:
				diag.Kind = domain.DiagOrderViolation
				diag.Message = fmt.Sprintf("%s must be loaded after %s", file.Name, dep.ID)
			default:
				continue
			}
			diags = append(diags, diag)
		}
	}
	return diags
}
