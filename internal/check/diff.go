package check

// ChangedSubgraphs returns the proposed subgraphs whose content changed
// relative to base. A subgraph counts as changed when base has no entry with
// the same name and hash, so new subgraphs are always included. Subgraphs
// removed from proposed are not reported. Absent subgraph lists are treated
// as empty sets.
//
// Output order follows proposed.Subgraphs, so repeated runs over the same
// input are stable.
func ChangedSubgraphs(base, proposed SchemaRef) []SubgraphRef {
	baseHashes := make(map[string]string, len(base.Subgraphs))
	for _, sg := range base.Subgraphs {
		baseHashes[sg.Name] = sg.Hash
	}

	var changed []SubgraphRef
	for _, sg := range proposed.Subgraphs {
		if hash, ok := baseHashes[sg.Name]; ok && hash == sg.Hash {
			continue
		}
		changed = append(changed, sg)
	}
	return changed
}
