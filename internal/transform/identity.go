package transform

// IdentityMap resolves legacy external references to target-table ids.
// In loaded mode it is read back from the store after each upsert; in
// dry-run mode ids are assigned sequentially from 1 in row order.
type IdentityMap map[string]int64

// Resolve returns the id for ref, or nil when the reference is empty or
// unknown. Unresolved references become null foreign keys, never errors.
func (m IdentityMap) Resolve(ref string) *int64 {
	if ref == "" {
		return nil
	}
	id, ok := m[ref]
	if !ok {
		return nil
	}
	return &id
}

// SequentialIDs assigns ids 1..n to refs in order, mirroring what a fresh
// load into an empty table with a serial key would produce.
func SequentialIDs(refs []string) IdentityMap {
	m := make(IdentityMap, len(refs))
	for i, ref := range refs {
		m[ref] = int64(i + 1)
	}
	return m
}
